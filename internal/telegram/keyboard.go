package telegram

import (
	"fmt"

	"github.com/Vovarama1992/wellness_ai/internal/speech"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/english"),
			tgbotapi.NewKeyboardButton("/hindi"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/clear"),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func languageNotice(lang speech.Language) string {
	return fmt.Sprintf(msgLangSet, lang.Label())
}
