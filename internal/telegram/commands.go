package telegram

import (
	"context"

	"github.com/Vovarama1992/wellness_ai/internal/session"
	"github.com/Vovarama1992/wellness_ai/internal/speech"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	msgGreeting = "🌿 Namaste! I am Wellness.AI, your mindful companion.\n\n" +
		"Type your question or send a voice note, and I will answer in text and voice."
	msgCleared    = "🧹 Chat cleared. Let's begin again."
	msgLangSet    = "🎙️ Replies will be voiced in %s."
	msgUnknown    = "I know /start, /clear, /hindi and /english."
	msgThinking   = "🤖 Reflecting…"
	msgNoSpeech   = "🔇 I could not hear any speech. Please try again or type your question."
	msgNoVoice    = "⚠️ The voice reply is unavailable right now."
	msgFailed     = "⚠️ Something went wrong. Please try again."
	msgNoDownload = "⚠️ Could not download your voice note."
)

func (app *BotApp) handleCommand(ctx context.Context, msg *tgbotapi.Message, data *session.Data) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		m := tgbotapi.NewMessage(chatID, msgGreeting)
		m.ReplyMarkup = mainKeyboard()
		if _, err := app.bot.Send(m); err != nil {
			app.fail("[bot] send greeting", err)
		}
	case "clear":
		data.Log.Clear()
		data.ClearSpeech()
		app.save(ctx, data)
		app.reply(chatID, msgCleared)
	case "hindi":
		app.setLanguage(ctx, chatID, data, speech.LanguageHindi)
	case "english":
		app.setLanguage(ctx, chatID, data, speech.LanguageEnglishIndia)
	default:
		app.reply(chatID, msgUnknown)
	}
}

func (app *BotApp) setLanguage(ctx context.Context, chatID int64, data *session.Data, lang speech.Language) {
	data.Language = string(lang)
	app.save(ctx, data)
	app.reply(chatID, languageNotice(lang))
}
