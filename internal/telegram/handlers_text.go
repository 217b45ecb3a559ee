package telegram

import (
	"context"
	"errors"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/wellness_ai/internal/session"
	"github.com/Vovarama1992/wellness_ai/internal/wellness"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (app *BotApp) handleText(ctx context.Context, msg *tgbotapi.Message, data *session.Data) {
	in := wellness.Input{
		Text:     msg.Text,
		Language: chatLanguage(data),
	}
	app.ask(ctx, msg.Chat.ID, data, in)
}

// ask runs one cycle and answers with the reply text followed by the voice.
func (app *BotApp) ask(ctx context.Context, chatID int64, data *session.Data, in wellness.Input) {
	thinking, _ := app.bot.Send(tgbotapi.NewMessage(chatID, msgThinking))
	defer func() {
		if thinking.MessageID != 0 {
			_, _ = app.bot.Request(tgbotapi.NewDeleteMessage(chatID, thinking.MessageID))
		}
	}()

	res, err := app.assistant.Ask(ctx, &data.Log, in)
	switch {
	case errors.Is(err, wellness.ErrNoInput), errors.Is(err, wellness.ErrNoSpeech):
		app.reply(chatID, msgNoSpeech)
		return
	case errors.Is(err, wellness.ErrSpeech) && res != nil:
		app.log.Log(logger.LogEntry{Level: "warn", Message: "[bot] reply without voice", Service: "telegram", Error: err})
		data.ClearSpeech()
		app.save(ctx, data)
		app.reply(chatID, res.Turn.BotText)
		app.reply(chatID, msgNoVoice)
		return
	case err != nil:
		app.fail("[bot] ask failed for "+data.ID, err)
		app.reply(chatID, msgFailed)
		return
	}

	data.Speech = &session.Speech{Lang: string(res.Language), Audio: res.Audio}
	app.save(ctx, data)

	app.reply(chatID, res.Turn.BotText)
	voice := tgbotapi.NewVoice(chatID, tgbotapi.FileBytes{Name: "reply.mp3", Bytes: res.Audio})
	if _, err := app.bot.Send(voice); err != nil {
		app.fail("[bot] send voice", err)
	}
}
