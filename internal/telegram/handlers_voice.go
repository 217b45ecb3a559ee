package telegram

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Vovarama1992/wellness_ai/internal/session"
	"github.com/Vovarama1992/wellness_ai/internal/wellness"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram voice notes are OGG/Opus, which Whisper accepts as is.
const voiceExt = ".ogg"

func (app *BotApp) handleVoice(ctx context.Context, msg *tgbotapi.Message, data *session.Data) {
	chatID := msg.Chat.ID
	fileID := msg.Voice.FileID

	app.info(fmt.Sprintf("[voice] start chat=%d fileID=%s duration=%ds", chatID, fileID, msg.Voice.Duration))

	url, err := app.bot.GetFileDirectURL(fileID)
	if err != nil {
		app.fail("[voice] get file", err)
		app.reply(chatID, msgNoDownload)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		app.fail("[voice] build download", err)
		app.reply(chatID, msgNoDownload)
		return
	}
	resp, err := app.httpCli.Do(req)
	if err != nil {
		app.fail("[voice] download", err)
		app.reply(chatID, msgNoDownload)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		app.fail("[voice] download", fmt.Errorf("status %d", resp.StatusCode))
		app.reply(chatID, msgNoDownload)
		return
	}

	in := wellness.Input{
		Audio:    resp.Body,
		AudioExt: voiceExt,
		Language: chatLanguage(data),
	}
	app.ask(ctx, chatID, data, in)
}
