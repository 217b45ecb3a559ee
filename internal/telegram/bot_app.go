package telegram

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/wellness_ai/internal/chat"
	"github.com/Vovarama1992/wellness_ai/internal/session"
	"github.com/Vovarama1992/wellness_ai/internal/speech"
	"github.com/Vovarama1992/wellness_ai/internal/wellness"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the part of *tgbotapi.BotAPI the app talks to.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Assistant interface {
	Ask(ctx context.Context, log *chat.Log, in wellness.Input) (*wellness.Result, error)
}

type BotApp struct {
	bot       Bot
	assistant Assistant
	store     session.Store
	httpCli   *http.Client
	log       *logger.ZapLogger
}

func NewBotApp(bot Bot, assistant Assistant, store session.Store, log *logger.ZapLogger) *BotApp {
	return &BotApp{
		bot:       bot,
		assistant: assistant,
		store:     store,
		httpCli:   &http.Client{Timeout: 60 * time.Second},
		log:       log,
	}
}

// Start connects with the token and polls until ctx is done.
func Start(ctx context.Context, token string, assistant Assistant, store session.Store, log *logger.ZapLogger) error {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return err
	}
	log.Log(logger.LogEntry{Level: "info", Message: "[bot] ready: @" + bot.Self.UserName, Service: "telegram"})

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		bot.StopReceivingUpdates()
	}()

	NewBotApp(bot, assistant, store, log).Run(ctx, updates)
	return nil
}

func (app *BotApp) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			app.info("[bot] context cancelled, stopping")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			app.handleUpdate(ctx, upd)
		}
	}
}

func (app *BotApp) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	data, err := session.Open(ctx, app.store, sessionID(msg.Chat.ID))
	if err != nil {
		app.fail("[bot] open session", err)
		app.reply(msg.Chat.ID, msgFailed)
		return
	}

	switch {
	case msg.IsCommand():
		app.handleCommand(ctx, msg, data)
	case msg.Voice != nil:
		app.handleVoice(ctx, msg, data)
	case msg.Text != "":
		app.handleText(ctx, msg, data)
	}
}

func sessionID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func chatLanguage(data *session.Data) speech.Language {
	return speech.ParseLanguage(data.Language)
}

func (app *BotApp) save(ctx context.Context, data *session.Data) {
	if err := app.store.Update(ctx, data); err != nil {
		app.fail("[bot] save session "+data.ID, err)
	}
}

func (app *BotApp) reply(chatID int64, text string) {
	if _, err := app.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		app.fail("[bot] send message", err)
	}
}

func (app *BotApp) info(msg string) {
	app.log.Log(logger.LogEntry{Level: "info", Message: msg, Service: "telegram"})
}

func (app *BotApp) fail(msg string, err error) {
	app.log.Log(logger.LogEntry{Level: "error", Message: msg, Service: "telegram", Error: err})
}
