package telegram

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/wellness_ai/internal/chat"
	"github.com/Vovarama1992/wellness_ai/internal/session"
	"github.com/Vovarama1992/wellness_ai/internal/speech"
	"github.com/Vovarama1992/wellness_ai/internal/wellness"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	fileURL  string
	nextID   int
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) GetFileDirectURL(string) (string, error) {
	if f.fileURL == "" {
		return "", errors.New("no file")
	}
	return f.fileURL, nil
}

func (f *fakeBot) texts() []string {
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeBot) voices() []tgbotapi.VoiceConfig {
	var out []tgbotapi.VoiceConfig
	for _, c := range f.sent {
		if v, ok := c.(tgbotapi.VoiceConfig); ok {
			out = append(out, v)
		}
	}
	return out
}

type fakeAssistant struct {
	err   error
	in    wellness.Input
	audio string
}

func (f *fakeAssistant) Ask(_ context.Context, log *chat.Log, in wellness.Input) (*wellness.Result, error) {
	f.in = in
	user := in.Text
	if in.Audio != nil {
		b, _ := io.ReadAll(in.Audio)
		f.audio = string(b)
		user = f.audio
	}
	if f.err != nil && !errors.Is(f.err, wellness.ErrSpeech) {
		return nil, f.err
	}
	turn := chat.Turn{UserText: user, BotText: "reply to " + user}
	log.Append(turn)
	res := &wellness.Result{Turn: turn, Language: in.Language}
	if f.err != nil {
		return res, f.err
	}
	res.Audio = []byte("mp3")
	return res, nil
}

func newTestApp(fa *fakeAssistant) (*BotApp, *fakeBot, *session.MemoryStore) {
	bot := &fakeBot{}
	store := session.NewMemoryStore()
	app := NewBotApp(bot, fa, store, logger.NewZapLogger(zap.NewNop().Sugar()))
	return app, bot, store
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, Text: text}
	if len(text) > 0 && text[0] == '/' {
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	}
	return tgbotapi.Update{Message: msg}
}

func stored(t *testing.T, store session.Store, chatID int64) *session.Data {
	t.Helper()
	data, err := store.Get(context.Background(), sessionID(chatID))
	if err != nil || data == nil {
		t.Fatalf("session for chat %d missing: %v", chatID, err)
	}
	return data
}

func TestHandleText_RepliesWithTextAndVoice(t *testing.T) {
	fa := &fakeAssistant{}
	app, bot, store := newTestApp(fa)

	app.handleUpdate(context.Background(), textUpdate(42, "I cannot sleep"))

	texts := bot.texts()
	if len(texts) != 2 || texts[0] != msgThinking || texts[1] != "reply to I cannot sleep" {
		t.Fatalf("texts = %q", texts)
	}
	if len(bot.voices()) != 1 {
		t.Fatalf("voices = %d", len(bot.voices()))
	}
	if len(bot.requests) != 1 {
		t.Errorf("thinking message not deleted")
	}
	if fa.in.Language != speech.LanguageEnglishIndia {
		t.Errorf("default language = %q", fa.in.Language)
	}
	if n := stored(t, store, 42).Log.Len(); n != 1 {
		t.Errorf("turns = %d", n)
	}
}

func TestCommands(t *testing.T) {
	fa := &fakeAssistant{}
	app, bot, store := newTestApp(fa)
	ctx := context.Background()

	app.handleUpdate(ctx, textUpdate(7, "/start"))
	if got := bot.texts(); len(got) != 1 || got[0] != msgGreeting {
		t.Fatalf("start = %q", got)
	}

	app.handleUpdate(ctx, textUpdate(7, "/hindi"))
	if lang := stored(t, store, 7).Language; lang != string(speech.LanguageHindi) {
		t.Errorf("language = %q", lang)
	}

	app.handleUpdate(ctx, textUpdate(7, "how to relax"))
	if fa.in.Language != speech.LanguageHindi {
		t.Errorf("ask language = %q", fa.in.Language)
	}

	app.handleUpdate(ctx, textUpdate(7, "/clear"))
	data := stored(t, store, 7)
	if data.Log.Len() != 0 || data.Speech != nil {
		t.Errorf("not cleared: %+v", data)
	}
	if data.Language != string(speech.LanguageHindi) {
		t.Error("clear should keep the language")
	}

	app.handleUpdate(ctx, textUpdate(7, "/english"))
	if lang := stored(t, store, 7).Language; lang != string(speech.LanguageEnglishIndia) {
		t.Errorf("language = %q", lang)
	}
}

func TestHandleText_Failure(t *testing.T) {
	fa := &fakeAssistant{err: errors.New("completion: boom")}
	app, bot, store := newTestApp(fa)

	app.handleUpdate(context.Background(), textUpdate(1, "hello"))

	texts := bot.texts()
	if texts[len(texts)-1] != msgFailed {
		t.Errorf("texts = %q", texts)
	}
	if len(bot.voices()) != 0 {
		t.Error("voice sent on failure")
	}
	if stored(t, store, 1).Log.Len() != 0 {
		t.Error("log changed on failure")
	}
}

func TestHandleText_SpeechFailureKeepsTurn(t *testing.T) {
	fa := &fakeAssistant{err: wellness.ErrSpeech}
	app, bot, store := newTestApp(fa)

	app.handleUpdate(context.Background(), textUpdate(1, "hello"))

	texts := bot.texts()
	if len(texts) != 3 || texts[1] != "reply to hello" || texts[2] != msgNoVoice {
		t.Errorf("texts = %q", texts)
	}
	if stored(t, store, 1).Log.Len() != 1 {
		t.Error("turn not kept")
	}
}

func TestHandleVoice_DownloadsAndAsks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ogg-bytes"))
	}))
	defer srv.Close()

	fa := &fakeAssistant{}
	app, bot, _ := newTestApp(fa)
	bot.fileURL = srv.URL + "/file/voice.oga"

	upd := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 9},
		Voice: &tgbotapi.Voice{FileID: "abc", Duration: 6},
	}}
	app.handleUpdate(context.Background(), upd)

	if fa.audio != "ogg-bytes" || fa.in.AudioExt != voiceExt {
		t.Errorf("audio = %q ext = %q", fa.audio, fa.in.AudioExt)
	}
	if len(bot.voices()) != 1 {
		t.Error("voice reply missing")
	}
}

func TestHandleVoice_DownloadFailure(t *testing.T) {
	fa := &fakeAssistant{}
	app, bot, _ := newTestApp(fa)

	upd := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 9},
		Voice: &tgbotapi.Voice{FileID: "abc"},
	}}
	app.handleUpdate(context.Background(), upd)

	if got := bot.texts(); len(got) != 1 || got[0] != msgNoDownload {
		t.Errorf("texts = %q", got)
	}
}

func TestRun_StopsOnClosedChannel(t *testing.T) {
	app, bot, _ := newTestApp(&fakeAssistant{})
	updates := make(chan tgbotapi.Update, 1)
	updates <- textUpdate(3, "/start")
	close(updates)

	app.Run(context.Background(), updates)

	if len(bot.texts()) != 1 {
		t.Errorf("texts = %q", bot.texts())
	}
}
