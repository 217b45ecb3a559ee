package delivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/wellness_ai/internal/chat"
	"github.com/Vovarama1992/wellness_ai/internal/media"
	"github.com/Vovarama1992/wellness_ai/internal/session"
	"github.com/Vovarama1992/wellness_ai/internal/speech"
	"github.com/Vovarama1992/wellness_ai/internal/wellness"
	"github.com/goccy/go-json"
)

const maxUpload = 20 << 20

var audioExts = map[string]bool{".wav": true, ".mp3": true}

const (
	msgNoInput     = "Please upload audio or type something."
	msgTooLarge    = "That recording is too large. Please keep uploads under 20 MB."
	msgBadUpload   = "We could not read that upload. Please try again."
	msgNoSpeech    = "We could not hear any speech in that clip. Please try again or type your question."
	msgBadFormat   = "Only WAV or MP3 recordings are supported."
	msgNoVoice     = "Your reply is ready, but the voice could not be generated right now."
	msgFailed      = "Something went wrong while reflecting on your question. Please try again."
	msgConflict    = "Your conversation changed in another tab. Please reload the page."
	msgStoreFailed = "Your conversation could not be saved. Please try again."
)

type Assistant interface {
	Ask(ctx context.Context, log *chat.Log, in wellness.Input) (*wellness.Result, error)
	Speak(ctx context.Context, log *chat.Log, lang speech.Language) ([]byte, error)
}

type ChatHandler struct {
	assistant Assistant
	store     session.Store
	media     media.Publisher // nil when S3 publishing is off
	log       *logger.ZapLogger
}

func NewChatHandler(assistant Assistant, store session.Store, pub media.Publisher, log *logger.ZapLogger) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		store:     store,
		media:     pub,
		log:       log,
	}
}

func (h *ChatHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := sessionFrom(r)
	lang := speech.ParseLanguage(r.URL.Query().Get("lang"))
	render(w, http.StatusOK, newPage(data, lang))
}

func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	data := sessionFrom(r)

	if r.ContentLength > maxUpload {
		h.warn("upload too large", fmt.Errorf("content length %d", r.ContentLength))
		h.renderWarning(w, r, data, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.warn("invalid multipart", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.renderWarning(w, r, data, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		h.renderWarning(w, r, data, http.StatusBadRequest, msgBadUpload)
		return
	}

	lang := speech.ParseLanguage(r.FormValue("lang"))
	in := wellness.Input{Text: r.FormValue("text"), Language: lang}

	file, header, err := r.FormFile("audio")
	switch {
	case err == nil:
		defer file.Close()
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !audioExts[ext] {
			page := newPage(data, lang)
			page.Typed = in.Text
			page.Warning = msgBadFormat
			render(w, http.StatusUnsupportedMediaType, page)
			return
		}
		in.Audio = file
		in.AudioExt = ext
	case !errors.Is(err, http.ErrMissingFile):
		h.warn("bad audio part", err)
		h.renderWarning(w, r, data, http.StatusBadRequest, msgBadUpload)
		return
	}

	before := data.Clone()
	res, err := h.assistant.Ask(r.Context(), &data.Log, in)
	page := newPage(data, lang)

	switch {
	case errors.Is(err, wellness.ErrNoInput):
		page.Warning = msgNoInput
		render(w, http.StatusUnprocessableEntity, page)
		return
	case errors.Is(err, wellness.ErrNoSpeech):
		page.Typed = in.Text
		page.Warning = msgNoSpeech
		render(w, http.StatusUnprocessableEntity, page)
		return
	case errors.Is(err, wellness.ErrSpeech) && res != nil:
		h.warn("reply kept without audio", err)
		data.ClearSpeech()
		page.Warning = msgNoVoice
	case err != nil:
		h.log.Log(logger.LogEntry{Level: "error", Message: "ask failed", Service: "delivery", Error: err})
		page.Typed = in.Text
		page.Error = msgFailed
		render(w, http.StatusBadGateway, page)
		return
	default:
		data.Speech = &session.Speech{Lang: string(lang), Audio: res.Audio}
		h.publish(r.Context(), data)
	}

	if status, ok := h.save(r.Context(), data, &page); !ok {
		// the turn was not stored, so show what the store holds
		page.Warning = ""
		page = refresh(page, h.reload(r.Context(), before), lang)
		page.Typed = in.Text
		render(w, status, page)
		return
	}

	page = refresh(page, data, lang)
	render(w, http.StatusOK, page)
}

func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	data := sessionFrom(r)
	lang := speech.ParseLanguage(r.FormValue("lang"))

	before := data.Clone()
	data.Log.Clear()
	data.ClearSpeech()
	if err := h.store.Update(r.Context(), data); err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "clear session", Service: "delivery", Error: err})
		page := newPage(h.reload(r.Context(), before), lang)
		page.Error = msgStoreFailed
		render(w, http.StatusInternalServerError, page)
		return
	}

	http.Redirect(w, r, "/?lang="+string(lang), http.StatusSeeOther)
}

// LatestSpeech serves the latest reply voiced in the requested language,
// synthesizing it again when the cached audio is missing or in another language.
func (h *ChatHandler) LatestSpeech(w http.ResponseWriter, r *http.Request) {
	data := sessionFrom(r)
	lang := speech.ParseLanguage(r.URL.Query().Get("lang"))

	if data.Log.Len() == 0 {
		http.Error(w, "no reply yet", http.StatusNotFound)
		return
	}

	sp := data.Speech
	if sp == nil || sp.Lang != string(lang) || len(sp.Audio) == 0 {
		audio, err := h.assistant.Speak(r.Context(), &data.Log, lang)
		if err != nil {
			h.warn("speak latest", err)
			http.Error(w, "speech unavailable", http.StatusBadGateway)
			return
		}
		sp = &session.Speech{Lang: string(lang), Audio: audio}
		data.Speech = sp
		if err := h.store.Update(r.Context(), data); err != nil {
			h.warn("cache speech", err)
		}
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(sp.Audio)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	data := sessionFrom(r)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data.Log.Turns())
}

func (h *ChatHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("pong"))
}

func (h *ChatHandler) save(ctx context.Context, data *session.Data, page *pageData) (int, bool) {
	err := h.store.Update(ctx, data)
	switch {
	case err == nil:
		return 0, true
	case errors.Is(err, session.ErrVersionConflict):
		h.warn("session version conflict", err)
		page.Error = msgConflict
		return http.StatusConflict, false
	default:
		h.log.Log(logger.LogEntry{Level: "error", Message: "save session", Service: "delivery", Error: err})
		page.Error = msgStoreFailed
		return http.StatusInternalServerError, false
	}
}

// publish uploads the fresh reply audio when a publisher is configured.
// Failures only cost the public URL.
func (h *ChatHandler) publish(ctx context.Context, data *session.Data) {
	if h.media == nil || data.Speech == nil || len(data.Speech.Audio) == 0 {
		return
	}
	url, err := h.media.PublishReply(ctx, data.ID, data.Log.Len(), data.Speech.Lang, data.Speech.Audio)
	if err != nil {
		h.warn("publish reply audio", err)
		return
	}
	data.Speech.PublicURL = url
}

// reload reads the session back from the store, falling back to the snapshot taken before the ask.
func (h *ChatHandler) reload(ctx context.Context, before *session.Data) *session.Data {
	stored, err := h.store.Get(ctx, before.ID)
	if err != nil || stored == nil {
		return before
	}
	return stored
}

// renderWarning answers a request that never reached the assistant.
func (h *ChatHandler) renderWarning(w http.ResponseWriter, r *http.Request, data *session.Data, status int, msg string) {
	page := newPage(data, speech.ParseLanguage(r.URL.Query().Get("lang")))
	page.Warning = msg
	render(w, status, page)
}

func (h *ChatHandler) warn(msg string, err error) {
	h.log.Log(logger.LogEntry{Level: "warn", Message: msg, Service: "delivery", Error: err})
}

// refresh rebuilds the page from the saved session, keeping any banner.
func refresh(page pageData, data *session.Data, lang speech.Language) pageData {
	fresh := newPage(data, lang)
	fresh.Warning = page.Warning
	fresh.Error = page.Error
	return fresh
}
