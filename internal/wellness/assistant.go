package wellness

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/wellness_ai/internal/chat"
	"github.com/Vovarama1992/wellness_ai/internal/speech"
)

type Assistant struct {
	stt Transcriber
	ai  Replier
	tts Synthesizer
	log *logger.ZapLogger
}

func NewAssistant(stt Transcriber, ai Replier, tts Synthesizer, log *logger.ZapLogger) *Assistant {
	return &Assistant{
		stt: stt,
		ai:  ai,
		tts: tts,
		log: log,
	}
}

// Ask runs one cycle against the session log.
// The log is touched only after a reply exists. A synthesis failure keeps the
// appended turn and returns the Result together with an ErrSpeech error.
func (a *Assistant) Ask(ctx context.Context, log *chat.Log, in Input) (*Result, error) {
	if in.Empty() {
		return nil, ErrNoInput
	}

	start := time.Now()
	cycle := NewCycle(func(s State) {
		a.info(fmt.Sprintf("[ask][%.1fs] %s", time.Since(start).Seconds(), s))
	})
	defer cycle.To(Idle)

	userText := strings.TrimSpace(in.Text)

	if in.Audio != nil {
		if err := cycle.To(Listening); err != nil {
			return nil, err
		}
		text, err := a.stt.TranscribeUpload(ctx, in.Audio, in.AudioExt)
		if err != nil {
			a.fail("transcription failed", err)
			return nil, err
		}
		if isBlank(text) {
			return nil, ErrNoSpeech
		}
		userText = text
	}

	if err := cycle.To(Thinking); err != nil {
		return nil, err
	}
	reply, err := a.ai.GetReply(ctx, userText)
	if err != nil {
		a.fail("reply failed", err)
		return nil, err
	}

	turn := chat.Turn{UserText: userText, BotText: reply}
	log.Append(turn)
	res := &Result{Turn: turn, Language: in.Language}

	if err := cycle.To(Speaking); err != nil {
		return res, err
	}
	audio, err := a.voice(ctx, reply, in.Language)
	if err != nil {
		a.fail("synthesis failed", err)
		return res, fmt.Errorf("%w: %w", ErrSpeech, err)
	}
	res.Audio = audio

	return res, nil
}

// Speak voices the latest reply in the log.
func (a *Assistant) Speak(ctx context.Context, log *chat.Log, lang speech.Language) ([]byte, error) {
	last, ok := log.Last()
	if !ok {
		return nil, ErrEmptyLog
	}
	audio, err := a.voice(ctx, last.BotText, lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpeech, err)
	}
	return audio, nil
}

func (a *Assistant) voice(ctx context.Context, text string, lang speech.Language) ([]byte, error) {
	r, err := a.tts.Synthesize(ctx, text, lang)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func (a *Assistant) info(msg string) {
	a.log.Log(logger.LogEntry{Level: "info", Message: msg, Service: "wellness"})
}

func (a *Assistant) fail(msg string, err error) {
	a.log.Log(logger.LogEntry{Level: "error", Message: "[ask] " + msg, Service: "wellness", Error: err})
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
