package wellness

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/Vovarama1992/wellness_ai/internal/chat"
	"github.com/Vovarama1992/wellness_ai/internal/speech"
)

var (
	ErrNoInput           = errors.New("no audio or text provided")
	ErrNoSpeech          = errors.New("no speech recognized in the audio")
	ErrSpeech            = errors.New("reply could not be voiced")
	ErrEmptyLog          = errors.New("conversation is empty")
	ErrInvalidTransition = errors.New("invalid ask cycle transition")
)

type Transcriber interface {
	TranscribeUpload(ctx context.Context, audio io.Reader, ext string) (string, error)
}

type Replier interface {
	GetReply(ctx context.Context, userText string) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang speech.Language) (*bytes.Reader, error)
}

// Input is one ask. Audio, when present, wins over Text.
type Input struct {
	Text     string
	Audio    io.Reader
	AudioExt string
	Language speech.Language
}

func (in Input) Empty() bool {
	return in.Audio == nil && isBlank(in.Text)
}

type Result struct {
	Turn     chat.Turn
	Audio    []byte
	Language speech.Language
}
