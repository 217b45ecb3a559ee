package speech

import (
	"bytes"
	"context"
	"errors"
)

var ErrEmptyText = errors.New("nothing to synthesize")

type STTClient interface {
	Transcribe(ctx context.Context, filePath string) (string, error) // voice -> text
}

type TTSClient interface {
	Synthesize(ctx context.Context, text string, voice Voice) (*bytes.Reader, error) // text -> mp3 in memory
}
