package ai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrEmptyPrompt = errors.New("empty user text")
	ErrNoChoices   = errors.New("completion returned no choices")
)

type Completer interface {
	GetCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}
