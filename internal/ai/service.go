package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	openai "github.com/sashabaranov/go-openai"
)

const PersonaPrompt = "You are a calm, empathetic Indian wellness guide. " +
	"Answer in 2–4 short sentences. Draw on meditation, pranayama, yoga, Ayurveda, " +
	"and Indian spiritual wisdom in simple, practical language. " +
	"Avoid medical claims; suggest consulting professionals for serious issues."

type AiService struct {
	client Completer
	log    *logger.ZapLogger
}

func NewAiService(client Completer, log *logger.ZapLogger) *AiService {
	return &AiService{
		client: client,
		log:    log,
	}
}

// diagnosis for the operator log
func analyzeOpenAIError(err error) string {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "status code: 401"):
		return "invalid OpenAI API key"
	case strings.Contains(msg, "status code: 404"):
		return "model not found"
	case strings.Contains(msg, "status code: 429"):
		return "OpenAI quota or rate limit exceeded"
	case strings.Contains(msg, "status code: 400") && strings.Contains(msg, "model"):
		return "wrong model name"
	case strings.Contains(msg, "status code: 400"):
		return "malformed request to OpenAI"
	case strings.Contains(msg, "status code: 500"):
		return "OpenAI internal error"
	}
	return "unknown OpenAI error"
}

func (s *AiService) GetReply(ctx context.Context, userText string) (string, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return "", ErrEmptyPrompt
	}

	start := time.Now()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: PersonaPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userText},
	}

	reply, err := s.client.GetCompletion(ctx, messages)
	if err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: fmt.Sprintf("[ai][%.1fs] completion failed: %s", time.Since(start).Seconds(), analyzeOpenAIError(err)),
			Service: "ai",
			Error:   err,
		})
		return "", fmt.Errorf("completion: %w", err)
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("[ai][%.1fs] reply ready", time.Since(start).Seconds()),
		Service: "ai",
	})

	return strings.TrimSpace(reply), nil
}
