package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

const defaultElevenLabsVoice = "EXAVITQu4vr4xnSDxMaL" // Rachel

type ElevenLabsClient struct {
	apiKey  string
	voiceID string
	baseURL string
	httpCli *http.Client
}

func NewElevenLabsClient(apiKey, voiceID string) *ElevenLabsClient {
	return NewElevenLabsClientWithURL(apiKey, voiceID, "https://api.elevenlabs.io")
}

func NewElevenLabsClientWithURL(apiKey, voiceID, baseURL string) *ElevenLabsClient {
	if voiceID == "" {
		voiceID = defaultElevenLabsVoice
	}
	return &ElevenLabsClient{
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: baseURL,
		httpCli: http.DefaultClient,
	}
}

// TEXT → SPEECH. The multilingual model handles the accent itself, so only the language code is sent.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string, voice Voice) (*bytes.Reader, error) {
	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, c.voiceID)

	payload, err := json.Marshal(map[string]string{
		"text":          text,
		"model_id":      "eleven_multilingual_v2",
		"language_code": voice.Lang,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs error: %s", string(b))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
