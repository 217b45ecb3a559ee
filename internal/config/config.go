package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is missing. Set it in your environment")

// Config holds application configuration.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	OpenAIKey string
	Model     string
	TmpDir    string

	SessionStore string
	RedisURL     string
	SessionTTL   time.Duration

	TTSEngine         string
	ElevenLabsKey     string
	ElevenLabsVoiceID string

	S3 S3Config

	TelegramToken string
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// Load reads envFile (if present) and the environment, applying defaults.
func Load(envFile string) (Config, error) {
	_ = godotenv.Load(envFile)

	cfg := Config{
		HTTPAddr:          os.Getenv("HTTP_ADDRESS"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		Model:             os.Getenv("OPENAI_MODEL"),
		TmpDir:            os.Getenv("UPLOAD_TMP_DIR"),
		SessionStore:      os.Getenv("SESSION_STORE"),
		RedisURL:          os.Getenv("REDIS_URL"),
		TTSEngine:         os.Getenv("TTS_ENGINE"),
		ElevenLabsKey:     os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsVoiceID: os.Getenv("ELEVENLABS_VOICE_ID"),
		TelegramToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		S3: S3Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
		},
	}

	if cfg.OpenAIKey == "" {
		return cfg, ErrMissingAPIKey
	}

	if cfg.HTTPAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.HTTPAddr = ":" + port
		} else {
			cfg.HTTPAddr = ":8080"
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.SessionStore == "" {
		cfg.SessionStore = "memory"
	}
	if cfg.TTSEngine == "" {
		cfg.TTSEngine = "gtts"
	}

	cfg.SessionTTL = 24 * time.Hour
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("parse SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = ttl
	}

	if cfg.SessionStore == "redis" && cfg.RedisURL == "" {
		return cfg, errors.New("REDIS_URL is required when SESSION_STORE=redis")
	}
	if cfg.TTSEngine == "elevenlabs" && cfg.ElevenLabsKey == "" {
		return cfg, errors.New("ELEVENLABS_API_KEY is required when TTS_ENGINE=elevenlabs")
	}

	return cfg, nil
}
