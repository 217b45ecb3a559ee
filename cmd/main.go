package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/wellness_ai/internal/ai"
	"github.com/Vovarama1992/wellness_ai/internal/config"
	"github.com/Vovarama1992/wellness_ai/internal/delivery"
	"github.com/Vovarama1992/wellness_ai/internal/media"
	"github.com/Vovarama1992/wellness_ai/internal/session"
	"github.com/Vovarama1992/wellness_ai/internal/speech"
	"github.com/Vovarama1992/wellness_ai/internal/telegram"
	"github.com/Vovarama1992/wellness_ai/internal/wellness"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	cli "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "wellness_ai"

func main() {

	// =========================================================================
	// FLAGS / CONFIG
	// =========================================================================

	envFile := cli.StringP("env", "e", ".env", "path to the env file")
	addr := cli.StringP("addr", "a", "", "listen address, overrides HTTP_ADDRESS")
	level := cli.StringP("log", "l", "", "log level, overrides LOG_LEVEL")
	cli.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}
	if *level != "" {
		cfg.LogLevel = *level
	}

	baseLogger, err := newZap(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}
	defer store.Close()

	var publisher media.Publisher
	if cfg.S3.Enabled() {
		s3Client, err := media.NewS3Client(ctx, cfg.S3)
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
		publisher = media.NewService(s3Client)
	}

	// =========================================================================
	// CLIENTS (OpenAI / TTS)
	// =========================================================================

	openAIClient := ai.NewOpenAIClient(cfg.OpenAIKey, cfg.Model)
	ttsClient := newTTS(cfg)

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	speechService := speech.NewService(
		openAIClient, // Whisper
		ttsClient,
		zl,
		cfg.TmpDir,
	)
	aiService := ai.NewAiService(openAIClient, zl)
	assistant := wellness.NewAssistant(speechService, aiService, speechService, zl)

	// =========================================================================
	// TELEGRAM
	// =========================================================================

	if cfg.TelegramToken != "" {
		go func() {
			if err := telegram.Start(ctx, cfg.TelegramToken, assistant, store, zl); err != nil {
				zl.Log(logger.LogEntry{Level: "error", Message: "telegram bot disabled", Service: serviceName, Error: err})
			}
		}()
	}

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	chatHandler := delivery.NewChatHandler(assistant, store, publisher, zl)
	delivery.RegisterRoutes(r, chatHandler, store, zl)

	// =========================================================================
	// START SERVER
	// =========================================================================

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		zl.Log(logger.LogEntry{
			Level:   "info",
			Message: "listening at " + cfg.HTTPAddr,
			Service: serviceName,
		})
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		zl.Log(logger.LogEntry{Level: "info", Message: "shutdown signal received", Service: serviceName})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Log(logger.LogEntry{Level: "error", Message: "graceful shutdown failed", Service: serviceName, Error: err})
		_ = server.Close()
	}
}

func newZap(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func newSessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	storeType := session.StoreType(cfg.SessionStore)
	if storeType != session.StoreTypeRedis {
		return session.NewStore(storeType, session.WithTTL(cfg.SessionTTL))
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return session.NewStore(storeType,
		session.WithRedisClient(client),
		session.WithTTL(cfg.SessionTTL),
	)
}

func newTTS(cfg config.Config) speech.TTSClient {
	if cfg.TTSEngine == "elevenlabs" {
		return speech.NewElevenLabsClient(cfg.ElevenLabsKey, cfg.ElevenLabsVoiceID)
	}
	return speech.NewGoogleTTS()
}
