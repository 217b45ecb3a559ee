package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
)

const (
	minRecommendedClip = 5 * time.Second
	maxRecommendedClip = 15 * time.Second
)

// === one service for stt and tts ===

type Service struct {
	stt    STTClient
	tts    TTSClient
	log    *logger.ZapLogger
	tmpDir string
}

func NewService(stt STTClient, tts TTSClient, log *logger.ZapLogger, tmpDir string) *Service {
	return &Service{
		stt:    stt,
		tts:    tts,
		log:    log,
		tmpDir: tmpDir,
	}
}

// TranscribeUpload spools the upload to a temp file for the STT client.
// The file is removed on every return path.
func (s *Service) TranscribeUpload(ctx context.Context, audio io.Reader, ext string) (string, error) {
	tmp, err := os.CreateTemp(s.tmpDir, "wellness-upload-*"+strings.ToLower(ext))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	defer s.removeTemp(path)

	if _, err := io.Copy(tmp, audio); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}

	s.logClipLength(path)

	text, err := s.stt.Transcribe(ctx, path)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (s *Service) Synthesize(ctx context.Context, text string, lang Language) (*bytes.Reader, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	audio, err := s.tts.Synthesize(ctx, text, lang.Voice())
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	if d, err := MP3Duration(audio); err == nil {
		s.log.Log(logger.LogEntry{
			Level:   "info",
			Message: fmt.Sprintf("[speech] synthesized %.1fs of %s audio", d.Seconds(), lang),
			Service: "speech",
		})
	}
	if _, err := audio.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return audio, nil
}

func (s *Service) logClipLength(path string) {
	d, err := ClipDuration(path)
	if err != nil {
		return
	}

	level := "info"
	msg := fmt.Sprintf("[speech] upload is %.1fs", d.Seconds())
	if d < minRecommendedClip || d > maxRecommendedClip {
		level = "warn"
		msg += " (5-15s recommended)"
	}
	s.log.Log(logger.LogEntry{Level: level, Message: msg, Service: "speech"})
}

func (s *Service) removeTemp(path string) {
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return
	}
	s.log.Log(logger.LogEntry{
		Level:   "warn",
		Message: "[speech] temp upload not removed: " + path,
		Service: "speech",
		Error:   err,
	})
}
