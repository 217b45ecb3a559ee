package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"
)

type service struct {
	client S3Client
	now    func() time.Time
}

func NewService(client S3Client) Publisher {
	return &service{client: client, now: time.Now}
}

// objectKey is the path of a reply inside the bucket.
func (s *service) objectKey(sessionID string, n int, lang string) string {
	date := s.now().Format("2006-01-02")
	return fmt.Sprintf("%s/%s/reply-%d-%s.mp3", sessionID, date, n, lang)
}

func (s *service) PublishReply(ctx context.Context, sessionID string, n int, lang string, audio []byte) (string, error) {
	if sessionID == "" {
		return "", errors.New("sessionID required")
	}
	if len(audio) == 0 {
		return "", errors.New("empty audio")
	}

	key := s.objectKey(sessionID, n, lang)
	return s.client.PutObject(ctx, key, bytes.NewReader(audio), int64(len(audio)), "audio/mpeg")
}
