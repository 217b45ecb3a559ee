package media

import (
	"context"
	"io"
)

// Low-level client for S3-compatible storage.
type S3Client interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (publicURL string, err error)
}

type Publisher interface {
	PublishReply(ctx context.Context, sessionID string, n int, lang string, audio []byte) (string, error)
}
