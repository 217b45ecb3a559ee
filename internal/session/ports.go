package session

import "context"

// Store keeps per-session state between requests.
type Store interface {
	// Create stores a new session with Version set to 1.
	Create(ctx context.Context, data *Data) error

	// Get returns nil, nil when the session does not exist.
	Get(ctx context.Context, id string) (*Data, error)

	// Update persists data if its Version matches the stored one, then bumps Version.
	// Returns ErrVersionConflict on mismatch and ErrNotFound if the session is gone.
	Update(ctx context.Context, data *Data) error

	Delete(ctx context.Context, id string) error

	Close() error
}
