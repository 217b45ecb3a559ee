package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data     *Data
	lastSeen time.Time
}

// MemoryStore keeps sessions in process memory. Reads and writes copy the data.
// A session untouched for longer than the TTL is gone; expired entries are swept on Create.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  map[string]*memoryEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithTTL(defaultTTL)
}

func NewMemoryStoreWithTTL(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, data *Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	data.CreatedAt = now
	data.UpdatedAt = now
	data.Version = 1

	s.sessions[data.ID] = &memoryEntry{data: data.Clone(), lastSeen: now}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(id, s.now())
	if e == nil {
		return nil, nil
	}
	return e.data.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, data *Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e := s.live(data.ID, now)
	if e == nil {
		return ErrNotFound
	}
	if e.data.Version != data.Version {
		return ErrVersionConflict
	}

	data.Version++
	data.UpdatedAt = now

	e.data = data.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*memoryEntry)
	return nil
}

// Len counts stored sessions, expired ones not yet swept included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// live returns the entry and refreshes its access time, dropping it when expired.
func (s *MemoryStore) live(id string, now time.Time) *memoryEntry {
	e, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if now.Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil
	}
	e.lastSeen = now
	return e
}

func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.ttl/2 {
		return
	}
	s.lastSweep = now
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
