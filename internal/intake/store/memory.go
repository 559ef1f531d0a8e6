package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kokos-intake/internal/models"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemorySessionStore keeps sessions and drafts in process memory. It backs
// single-instance deployments that run without Redis.
type MemorySessionStore struct {
	mu       sync.Mutex
	now      func() time.Time
	sessions map[string]memoryEntry
	drafts   map[string]memoryEntry
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
		drafts:   make(map[string]memoryEntry),
	}
}

func (s *MemorySessionStore) put(m map[string]memoryEntry, id string, v interface{}, ttl time.Duration) error {
	data, err := encode(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m[id] = memoryEntry{data: data, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) get(m map[string]memoryEntry, id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := m[id]
	if !ok {
		return nil, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(m, id)
		return nil, false
	}
	return e.data, true
}

func (s *MemorySessionStore) SaveSession(_ context.Context, rec SessionRecord, ttl time.Duration) error {
	if err := s.put(s.sessions, rec.Session.ID, rec, ttl); err != nil {
		return fmt.Errorf("encode session %s: %w", rec.Session.ID, err)
	}
	return nil
}

func (s *MemorySessionStore) LoadSession(_ context.Context, id string) (*SessionRecord, error) {
	data, ok := s.get(s.sessions, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	var rec SessionRecord
	if err := decode(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &rec, nil
}

func (s *MemorySessionStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) SaveDraft(_ context.Context, id string, snap models.Snapshot, ttl time.Duration) error {
	if err := s.put(s.drafts, id, snap, ttl); err != nil {
		return fmt.Errorf("encode draft %s: %w", id, err)
	}
	return nil
}

func (s *MemorySessionStore) LoadDraft(_ context.Context, id string) (*models.Snapshot, error) {
	data, ok := s.get(s.drafts, id)
	if !ok {
		return nil, fmt.Errorf("%w: draft %s", ErrNotFound, id)
	}
	var snap models.Snapshot
	if err := decode(data, &snap); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return &snap, nil
}

func (s *MemorySessionStore) DeleteDraft(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

// Len counts live sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
			continue
		}
		n++
	}
	return n
}
