package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"kokos-intake/internal/intake/wizard"
	"kokos-intake/internal/models"
)

const (
	sessionKeyPrefix = "intake:session:"
	draftKeyPrefix   = "kok-os-intake-draft:"
)

var (
	ErrNotFound        = errors.New("NOT_FOUND")
	ErrSessionNotFound = errors.New("SESSION_NOT_FOUND")
)

// SessionRecord is what is kept per wizard session.
type SessionRecord struct {
	Session models.IntakeSession `json:"session"`
	State   wizard.State         `json:"state"`
}

// RedisSessionStore keeps wizard sessions and save-and-continue drafts.
type RedisSessionStore struct {
	client redis.Cmdable
}

func NewRedisSessionStore(client redis.Cmdable) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }
func draftKey(id string) string   { return draftKeyPrefix + id }

// SaveSession writes the session with a TTL, replacing any previous value.
func (s *RedisSessionStore) SaveSession(ctx context.Context, rec SessionRecord, ttl time.Duration) error {
	data, err := encode(rec)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", rec.Session.ID, err)
	}
	if err := s.client.Set(ctx, sessionKey(rec.Session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", rec.Session.ID, err)
	}
	return nil
}

func (s *RedisSessionStore) LoadSession(ctx context.Context, id string) (*SessionRecord, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var rec SessionRecord
	if err := decode(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &rec, nil
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// SaveDraft stores the save-and-continue snapshot for a session.
func (s *RedisSessionStore) SaveDraft(ctx context.Context, id string, snap models.Snapshot, ttl time.Duration) error {
	data, err := encode(snap)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", id, err)
	}
	if err := s.client.Set(ctx, draftKey(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("save draft %s: %w", id, err)
	}
	return nil
}

func (s *RedisSessionStore) LoadDraft(ctx context.Context, id string) (*models.Snapshot, error) {
	data, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: draft %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", id, err)
	}

	var snap models.Snapshot
	if err := decode(data, &snap); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return &snap, nil
}

func (s *RedisSessionStore) DeleteDraft(ctx context.Context, id string) error {
	return s.client.Del(ctx, draftKey(id)).Err()
}
