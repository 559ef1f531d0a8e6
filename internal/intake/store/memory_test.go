package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kokos-intake/internal/intake/wizard"
	"kokos-intake/internal/models"
)

func TestMemorySessionStore_Expiry(t *testing.T) {
	s := NewMemorySessionStore()
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	rec := SessionRecord{
		Session: models.IntakeSession{ID: "s-1"},
		State:   wizard.State{CurrentIndex: 2, Answers: models.AnswerSet{"businessName": models.Text("Acme")}},
	}
	require.NoError(t, s.SaveSession(ctx, rec, time.Hour))
	assert.Equal(t, 1, s.Len())

	got, err := s.LoadSession(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.State.CurrentIndex)
	assert.Equal(t, "Acme", got.State.Answers.Text("businessName"))

	now = now.Add(time.Hour)
	_, err = s.LoadSession(ctx, "s-1")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.Equal(t, 0, s.Len())
}

func TestMemorySessionStore_Draft(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()

	_, err := s.LoadDraft(ctx, "s-1")
	assert.True(t, errors.Is(err, ErrNotFound))

	snap := models.Snapshot{Answers: models.AnswerSet{"goal": models.List("Raporlama")}, CurrentQuestion: 5}
	require.NoError(t, s.SaveDraft(ctx, "s-1", snap, time.Hour))

	got, err := s.LoadDraft(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.CurrentQuestion)
	assert.True(t, got.Answers["goal"].Equal(models.List("Raporlama")))

	require.NoError(t, s.DeleteDraft(ctx, "s-1"))
	_, err = s.LoadDraft(ctx, "s-1")
	assert.True(t, errors.Is(err, ErrNotFound))
}
