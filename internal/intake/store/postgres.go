// Package store persists intake records in Postgres and wizard sessions in
// Redis.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"kokos-intake/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS intakes (
	id            TEXT PRIMARY KEY,
	business_name TEXT NOT NULL DEFAULT '',
	contact_email TEXT NOT NULL DEFAULT '',
	payload       JSONB NOT NULL,
	status        TEXT NOT NULL DEFAULT 'pending'
	              CHECK (status IN ('pending', 'approved', 'rejected')),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS intakes_status_created_at_idx ON intakes (status, created_at DESC);`

// PostgresIntakeStore writes submitted intakes to the intakes table.
type PostgresIntakeStore struct {
	db *sql.DB
}

func NewPostgresIntakeStore(db *sql.DB) *PostgresIntakeStore {
	return &PostgresIntakeStore{db: db}
}

// CreateSchema creates the intakes table when it does not exist yet.
func (s *PostgresIntakeStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create intakes schema: %w", err)
	}
	return nil
}

// InsertIntake writes one pending record. It is the durable step of a
// submission and is never retried here.
func (s *PostgresIntakeStore) InsertIntake(ctx context.Context, rec models.IntakeRecord) error {
	status := rec.Status
	if status == "" {
		status = models.IntakeStatusPending
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO intakes (id, business_name, contact_email, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID,
		rec.BusinessName,
		rec.ContactEmail,
		rec.Payload,
		status,
		rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert intake %s: %w", rec.ID, err)
	}
	return nil
}

// CountIntakes returns the number of stored intakes. It doubles as a
// connectivity check for the datastore.
func (s *PostgresIntakeStore) CountIntakes(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM intakes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count intakes: %w", err)
	}
	return n, nil
}

// GetIntake loads a stored record by id.
func (s *PostgresIntakeStore) GetIntake(ctx context.Context, id string) (*models.IntakeRecord, error) {
	rec := &models.IntakeRecord{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, business_name, contact_email, payload, status, created_at
		FROM intakes WHERE id = $1`, id).
		Scan(&rec.ID, &rec.BusinessName, &rec.ContactEmail, &rec.Payload, &rec.Status, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: intake %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get intake %s: %w", id, err)
	}
	return rec, nil
}
