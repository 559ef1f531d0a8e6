package main

import (
	"bytes"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "kokos-intake/internal/common/errors"
	"kokos-intake/internal/models"
)

func TestPrintRecord(t *testing.T) {
	rec := &models.IntakeRecord{
		ID:           "rec-1",
		BusinessName: "Kök Kahve",
		ContactEmail: "info@kok.example",
		Status:       models.IntakeStatusPending,
		CreatedAt:    time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Payload:      []byte(`{"answers":{"businessName":"Kök Kahve","goal":["Satış"]},"conditionalAnswers":{},"completedAt":"2025-03-14T09:29:00Z"}`),
	}

	var buf bytes.Buffer
	require.NoError(t, printRecord(&buf, rec))
	out := buf.String()
	assert.Contains(t, out, "Kök Kahve")
	assert.Contains(t, out, "rec-1")
	assert.Contains(t, out, "2025-03-14T09:30:00Z")
	assert.Contains(t, out, `"Satış"`)

	rec.Payload = []byte("not json")
	assert.Error(t, printRecord(&bytes.Buffer{}, rec))
}

func TestDescribeError(t *testing.T) {
	assert.Equal(t, "plain", describeError(stderrors.New("plain")))
	assert.Equal(t,
		"Database connection error [DATABASE_CONNECTION_FAILED]: connection refused",
		describeError(apperrors.NewDatabaseConnectionFailedError(stderrors.New("connection refused"))))
	assert.Equal(t,
		"Database query execution error [QUERY_EXECUTION_FAILED]: queryType: get, error: timeout",
		describeError(apperrors.NewQueryExecutionFailedError("get", stderrors.New("timeout"))))
}
