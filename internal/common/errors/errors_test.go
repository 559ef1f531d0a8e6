package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"configuration", NewConfigurationMissingError("missing", "DATASTORE_URL"), "INTAKE_CONFIGURATION_ERROR", 0},
		{"insert", NewDatabaseInsertFailedError(stderrors.New("duplicate key")), "INTAKE_PERSISTENCE_FAILED", 0},
		{"connection", NewDatabaseConnectionFailedError(stderrors.New("refused")), "INTAKE_PERSISTENCE_FAILED", 3},
		{"validation", NewValidationError("email required"), "INTAKE_VALIDATION_FAILED", 0},
		{"unmapped", NewSessionNotFoundError("abc"), "SESSION_NOT_FOUND", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
			assert.Equal(t, tt.wantCode, vars["errorCode"])
		})
	}
}

func TestSubmissionCodesAreNeverRetried(t *testing.T) {
	for _, code := range []ErrorCode{
		ErrCodeConfigurationMissing,
		ErrCodeDatabaseInsertFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeEventPublishFailed,
		ErrCodeSearchIndexFailed,
	} {
		assert.False(t, IsRetryableErrorCode(code), code)
	}
}

func TestAsStandardError(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", NewValidationError("bad"))

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeValidationFailed, stdErr.Code)

	_, ok = AsStandardError(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeValidationFailed))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrCodeSessionNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrCodeWizardStateConflict))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrCodeConfigurationMissing))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(ErrCodeDatabaseInsertFailed))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrCodeInternal))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeConfigurationMissing))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeDatabaseInsertFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeEventPublishFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchIndexFailed))
	assert.Equal(t, "WIZARD", GetErrorCategory(ErrCodeSessionNotFound))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
}

func TestWithMetadata(t *testing.T) {
	err := NewInternalError(stderrors.New("boom")).WithMetadata("sessionId", "s-1")
	assert.Equal(t, "s-1", err.Metadata["sessionId"])
	assert.Contains(t, err.Error(), "INTERNAL_ERROR")
}
