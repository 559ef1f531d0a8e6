package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kokos-intake/internal/common/config"
)

func TestNewTracing_Disabled(t *testing.T) {
	tr, err := NewTracing("intake-test", "0.0.0", config.TracingConfig{})
	require.NoError(t, err)

	_, span := tr.Tracer("test").Start(context.Background(), "op")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestNewTracing_SamplesWithoutExporter(t *testing.T) {
	tr, err := NewTracing("intake-test", "0.0.0", config.TracingConfig{Enabled: true, SampleRatio: 1})
	require.NoError(t, err)

	_, span := tr.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.SpanContext().IsSampled())
	span.End()
	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestTracing_NilSafe(t *testing.T) {
	var tr *Tracing
	assert.NotNil(t, tr.Tracer("test"))
	assert.NoError(t, tr.Shutdown(context.Background()))
}
