package database

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kokos-intake/internal/common/config"
)

func newElasticServer(t *testing.T, status *atomic.Int32) *ElasticsearchClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(status.Load()))
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `{"version":{"number":"8.11.0"}}`)
		}
	}))
	t.Cleanup(srv.Close)

	c, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return c
}

func TestElasticsearchClient_Ping(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	c := newElasticServer(t, &status)

	require.NoError(t, c.Ping(context.Background()))

	status.Store(http.StatusNotFound)
	assert.Error(t, c.Ping(context.Background()))
}

func TestElasticsearchClient_Version(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	c := newElasticServer(t, &status)

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8.11.0", v)
}
