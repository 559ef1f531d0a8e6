// Package api exposes the intake wizard and the submission gateway over
// HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kokos-intake/internal/common/logger"
	"kokos-intake/internal/common/observability"
	"kokos-intake/internal/intake/catalog"
)

// Options wires the router.
type Options struct {
	Catalog        *catalog.Catalog
	Sessions       SessionStore
	Gateway        Submitter
	Logger         logger.Logger
	Observability  *observability.Observability
	Ready          func(ctx context.Context) error
	SessionTTL     time.Duration
	DraftTTL       time.Duration
	SubmitTimeout  time.Duration
	MaxBodyBytes   int64
	AllowedOrigins []string
	Now            func() time.Time
	NewID          func() string
}

func (o *Options) applyDefaults() {
	if o.Logger == nil {
		o.Logger = logger.NewNoOpLogger()
	}
	if o.SessionTTL == 0 {
		o.SessionTTL = 24 * time.Hour
	}
	if o.DraftTTL == 0 {
		o.DraftTTL = 30 * 24 * time.Hour
	}
	if o.MaxBodyBytes == 0 {
		o.MaxBodyBytes = 1 << 20
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
}

func NewRouter(opts Options) http.Handler {
	opts.applyDefaults()
	mux := http.NewServeMux()
	h := NewSessionHandler(opts)

	handle := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, WithLogging(opts.Logger, opts.Observability, pattern, fn))
	}

	// Probes
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		JSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		if opts.Ready != nil {
			if err := opts.Ready(r.Context()); err != nil {
				JSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
				return
			}
		}
		JSONResponse(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	handle("GET /api/catalog", h.Catalog)

	// Wizard sessions
	handle("POST /api/sessions", h.Create)
	handle("POST /api/sessions/resume", h.Resume)
	handle("GET /api/sessions/{id}", h.Get)
	handle("POST /api/sessions/{id}/answer", h.Answer)
	handle("POST /api/sessions/{id}/conditional", h.AnswerConditional)
	handle("POST /api/sessions/{id}/skip", h.Skip)
	handle("POST /api/sessions/{id}/back", h.Back)
	handle("POST /api/sessions/{id}/draft", h.SaveDraft)
	handle("GET /api/sessions/{id}/export", h.Export)
	handle("GET /api/sessions/{id}/summary", h.Summary)
	handle("POST /api/sessions/{id}/submit", h.Submit)

	// Direct submission
	handle("POST /api/intakes", h.SubmitIntake)

	return Recover(opts.Logger, CORS(opts.AllowedOrigins, mux))
}
