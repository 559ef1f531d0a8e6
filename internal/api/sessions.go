package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "kokos-intake/internal/common/errors"
	"kokos-intake/internal/common/logger"
	"kokos-intake/internal/common/metrics"
	"kokos-intake/internal/intake/catalog"
	"kokos-intake/internal/intake/store"
	"kokos-intake/internal/intake/summary"
	"kokos-intake/internal/intake/wizard"
	"kokos-intake/internal/models"
)

// SessionStore keeps wizard sessions and their drafts.
type SessionStore interface {
	SaveSession(ctx context.Context, rec store.SessionRecord, ttl time.Duration) error
	LoadSession(ctx context.Context, id string) (*store.SessionRecord, error)
	DeleteSession(ctx context.Context, id string) error
	SaveDraft(ctx context.Context, id string, snap models.Snapshot, ttl time.Duration) error
	LoadDraft(ctx context.Context, id string) (*models.Snapshot, error)
	DeleteDraft(ctx context.Context, id string) error
}

// Submitter hands a completed intake to the gateway.
type Submitter interface {
	Submit(ctx context.Context, payload models.SubmissionPayload) models.SubmissionResult
}

type SessionHandler struct {
	cat           *catalog.Catalog
	sessions      SessionStore
	gateway       Submitter
	logger        logger.Logger
	locks         *sessionLocks
	sessionTTL    time.Duration
	draftTTL      time.Duration
	submitTimeout time.Duration
	maxBody       int64
	now           func() time.Time
	newID         func() string
}

func NewSessionHandler(opts Options) *SessionHandler {
	return &SessionHandler{
		cat:           opts.Catalog,
		sessions:      opts.Sessions,
		gateway:       opts.Gateway,
		logger:        opts.Logger,
		locks:         newSessionLocks(),
		sessionTTL:    opts.SessionTTL,
		draftTTL:      opts.DraftTTL,
		submitTimeout: opts.SubmitTimeout,
		maxBody:       opts.MaxBodyBytes,
		now:           opts.Now,
		newID:         opts.NewID,
	}
}

func wizardError(err error) *apperrors.StandardError {
	if errors.Is(err, wizard.ErrInvalidValue) || errors.Is(err, wizard.ErrInvalidState) {
		return apperrors.NewValidationError(err.Error())
	}
	return apperrors.NewWizardStateConflictError(err)
}

func (h *SessionHandler) engine(st wizard.State) (*wizard.Engine, error) {
	return wizard.Resume(h.cat, st, wizard.WithClock(h.now))
}

// load fetches a session and rebuilds its engine.
func (h *SessionHandler) load(ctx context.Context, id string) (*store.SessionRecord, *wizard.Engine, *apperrors.StandardError) {
	rec, err := h.sessions.LoadSession(ctx, id)
	if errors.Is(err, store.ErrSessionNotFound) {
		return nil, nil, apperrors.NewSessionNotFoundError(id)
	}
	if err != nil {
		h.logger.Error("failed to load session", map[string]interface{}{"sessionId": id, "error": err.Error()})
		return nil, nil, apperrors.NewInternalError(err)
	}
	if rec.Session.IsExpired(h.now()) {
		return nil, nil, apperrors.NewSessionNotFoundError(id)
	}

	eng, err := h.engine(rec.State)
	if err != nil {
		h.logger.Error("stored session state is invalid", map[string]interface{}{"sessionId": id, "error": err.Error()})
		return nil, nil, apperrors.NewInternalError(err)
	}
	return rec, eng, nil
}

func (h *SessionHandler) save(ctx context.Context, rec *store.SessionRecord, eng *wizard.Engine) *apperrors.StandardError {
	rec.State = eng.State()
	rec.Session.Touch(h.now(), h.sessionTTL)
	if err := h.sessions.SaveSession(ctx, *rec, h.sessionTTL); err != nil {
		h.logger.Error("failed to save session", map[string]interface{}{"sessionId": rec.Session.ID, "error": err.Error()})
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (h *SessionHandler) reportActive() {
	if c, ok := h.sessions.(interface{ Len() int }); ok {
		metrics.WizardSessionsActive.Set(float64(c.Len()))
	}
}

// start persists a fresh session around eng under id.
func (h *SessionHandler) start(ctx context.Context, id string, eng *wizard.Engine) (*store.SessionRecord, *apperrors.StandardError) {
	now := h.now()
	rec := &store.SessionRecord{Session: models.IntakeSession{ID: id, CreatedAt: now}}
	if stdErr := h.save(ctx, rec, eng); stdErr != nil {
		return nil, stdErr
	}
	h.reportActive()
	return rec, nil
}

// mutate runs op against the session's engine under the session lock and
// persists the result. Nothing is saved when op fails.
func (h *SessionHandler) mutate(w http.ResponseWriter, r *http.Request, operation string, op func(*wizard.Engine) error) {
	id := r.PathValue("id")
	unlock := h.locks.Lock(id)
	defer unlock()

	rec, eng, stdErr := h.load(r.Context(), id)
	if stdErr != nil {
		ErrorResponse(w, stdErr)
		return
	}

	if err := op(eng); err != nil {
		metrics.WizardOperations.WithLabelValues(operation, "rejected").Inc()
		ErrorResponse(w, wizardError(err))
		return
	}
	metrics.WizardOperations.WithLabelValues(operation, "ok").Inc()

	if stdErr := h.save(r.Context(), rec, eng); stdErr != nil {
		ErrorResponse(w, stdErr)
		return
	}
	JSONResponse(w, http.StatusOK, newSessionView(rec.Session, eng))
}

// Create handles POST /api/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	eng := wizard.New(h.cat, wizard.WithClock(h.now))
	rec, stdErr := h.start(r.Context(), h.newID(), eng)
	if stdErr != nil {
		ErrorResponse(w, stdErr)
		return
	}
	h.logger.Info("intake session started", map[string]interface{}{"sessionId": rec.Session.ID})
	JSONResponse(w, http.StatusCreated, newSessionView(rec.Session, eng))
}

// Get handles GET /api/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, eng, stdErr := h.load(r.Context(), r.PathValue("id"))
	if stdErr != nil {
		ErrorResponse(w, stdErr)
		return
	}
	JSONResponse(w, http.StatusOK, newSessionView(rec.Session, eng))
}

// Answer handles POST /api/sessions/{id}/answer
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if stdErr := decodeValidated(w, r, h.maxBody, answerSchema, &req); stdErr != nil {
		ErrorResponse(w, stdErr)
		return
	}
	h.mutate(w, r, "answer", func(e *wizard.Engine) error {
		return e.Answer(req.QuestionID, req.Value)
	})
}

// AnswerConditional handles POST /api/sessions/{id}/conditional
func (h *SessionHandler) AnswerConditional(w http.ResponseWriter, r *http.Request) {
	var req conditionalRequest
	if stdErr := decodeValidated(w, r, h.maxBody, conditionalSchema, &req); stdErr != nil {
		ErrorResponse(w, stdErr)
		return
	}
	h.mutate(w, r, "conditional", func(e *wizard.Engine) error {
		return e.AnswerConditional(req.Value)
	})
}

// Skip handles POST /api/sessions/{id}/skip
func (h *SessionHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "skip", (*wizard.Engine).Skip)
}

// Back handles POST /api/sessions/{id}/back
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "back", (*wizard.Engine).Back)
}

// SaveDraft handles POST /api/sessions/{id}/draft
func (h *SessionHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	unlock := h.locks.Lock(id)
	defer unlock()

	rec, eng, stdErr := h.load(r.Context(), id)
	if stdErr != nil {
		ErrorResponse(w, stdErr)
		return
	}

	snap := eng.SaveForLater()
	if err := h.sessions.SaveDraft(r.Context(), id, snap, h.draftTTL); err != nil {
		h.logger.Error("failed to save draft", map[string]interface{}{"sessionId": id, "error": err.Error()})
		ErrorResponse(w, apperrors.NewInternalError(err))
		return
	}
	metrics.WizardOperations.WithLabelValues("draft", "ok").Inc()

	if stdErr := h.save(r.Context(), rec, eng); stdErr != nil {
		ErrorResponse(w, stdErr)
		return
	}
	JSONResponse(w, http.StatusOK, snap)
}

// Resume handles POST /api/sessions/resume. A raw snapshot always opens a
// new session. A sessionId reloads that session's draft into it; a session
// that was already submitted cannot be resumed.
func (h *SessionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	var req resumeRequest
	if err := ParseJSONBody(w, r, h.maxBody, &req); err != nil {
		ErrorResponse(w, apperrors.NewValidationError(err.Error()))
		return
	}

	var (
		id   string
		snap *models.Snapshot
	)
	switch {
	case req.Snapshot != nil:
		id, snap = h.newID(), req.Snapshot
	case req.SessionID != "":
		id = req.SessionID
	default:
		ErrorResponse(w, apperrors.NewValidationError("either sessionId or snapshot is required"))
		return
	}

	unlock := h.locks.Lock(id)
	defer unlock()

	rec := &store.SessionRecord{Session: models.IntakeSession{ID: id, CreatedAt: h.now()}}
	if req.Snapshot == nil {
		existing, err := h.sessions.LoadSession(r.Context(), id)
		switch {
		case errors.Is(err, store.ErrSessionNotFound):
		case err != nil:
			ErrorResponse(w, apperrors.NewInternalError(err))
			return
		case existing.Session.Submitted:
			ErrorResponse(w, apperrors.NewWizardStateConflictError(
				fmt.Errorf("session already submitted as record %s", existing.Session.RecordID)))
			return
		case !existing.Session.IsExpired(h.now()):
			rec = existing
		}

		draft, err := h.sessions.LoadDraft(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			ErrorResponse(w, apperrors.NewSessionNotFoundError(id))
			return
		}
		if err != nil {
			ErrorResponse(w, apperrors.NewInternalError(err))
			return
		}
		snap = draft
	}

	eng, err := wizard.Restore(h.cat, *snap, wizard.WithClock(h.now))
	if err != nil {
		ErrorResponse(w, wizardError(err))
		return
	}
	if stdErr := h.save(r.Context(), rec, eng); stdErr != nil {
		ErrorResponse(w, stdErr)
		return
	}
	h.reportActive()
	h.logger.Info("intake session resumed", map[string]interface{}{
		"sessionId":       id,
		"currentQuestion": snap.CurrentQuestion,
	})
	JSONResponse(w, http.StatusOK, newSessionView(rec.Session, eng))
}

// Export handles GET /api/sessions/{id}/export
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	_, eng, stdErr := h.load(r.Context(), r.PathValue("id"))
	if stdErr != nil {
		ErrorResponse(w, stdErr)
		return
	}

	now := h.now()
	doc, err := eng.Export(now)
	if err != nil {
		ErrorResponse(w, wizardError(err))
		return
	}
	filename := wizard.ExportFilename(doc.Answers.Text(models.FieldBusinessName), now)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	JSONResponse(w, http.StatusOK, doc)
}

// Summary handles GET /api/sessions/{id}/summary
func (h *SessionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	_, eng, stdErr := h.load(r.Context(), r.PathValue("id"))
	if stdErr != nil {
		ErrorResponse(w, stdErr)
		return
	}
	if !eng.Complete() {
		ErrorResponse(w, wizardError(wizard.ErrIncomplete))
		return
	}
	JSONResponse(w, http.StatusOK, summary.Build(eng.Answers(), eng.ConditionalAnswers()))
}

// Submit handles POST /api/sessions/{id}/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	unlock := h.locks.Lock(id)
	defer unlock()

	rec, eng, stdErr := h.load(r.Context(), id)
	if stdErr != nil {
		ErrorResponse(w, stdErr)
		return
	}
	if rec.Session.Submitted {
		ErrorResponse(w, apperrors.NewWizardStateConflictError(
			fmt.Errorf("session already submitted as record %s", rec.Session.RecordID)))
		return
	}

	payload, err := eng.Payload(h.now())
	if err != nil {
		ErrorResponse(w, wizardError(err))
		return
	}

	res := h.submit(r.Context(), payload)
	if res.Success {
		rec.Session.Submitted = true
		rec.Session.RecordID = res.RecordID
		if stdErr := h.save(r.Context(), rec, eng); stdErr != nil {
			h.logger.Warn("intake stored but session update failed", map[string]interface{}{
				"sessionId": id,
				"recordId":  res.RecordID,
			})
		}
		if err := h.sessions.DeleteDraft(r.Context(), id); err != nil {
			h.logger.Warn("failed to drop draft of submitted session", map[string]interface{}{
				"sessionId": id,
				"error":     err.Error(),
			})
		}
	}
	JSONResponse(w, resultStatus(res), res)
}

func (h *SessionHandler) submit(ctx context.Context, payload models.SubmissionPayload) models.SubmissionResult {
	if h.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.submitTimeout)
		defer cancel()
	}
	return h.gateway.Submit(ctx, payload)
}

// resultStatus maps a submission result onto the response status.
func resultStatus(res models.SubmissionResult) int {
	if res.Success {
		return http.StatusCreated
	}
	return apperrors.HTTPStatus(apperrors.ErrorCode(res.ErrorCode))
}
