package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"

	"kokos-intake/internal/common/config"
	"kokos-intake/internal/common/logger"
	"kokos-intake/internal/intake/notify"
	"kokos-intake/internal/intake/search"
	"kokos-intake/internal/intake/store"
	"kokos-intake/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ==========================
// Fakes
// ==========================

type fakeStore struct {
	records []models.IntakeRecord
	err     error
}

func (f *fakeStore) InsertIntake(_ context.Context, rec models.IntakeRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

type fakeNotifier struct {
	sent []notify.Message
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, msg notify.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type fakePublisher struct {
	events []notify.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, ev notify.Event) error {
	f.events = append(f.events, ev)
	return f.err
}

type fakeIndexer struct {
	docs []search.Document
	err  error
}

func (f *fakeIndexer) Index(_ context.Context, doc search.Document) error {
	f.docs = append(f.docs, doc)
	return f.err
}

func (f *fakeIndexer) Name() string { return "intakes" }

type recordingMetrics struct {
	outcomes []string
	advisory []string
}

func (r *recordingMetrics) ObserveSubmission(outcome string, _ time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingMetrics) AdvisoryFailed(effect string) {
	r.advisory = append(r.advisory, effect)
}

// ==========================
// Helpers
// ==========================

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func fullConfig() Config {
	return Config{
		DatastoreURL:     "postgresql://postgres@db.example.supabase.co:5432/postgres",
		DatastoreKey:     "service-key",
		EmailProviderKey: "re_test",
		OperatorAddress:  "ops@kok-os.com",
		FromAddress:      "KOK-OS System <onboarding@resend.dev>",
	}
}

func testPayload() models.SubmissionPayload {
	return models.SubmissionPayload{
		Answers: models.AnswerSet{
			models.FieldBusinessName:  models.Text("Kök Kahve"),
			models.FieldContactPerson: models.Text("Ayşe Yılmaz"),
			models.FieldEmail:         models.Text("ayse@kokkahve.com"),
			models.FieldPhone:         models.Text("+90 555 000 00 00"),
			models.FieldGoal:          models.List("Görünürlük", "Raporlama"),
		},
		ConditionalAnswers: models.ConditionalAnswerSet{},
		CompletedAt:        fixedNow,
	}
}

type fixture struct {
	store     *fakeStore
	notifier  *fakeNotifier
	publisher *fakePublisher
	metrics   *recordingMetrics
	deps      Dependencies
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		store:     &fakeStore{},
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
		metrics:   &recordingMetrics{},
	}
	f.deps = Dependencies{
		Store:     f.store,
		Notifier:  f.notifier,
		Publisher: f.publisher,
		Logger:    logger.NewTestLogger(t),
		Metrics:   f.metrics,
		NewID:     func() string { return "rec-1" },
		Now:       func() time.Time { return fixedNow },
	}
	return f
}

// ==========================
// Tests
// ==========================

func TestSubmit_Success(t *testing.T) {
	f := newFixture(t)
	res := New(fullConfig(), f.deps).Submit(context.Background(), testPayload())

	assert.True(t, res.Success)
	assert.Equal(t, MessageSubmitted, res.Message)
	assert.Equal(t, "rec-1", res.RecordID)
	assert.Equal(t, models.EffectDone, res.Durable.Status)

	require.Len(t, f.store.records, 1)
	rec := f.store.records[0]
	assert.Equal(t, "Kök Kahve", rec.BusinessName)
	assert.Equal(t, "ayse@kokkahve.com", rec.ContactEmail)
	assert.Equal(t, models.IntakeStatusPending, rec.Status)
	assert.JSONEq(t, `{
		"answers": {
			"businessName": "Kök Kahve",
			"contactPerson": "Ayşe Yılmaz",
			"email": "ayse@kokkahve.com",
			"phone": "+90 555 000 00 00",
			"goal": ["Görünürlük", "Raporlama"]
		},
		"conditionalAnswers": {},
		"completedAt": "2025-03-14T09:30:00Z"
	}`, string(rec.Payload))

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "ops@kok-os.com", f.notifier.sent[0].To)
	assert.Equal(t, "Yeni Sistem Başlatma Talebi: Kök Kahve", f.notifier.sent[0].Subject)
	assert.Contains(t, f.notifier.sent[0].HTML, "Görünürlük, Raporlama")

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, notify.EventIntakeSubmitted, f.publisher.events[0].Type)
	assert.Equal(t, "rec-1", f.publisher.events[0].RecordID)

	assert.Equal(t, []string{OutcomeSuccess}, f.metrics.outcomes)
	assert.Empty(t, f.metrics.advisory)
}

func TestSubmit_EmailUnconfiguredStillSucceeds(t *testing.T) {
	f := newFixture(t)
	log, logs := logger.NewObserved("debug")
	f.deps.Logger = log

	cfg := fullConfig()
	cfg.EmailProviderKey = ""
	res := New(cfg, f.deps).Submit(context.Background(), testPayload())

	assert.True(t, res.Success)
	assert.Equal(t, MessageSubmitted, res.Message)
	assert.Len(t, f.store.records, 1)
	assert.Empty(t, f.notifier.sent)
	require.NotEmpty(t, res.Advisory)
	assert.Equal(t, models.Effect{Name: EffectEmail, Status: models.EffectSkipped}, res.Advisory[0])
	assert.Equal(t, 1, logs.FilterMessageSnippet("email provider not configured").Len())
}

func TestSubmit_EmailFailureIsAdvisory(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("resend: 403 domain not verified")
	f.publisher.err = errors.New("sns: AuthorizationError")
	log, logs := logger.NewObserved("debug")
	f.deps.Logger = log

	res := New(fullConfig(), f.deps).Submit(context.Background(), testPayload())

	assert.True(t, res.Success)
	assert.Equal(t, MessageSubmitted, res.Message)
	assert.Empty(t, res.ErrorCode)
	require.Len(t, res.Advisory, 2)
	assert.Equal(t, models.EffectFailed, res.Advisory[0].Status)
	assert.Contains(t, res.Advisory[0].Error, "domain not verified")
	assert.Equal(t, models.EffectFailed, res.Advisory[1].Status)
	assert.Len(t, f.notifier.sent, 1, "email is attempted exactly once")
	assert.Equal(t, []string{EffectEmail, EffectEvent}, f.metrics.advisory)
	assert.Equal(t, 2, logs.FilterMessage("Advisory effect failed").Len())
}

func TestSubmit_MissingOperatorAddress(t *testing.T) {
	f := newFixture(t)
	cfg := fullConfig()
	cfg.OperatorAddress = ""

	res := New(cfg, f.deps).Submit(context.Background(), testPayload())
	assert.True(t, res.Success)
	assert.Equal(t, models.EffectFailed, res.Advisory[0].Status)
	assert.Empty(t, f.notifier.sent)
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	f := newFixture(t)
	f.store.err = errors.New(`relation "intakes" does not exist`)

	res := New(fullConfig(), f.deps).Submit(context.Background(), testPayload())

	assert.False(t, res.Success)
	assert.Equal(t, `Hata Detayı: Veritabanına kayıt başarısız: relation "intakes" does not exist`, res.Message)
	assert.Equal(t, "DATABASE_INSERT_FAILED", res.ErrorCode)
	assert.Empty(t, res.RecordID)
	assert.Equal(t, models.EffectFailed, res.Durable.Status)
	assert.Empty(t, res.Advisory)
	assert.Empty(t, f.notifier.sent, "no notification after a failed write")
	assert.Empty(t, f.publisher.events)
	assert.Equal(t, []string{OutcomePersistence}, f.metrics.outcomes)
}

func TestSubmit_ConfigurationMissing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no url", func(c *Config) { c.DatastoreURL = "" }},
		{"no key", func(c *Config) { c.DatastoreKey = "" }},
		{"neither", func(c *Config) { *c = Config{EmailProviderKey: "re_test"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cfg := fullConfig()
			tt.mutate(&cfg)

			res := New(cfg, f.deps).Submit(context.Background(), testPayload())

			assert.False(t, res.Success)
			assert.Equal(t, MessageConfigurationMissing, res.Message)
			assert.Equal(t, "CONFIGURATION_MISSING", res.ErrorCode)
			assert.Empty(t, f.store.records, "write must not be attempted")
			assert.Empty(t, f.notifier.sent)
			assert.Equal(t, []string{OutcomeConfiguration}, f.metrics.outcomes)
		})
	}
}

func TestSubmit_PostgresStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO intakes").
		WithArgs("rec-1", "Kök Kahve", "ayse@kokkahve.com", sqlmock.AnyArg(), "pending", fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	f := newFixture(t)
	f.deps.Store = store.NewPostgresIntakeStore(db)
	f.deps.Notifier = nil
	f.deps.Publisher = nil

	res := New(fullConfig(), f.deps).Submit(context.Background(), testPayload())
	assert.True(t, res.Success)
	require.Len(t, res.Advisory, 1)
	assert.Equal(t, models.EffectSkipped, res.Advisory[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Postgres.URL = "postgresql://db"
	cfg.Database.Postgres.Key = "k"
	cfg.Notifications.APIKey = "re_x"
	cfg.Notifications.OperatorAddress = "ops@kok-os.com"

	got := FromAppConfig(cfg)
	assert.Equal(t, "postgresql://db", got.DatastoreURL)
	assert.Equal(t, "k", got.DatastoreKey)
	assert.Equal(t, "re_x", got.EmailProviderKey)
	assert.Equal(t, "ops@kok-os.com", got.OperatorAddress)
}

func TestSubmit_IndexesStoredRecord(t *testing.T) {
	f := newFixture(t)
	idx := &fakeIndexer{}
	f.deps.Indexer = idx

	res := New(fullConfig(), f.deps).Submit(context.Background(), testPayload())

	require.True(t, res.Success)
	require.Len(t, res.Advisory, 3)
	assert.Equal(t, models.Effect{Name: EffectIndex, Status: models.EffectDone}, res.Advisory[2])
	require.Len(t, idx.docs, 1)
	assert.Equal(t, "rec-1", idx.docs[0].RecordID)
	assert.Equal(t, "Ayşe Yılmaz", idx.docs[0].ContactPerson)
	assert.Equal(t, fixedNow, idx.docs[0].SubmittedAt)
}

func TestSubmit_IndexFailureIsAdvisory(t *testing.T) {
	f := newFixture(t)
	f.deps.Indexer = &fakeIndexer{err: errors.New("index_not_found_exception")}

	res := New(fullConfig(), f.deps).Submit(context.Background(), testPayload())

	assert.True(t, res.Success)
	require.Len(t, res.Advisory, 3)
	assert.Equal(t, models.EffectFailed, res.Advisory[2].Status)
	assert.Contains(t, res.Advisory[2].Error, "index: intakes")
	assert.Equal(t, []string{EffectIndex}, f.metrics.advisory)
}

func TestSubmit_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer provider.Shutdown(context.Background())

	f := newFixture(t)
	f.deps.Tracer = provider.Tracer("test")
	New(fullConfig(), f.deps).Submit(context.Background(), testPayload())

	f.store.err = errors.New("connection reset")
	New(fullConfig(), f.deps).Submit(context.Background(), testPayload())

	ended := recorder.Ended()
	require.Len(t, ended, 4)

	names := make([]string, 0, len(ended))
	for _, s := range ended {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"intake.datastore.insert", "intake.submit", "intake.datastore.insert", "intake.submit"}, names)

	ok, failed := ended[1], ended[3]
	assert.Equal(t, ok.SpanContext().TraceID(), ended[0].Parent().TraceID())
	assert.Contains(t, ok.Attributes(), attribute.String("intake.outcome", OutcomeSuccess))
	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.Contains(t, failed.Attributes(), attribute.String("intake.outcome", OutcomePersistence))
}
