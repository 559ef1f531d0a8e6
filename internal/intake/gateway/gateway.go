// Package gateway turns a completed intake into a stored record and notifies
// the operator. The write is the only step that decides success.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"kokos-intake/internal/common/config"
	"kokos-intake/internal/common/errors"
	"kokos-intake/internal/common/logger"
	"kokos-intake/internal/intake/notify"
	"kokos-intake/internal/intake/search"
	"kokos-intake/internal/models"
)

const (
	MessageConfigurationMissing = "Veritabanı bağlantısı yapılandırılmamış."
	MessageSubmitted            = "Sistem kurulum talebiniz başarıyla alındı. Yönetici onayı bekleniyor."
	persistenceMessagePrefix    = "Hata Detayı: Veritabanına kayıt başarısız: "
)

// Effect names used in results and metrics.
const (
	EffectDatastore = "datastore"
	EffectEmail     = "email"
	EffectEvent     = "event"
	EffectIndex     = "index"
)

// Outcome labels for submission metrics.
const (
	OutcomeSuccess       = "success"
	OutcomeConfiguration = "configuration_error"
	OutcomePersistence   = "persistence_error"
)

// Config carries the values resolved from the environment at startup.
type Config struct {
	DatastoreURL     string
	DatastoreKey     string
	EmailProviderKey string
	OperatorAddress  string
	FromAddress      string
}

// FromAppConfig picks the gateway settings out of the service config.
func FromAppConfig(cfg *config.Config) Config {
	return Config{
		DatastoreURL:     cfg.Database.Postgres.URL,
		DatastoreKey:     cfg.Database.Postgres.Key,
		EmailProviderKey: cfg.Notifications.APIKey,
		OperatorAddress:  cfg.Notifications.OperatorAddress,
		FromAddress:      cfg.Notifications.FromAddress,
	}
}

// IntakeStore is the durable write.
type IntakeStore interface {
	InsertIntake(ctx context.Context, rec models.IntakeRecord) error
}

// Metrics receives submission outcomes.
type Metrics interface {
	ObserveSubmission(outcome string, d time.Duration)
	AdvisoryFailed(effect string)
}

type Dependencies struct {
	Store     IntakeStore
	Notifier  notify.Notifier
	Publisher notify.Publisher
	Indexer   search.Indexer
	Logger    logger.Logger
	Tracer    trace.Tracer
	Metrics   Metrics
	NewID     func() string
	Now       func() time.Time
}

type Gateway struct {
	cfg  Config
	deps Dependencies
}

type nopMetrics struct{}

func (nopMetrics) ObserveSubmission(string, time.Duration) {}
func (nopMetrics) AdvisoryFailed(string)                   {}

func New(cfg Config, deps Dependencies) *Gateway {
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Tracer == nil {
		deps.Tracer = otel.Tracer("kokos-intake/gateway")
	}
	return &Gateway{cfg: cfg, deps: deps}
}

// Configured reports whether submissions can reach the datastore.
func (g *Gateway) Configured() bool {
	return g.cfg.DatastoreURL != "" && g.cfg.DatastoreKey != "" && g.deps.Store != nil
}

// Submit stores the payload and then tries the advisory effects once each.
// It never returns an error; every failure is part of the result.
func (g *Gateway) Submit(ctx context.Context, payload models.SubmissionPayload) models.SubmissionResult {
	start := g.deps.Now()
	ctx, span := g.deps.Tracer.Start(ctx, "intake.submit")
	defer span.End()

	log := g.deps.Logger.WithFields(map[string]interface{}{
		"businessName": payload.BusinessName(),
	})

	if !g.Configured() {
		stdErr := errors.NewConfigurationMissingError(MessageConfigurationMissing, "datastore url or key is not set")
		log.Error("Intake submission rejected: datastore not configured", map[string]interface{}{
			"errorCode": stdErr.Code,
		})
		g.deps.Metrics.ObserveSubmission(OutcomeConfiguration, g.deps.Now().Sub(start))
		span.SetStatus(codes.Error, string(stdErr.Code))
		span.SetAttributes(attribute.String("intake.outcome", OutcomeConfiguration))
		return models.SubmissionResult{
			Success:   false,
			Message:   MessageConfigurationMissing,
			ErrorCode: string(stdErr.Code),
			Durable:   models.Effect{Name: EffectDatastore, Status: models.EffectSkipped, Error: stdErr.Details},
		}
	}

	rec, err := g.record(payload)
	if err == nil {
		err = g.insert(ctx, rec)
	}
	if err != nil {
		stdErr := errors.NewDatabaseInsertFailedError(err)
		log.Error("Intake submission failed: datastore write rejected", map[string]interface{}{
			"errorCode": stdErr.Code,
			"error":     err.Error(),
		})
		g.deps.Metrics.ObserveSubmission(OutcomePersistence, g.deps.Now().Sub(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, string(stdErr.Code))
		span.SetAttributes(attribute.String("intake.outcome", OutcomePersistence))
		return models.SubmissionResult{
			Success:   false,
			Message:   persistenceMessagePrefix + err.Error(),
			ErrorCode: string(stdErr.Code),
			Durable:   models.Effect{Name: EffectDatastore, Status: models.EffectFailed, Error: err.Error()},
		}
	}

	log = log.WithFields(map[string]interface{}{"recordId": rec.ID})
	log.Info("Intake stored", nil)

	result := models.SubmissionResult{
		Success:  true,
		Message:  MessageSubmitted,
		RecordID: rec.ID,
		Durable:  models.Effect{Name: EffectDatastore, Status: models.EffectDone},
		Advisory: []models.Effect{
			g.sendEmail(ctx, log, payload),
		},
	}
	if g.deps.Publisher != nil {
		result.Advisory = append(result.Advisory, g.publish(ctx, log, rec))
	}
	if g.deps.Indexer != nil {
		result.Advisory = append(result.Advisory, g.index(ctx, log, rec, payload))
	}

	g.deps.Metrics.ObserveSubmission(OutcomeSuccess, g.deps.Now().Sub(start))
	span.SetAttributes(
		attribute.String("intake.outcome", OutcomeSuccess),
		attribute.String("intake.record_id", rec.ID),
	)
	return result
}

func (g *Gateway) insert(ctx context.Context, rec models.IntakeRecord) error {
	ctx, span := g.deps.Tracer.Start(ctx, "intake.datastore.insert")
	defer span.End()
	return g.deps.Store.InsertIntake(ctx, rec)
}

func (g *Gateway) record(payload models.SubmissionPayload) (models.IntakeRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return models.IntakeRecord{}, fmt.Errorf("encode payload: %w", err)
	}
	return models.IntakeRecord{
		ID:           g.deps.NewID(),
		BusinessName: payload.BusinessName(),
		ContactEmail: payload.ContactEmail(),
		Payload:      body,
		Status:       models.IntakeStatusPending,
		CreatedAt:    g.deps.Now().UTC(),
	}, nil
}

func (g *Gateway) sendEmail(ctx context.Context, log logger.Logger, payload models.SubmissionPayload) models.Effect {
	effect := models.Effect{Name: EffectEmail}

	if g.cfg.EmailProviderKey == "" || g.deps.Notifier == nil {
		log.Warn("Operator email skipped: email provider not configured", nil)
		effect.Status = models.EffectSkipped
		return effect
	}
	if g.cfg.OperatorAddress == "" {
		return g.advisoryFailed(log, effect, errors.NewNotificationSendFailedError("email", fmt.Errorf("operator address is not configured")))
	}

	msg, err := notify.BuildOperatorMessage(payload, g.cfg.FromAddress, g.cfg.OperatorAddress)
	if err == nil {
		err = g.deps.Notifier.Send(ctx, msg)
	}
	if err != nil {
		return g.advisoryFailed(log, effect, errors.NewNotificationSendFailedError("email", err))
	}

	log.Info("Operator email sent", map[string]interface{}{"to": g.cfg.OperatorAddress})
	effect.Status = models.EffectDone
	return effect
}

func (g *Gateway) publish(ctx context.Context, log logger.Logger, rec models.IntakeRecord) models.Effect {
	effect := models.Effect{Name: EffectEvent}
	err := g.deps.Publisher.Publish(ctx, notify.Event{
		Type:         notify.EventIntakeSubmitted,
		RecordID:     rec.ID,
		BusinessName: rec.BusinessName,
		ContactEmail: rec.ContactEmail,
		SubmittedAt:  rec.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return g.advisoryFailed(log, effect, errors.NewEventPublishFailedError(notify.EventIntakeSubmitted, err))
	}
	effect.Status = models.EffectDone
	return effect
}

func (g *Gateway) index(ctx context.Context, log logger.Logger, rec models.IntakeRecord, payload models.SubmissionPayload) models.Effect {
	effect := models.Effect{Name: EffectIndex}
	if err := g.deps.Indexer.Index(ctx, search.NewDocument(rec, payload)); err != nil {
		return g.advisoryFailed(log, effect, errors.NewSearchIndexFailedError(g.deps.Indexer.Name(), err))
	}
	effect.Status = models.EffectDone
	return effect
}

func (g *Gateway) advisoryFailed(log logger.Logger, effect models.Effect, stdErr *errors.StandardError) models.Effect {
	log.Error("Advisory effect failed", map[string]interface{}{
		"effect":    effect.Name,
		"errorCode": stdErr.Code,
		"error":     stdErr.Details,
	})
	g.deps.Metrics.AdvisoryFailed(effect.Name)
	effect.Status = models.EffectFailed
	effect.Error = stdErr.Details
	return effect
}
