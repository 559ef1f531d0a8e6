package submitintake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "kokos-intake/internal/common/errors"
	"kokos-intake/internal/common/logger"
	"kokos-intake/internal/common/metrics"
	"kokos-intake/internal/intake/gateway"
	"kokos-intake/internal/models"
)

const (
	TaskType = "submit-intake"
)

var ErrMissingAnswers = errors.New("MISSING_ANSWERS")

// Submitter is the gateway as seen by the worker.
type Submitter interface {
	Submit(ctx context.Context, payload models.SubmissionPayload) models.SubmissionResult
}

type Handler struct {
	config     *Config
	gateway    Submitter
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, gw Submitter, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		gateway:    gw,
		errHandler: apperrors.NewErrorHandler(log),
		logger:     log,
		now:        time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return h.fail(client, job, apperrors.NewValidationError(fmt.Sprintf("parse input: %v", err)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		return h.fail(client, job, err)
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Answers) == 0 {
		return nil, apperrors.NewValidationError(ErrMissingAnswers.Error())
	}
	if input.ConditionalAnswers == nil {
		input.ConditionalAnswers = models.ConditionalAnswerSet{}
	}

	res := h.gateway.Submit(ctx, models.SubmissionPayload{
		Answers:            input.Answers,
		ConditionalAnswers: input.ConditionalAnswers,
		CompletedAt:        h.now().UTC(),
	})
	if !res.Success {
		return nil, resultError(res)
	}

	emailStatus := string(models.EffectSkipped)
	for _, eff := range res.Advisory {
		if eff.Name == gateway.EffectEmail {
			emailStatus = string(eff.Status)
		}
	}

	h.logger.Info("intake record created", map[string]interface{}{
		"intakeRecordId": res.RecordID,
		"emailStatus":    emailStatus,
	})

	return &Output{
		IntakeRecordID: res.RecordID,
		IntakeStatus:   models.IntakeStatusPending,
		Message:        res.Message,
		EmailStatus:    emailStatus,
	}, nil
}

// resultError maps a failed submission onto the error the process model
// catches. Neither failure is retried, so a job never writes twice.
func resultError(res models.SubmissionResult) *apperrors.StandardError {
	switch apperrors.ErrorCode(res.ErrorCode) {
	case apperrors.ErrCodeConfigurationMissing:
		return apperrors.NewConfigurationMissingError(res.Message, "datastore url or key is not set")
	case apperrors.ErrCodeDatabaseInsertFailed:
		return apperrors.NewDatabaseInsertFailedError(errors.New(res.Message))
	default:
		return apperrors.NewInternalError(fmt.Errorf("submission failed: %s", res.Message))
	}
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error) error {
	code := "UNKNOWN"
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		code = string(stdErr.Code)
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
	h.errHandler.HandleJobError(context.Background(), client, job, err)
	return err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
