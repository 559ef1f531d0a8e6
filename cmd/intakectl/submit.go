package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"kokos-intake/internal/common/config"
	"kokos-intake/internal/common/database"
	apperrors "kokos-intake/internal/common/errors"
	"kokos-intake/internal/intake/gateway"
	"kokos-intake/internal/intake/notify"
	"kokos-intake/internal/intake/search"
	"kokos-intake/internal/intake/store"
	"kokos-intake/internal/models"
)

var submitCmd = &cobra.Command{
	Use:   "submit <export.json>",
	Short: "Submit a completed intake export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var export models.Export
		if err := readJSON(args[0], &export); err != nil {
			return err
		}
		if len(export.Answers) == 0 {
			return fmt.Errorf("%s has no answers", args[0])
		}
		completedAt := export.ExportedAt
		if completedAt.IsZero() {
			completedAt = time.Now().UTC()
		}
		return submitPayload(cmd.Context(), cmd.OutOrStdout(), models.SubmissionPayload{
			Answers:            export.Answers,
			ConditionalAnswers: export.ConditionalAnswers,
			CompletedAt:        completedAt,
		})
	},
}

var checkDBCmd = &cobra.Command{
	Use:   "check-db",
	Short: "Check the intake datastore connection and table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		intakes, closeFn, err := openIntakeStore(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		n, err := intakes.CountIntakes(ctx)
		if database.IsUndefinedTable(err) {
			return fmt.Errorf("table \"intakes\" is missing; start the server with intake.ensure_schema enabled")
		}
		if err != nil {
			return apperrors.NewQueryExecutionFailedError("count", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("connected, %d intakes stored", n)))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <record-id>",
	Short: "Print a stored intake record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		intakes, closeFn, err := openIntakeStore(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		rec, err := intakes.GetIntake(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no intake with id %s", args[0])
		}
		if err != nil {
			return apperrors.NewQueryExecutionFailedError("get", err)
		}
		return printRecord(cmd.OutOrStdout(), rec)
	},
}

// openIntakeStore connects to the configured datastore and checks it answers.
func openIntakeStore(ctx context.Context) (*store.PostgresIntakeStore, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Database.Postgres.Configured() {
		return nil, nil, apperrors.NewConfigurationMissingError("Datastore not configured",
			"database.postgres.url and database.postgres.key are required")
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		_ = pg.Close()
		return nil, nil, apperrors.NewDatabaseConnectionFailedError(err)
	}
	return store.NewPostgresIntakeStore(pg.DB), func() { _ = pg.Close() }, nil
}

func printRecord(w io.Writer, rec *models.IntakeRecord) error {
	fmt.Fprintln(w, titleStyle.Render(rec.BusinessName))
	fmt.Fprintln(w, groupStyle.Render(fmt.Sprintf("%s · %s · %s · %s",
		rec.ID, rec.ContactEmail, rec.Status, rec.CreatedAt.Format(time.RFC3339))))

	var payload models.SubmissionPayload
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		return fmt.Errorf("decode payload of %s: %w", rec.ID, err)
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// submitPayload runs the gateway against the configured datastore and
// notifier and prints the result as JSON.
func submitPayload(ctx context.Context, w io.Writer, payload models.SubmissionPayload) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	gw, closeFn, err := buildGateway(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Intake.SubmitTimeout))
	defer cancel()
	res := gw.Submit(ctx, payload)

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(out))

	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	fmt.Fprintln(w, okStyle.Render(res.Message))
	return nil
}

func buildGateway(ctx context.Context, cfg *config.Config) (*gateway.Gateway, func(), error) {
	log := newLogger()
	deps := gateway.Dependencies{Logger: log}
	closeFn := func() {}

	if cfg.Database.Postgres.Configured() {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		deps.Store = store.NewPostgresIntakeStore(pg.DB)
		closeFn = func() { _ = pg.Close() }
	}

	notifier, err := notify.NewNotifier(ctx, cfg.Notifications)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	deps.Notifier = notifier

	if cfg.Intake.PublishSubmitted {
		publisher, err := notify.NewPublisher(ctx, cfg.Notifications)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		deps.Publisher = publisher
	}

	if cfg.Database.Elasticsearch.Enabled() {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		deps.Indexer = search.NewElasticIndexer(es.Client, cfg.Database.Elasticsearch.Index)
	}

	return gateway.New(gateway.FromAppConfig(cfg), deps), closeFn, nil
}
