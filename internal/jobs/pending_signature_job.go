package jobs

import (
	"context"
	"log/slog"

	"workorders/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PendingSignatureJob periodically scans for orders stuck in acta_elaborada
// and raises an alert for each one whose certificate has waited too long for
// a signature. The underlying alert write is an upsert, so rescanning the
// same order on every run is harmless.
type PendingSignatureJob struct {
	handler commands.EscalateUnsignedActasCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewPendingSignatureJob creates the hourly escalation job.
func NewPendingSignatureJob(
	handler commands.EscalateUnsignedActasCommandHandler, logger *slog.Logger,
) *PendingSignatureJob {
	return &PendingSignatureJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "pending_signature_job"),
	}
}

// Start schedules the job to run at the top of every hour.
func (j *PendingSignatureJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewEscalateUnsignedActasCommand()

		escalated, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Pending signature escalation failed", "error", err)
			return
		}

		if escalated > 0 {
			j.logger.InfoContext(ctx, "Escalated orders with unsigned delivery certificates",
				"count", escalated)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pending signature job started (running hourly)")
	return nil
}

// Stop stops the escalation job.
func (j *PendingSignatureJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Pending signature job stopped")
}
