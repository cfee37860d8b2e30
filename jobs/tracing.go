package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/samgozman/fin-pulse/internal/utils"
)

// tracer bundles the Sentry hub, transaction and logger of a single job run.
type tracer struct {
	hub    *sentry.Hub
	tx     *sentry.Span
	name   string
	logger *slog.Logger
}

// startTrace returns a context carrying a cloned hub and a transaction named after the job.
func startTrace(ctx context.Context, name string, logger *slog.Logger) (context.Context, *tracer) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
		ctx = sentry.SetHubOnContext(ctx, hub)
	}

	tx := sentry.StartTransaction(ctx, fmt.Sprintf("Job.%s", name))
	tx.Op = "job"

	return tx.Context(), &tracer{hub: hub, tx: tx, name: name, logger: logger}
}

// span starts a child span of the job transaction.
func (t *tracer) span(op string) *sentry.Span {
	return t.tx.StartChild(op)
}

// success leaves a breadcrumb for a finished step.
func (t *tracer) success(msg string) {
	t.hub.AddBreadcrumb(&sentry.Breadcrumb{
		Category: "successful",
		Message:  msg,
		Level:    sentry.LevelInfo,
	}, nil)
}

// fail logs the step error and reports it to Sentry.
func (t *tracer) fail(step string, err error) {
	t.logger.Error(fmt.Sprintf("[%s][%s]", t.name, step), "error", err)
	t.hub.AddBreadcrumb(&sentry.Breadcrumb{
		Category: step,
		Message:  err.Error(),
		Level:    sentry.LevelError,
	}, nil)
	utils.CaptureSentryException(fmt.Sprintf("job%sError", step), t.hub, err)
}

func (t *tracer) finish() {
	t.tx.Finish()
	t.hub.Flush(flushTimeout)
}
