// Package main provides the Duepilot dispatcher, the service that runs the
// scheduled evaluation and publishes ready reminders onto the event bus.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duepilot/duepilot/pkg/eventbus"
	"github.com/duepilot/duepilot/pkg/events"
	"github.com/duepilot/duepilot/pkg/otelhelper"
	"github.com/duepilot/duepilot/pkg/outbox"
	"github.com/duepilot/duepilot/pkg/scheduler"
	"github.com/duepilot/duepilot/pkg/store"
)

type Dispatcher struct {
	logger    *slog.Logger
	store     *store.Store
	scheduler *scheduler.Scheduler
	invoices  scheduler.InvoiceSource
	eventBus  eventbus.EventBus
	outbox    *outbox.Outbox
	tracer    trace.Tracer
	schedule  cron.Schedule
}

func NewDispatcher(
	logger *slog.Logger,
	workflowStore *store.Store,
	sched *scheduler.Scheduler,
	invoices scheduler.InvoiceSource,
	eventBus eventbus.EventBus,
	messageOutbox *outbox.Outbox,
	tracer trace.Tracer,
	cronExpr string,
) (*Dispatcher, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}

	return &Dispatcher{
		logger:    logger,
		store:     workflowStore,
		scheduler: sched,
		invoices:  invoices,
		eventBus:  eventBus,
		outbox:    messageOutbox,
		tracer:    tracer,
		schedule:  schedule,
	}, nil
}

// Run blocks, executing one evaluation per schedule tick until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		next := d.schedule.Next(time.Now())
		d.logger.InfoContext(ctx, "Waiting for next evaluation run", "next_run", next)

		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case <-timer.C:
			if err := d.RunOnce(ctx); err != nil {
				d.logger.ErrorContext(ctx, "Evaluation run failed", "error", err)
			}
		}
	}
}

// RunOnce evaluates every workflow against every invoice and publishes one
// MessageReady event per reminder due today.
func (d *Dispatcher) RunOnce(ctx context.Context) error {
	runID := uuid.New().String()
	startedAt := time.Now()

	ctx, span := otelhelper.StartSpan(ctx, d.tracer, "dispatcher.run",
		attribute.String(otelhelper.RunIDKey, runID),
	)
	defer span.End()

	logger := d.logger.With("run_id", runID)
	logger.InfoContext(ctx, "Starting evaluation run")

	invoices, err := d.invoices.ListInvoices(ctx)
	if err != nil {
		return d.failRun(ctx, span, runID, startedAt, fmt.Errorf("failed to list invoices: %w", err))
	}

	workflows := d.store.ListWorkflows()

	messages, evalErrs := d.scheduler.ComputeReadyMessages(workflows, invoices, startedAt)
	for _, evalErr := range evalErrs {
		logger.WarnContext(ctx, "Skipped invoice during evaluation", "error", evalErr)
	}

	for _, message := range messages {
		event := events.MessageReady{
			BaseEvent:       events.NewBaseEvent(events.MessageReadyEvent, runID),
			WorkflowID:      message.WorkflowID,
			InvoiceID:       message.InvoiceID,
			StepID:          message.StepID,
			Channel:         message.Type,
			RenderedMessage: message.RenderedMessage,
		}

		if err := d.eventBus.Publish(ctx, message.InvoiceID, event); err != nil {
			return d.failRun(ctx, span, runID, startedAt, fmt.Errorf("failed to publish message event: %w", err))
		}

		if d.outbox != nil {
			if err := d.outbox.Push(ctx, message); err != nil {
				return d.failRun(ctx, span, runID, startedAt, fmt.Errorf("failed to push message to outbox: %w", err))
			}
		}
	}

	completed := events.RunCompleted{
		BaseEvent:       events.NewBaseEvent(events.RunCompletedEvent, runID),
		ReadyCount:      len(messages),
		InvoiceCount:    len(invoices),
		WorkflowCount:   len(workflows),
		SkippedInvoices: len(evalErrs),
		Duration:        time.Since(startedAt),
	}

	if err := d.eventBus.Publish(ctx, runID, completed); err != nil {
		return fmt.Errorf("failed to publish run completed event: %w", err)
	}

	logger.InfoContext(ctx, "Evaluation run completed",
		"ready_count", len(messages),
		"invoice_count", len(invoices),
		"workflow_count", len(workflows),
		"skipped_invoices", len(evalErrs),
		"duration", time.Since(startedAt))

	return nil
}

func (d *Dispatcher) failRun(ctx context.Context, span trace.Span, runID string, startedAt time.Time, err error) error {
	otelhelper.SetError(span, err, attribute.String(otelhelper.RunIDKey, runID))

	failed := events.RunFailed{
		BaseEvent: events.NewBaseEvent(events.RunFailedEvent, runID),
		Error:     err.Error(),
		Duration:  time.Since(startedAt),
	}

	if publishErr := d.eventBus.Publish(ctx, runID, failed); publishErr != nil {
		d.logger.ErrorContext(ctx, "Failed to publish run failed event", "error", publishErr)
	}

	return err
}
