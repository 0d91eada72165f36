// Package evaluator computes which workflow steps are due for which invoices.
//
// Evaluation is a pure calendar computation: callers always pass "now"
// explicitly, nothing here reads the wall clock, and identical inputs produce
// identical output.
package evaluator

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/duepilot/duepilot/pkg/models"
)

// InvalidDueDateError reports an invoice whose due date could not be parsed.
// The failure is scoped to that invoice; the rest of a batch still evaluates.
type InvalidDueDateError struct {
	InvoiceID string
	Value     string
	Err       error
}

func (e *InvalidDueDateError) Error() string {
	return fmt.Sprintf("invalid due date %q on invoice %s: %v", e.Value, e.InvoiceID, e.Err)
}

func (e *InvalidDueDateError) Unwrap() error {
	return e.Err
}

// IsInvalidDueDate checks whether an error is a per-invoice due date failure.
func IsInvalidDueDate(err error) bool {
	var target *InvalidDueDateError

	return errors.As(err, &target)
}

// Evaluate classifies a single step against a single invoice.
func Evaluate(step *models.WorkflowStep, invoice *models.Invoice, now time.Time) (models.EvaluatedTrigger, error) {
	dueDate, err := invoice.DueDateTime()
	if err != nil {
		return models.EvaluatedTrigger{}, &InvalidDueDateError{
			InvoiceID: invoice.ID,
			Value:     invoice.DueDate,
			Err:       err,
		}
	}

	return evaluateStep(step, invoice.ID, dueDate, now), nil
}

// evaluateStep does the calendar-day comparison. The time-of-day component of
// both dates is discarded before comparing.
func evaluateStep(step *models.WorkflowStep, invoiceID string, dueDate, now time.Time) models.EvaluatedTrigger {
	dueOn := truncateDay(dueDate).AddDate(0, 0, step.TriggerDays)
	today := truncateDay(now)

	state := models.TriggerStateDue

	switch {
	case dueOn.After(today):
		state = models.TriggerStatePending
	case dueOn.Before(today):
		state = models.TriggerStateFired
	}

	return models.EvaluatedTrigger{
		StepID:      step.ID,
		InvoiceID:   invoiceID,
		Type:        step.Type,
		TriggerDays: step.TriggerDays,
		DueOn:       dueOn,
		State:       state,
	}
}

// EvaluateAll evaluates every active step of the workflow against every
// invoice. An inactive workflow, or an inactive step, produces no triggers at
// all. Output is grouped by invoice in input order with steps ordered by
// TriggerDays ascending. Invoices with malformed due dates are skipped and
// reported in the returned error slice; they never abort the batch.
func EvaluateAll(workflow *models.Workflow, invoices []*models.Invoice, now time.Time) ([]models.EvaluatedTrigger, []error) {
	if workflow == nil || !workflow.Active {
		return nil, nil
	}

	steps := activeStepsByOffset(workflow.Steps)
	if len(steps) == 0 {
		return nil, nil
	}

	var (
		triggers []models.EvaluatedTrigger
		errs     []error
	)

	for _, invoice := range invoices {
		dueDate, err := invoice.DueDateTime()
		if err != nil {
			errs = append(errs, &InvalidDueDateError{
				InvoiceID: invoice.ID,
				Value:     invoice.DueDate,
				Err:       err,
			})

			continue
		}

		for _, step := range steps {
			triggers = append(triggers, evaluateStep(step, invoice.ID, dueDate, now))
		}
	}

	return triggers, errs
}

func activeStepsByOffset(steps []*models.WorkflowStep) []*models.WorkflowStep {
	active := make([]*models.WorkflowStep, 0, len(steps))

	for _, step := range steps {
		if step.Active {
			active = append(active, step)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].TriggerDays < active[j].TriggerDays
	})

	return active
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
