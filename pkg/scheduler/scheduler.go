// Package scheduler turns workflows plus invoices into ready-to-send reminder
// messages. It decides what should fire, never how to deliver: the output is
// handed to the messaging side, and delivery failures can never corrupt
// evaluation state.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/duepilot/duepilot/pkg/evaluator"
	"github.com/duepilot/duepilot/pkg/format"
	"github.com/duepilot/duepilot/pkg/models"
	"github.com/duepilot/duepilot/pkg/template"
)

// InvoiceSource is the external collaborator that owns invoice records. The
// scheduler only reads from it.
type InvoiceSource interface {
	ListInvoices(ctx context.Context) ([]*models.Invoice, error)
}

// ReadyMessage is a rendered reminder waiting for delivery. RemindersSent and
// LastContactDate bookkeeping happens on the delivery side, not here.
type ReadyMessage struct {
	InvoiceID       string          `json:"invoice_id"`
	WorkflowID      string          `json:"workflow_id"`
	StepID          string          `json:"step_id"`
	Type            models.StepType `json:"type"`
	RenderedMessage string          `json:"rendered_message"`
}

// Scheduler pairs due workflow steps with invoices and renders their
// templates. The company map supplies fixed template context such as
// companyName and companyPhone; invoice-derived keys win on collision.
type Scheduler struct {
	company map[string]string
	logger  *slog.Logger
}

func New(company map[string]string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		company: company,
		logger:  logger.With("module", "scheduler"),
	}
}

// ComputeReadyMessages evaluates every workflow against every invoice at the
// given time and returns the rendered messages for steps that are due today.
// Invoices with malformed due dates are reported in the error slice and do
// not abort the run. The call mutates nothing and is idempotent: identical
// inputs, including now, produce an identical, order-stable result.
func (s *Scheduler) ComputeReadyMessages(workflows []*models.Workflow, invoices []*models.Invoice, now time.Time) ([]ReadyMessage, []error) {
	invoiceByID := make(map[string]*models.Invoice, len(invoices))
	for _, invoice := range invoices {
		invoiceByID[invoice.ID] = invoice
	}

	var (
		messages []ReadyMessage
		errs     []error
	)

	for _, workflow := range workflows {
		triggers, evalErrs := evaluator.EvaluateAll(workflow, invoices, now)
		errs = append(errs, evalErrs...)

		for _, trigger := range triggers {
			if trigger.State != models.TriggerStateDue {
				continue
			}

			step := workflow.StepByID(trigger.StepID)
			invoice := invoiceByID[trigger.InvoiceID]

			if step == nil || invoice == nil {
				continue
			}

			messages = append(messages, ReadyMessage{
				InvoiceID:       trigger.InvoiceID,
				WorkflowID:      workflow.ID,
				StepID:          trigger.StepID,
				Type:            trigger.Type,
				RenderedMessage: template.Render(step.MessageTemplate, s.contextFor(invoice)),
			})
		}
	}

	if len(errs) > 0 {
		s.logger.Warn("Some invoices were skipped during evaluation", "skipped", len(errs))
	}

	return messages, errs
}

// contextFor builds the template context for one invoice. Amount and due date
// are pre-formatted here so templates stay plain text.
func (s *Scheduler) contextFor(invoice *models.Invoice) map[string]string {
	templateContext := map[string]string{
		"clientName":    invoice.ClientName,
		"invoiceNumber": invoice.InvoiceNumber,
		"amount":        format.Currency(invoice.Amount),
	}

	// The trigger being due implies the due date already parsed.
	if dueDate, err := invoice.DueDateTime(); err == nil {
		templateContext["dueDate"] = format.Date(dueDate)
	}

	for key, value := range s.company {
		if _, ok := templateContext[key]; !ok {
			templateContext[key] = value
		}
	}

	return templateContext
}
