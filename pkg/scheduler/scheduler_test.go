package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duepilot/duepilot/pkg/models"
)

var evaluationDay = time.Date(2024, 6, 7, 10, 0, 0, 0, time.UTC)

func collectionWorkflow() *models.Workflow {
	return &models.Workflow{
		ID:     "wf-1",
		Name:   "Standard Collection",
		Active: true,
		Steps: []*models.WorkflowStep{
			{
				ID:              "step-before",
				Name:            "Gentle reminder",
				TriggerDays:     -3,
				Type:            models.StepTypeEmail,
				MessageTemplate: "Hi {{clientName}}, invoice {{invoiceNumber}} for {{amount}} is due {{dueDate}}. Thanks, {{companyName}}",
				Active:          true,
			},
			{
				ID:              "step-after",
				Name:            "Overdue notice",
				TriggerDays:     3,
				Type:            models.StepTypeSMS,
				MessageTemplate: "{{clientName}}: {{invoiceNumber}} is overdue. Call {{companyPhone}}.",
				Active:          true,
			},
		},
	}
}

func dueInvoice() *models.Invoice {
	return &models.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "INV-2024-001",
		ClientName:    "Acme Corp",
		Amount:        1250.50,
		DueDate:       "2024-06-10",
		Status:        models.InvoiceStatusPending,
	}
}

func TestComputeReadyMessages_RendersDueSteps(t *testing.T) {
	s := New(map[string]string{
		"companyName":  "Duepilot Inc",
		"companyPhone": "+1 555 0100",
	}, nil)

	messages, errs := s.ComputeReadyMessages(
		[]*models.Workflow{collectionWorkflow()},
		[]*models.Invoice{dueInvoice()},
		evaluationDay,
	)

	require.Empty(t, errs)
	require.Len(t, messages, 1)

	message := messages[0]
	assert.Equal(t, "inv-1", message.InvoiceID)
	assert.Equal(t, "wf-1", message.WorkflowID)
	assert.Equal(t, "step-before", message.StepID)
	assert.Equal(t, models.StepTypeEmail, message.Type)
	assert.Equal(t,
		"Hi Acme Corp, invoice INV-2024-001 for $1,250.50 is due Jun 10, 2024. Thanks, Duepilot Inc",
		message.RenderedMessage,
	)
}

func TestComputeReadyMessages_OnlyDueStateIncluded(t *testing.T) {
	s := New(nil, nil)

	// On the due date itself: the -3 step already fired, the +3 step is
	// pending. Neither may appear.
	messages, errs := s.ComputeReadyMessages(
		[]*models.Workflow{collectionWorkflow()},
		[]*models.Invoice{dueInvoice()},
		time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC),
	)

	assert.Empty(t, errs)
	assert.Empty(t, messages)
}

func TestComputeReadyMessages_InactiveWorkflowSkipped(t *testing.T) {
	s := New(nil, nil)

	workflow := collectionWorkflow()
	workflow.Active = false

	messages, _ := s.ComputeReadyMessages(
		[]*models.Workflow{workflow},
		[]*models.Invoice{dueInvoice()},
		evaluationDay,
	)

	assert.Empty(t, messages)
}

func TestComputeReadyMessages_MissingContextKeyLeftVerbatim(t *testing.T) {
	// No companyName configured: the placeholder survives for later editing.
	s := New(nil, nil)

	messages, _ := s.ComputeReadyMessages(
		[]*models.Workflow{collectionWorkflow()},
		[]*models.Invoice{dueInvoice()},
		evaluationDay,
	)

	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].RenderedMessage, "{{companyName}}")
}

func TestComputeReadyMessages_Idempotent(t *testing.T) {
	s := New(map[string]string{"companyName": "Duepilot Inc"}, nil)

	workflows := []*models.Workflow{collectionWorkflow()}
	invoices := []*models.Invoice{
		dueInvoice(),
		{
			ID:            "inv-2",
			InvoiceNumber: "INV-2024-002",
			ClientName:    "Globex",
			Amount:        900,
			DueDate:       "2024-06-10",
			Status:        models.InvoiceStatusPending,
		},
	}

	first, firstErrs := s.ComputeReadyMessages(workflows, invoices, evaluationDay)
	second, secondErrs := s.ComputeReadyMessages(workflows, invoices, evaluationDay)

	assert.Equal(t, first, second)
	assert.Equal(t, firstErrs, secondErrs)
	require.Len(t, first, 2)
	assert.Equal(t, "inv-1", first[0].InvoiceID)
	assert.Equal(t, "inv-2", first[1].InvoiceID)
}

func TestComputeReadyMessages_BadInvoiceReportedNotFatal(t *testing.T) {
	s := New(nil, nil)

	invoices := []*models.Invoice{
		dueInvoice(),
		{ID: "inv-bad", InvoiceNumber: "INV-X", ClientName: "Hooli", DueDate: "tomorrow-ish"},
	}

	messages, errs := s.ComputeReadyMessages([]*models.Workflow{collectionWorkflow()}, invoices, evaluationDay)

	require.Len(t, messages, 1)
	assert.Equal(t, "inv-1", messages[0].InvoiceID)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "inv-bad")
}
