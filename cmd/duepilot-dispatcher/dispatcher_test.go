package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/duepilot/duepilot/pkg/eventbus"
	"github.com/duepilot/duepilot/pkg/events"
	"github.com/duepilot/duepilot/pkg/log"
	"github.com/duepilot/duepilot/pkg/models"
	"github.com/duepilot/duepilot/pkg/scheduler"
	"github.com/duepilot/duepilot/pkg/seed"
	"github.com/duepilot/duepilot/pkg/store"
)

type capturingEventBus struct {
	mu        sync.Mutex
	published []eventbus.Event
}

func (b *capturingEventBus) Publish(_ context.Context, _ string, event eventbus.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.published = append(b.published, event)

	return nil
}

func (b *capturingEventBus) Handle(events.EventType, eventbus.EventHandler) error { return nil }

func (b *capturingEventBus) Subscribe(context.Context) error { return nil }

func (b *capturingEventBus) Close() error { return nil }

func (b *capturingEventBus) GenerateID() string { return uuid.New().String() }

func (b *capturingEventBus) events() []eventbus.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]eventbus.Event(nil), b.published...)
}

func setupDispatcher(t *testing.T, invoices []*models.Invoice) (*Dispatcher, *store.Store, *capturingEventBus) {
	t.Helper()

	workflowStore := store.New()
	bus := &capturingEventBus{}

	dispatcher, err := NewDispatcher(
		log.WithModule("dispatcher-test"),
		workflowStore,
		scheduler.New(map[string]string{"companyName": "Duepilot Inc"}, nil),
		seed.NewSource(invoices),
		bus,
		nil,
		noop.NewTracerProvider().Tracer("test"),
		"0 8 * * *",
	)
	require.NoError(t, err)

	return dispatcher, workflowStore, bus
}

func TestNewDispatcher_InvalidCron(t *testing.T) {
	t.Parallel()

	_, err := NewDispatcher(
		log.WithModule("dispatcher-test"),
		store.New(),
		scheduler.New(nil, nil),
		seed.NewSource(nil),
		&capturingEventBus{},
		nil,
		noop.NewTracerProvider().Tracer("test"),
		"not-a-cron",
	)
	require.Error(t, err)
}

func TestDispatcher_RunOnce(t *testing.T) {
	t.Parallel()

	invoices := []*models.Invoice{
		{
			ID:            "inv-1",
			InvoiceNumber: "INV-2024-001",
			ClientName:    "Acme Corp",
			Amount:        1250.50,
			DueDate:       time.Now().UTC().Format(models.DateLayout),
			Status:        models.InvoiceStatusPending,
		},
	}

	dispatcher, workflowStore, bus := setupDispatcher(t, invoices)

	workflow, err := workflowStore.CreateWorkflow("Collection", "")
	require.NoError(t, err)

	step, err := workflowStore.AddStep(workflow.ID, store.NewStepInput{
		Name:            "Day-of reminder",
		TriggerDays:     0,
		Type:            models.StepTypeEmail,
		MessageTemplate: "Hi {{clientName}}, {{invoiceNumber}} is due {{dueDate}}.",
	})
	require.NoError(t, err)

	require.NoError(t, dispatcher.RunOnce(t.Context()))

	published := bus.events()
	require.Len(t, published, 2)

	ready, ok := published[0].(events.MessageReady)
	require.True(t, ok)
	assert.Equal(t, workflow.ID, ready.WorkflowID)
	assert.Equal(t, step.ID, ready.StepID)
	assert.Equal(t, "inv-1", ready.InvoiceID)
	assert.Equal(t, models.StepTypeEmail, ready.Channel)
	assert.NotEmpty(t, ready.RunID)

	completed, ok := published[1].(events.RunCompleted)
	require.True(t, ok)
	assert.Equal(t, 1, completed.ReadyCount)
	assert.Equal(t, 1, completed.InvoiceCount)
	assert.Equal(t, 1, completed.WorkflowCount)
	assert.Zero(t, completed.SkippedInvoices)
	assert.Equal(t, ready.RunID, completed.RunID)
}

func TestDispatcher_RunOnceNothingDue(t *testing.T) {
	t.Parallel()

	dispatcher, workflowStore, bus := setupDispatcher(t, nil)

	_, err := workflowStore.CreateWorkflow("Collection", "")
	require.NoError(t, err)

	require.NoError(t, dispatcher.RunOnce(t.Context()))

	published := bus.events()
	require.Len(t, published, 1)

	completed, ok := published[0].(events.RunCompleted)
	require.True(t, ok)
	assert.Zero(t, completed.ReadyCount)
}

func TestDispatcher_RunOnceCountsSkippedInvoices(t *testing.T) {
	t.Parallel()

	invoices := []*models.Invoice{
		{
			ID:            "inv-bad",
			InvoiceNumber: "INV-2024-002",
			ClientName:    "Globex",
			DueDate:       "06/10/2024",
			Status:        models.InvoiceStatusPending,
		},
	}

	dispatcher, workflowStore, bus := setupDispatcher(t, invoices)

	workflow, err := workflowStore.CreateWorkflow("Collection", "")
	require.NoError(t, err)

	_, err = workflowStore.AddStep(workflow.ID, store.NewStepInput{
		Name:            "Day-of reminder",
		MessageTemplate: "Invoice {{invoiceNumber}} is due.",
	})
	require.NoError(t, err)

	require.NoError(t, dispatcher.RunOnce(t.Context()))

	published := bus.events()
	require.Len(t, published, 1)

	completed, ok := published[0].(events.RunCompleted)
	require.True(t, ok)
	assert.Equal(t, 1, completed.SkippedInvoices)
	assert.Zero(t, completed.ReadyCount)
}
