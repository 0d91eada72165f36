// Package events defines the event types published around collection runs.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/duepilot/duepilot/pkg/models"
)

type EventType string

// Topic carries all collection events.
const Topic = "duepilot.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// MessageReadyEvent is published once per rendered reminder; the
	// messaging service consumes it and owns delivery.
	MessageReadyEvent EventType = "collection.message.ready"

	// Run lifecycle events.
	RunCompletedEvent EventType = "collection.run.completed"
	RunFailedEvent    EventType = "collection.run.failed"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id,omitempty"`
}

func NewBaseEvent(eventType EventType, runID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		RunID:     runID,
	}
}

// MessageReady carries one rendered reminder that is due today.
type MessageReady struct {
	BaseEvent

	WorkflowID      string          `json:"workflow_id"`
	InvoiceID       string          `json:"invoice_id"`
	StepID          string          `json:"step_id"`
	Channel         models.StepType `json:"channel"`
	RenderedMessage string          `json:"rendered_message"`
}

func (m MessageReady) GetType() EventType {
	return MessageReadyEvent
}

type RunCompleted struct {
	BaseEvent

	ReadyCount      int           `json:"ready_count"`
	InvoiceCount    int           `json:"invoice_count"`
	WorkflowCount   int           `json:"workflow_count"`
	SkippedInvoices int           `json:"skipped_invoices"`
	Duration        time.Duration `json:"duration"`
}

func (r RunCompleted) GetType() EventType {
	return RunCompletedEvent
}

type RunFailed struct {
	BaseEvent

	Error    string        `json:"error"`
	Duration time.Duration `json:"duration"`
}

func (r RunFailed) GetType() EventType {
	return RunFailedEvent
}
