package models

import "time"

// TriggerState classifies a step relative to the evaluation day. The
// comparison is by calendar day; time of day never matters.
type TriggerState string

const (
	// TriggerStatePending means the trigger day is still in the future.
	TriggerStatePending TriggerState = "pending"

	// TriggerStateDue means the trigger day is exactly today.
	TriggerStateDue TriggerState = "due"

	// TriggerStateFired means the trigger day has already passed.
	TriggerStateFired TriggerState = "fired"
)

// EvaluatedTrigger is the result of evaluating one step against one invoice.
type EvaluatedTrigger struct {
	StepID          string       `json:"step_id"`
	InvoiceID       string       `json:"invoice_id"`
	Type            StepType     `json:"type"`
	TriggerDays     int          `json:"trigger_days"`
	DueOn           time.Time    `json:"due_on"`
	State           TriggerState `json:"state"`
	RenderedMessage string       `json:"rendered_message,omitempty"`
}
