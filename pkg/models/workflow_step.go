package models

// StepType tags the channel a reminder goes out on. Behavior does not differ
// by type inside the engine; the tag is carried through to the delivery side.
type StepType string

const (
	StepTypeEmail    StepType = "email"
	StepTypeSMS      StepType = "sms"
	StepTypeReminder StepType = "reminder"
)

// Valid reports whether the tag is one of the known step types.
func (t StepType) Valid() bool {
	switch t {
	case StepTypeEmail, StepTypeSMS, StepTypeReminder:
		return true
	default:
		return false
	}
}

// WorkflowStep is one templated reminder within a workflow. TriggerDays is
// relative to the invoice due date: negative fires before the due date, zero
// on the due date, positive after. Inactive steps are kept for editing but
// excluded from evaluation.
type WorkflowStep struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"             validate:"required"`
	Description     string   `json:"description"`
	TriggerDays     int      `json:"trigger_days"`
	Type            StepType `json:"type"             validate:"required,oneof=email sms reminder"`
	MessageTemplate string   `json:"message_template" validate:"required"`
	Active          bool     `json:"active"`
}
