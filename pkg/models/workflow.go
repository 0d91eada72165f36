// Package models defines the core domain models for invoice collection workflows.
package models

import "time"

// Workflow is a named set of reminder steps applied to invoices. Step order is
// presentation order only; each step fires independently based on its own
// trigger offset. An inactive workflow never produces due steps, regardless of
// the per-step flags.
type Workflow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"        validate:"required"`
	Description string          `json:"description"`
	Steps       []*WorkflowStep `json:"steps"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StepByID returns the step with the given id, or nil.
func (w *Workflow) StepByID(stepID string) *WorkflowStep {
	for _, step := range w.Steps {
		if step.ID == stepID {
			return step
		}
	}

	return nil
}
