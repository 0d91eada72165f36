// Package store holds the in-memory workflow repository.
package store

import (
	"errors"
	"fmt"
)

// Standard store error types. Callers branch on these with errors.Is or the
// IsXxx helpers below.
var (
	// ErrWorkflowNotFound indicates the referenced workflow id does not exist.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrStepNotFound indicates the referenced step id does not exist in the workflow.
	ErrStepNotFound = errors.New("step not found")

	// ErrNameRequired indicates a workflow or step name was empty or whitespace-only.
	ErrNameRequired = errors.New("name is required")

	// ErrTemplateRequired indicates a step message template was empty or whitespace-only.
	ErrTemplateRequired = errors.New("message template is required")

	// ErrInvalidStepType indicates an unknown step type tag.
	ErrInvalidStepType = errors.New("invalid step type")
)

// Error wraps store errors with operation context.
type Error struct {
	Op         string // Operation being performed (e.g. "CreateWorkflow", "AddStep")
	WorkflowID string // Workflow id if applicable
	StepID     string // Step id if applicable
	Err        error  // Underlying error
}

func (e *Error) Error() string {
	target := e.WorkflowID
	if e.StepID != "" {
		target = fmt.Sprintf("%s step %s", target, e.StepID)
	}

	if target == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("%s failed for workflow %s: %v", e.Op, target, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error comparison for store errors.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsNotFound checks if an error refers to a missing workflow or step.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound) || errors.Is(err, ErrStepNotFound)
}

// IsValidationError checks if an error came from bad mutator input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrTemplateRequired) ||
		errors.Is(err, ErrInvalidStepType)
}
