package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/duepilot/duepilot/pkg/models"
)

// Store is an in-memory workflow collection. Construct one with New and pass
// it around explicitly; there is no package-level instance. Mutators either
// fully apply or leave the store untouched, and all access goes through a
// single lock so the two binaries and the HTTP handlers can share one store.
//
// Reads return deep copies. Mutating a returned workflow or step never
// changes stored state.
type Store struct {
	mu        sync.RWMutex
	workflows []*models.Workflow
	byID      map[string]*models.Workflow
}

func New() *Store {
	return &Store{
		byID: make(map[string]*models.Workflow),
	}
}

// NewStepInput carries the caller-supplied fields of a step. The id is always
// assigned by the store.
type NewStepInput struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	TriggerDays     int             `json:"trigger_days"`
	Type            models.StepType `json:"type"`
	MessageTemplate string          `json:"message_template"`
}

// CreateWorkflow adds an empty workflow. New workflows start active.
func (s *Store) CreateWorkflow(name, description string) (*models.Workflow, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &Error{Op: "CreateWorkflow", Err: ErrNameRequired}
	}

	now := time.Now().UTC()
	workflow := &models.Workflow{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Steps:       []*models.WorkflowStep{},
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.workflows = append(s.workflows, workflow)
	s.byID[workflow.ID] = workflow

	return copyWorkflow(workflow), nil
}

// AddStep appends a step to the workflow and returns it with its fresh id.
// Input validation happens before any state is touched, so a failed call
// leaves the workflow exactly as it was.
func (s *Store) AddStep(workflowID string, input NewStepInput) (*models.WorkflowStep, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, &Error{Op: "AddStep", WorkflowID: workflowID, Err: ErrNameRequired}
	}

	if strings.TrimSpace(input.MessageTemplate) == "" {
		return nil, &Error{Op: "AddStep", WorkflowID: workflowID, Err: ErrTemplateRequired}
	}

	stepType := input.Type
	if stepType == "" {
		stepType = models.StepTypeReminder
	}

	if !stepType.Valid() {
		return nil, &Error{Op: "AddStep", WorkflowID: workflowID, Err: ErrInvalidStepType}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	workflow, ok := s.byID[workflowID]
	if !ok {
		return nil, &Error{Op: "AddStep", WorkflowID: workflowID, Err: ErrWorkflowNotFound}
	}

	step := &models.WorkflowStep{
		ID:              uuid.New().String(),
		Name:            input.Name,
		Description:     input.Description,
		TriggerDays:     input.TriggerDays,
		Type:            stepType,
		MessageTemplate: input.MessageTemplate,
		Active:          true,
	}

	workflow.Steps = append(workflow.Steps, step)
	workflow.UpdatedAt = time.Now().UTC()

	copied := *step

	return &copied, nil
}

// ToggleWorkflowActive flips the workflow active flag and returns the updated
// workflow.
func (s *Store) ToggleWorkflowActive(workflowID string) (*models.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	workflow, ok := s.byID[workflowID]
	if !ok {
		return nil, &Error{Op: "ToggleWorkflowActive", WorkflowID: workflowID, Err: ErrWorkflowNotFound}
	}

	workflow.Active = !workflow.Active
	workflow.UpdatedAt = time.Now().UTC()

	return copyWorkflow(workflow), nil
}

// ToggleStepActive flips a step's active flag and returns the updated step.
func (s *Store) ToggleStepActive(workflowID, stepID string) (*models.WorkflowStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	workflow, ok := s.byID[workflowID]
	if !ok {
		return nil, &Error{Op: "ToggleStepActive", WorkflowID: workflowID, StepID: stepID, Err: ErrWorkflowNotFound}
	}

	step := workflow.StepByID(stepID)
	if step == nil {
		return nil, &Error{Op: "ToggleStepActive", WorkflowID: workflowID, StepID: stepID, Err: ErrStepNotFound}
	}

	step.Active = !step.Active
	workflow.UpdatedAt = time.Now().UTC()

	copied := *step

	return &copied, nil
}

// GetWorkflow returns a copy of the workflow.
func (s *Store) GetWorkflow(workflowID string) (*models.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workflow, ok := s.byID[workflowID]
	if !ok {
		return nil, &Error{Op: "GetWorkflow", WorkflowID: workflowID, Err: ErrWorkflowNotFound}
	}

	return copyWorkflow(workflow), nil
}

// ListWorkflows returns a snapshot of all workflows in insertion order.
func (s *Store) ListWorkflows() []*models.Workflow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]*models.Workflow, len(s.workflows))
	for i, workflow := range s.workflows {
		snapshot[i] = copyWorkflow(workflow)
	}

	return snapshot
}

// DeleteWorkflow removes the workflow and all its steps under the store lock,
// so no reader can observe a partially deleted workflow.
func (s *Store) DeleteWorkflow(workflowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[workflowID]; !ok {
		return &Error{Op: "DeleteWorkflow", WorkflowID: workflowID, Err: ErrWorkflowNotFound}
	}

	delete(s.byID, workflowID)

	for i, workflow := range s.workflows {
		if workflow.ID == workflowID {
			s.workflows = append(s.workflows[:i], s.workflows[i+1:]...)

			break
		}
	}

	return nil
}

// Import inserts a fully formed workflow, assigning ids where the fixture
// left them empty. Used to load seed data; user-driven creation goes through
// CreateWorkflow and AddStep.
func (s *Store) Import(workflow *models.Workflow) (*models.Workflow, error) {
	if strings.TrimSpace(workflow.Name) == "" {
		return nil, &Error{Op: "Import", WorkflowID: workflow.ID, Err: ErrNameRequired}
	}

	copied := copyWorkflow(workflow)
	if copied.ID == "" {
		copied.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = now
	}

	copied.UpdatedAt = now

	for _, step := range copied.Steps {
		if strings.TrimSpace(step.MessageTemplate) == "" {
			return nil, &Error{Op: "Import", WorkflowID: copied.ID, StepID: step.ID, Err: ErrTemplateRequired}
		}

		if step.ID == "" {
			step.ID = uuid.New().String()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.workflows = append(s.workflows, copied)
	s.byID[copied.ID] = copied

	return copyWorkflow(copied), nil
}

func copyWorkflow(workflow *models.Workflow) *models.Workflow {
	copied := *workflow
	copied.Steps = make([]*models.WorkflowStep, len(workflow.Steps))

	for i, step := range workflow.Steps {
		stepCopy := *step
		copied.Steps[i] = &stepCopy
	}

	return &copied
}
