package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duepilot/duepilot/pkg/models"
)

func emailStep(name string) NewStepInput {
	return NewStepInput{
		Name:            name,
		TriggerDays:     -3,
		Type:            models.StepTypeEmail,
		MessageTemplate: "Hi {{clientName}}, invoice {{invoiceNumber}} is due soon.",
	}
}

func TestCreateWorkflow(t *testing.T) {
	s := New()

	workflow, err := s.CreateWorkflow("Standard Collection", "Default reminder sequence")
	require.NoError(t, err)

	assert.NotEmpty(t, workflow.ID)
	assert.Equal(t, "Standard Collection", workflow.Name)
	assert.True(t, workflow.Active)
	assert.Empty(t, workflow.Steps)
	assert.False(t, workflow.CreatedAt.IsZero())
}

func TestCreateWorkflow_Validation(t *testing.T) {
	s := New()

	tests := []struct {
		name        string
		wfName      string
		description string
		wantErr     bool
	}{
		{"empty name", "", "desc", true},
		{"whitespace-only name", "   ", "desc", true},
		{"empty description is fine", "X", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateWorkflow(tt.wfName, tt.description)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				assert.ErrorIs(t, err, ErrNameRequired)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	// Failed creates must not leave half-created workflows behind.
	listed := s.ListWorkflows()
	require.Len(t, listed, 1)
	assert.Equal(t, "X", listed[0].Name)
}

func TestAddStep(t *testing.T) {
	s := New()
	workflow, err := s.CreateWorkflow("Standard Collection", "")
	require.NoError(t, err)

	step, err := s.AddStep(workflow.ID, emailStep("Gentle reminder"))
	require.NoError(t, err)

	assert.NotEmpty(t, step.ID)
	assert.Equal(t, "Gentle reminder", step.Name)
	assert.Equal(t, -3, step.TriggerDays)
	assert.True(t, step.Active)

	stored, err := s.GetWorkflow(workflow.ID)
	require.NoError(t, err)
	require.Len(t, stored.Steps, 1)
	assert.Equal(t, step.ID, stored.Steps[0].ID)
}

func TestAddStep_Validation(t *testing.T) {
	s := New()
	workflow, err := s.CreateWorkflow("Standard Collection", "")
	require.NoError(t, err)

	_, err = s.AddStep(workflow.ID, NewStepInput{Name: "", MessageTemplate: "body"})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = s.AddStep(workflow.ID, NewStepInput{Name: "Reminder", MessageTemplate: "  "})
	assert.ErrorIs(t, err, ErrTemplateRequired)

	_, err = s.AddStep(workflow.ID, NewStepInput{Name: "Reminder", MessageTemplate: "body", Type: "carrier-pigeon"})
	assert.ErrorIs(t, err, ErrInvalidStepType)

	_, err = s.AddStep("missing-workflow", emailStep("Reminder"))
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
	assert.True(t, IsNotFound(err))

	stored, err := s.GetWorkflow(workflow.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Steps)
}

func TestAddStep_DefaultsToReminderType(t *testing.T) {
	s := New()
	workflow, err := s.CreateWorkflow("Standard Collection", "")
	require.NoError(t, err)

	step, err := s.AddStep(workflow.ID, NewStepInput{Name: "Call", MessageTemplate: "Call {{clientName}}"})
	require.NoError(t, err)
	assert.Equal(t, models.StepTypeReminder, step.Type)
}

func TestAddStep_UniqueIDs(t *testing.T) {
	s := New()
	workflow, err := s.CreateWorkflow("Standard Collection", "")
	require.NoError(t, err)

	seen := make(map[string]struct{})

	for range 50 {
		step, err := s.AddStep(workflow.ID, emailStep("Reminder"))
		require.NoError(t, err)

		_, duplicate := seen[step.ID]
		require.False(t, duplicate, "duplicate step id %s", step.ID)
		seen[step.ID] = struct{}{}
	}
}

func TestToggleWorkflowActive(t *testing.T) {
	s := New()
	workflow, err := s.CreateWorkflow("Standard Collection", "")
	require.NoError(t, err)

	toggled, err := s.ToggleWorkflowActive(workflow.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)

	toggled, err = s.ToggleWorkflowActive(workflow.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Active)

	_, err = s.ToggleWorkflowActive("missing")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestToggleStepActive(t *testing.T) {
	s := New()
	workflow, err := s.CreateWorkflow("Standard Collection", "")
	require.NoError(t, err)

	step, err := s.AddStep(workflow.ID, emailStep("Reminder"))
	require.NoError(t, err)

	toggled, err := s.ToggleStepActive(workflow.ID, step.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)

	_, err = s.ToggleStepActive(workflow.ID, "missing-step")
	assert.ErrorIs(t, err, ErrStepNotFound)

	_, err = s.ToggleStepActive("missing-workflow", step.ID)
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestListWorkflows_InsertionOrderAndSnapshot(t *testing.T) {
	s := New()

	first, err := s.CreateWorkflow("First", "")
	require.NoError(t, err)
	second, err := s.CreateWorkflow("Second", "")
	require.NoError(t, err)

	listed := s.ListWorkflows()
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)

	// Mutating the snapshot must not leak into the store.
	listed[0].Name = "Mutated"
	listed[0].Steps = append(listed[0].Steps, &models.WorkflowStep{ID: "rogue"})

	stored, err := s.GetWorkflow(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", stored.Name)
	assert.Empty(t, stored.Steps)
}

func TestDeleteWorkflow(t *testing.T) {
	s := New()

	workflow, err := s.CreateWorkflow("Doomed", "")
	require.NoError(t, err)

	_, err = s.AddStep(workflow.ID, emailStep("Reminder"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteWorkflow(workflow.ID))
	assert.Empty(t, s.ListWorkflows())

	err = s.DeleteWorkflow(workflow.ID)
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestImport(t *testing.T) {
	s := New()

	imported, err := s.Import(&models.Workflow{
		Name:   "Seeded",
		Active: true,
		Steps: []*models.WorkflowStep{
			{Name: "Reminder", TriggerDays: -1, Type: models.StepTypeSMS, MessageTemplate: "Due soon", Active: true},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, imported.ID)
	require.Len(t, imported.Steps, 1)
	assert.NotEmpty(t, imported.Steps[0].ID)

	_, err = s.Import(&models.Workflow{Name: " "})
	assert.ErrorIs(t, err, ErrNameRequired)
}
