// Package web provides HTTP request and response types for the collection API.
package web

import "github.com/duepilot/duepilot/pkg/models"

// CreateWorkflowRequest is the request body for creating a new workflow.
type CreateWorkflowRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
}

// CreateStepRequest is the request body for appending a step to a workflow.
type CreateStepRequest struct {
	Name            string          `json:"name"             validate:"required"`
	Description     string          `json:"description"`
	TriggerDays     int             `json:"trigger_days"`
	Type            models.StepType `json:"type"             validate:"omitempty,oneof=email sms reminder"`
	MessageTemplate string          `json:"message_template" validate:"required"`
}

// PreviewRequest is the request body for rendering a template against an
// arbitrary context, used by the step editor.
type PreviewRequest struct {
	Template string            `json:"template" validate:"required"`
	Context  map[string]string `json:"context"`
}

// TimelineEntry is one evaluated trigger enriched with its display label.
type TimelineEntry struct {
	models.EvaluatedTrigger

	OffsetLabel string `json:"offset_label"`
}
