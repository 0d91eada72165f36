// Package seed loads demo invoice and workflow fixtures from JSON files.
// Fixtures are validated against a schema before use so a broken demo file
// fails loudly at startup instead of surfacing as odd evaluation results.
//
// Due dates are deliberately only checked to be strings here: an unparseable
// date is valid fixture data, because the evaluator's per-invoice failure
// handling is part of what the demo exercises.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/duepilot/duepilot/pkg/models"
)

var invoiceSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"id", "invoice_number", "client_name", "amount", "due_date", "status"},
		"properties": map[string]any{
			"id":             map[string]any{"type": "string", "minLength": 1},
			"invoice_number": map[string]any{"type": "string", "minLength": 1},
			"client_name":    map[string]any{"type": "string", "minLength": 1},
			"client_email":   map[string]any{"type": "string"},
			"client_phone":   map[string]any{"type": "string"},
			"amount":         map[string]any{"type": "number", "minimum": 0},
			"issue_date":     map[string]any{"type": "string"},
			"due_date":       map[string]any{"type": "string"},
			"status": map[string]any{
				"enum": []any{"pending", "overdue", "paid", "partial"},
			},
			"reminders_sent": map[string]any{"type": "integer", "minimum": 0},
		},
	},
}

var workflowSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"name", "steps"},
		"properties": map[string]any{
			"id":          map[string]any{"type": "string"},
			"name":        map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"active":      map[string]any{"type": "boolean"},
			"steps": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"name", "trigger_days", "type", "message_template"},
					"properties": map[string]any{
						"id":               map[string]any{"type": "string"},
						"name":             map[string]any{"type": "string", "minLength": 1},
						"description":      map[string]any{"type": "string"},
						"trigger_days":     map[string]any{"type": "integer"},
						"type":             map[string]any{"enum": []any{"email", "sms", "reminder"}},
						"message_template": map[string]any{"type": "string", "minLength": 1},
						"active":           map[string]any{"type": "boolean"},
					},
				},
			},
		},
	},
}

// Invoices loads invoice fixtures from path.
func Invoices(path string) ([]*models.Invoice, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice fixtures %s: %w", path, err)
	}

	if err := validate(invoiceSchema, raw); err != nil {
		return nil, fmt.Errorf("invalid invoice fixtures %s: %w", path, err)
	}

	var invoices []*models.Invoice
	if err := json.Unmarshal(raw, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode invoice fixtures %s: %w", path, err)
	}

	return invoices, nil
}

// Workflows loads workflow fixtures from path.
func Workflows(path string) ([]*models.Workflow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow fixtures %s: %w", path, err)
	}

	if err := validate(workflowSchema, raw); err != nil {
		return nil, fmt.Errorf("invalid workflow fixtures %s: %w", path, err)
	}

	var workflows []*models.Workflow
	if err := json.Unmarshal(raw, &workflows); err != nil {
		return nil, fmt.Errorf("failed to decode workflow fixtures %s: %w", path, err)
	}

	return workflows, nil
}

func validate(schema map[string]any, raw []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, resultError := range result.Errors() {
			details = append(details, resultError.String())
		}

		return errors.New(strings.Join(details, "; "))
	}

	return nil
}
