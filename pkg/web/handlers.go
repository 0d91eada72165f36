package web

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/duepilot/duepilot/pkg/evaluator"
	"github.com/duepilot/duepilot/pkg/format"
	"github.com/duepilot/duepilot/pkg/models"
	"github.com/duepilot/duepilot/pkg/scheduler"
	"github.com/duepilot/duepilot/pkg/store"
	"github.com/duepilot/duepilot/pkg/template"
)

type APIHandlers struct {
	store     *store.Store
	scheduler *scheduler.Scheduler
	invoices  scheduler.InvoiceSource
	validator *validator.Validate
	logger    *slog.Logger
}

func NewAPIHandlers(
	workflowStore *store.Store,
	sched *scheduler.Scheduler,
	invoices scheduler.InvoiceSource,
	validator *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		store:     workflowStore,
		scheduler: sched,
		invoices:  invoices,
		validator: validator,
		logger:    logger,
	}
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows := h.store.ListWorkflows()

	return c.JSON(fiber.Map{
		"workflows":   workflows,
		"total_count": len(workflows),
	})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	workflow, err := h.store.GetWorkflow(id)
	if err != nil {
		return handleStoreError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	workflow, err := h.store.CreateWorkflow(req.Name, req.Description)
	if err != nil {
		return handleStoreError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(workflow)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.store.DeleteWorkflow(id); err != nil {
		return handleStoreError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ToggleWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	workflow, err := h.store.ToggleWorkflowActive(id)
	if err != nil {
		return handleStoreError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateStep(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req CreateStepRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	step, err := h.store.AddStep(id, store.NewStepInput{
		Name:            req.Name,
		Description:     req.Description,
		TriggerDays:     req.TriggerDays,
		Type:            req.Type,
		MessageTemplate: req.MessageTemplate,
	})
	if err != nil {
		return handleStoreError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(step)
}

func (h *APIHandlers) ToggleStep(c fiber.Ctx) error {
	id := c.Params("id")
	stepID := c.Params("stepId")

	if id == "" || stepID == "" {
		return badRequest(c, "Workflow ID and step ID are required")
	}

	step, err := h.store.ToggleStepActive(id, stepID)
	if err != nil {
		return handleStoreError(c, err)
	}

	return c.JSON(step)
}

// GetTimeline evaluates one workflow against every known invoice and returns
// the triggers with display labels, for the dashboard timeline view.
func (h *APIHandlers) GetTimeline(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	now, err := h.parseDateParam(c)
	if err != nil {
		return badRequest(c, "Invalid date, expected YYYY-MM-DD")
	}

	workflow, err := h.store.GetWorkflow(id)
	if err != nil {
		return handleStoreError(c, err)
	}

	invoices, err := h.invoices.ListInvoices(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	if invoiceID := c.Query("invoice_id"); invoiceID != "" {
		invoices = filterInvoices(invoices, invoiceID)
	}

	triggers, evalErrs := evaluator.EvaluateAll(workflow, invoices, now)
	for _, evalErr := range evalErrs {
		h.logger.WarnContext(c.Context(), "Skipped invoice during timeline evaluation", "error", evalErr)
	}

	entries := make([]TimelineEntry, 0, len(triggers))
	for _, trigger := range triggers {
		entries = append(entries, TimelineEntry{
			EvaluatedTrigger: trigger,
			OffsetLabel:      format.TriggerOffset(trigger.TriggerDays),
		})
	}

	return c.JSON(fiber.Map{
		"workflow_id": workflow.ID,
		"timeline":    entries,
		"skipped":     len(evalErrs),
	})
}

// GetReadyMessages runs the full evaluation across all workflows and returns
// the messages whose triggers land exactly on the requested day.
func (h *APIHandlers) GetReadyMessages(c fiber.Ctx) error {
	now, err := h.parseDateParam(c)
	if err != nil {
		return badRequest(c, "Invalid date, expected YYYY-MM-DD")
	}

	invoices, err := h.invoices.ListInvoices(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	messages, evalErrs := h.scheduler.ComputeReadyMessages(h.store.ListWorkflows(), invoices, now)
	for _, evalErr := range evalErrs {
		h.logger.WarnContext(c.Context(), "Skipped invoice during evaluation", "error", evalErr)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"skipped":  len(evalErrs),
	})
}

// Preview renders a template against a caller-supplied context without
// touching any stored workflow.
func (h *APIHandlers) Preview(c fiber.Ctx) error {
	var req PreviewRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	return c.JSON(fiber.Map{
		"rendered":     template.Render(req.Template, req.Context),
		"placeholders": template.Placeholders(req.Template),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"message":   "Duepilot API is running",
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) parseDateParam(c fiber.Ctx) (time.Time, error) {
	dateStr := c.Query("date")
	if dateStr == "" {
		return time.Now().UTC(), nil
	}

	return time.Parse(models.DateLayout, dateStr)
}

func filterInvoices(invoices []*models.Invoice, invoiceID string) []*models.Invoice {
	filtered := make([]*models.Invoice, 0, 1)

	for _, invoice := range invoices {
		if invoice.ID == invoiceID {
			filtered = append(filtered, invoice)
		}
	}

	return filtered
}
