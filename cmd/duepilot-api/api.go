// Package main provides the Duepilot API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/duepilot/duepilot/pkg/scheduler"
	"github.com/duepilot/duepilot/pkg/store"
	"github.com/duepilot/duepilot/pkg/web"
)

type API struct {
	logger    *slog.Logger
	store     *store.Store
	scheduler *scheduler.Scheduler
	invoices  scheduler.InvoiceSource
	validate  *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	workflowStore *store.Store,
	sched *scheduler.Scheduler,
	invoices scheduler.InvoiceSource,
) *API {
	return &API{
		logger:    logger,
		store:     workflowStore,
		scheduler: sched,
		invoices:  invoices,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.store, a.scheduler, a.invoices, a.validate, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Duepilot API")
	})

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/toggle", handlers.ToggleWorkflow)
	w.Post("/:id/steps", handlers.CreateStep)
	w.Post("/:id/steps/:stepId/toggle", handlers.ToggleStep)
	w.Get("/:id/timeline", handlers.GetTimeline)

	app.Get("/ready-messages", handlers.GetReadyMessages)
	app.Post("/preview", handlers.Preview)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
