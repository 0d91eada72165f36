package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/duepilot/duepilot/pkg/cmd"
	"github.com/duepilot/duepilot/pkg/config"
	"github.com/duepilot/duepilot/pkg/log"
	"github.com/duepilot/duepilot/pkg/otelhelper"
	"github.com/duepilot/duepilot/pkg/outbox"
	"github.com/duepilot/duepilot/pkg/scheduler"
	"github.com/duepilot/duepilot/pkg/seed"
	"github.com/duepilot/duepilot/pkg/store"
)

func main() {
	logger := log.WithModule("dispatcher")

	command := &cli.Command{
		Name:                  "duepilot-dispatcher",
		Usage:                 "Run scheduled collection evaluations and publish ready reminders",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the duepilot.yaml configuration file",
				Sources: cli.EnvVars("DUEPILOT_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "invoices-path",
				Usage:   "Path to the invoice fixtures file",
				Sources: cli.EnvVars("DUEPILOT_INVOICES"),
			},
			&cli.StringFlag{
				Name:    "workflows-path",
				Usage:   "Path to the workflow fixtures file",
				Sources: cli.EnvVars("DUEPILOT_WORKFLOWS"),
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "Run a single evaluation immediately and exit",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Duepilot dispatcher")

			cfg := config.Default()

			if path := command.String("config"); path != "" {
				loaded, err := config.Load(path)
				if err != nil {
					return err
				}

				cfg = loaded
			}

			tracer, err := otelhelper.NewTracer(ctx, "duepilot-dispatcher")
			if err != nil {
				return fmt.Errorf("failed to initialize tracer: %w", err)
			}

			invoicesPath := command.String("invoices-path")
			if invoicesPath == "" {
				invoicesPath = cfg.Fixtures.Invoices
			}

			source := seed.NewSource(nil)

			if invoicesPath != "" {
				loaded, err := seed.NewSourceFromFile(invoicesPath)
				if err != nil {
					return err
				}

				source = loaded
			}

			workflowStore := store.New()

			workflowsPath := command.String("workflows-path")
			if workflowsPath == "" {
				workflowsPath = cfg.Fixtures.Workflows
			}

			if workflowsPath != "" {
				workflows, err := seed.Workflows(workflowsPath)
				if err != nil {
					return err
				}

				for _, workflow := range workflows {
					if _, err := workflowStore.Import(workflow); err != nil {
						return err
					}
				}
			}

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			var messageOutbox *outbox.Outbox

			if len(cfg.Outbox) > 0 {
				messageOutbox, err = outbox.New(cfg.Outbox, logger)
				if err != nil {
					return err
				}

				if err := messageOutbox.Connect(ctx); err != nil {
					return err
				}

				defer func() {
					if err := messageOutbox.Close(); err != nil {
						logger.ErrorContext(ctx, "Failed to close outbox", "error", err)
					}
				}()
			}

			dispatcher, err := NewDispatcher(
				logger,
				workflowStore,
				scheduler.New(cfg.Company, logger),
				source,
				eventBus,
				messageOutbox,
				tracer,
				cfg.Schedule,
			)
			if err != nil {
				return err
			}

			if command.Bool("once") {
				return dispatcher.RunOnce(ctx)
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = dispatcher.Run(ctx)
			if err != nil && ctx.Err() == nil {
				return err
			}

			logger.InfoContext(context.Background(), "Dispatcher stopped")

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
