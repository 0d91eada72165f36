package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/duepilot/duepilot/pkg/config"
	"github.com/duepilot/duepilot/pkg/log"
	"github.com/duepilot/duepilot/pkg/scheduler"
	"github.com/duepilot/duepilot/pkg/seed"
	"github.com/duepilot/duepilot/pkg/store"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	cmd := &cli.Command{
		Name:                  "duepilot-api",
		Usage:                 "Create and manage collection workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the duepilot.yaml configuration file",
				Sources: cli.EnvVars("DUEPILOT_CONFIG"),
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
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Duepilot API")

			cfg := config.Default()

			if path := command.String("config"); path != "" {
				loaded, err := config.Load(path)
				if err != nil {
					return err
				}

				cfg = loaded
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

			api := NewAPI(
				logger,
				workflowStore,
				scheduler.New(cfg.Company, logger),
				source,
			)

			err := api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
