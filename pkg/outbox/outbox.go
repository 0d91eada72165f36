// Package outbox pushes rendered reminder messages onto a Redis list. The
// delivery service pops them from the other end; the engine never sends
// anything itself.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/duepilot/duepilot/pkg/scheduler"
)

type Outbox struct {
	Queue      string
	Connection map[string]string

	client redis.UniversalClient
	logger *slog.Logger
}

// New validates configuration only; call Connect before pushing.
func New(config map[string]string, logger *slog.Logger) (*Outbox, error) {
	queue := config["queue"]
	if queue == "" {
		return nil, errors.New("outbox queue name is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Outbox{
		Queue:      queue,
		Connection: config,
		logger: logger.With(
			"module", "outbox",
			"queue", queue,
		),
	}, nil
}

// Connect dials Redis and verifies the connection.
func (o *Outbox) Connect(ctx context.Context) error {
	addr := o.Connection["addr"]
	if addr == "" {
		addr = "localhost:6379"
	}

	db := 0

	if dbStr := o.Connection["db"]; dbStr != "" {
		if _, err := fmt.Sscanf(dbStr, "%d", &db); err != nil {
			return fmt.Errorf("invalid db value: %w", err)
		}
	}

	o.client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: o.Connection["password"],
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := o.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	o.logger.InfoContext(ctx, "Connected to Redis", "addr", addr, "db", db)

	return nil
}

// Push appends one rendered message to the queue.
func (o *Outbox) Push(ctx context.Context, message scheduler.ReadyMessage) error {
	if o.client == nil {
		return errors.New("outbox is not connected")
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	err = o.client.RPush(ctx, o.Queue, payload).Err()
	if err != nil {
		return fmt.Errorf("failed to push message to outbox: %w", err)
	}

	return nil
}

func (o *Outbox) Close() error {
	if o.client == nil {
		return nil
	}

	return o.client.Close()
}
