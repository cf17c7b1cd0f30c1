// Package queue consumes ingestion events from RabbitMQ and feeds them to
// the processor. Connection management and acknowledgment live here; the
// processor stays transport-agnostic.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	"github.com/uigs/graph-engine/internal/ingest"
	"github.com/uigs/graph-engine/pkg/platform/sentinel"
)

const (
	// ExchangeName is the fanout exchange the ingestion service publishes to.
	ExchangeName = "identity.events"
	// RoutingKey is the routing key for identity events.
	RoutingKey = "identity.new"
)

// Consumer reads from the graph engine queue and processes each delivery.
type Consumer struct {
	url      string
	queue    string
	prefetch int
	workers  int

	processor *ingest.Processor
	logger    *slog.Logger

	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewConsumer builds a consumer; call Connect before Run or ProcessPending.
func NewConsumer(url, queueName string, prefetch, workers int, processor *ingest.Processor, logger *slog.Logger) *Consumer {
	if prefetch <= 0 {
		prefetch = 10
	}
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{
		url:       url,
		queue:     queueName,
		prefetch:  prefetch,
		workers:   workers,
		processor: processor,
		logger:    logger,
	}
}

// Connect dials RabbitMQ and declares the exchange, queue and binding. All
// declarations are idempotent.
func (c *Consumer) Connect() error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := channel.Qos(c.prefetch, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("set qos: %w", err)
	}

	if err := channel.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	queue, err := channel.QueueDeclare(c.queue, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := channel.QueueBind(queue.Name, RoutingKey, ExchangeName, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("bind queue: %w", err)
	}

	c.conn = conn
	c.channel = channel
	c.logger.Info("connected to rabbitmq", "queue", c.queue, "prefetch", c.prefetch)
	return nil
}

// Run consumes deliveries until the context is canceled or the broker closes
// the channel. Deliveries are processed by a bounded worker pool; ordering
// across events is not guaranteed, so per-subject serialization is the
// publisher's concern (events for one user are published to one queue in
// order, and prefetch keeps reordering windows small).
func (c *Consumer) Run(ctx context.Context) error {
	if c.channel == nil {
		return errors.New("consumer not connected")
	}

	deliveries, err := c.channel.Consume(c.queue, "graph-engine", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}
	c.logger.Info("consuming", "queue", c.queue, "workers", c.workers)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.workers)

	for {
		select {
		case <-ctx.Done():
			_ = group.Wait()
			return ctx.Err()
		case delivery, open := <-deliveries:
			if !open {
				err := group.Wait()
				if err == nil {
					err = errors.New("delivery channel closed")
				}
				return err
			}
			group.Go(func() error {
				c.handle(ctx, delivery)
				return nil
			})
		}
	}
}

// ProcessPending drains up to max messages synchronously. Used by the manual
// processing endpoint; returns how many messages were handled.
func (c *Consumer) ProcessPending(ctx context.Context, max int) (int, error) {
	if c.channel == nil {
		return 0, errors.New("consumer not connected")
	}
	if max <= 0 {
		max = 100
	}

	processed := 0
	for range max {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		delivery, ok, err := c.channel.Get(c.queue, false)
		if err != nil {
			return processed, fmt.Errorf("get message: %w", err)
		}
		if !ok {
			break
		}
		c.handle(ctx, delivery)
		processed++
	}
	return processed, nil
}

// handle processes one delivery and settles it: ack on success or skip,
// drop malformed messages without requeue, requeue everything else for the
// broker's retry policy.
func (c *Consumer) handle(ctx context.Context, delivery amqp.Delivery) {
	outcome, err := c.processor.ProcessMessage(ctx, delivery.Body)
	switch {
	case err == nil:
		if ackErr := delivery.Ack(false); ackErr != nil {
			c.logger.Error("ack failed", "event_id", outcome.EventID, "error", ackErr)
		}
	case errors.Is(err, sentinel.ErrMalformed):
		c.logger.Error("dropping malformed message", "error", err)
		if rejectErr := delivery.Reject(false); rejectErr != nil {
			c.logger.Error("reject failed", "error", rejectErr)
		}
	default:
		c.logger.Error("processing failed, requeueing", "error", err)
		if nackErr := delivery.Nack(false, true); nackErr != nil {
			c.logger.Error("nack failed", "error", nackErr)
		}
	}
}

// Healthy reports whether the broker connection is up.
func (c *Consumer) Healthy() bool {
	return c.conn != nil && !c.conn.IsClosed()
}

// Close shuts the channel and connection down.
func (c *Consumer) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error("close channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("close connection: %w", err)
		}
	}
	c.logger.Info("rabbitmq connection closed")
	return nil
}
