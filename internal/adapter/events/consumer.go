package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/retry"
)

// Default consumer settings.
const (
	DefaultPrefetch      = 50
	DefaultHandleTimeout = 5 * time.Second
)

// ConsumerConfig holds the broker settings.
type ConsumerConfig struct {
	URL      string
	Exchange string
	Queue    string

	// Prefetch bounds unacknowledged deliveries per consumer
	Prefetch int
}

// Consumer reads ticket events from a durable queue bound to a topic exchange.
type Consumer struct {
	cfg     ConsumerConfig
	handler *Handler
	log     zerolog.Logger
	dial    func(url string) (*amqp.Connection, error)
}

// NewConsumer creates a Consumer.
func NewConsumer(cfg ConsumerConfig, handler *Handler, log zerolog.Logger) *Consumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = DefaultPrefetch
	}
	return &Consumer{
		cfg:     cfg,
		handler: handler,
		log:     log.With().Str("component", "events").Str("queue", cfg.Queue).Logger(),
		dial:    amqp.Dial,
	}
}

// Run consumes until ctx is done, reconnecting with backoff whenever the
// broker connection drops. It returns nil on shutdown.
func (c *Consumer) Run(ctx context.Context) error {
	policy := retry.ReconnectConfig.WithOnRetry(func(attempt int, err error, wait time.Duration) {
		c.log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("Broker not reachable, retrying")
	})

	for {
		conn, err := retry.DoWithResult(ctx, func() (*amqp.Connection, error) {
			return c.dial(c.cfg.URL)
		}, policy)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("connect to broker: %w", err)
		}

		c.log.Info().Msg("Event consumer connected")
		err = c.consume(ctx, conn)
		_ = conn.Close()

		if ctx.Err() != nil {
			c.log.Info().Msg("Event consumer stopped")
			return nil
		}
		c.log.Warn().Err(err).Msg("Event consumer disconnected, reconnecting")
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(c.cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(c.cfg.Queue, BindingKey, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		c.log.Warn().Err(err).Msg("Failed to set QoS")
	}

	tag := "ticket-inventory-" + uuid.NewString()
	msgs, err := ch.Consume(c.cfg.Queue, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.dispatch(ctx, d)
		}
	}
}

// dispatch handles one delivery and settles it. Malformed payloads are
// dropped. Failed invalidations are requeued once, then dropped.
func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery) {
	hctx, cancel := context.WithTimeout(ctx, DefaultHandleTimeout)
	defer cancel()

	err := c.handler.Handle(hctx, d.Body)
	if err == nil {
		_ = d.Ack(false)
		return
	}

	requeue := !retry.IsPermanent(err) && !d.Redelivered
	c.log.Error().
		Err(err).
		Str("routing_key", d.RoutingKey).
		Bool("requeue", requeue).
		Msg("Failed to handle ticket event")
	_ = d.Nack(false, requeue)
}
