package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Deliverer turns a queued confirmation email into an actual delivery.
type Deliverer interface {
	Deliver(ctx context.Context, msg ConfirmationEmail) error
}

// Consumer drains the confirmation-email queue. It runs a reconnect loop
// with capped backoff until the context is cancelled, so a broker restart
// does not take the worker down with it.
type Consumer struct {
	url       string
	queue     string
	deliverer Deliverer
	logger    *slog.Logger
}

func NewConsumer(url, queue string, deliverer Deliverer, logger *slog.Logger) *Consumer {
	return &Consumer{url: url, queue: queue, deliverer: deliverer, logger: logger}
}

func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Error("email consumer: dial failed", "error", err, "retry_in", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := c.consumeLoop(ctx, conn); err != nil {
			c.logger.Error("email consumer: consume loop ended", "error", err)
		}
		_ = conn.Close()
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
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
			if err := c.handle(ctx, d.Body); err != nil {
				c.logger.Error("email consumer: delivery failed", "error", err)
				// Reject without requeue, a poison message would loop forever.
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, body []byte) error {
	var msg ConfirmationEmail
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return c.deliverer.Deliver(ctx, msg)
}

// LogDeliverer writes the rendered email to the log. It stands in for a real
// SMTP integration in development deployments.
type LogDeliverer struct {
	Logger *slog.Logger
}

func (d *LogDeliverer) Deliver(ctx context.Context, msg ConfirmationEmail) error {
	d.Logger.Info("confirmation email delivered",
		"email", msg.Email,
		"username", msg.Username,
		"code", msg.Code,
		"sent_at", msg.SentAt,
	)
	return nil
}
