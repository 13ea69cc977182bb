// Package mailer delivers signup confirmation codes. Delivery is an event
// published to a durable queue; a log-only fallback keeps local development
// working without a broker.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"reviewhub/internal/config"
)

type Mailer interface {
	SendConfirmationCode(ctx context.Context, email, username, code string) error
}

// ConfirmationEmail is the message consumed by the email worker.
type ConfirmationEmail struct {
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Code     string    `json:"code"`
	SentAt   time.Time `json:"sent_at"`
}

// New picks the AMQP publisher when a broker URL is configured and falls
// back to logging the code otherwise.
func New(cfg *config.Config, logger *slog.Logger) Mailer {
	if cfg.AMQPURL != "" {
		return &AMQPMailer{url: cfg.AMQPURL, queue: cfg.EmailQueue, logger: logger}
	}
	logger.Warn("AMQP_URL not set, confirmation codes will only be logged")
	return &LogMailer{logger: logger}
}

// AMQPMailer publishes confirmation emails to a durable queue. A connection
// per publish keeps the implementation robust against broker restarts; the
// signup endpoint is rate limited so the overhead is acceptable.
type AMQPMailer struct {
	url    string
	queue  string
	logger *slog.Logger
}

func (m *AMQPMailer) SendConfirmationCode(ctx context.Context, email, username, code string) error {
	conn, err := amqp.Dial(m.url)
	if err != nil {
		m.logger.Error("mailer: dial failed", "error", err)
		return fmt.Errorf("mailer dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		m.logger.Error("mailer: channel open failed", "error", err)
		return fmt.Errorf("mailer channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so codes survive broker restarts.
	if _, err := ch.QueueDeclare(m.queue, true, false, false, false, nil); err != nil {
		m.logger.Error("mailer: queue declare failed", "error", err)
		return fmt.Errorf("mailer queue declare: %w", err)
	}

	body, err := json.Marshal(ConfirmationEmail{
		Email:    email,
		Username: username,
		Code:     code,
		SentAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("mailer marshal: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", m.queue, false, false, pub); err != nil {
		m.logger.Error("mailer: publish failed", "error", err)
		return fmt.Errorf("mailer publish: %w", err)
	}

	m.logger.Info("confirmation code queued", "email", email, "queue", m.queue)
	return nil
}

// LogMailer writes the code to the log instead of sending anything.
type LogMailer struct {
	logger *slog.Logger
}

func (m *LogMailer) SendConfirmationCode(ctx context.Context, email, username, code string) error {
	m.logger.Info("confirmation code issued", "email", email, "username", username, "code", code)
	return nil
}
