// Package notify publishes outbound notification events to RabbitMQ for a
// downstream mailer to deliver. Publishing is fire-and-forget: failures are
// logged and swallowed so that notification delivery can never change the
// outcome of the request that triggered it.
package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Queue names, one per event kind.
const (
	QueuePasswordReset  = "mail.password_reset"
	QueueInquiryCreated = "mail.inquiry_created"
)

// PasswordResetEvent asks the mailer to send a reset link.
type PasswordResetEvent struct {
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	ResetToken string    `json:"reset_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// InquiryCreatedEvent alerts a farmer about a new customer inquiry.
type InquiryCreatedEvent struct {
	InquiryID     string `json:"inquiry_id"`
	FarmerID      string `json:"farmer_id"`
	FarmName      string `json:"farm_name"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Message       string `json:"message"`
}

// Notifier is the outbound notification boundary.
type Notifier interface {
	PublishPasswordReset(ctx context.Context, event PasswordResetEvent)
	PublishInquiryCreated(ctx context.Context, event InquiryCreatedEvent)
}

// AMQPNotifier publishes events to RabbitMQ. A connection is dialed per
// publish; the broker being down only costs a log line.
type AMQPNotifier struct {
	url    string
	logger *zap.Logger
}

// NewAMQPNotifier creates a notifier targeting the given AMQP URL.
func NewAMQPNotifier(url string, logger *zap.Logger) *AMQPNotifier {
	return &AMQPNotifier{url: url, logger: logger}
}

var _ Notifier = (*AMQPNotifier)(nil)

// PublishPasswordReset enqueues a password reset mail event.
func (n *AMQPNotifier) PublishPasswordReset(ctx context.Context, event PasswordResetEvent) {
	n.publish(ctx, QueuePasswordReset, event)
}

// PublishInquiryCreated enqueues a new-inquiry alert event.
func (n *AMQPNotifier) PublishInquiryCreated(ctx context.Context, event InquiryCreatedEvent) {
	n.publish(ctx, QueueInquiryCreated, event)
}

func (n *AMQPNotifier) publish(ctx context.Context, queue string, event interface{}) {
	conn, err := amqp.Dial(n.url)
	if err != nil {
		n.logger.Warn("notify: dial failed", zap.String("queue", queue), zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		n.logger.Warn("notify: channel open failed", zap.String("queue", queue), zap.Error(err))
		return
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		n.logger.Warn("notify: queue declare failed", zap.String("queue", queue), zap.Error(err))
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("notify: marshal failed", zap.String("queue", queue), zap.Error(err))
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		n.logger.Warn("notify: publish failed", zap.String("queue", queue), zap.Error(err))
	}
}

// NopNotifier discards all events. Used in tests and when no broker is
// configured.
type NopNotifier struct{}

var _ Notifier = NopNotifier{}

func (NopNotifier) PublishPasswordReset(context.Context, PasswordResetEvent)   {}
func (NopNotifier) PublishInquiryCreated(context.Context, InquiryCreatedEvent) {}
