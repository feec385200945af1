package notifier

import (
	"context"
	"encoding/json"

	"github.com/Shopify/sarama"

	"github.com/azizrestaurant/restaurant-platform/pkg/circuitbreaker"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
	"github.com/azizrestaurant/restaurant-platform/pkg/retry"
)

// EmailHandler consumes notification events and sends the corresponding
// emails. Email is best-effort end to end: a message that cannot be rendered
// or delivered is logged and acknowledged, never redelivered.
type EmailHandler struct {
	mailer  Mailer
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
	logger  logger.Logger
}

// NewEmailHandler creates a handler sending through the given mailer
func NewEmailHandler(mailer Mailer, breaker *circuitbreaker.CircuitBreaker, log logger.Logger) *EmailHandler {
	return &EmailHandler{
		mailer:  mailer,
		breaker: breaker,
		retry: retry.Config{
			MaxAttempts:     3,
			BackoffStrategy: retry.NewDefaultExponentialBackoff(),
			Logger:          log,
		},
		logger: log,
	}
}

// HandleMessage implements kafka.MessageHandler
func (h *EmailHandler) HandleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("Dropping malformed notification event", "error", err, "offset", msg.Offset)
		return nil
	}

	subject, body, err := renderEmail(&event)
	if err != nil {
		h.logger.Error("Dropping unrenderable notification event",
			"error", err, "type", event.Type, "recipient", event.Recipient.Email)
		return nil
	}

	if !h.breaker.Allow() {
		h.logger.Warn("Email circuit open, dropping notification",
			"type", event.Type, "recipient", event.Recipient.Email)
		return nil
	}

	err = retry.Do(ctx, func() error {
		return h.mailer.Send(event.Recipient.Email, subject, body)
	}, &h.retry)

	if err != nil {
		h.breaker.Failure()
		h.logger.Error("Failed to send notification email",
			"error", err, "type", event.Type, "recipient", event.Recipient.Email)
		return nil
	}

	h.breaker.Success()
	h.logger.Info("Notification email sent", "type", event.Type, "recipient", event.Recipient.Email)
	return nil
}
