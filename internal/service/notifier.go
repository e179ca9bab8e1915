package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type NotificationEvent string

const (
	EventBookingConflictCancelled NotificationEvent = "BOOKING_CONFLICT_CANCELLED"
	EventBookingAccepted          NotificationEvent = "BOOKING_ACCEPTED"
	EventBookingCancelled         NotificationEvent = "BOOKING_CANCELLED"
	EventBookingCompleted         NotificationEvent = "BOOKING_COMPLETED"
)

// Notification is one lifecycle event addressed to a single user.
type Notification struct {
	UserID     uuid.UUID         `json:"user_id"`
	Event      NotificationEvent `json:"event"`
	Message    string            `json:"message"`
	BookingID  uuid.UUID         `json:"booking_id"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// RoutingKey maps an event to its topic key, e.g. booking.conflict_cancelled.
func (n Notification) RoutingKey() string {
	return "booking." + strings.ToLower(strings.TrimPrefix(string(n.Event), "BOOKING_"))
}

// Notifier hands events to the notification service. Delivery is best-effort:
// callers log a returned error and carry on.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// EventPublisher is satisfied by messaging.Publisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type amqpNotifier struct {
	publisher EventPublisher
	log       *logrus.Logger
}

func NewAMQPNotifier(publisher EventPublisher, log *logrus.Logger) Notifier {
	return &amqpNotifier{publisher: publisher, log: log}
}

func (n *amqpNotifier) Notify(ctx context.Context, notification Notification) error {
	if notification.OccurredAt.IsZero() {
		notification.OccurredAt = time.Now().UTC()
	}
	if err := n.publisher.PublishJSON(ctx, notification.RoutingKey(), notification); err != nil {
		return err
	}
	n.log.WithFields(logrus.Fields{
		"event":      notification.Event,
		"booking_id": notification.BookingID,
		"user_id":    notification.UserID,
	}).Debug("Notification published")
	return nil
}

type logNotifier struct {
	log *logrus.Logger
}

// NewLogNotifier is used when no broker is configured.
func NewLogNotifier(log *logrus.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Notify(ctx context.Context, notification Notification) error {
	n.log.WithFields(logrus.Fields{
		"event":      notification.Event,
		"booking_id": notification.BookingID,
		"user_id":    notification.UserID,
	}).Info(notification.Message)
	return nil
}
