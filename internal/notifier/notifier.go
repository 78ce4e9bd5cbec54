// Package notifier publishes order change events to NATS Streaming.
// Delivery is at-least-once: the broker redelivers until a consumer
// acks, and consumers tolerate duplicates. Publishing is kept off the
// booking commit path; a failed publish is logged, and the staff view
// falls back to the Postgres snapshot.
package notifier

import (
	"log/slog"
	"time"

	"marquee/internal/models"
)

// Publisher is the broker-facing surface the notifier needs.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

type Notifier struct {
	publisher Publisher
	log       *slog.Logger
}

func New(publisher Publisher, log *slog.Logger) *Notifier {
	return &Notifier{publisher: publisher, log: log}
}

// OrderCreated announces a freshly committed booking.
func (n *Notifier) OrderCreated(order *models.Order) {
	n.publish(models.EventOrderCreated, order)
}

// OrderStatusChanged announces a lifecycle advance.
func (n *Notifier) OrderStatusChanged(order *models.Order) {
	n.publish(models.EventOrderStatusChanged, order)
}

func (n *Notifier) publish(subject string, order *models.Order) {
	event := models.OrderChangedEvent{
		OrderID:     order.ID,
		ShowID:      order.ShowID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		SeatLabels:  order.SeatLabels,
		Timestamp:   time.Now(),
	}

	if err := n.publisher.Publish(subject, event); err != nil {
		n.log.Error("Failed to publish order event",
			"subject", subject, "order_id", order.ID, "error", err)
		return
	}

	n.log.Debug("Published order event", "subject", subject, "order_id", order.ID)
}
