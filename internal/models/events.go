package models

import "time"

// NATS subjects published by the change notifier
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderChangedEvent is the payload for both order subjects. Per-order
// ordering of status values follows commit order because the lifecycle
// only moves forward.
type OrderChangedEvent struct {
	OrderID     string    `json:"order_id"`
	ShowID      string    `json:"show_id"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"total_amount"`
	SeatLabels  []string  `json:"seat_labels"`
	Timestamp   time.Time `json:"timestamp"`
}
