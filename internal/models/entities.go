package models

import (
	"time"
)

// Order status values. Transitions are forward-only; see StatusRank.
const (
	OrderStatusConfirmed = "Confirmed"
	OrderStatusPreparing = "Preparing"
	OrderStatusReady     = "Ready"
)

var statusRanks = map[string]int{
	OrderStatusConfirmed: 0,
	OrderStatusPreparing: 1,
	OrderStatusReady:     2,
}

// StatusRank returns the position of a status in the lifecycle, or -1 for
// an unknown status. A transition is legal only when the target rank is
// strictly greater than the current one.
func StatusRank(status string) int {
	rank, ok := statusRanks[status]
	if !ok {
		return -1
	}
	return rank
}

// User represents an authenticated account. Staff accounts may drive the
// order lifecycle; regular accounts may only purchase.
type User struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	Surname      string    `json:"surname" db:"surname"`
	IsStaff      bool      `json:"is_staff" db:"is_staff"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
	LastLoggedIn time.Time `json:"last_logged_in" db:"last_logged_in"`
}

// Actor is the identity attached to a request by the auth middleware.
type Actor struct {
	UserID  int64
	IsStaff bool
}

// Show is a scheduled screening: one movie, one screen, a fixed seat set.
type Show struct {
	ID         string    `json:"id" db:"id"`
	MovieID    string    `json:"movie_id" db:"movie_id"`
	MovieTitle string    `json:"movie_title" db:"movie_title"`
	ShowTime   time.Time `json:"show_time" db:"show_time"`
	Screen     string    `json:"screen" db:"screen"`
}

// Seat is a bookable unit belonging to exactly one show. is_booked flips
// only inside the booking coordinator's transaction.
type Seat struct {
	ID         string `json:"id" db:"id"`
	ShowID     string `json:"show_id" db:"show_id"`
	SeatNumber string `json:"seat_number" db:"seat_number"`
	IsBooked   bool   `json:"is_booked" db:"is_booked"`
}

// Snack is a concession catalog entry. Price is in whole currency units;
// snacks carry no inventory constraint.
type Snack struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Price    int64   `json:"price" db:"price"`
	Category *string `json:"category,omitempty" db:"category"`
	ImageURL *string `json:"image_url,omitempty" db:"image_url"`
}

// Order is a committed purchase. Its seat claims are fixed at creation
// and never modified afterward.
type Order struct {
	ID          string    `json:"id" db:"id"`
	ShowID      string    `json:"show_id" db:"show_id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	TotalAmount int64     `json:"total_amount" db:"total_amount"`
	PaymentRef  string    `json:"payment_ref" db:"payment_ref"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Filled by joins, not stored on the orders row.
	SeatLabels []string    `json:"seat_labels,omitempty"`
	Items      []OrderItem `json:"items,omitempty"`
}

// OrderItem is a snack line on an order. Purely informational.
type OrderItem struct {
	SnackID  string `json:"snack_id" db:"snack_id"`
	Quantity int    `json:"quantity" db:"quantity"`
}

// OrderDocument is the Elasticsearch projection of an order used by the
// staff dashboard snapshot.
type OrderDocument struct {
	OrderID     string    `json:"order_id"`
	ShowID      string    `json:"show_id"`
	UserID      int64     `json:"user_id"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"total_amount"`
	SeatLabels  []string  `json:"seat_labels"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Document builds the search projection for an order.
func (o *Order) Document() *OrderDocument {
	return &OrderDocument{
		OrderID:     o.ID,
		ShowID:      o.ShowID,
		UserID:      o.UserID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		SeatLabels:  o.SeatLabels,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
