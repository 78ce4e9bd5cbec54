package models

import "time"

// SelectShowRequest puts a show into the session cart
type SelectShowRequest struct {
	ShowID string `json:"show_id" binding:"required"`
}

// ToggleSeatRequest adds or removes a seat from the session cart
type ToggleSeatRequest struct {
	SeatID string `json:"seat_id" binding:"required"`
}

// SetSnackRequest upserts a snack line; quantity <= 0 removes the line
type SetSnackRequest struct {
	SnackID  string `json:"snack_id" binding:"required"`
	Quantity int    `json:"quantity"`
}

// CreateOrderRequest commits the session cart into an order
type CreateOrderRequest struct {
	PaymentRef string `json:"payment_ref" binding:"required"`
}

// AdvanceOrderRequest moves an order forward in its lifecycle (staff only)
type AdvanceOrderRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// CreateUserRequest provisions an account (staff only)
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	IsStaff   bool   `json:"is_staff"`
}

// CartSnackLine is a snack line as displayed in the cart
type CartSnackLine struct {
	SnackID   string `json:"snack_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// CartResponse is the full cart view with derived totals
type CartResponse struct {
	State         string          `json:"state"`
	Show          *Show           `json:"show,omitempty"`
	Seats         []Seat          `json:"seats"`
	Snacks        []CartSnackLine `json:"snacks"`
	SeatSubtotal  int64           `json:"seat_subtotal"`
	SnackSubtotal int64           `json:"snack_subtotal"`
	Total         int64           `json:"total"`
}

// TicketResponse is the client-facing ticket record returned after commit
type TicketResponse struct {
	OrderID    string    `json:"order_id"`
	ShowID     string    `json:"show_id"`
	ShowTime   time.Time `json:"show_time"`
	Screen     string    `json:"screen,omitempty"`
	MovieTitle string    `json:"movie_title,omitempty"`
	SeatLabels []string  `json:"seat_labels"`
	Total      int64     `json:"total"`
	PaymentRef string    `json:"payment_ref"`
	Status     string    `json:"status"`
}

// OrderSummary is one row of the staff dashboard snapshot
type OrderSummary struct {
	OrderID     string    `json:"order_id"`
	ShowID      string    `json:"show_id"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"total_amount"`
	SeatLabels  []string  `json:"seat_labels"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListSeatsResponseItem is one seat in the availability listing
type ListSeatsResponseItem struct {
	ID         string `json:"id"`
	SeatNumber string `json:"seat_number"`
	IsBooked   bool   `json:"is_booked"`
}
