// Package cart holds a session's in-progress selection: one show, the
// chosen seats, and snack quantities. It is pure in-memory bookkeeping:
// availability shown here is advisory, the authoritative check happens
// inside the booking coordinator at commit time.
package cart

import (
	"sync"

	apperrors "marquee/internal/errors"
	"marquee/internal/models"
)

// Cart states, derived from content rather than stored.
const (
	StateEmpty          = "Empty"
	StateShowSelected   = "ShowSelected"
	StateSeatsSelected  = "SeatsSelected"
	StateSnacksAdjusted = "SnacksAdjusted"
)

// SnackLine is one snack entry. Quantity is always >= 1; a line with
// quantity <= 0 is removed, never stored.
type SnackLine struct {
	SnackID   string
	Name      string
	UnitPrice int64
	Quantity  int
}

// Cart is a single session's selection. Methods are safe for the
// occasional concurrent request from the same session; cross-session
// synchronization is not needed because carts are never shared.
type Cart struct {
	mu        sync.Mutex
	sessionID string
	seatPrice int64

	show   *models.Show
	seats  []models.Seat
	snacks []SnackLine
}

// Snapshot is the value handed to the booking coordinator at commit
// time. It is a deep copy: the coordinator never mutates the live cart
// except through Clear on success.
type Snapshot struct {
	SessionID     string
	Show          *models.Show
	Seats         []models.Seat
	Snacks        []SnackLine
	SeatSubtotal  int64
	SnackSubtotal int64
	Total         int64
}

func newCart(sessionID string, seatPrice int64) *Cart {
	return &Cart{sessionID: sessionID, seatPrice: seatPrice}
}

// SelectShow sets the cart's show. Selecting a different show clears all
// previously selected seats: seats are only ever valid against the
// currently selected show.
func (c *Cart) SelectShow(show models.Show) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.show != nil && c.show.ID != show.ID {
		c.seats = nil
	}
	s := show
	c.show = &s
}

// ToggleSeat adds the seat to the selection, or removes it when already
// selected. Seats from another show are rejected, and adding a seat that
// the last inventory read showed as booked fails fast; both checks are
// advisory only.
func (c *Cart) ToggleSeat(seat models.Seat) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.show == nil || seat.ShowID != c.show.ID {
		return apperrors.ErrShowMismatch
	}

	for i, s := range c.seats {
		if s.ID == seat.ID {
			c.seats = append(c.seats[:i], c.seats[i+1:]...)
			return nil
		}
	}

	if seat.IsBooked {
		return apperrors.ErrSeatAlreadyBooked
	}

	c.seats = append(c.seats, seat)
	return nil
}

// SetSnackQuantity upserts a snack line. Quantity <= 0 removes the line.
func (c *Cart) SetSnackQuantity(snack models.Snack, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, line := range c.snacks {
		if line.SnackID == snack.ID {
			if quantity <= 0 {
				c.snacks = append(c.snacks[:i], c.snacks[i+1:]...)
			} else {
				c.snacks[i].Quantity = quantity
			}
			return
		}
	}

	if quantity <= 0 {
		return
	}
	c.snacks = append(c.snacks, SnackLine{
		SnackID:   snack.ID,
		Name:      snack.Name,
		UnitPrice: snack.Price,
		Quantity:  quantity,
	})
}

// Totals recomputes (seatSubtotal, snackSubtotal, total) from the current
// seat and snack sets. Nothing is cached.
func (c *Cart) Totals() (int64, int64, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalsLocked()
}

func (c *Cart) totalsLocked() (int64, int64, int64) {
	seatSubtotal := int64(len(c.seats)) * c.seatPrice
	var snackSubtotal int64
	for _, line := range c.snacks {
		snackSubtotal += line.UnitPrice * int64(line.Quantity)
	}
	return seatSubtotal, snackSubtotal, seatSubtotal + snackSubtotal
}

// State derives the cart's position in the selection flow.
func (c *Cart) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.show == nil:
		return StateEmpty
	case len(c.seats) == 0:
		return StateShowSelected
	case len(c.snacks) == 0:
		return StateSeatsSelected
	default:
		return StateSnacksAdjusted
	}
}

// Reset clears show, seats, and snacks unconditionally.
func (c *Cart) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.show = nil
	c.seats = nil
	c.snacks = nil
}

// Snapshot returns a deep copy of the cart's current contents together
// with the derived totals.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{SessionID: c.sessionID}
	if c.show != nil {
		show := *c.show
		snap.Show = &show
	}
	snap.Seats = append([]models.Seat(nil), c.seats...)
	snap.Snacks = append([]SnackLine(nil), c.snacks...)
	snap.SeatSubtotal, snap.SnackSubtotal, snap.Total = c.totalsLocked()
	return snap
}

// View builds the API representation of the cart.
func (c *Cart) View() models.CartResponse {
	snap := c.Snapshot()

	resp := models.CartResponse{
		State:         c.State(),
		Show:          snap.Show,
		Seats:         snap.Seats,
		Snacks:        make([]models.CartSnackLine, len(snap.Snacks)),
		SeatSubtotal:  snap.SeatSubtotal,
		SnackSubtotal: snap.SnackSubtotal,
		Total:         snap.Total,
	}
	if resp.Seats == nil {
		resp.Seats = []models.Seat{}
	}
	for i, line := range snap.Snacks {
		resp.Snacks[i] = models.CartSnackLine{
			SnackID:   line.SnackID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		}
	}
	return resp
}
