// Package service implements the booking engine behind the HTTP layer:
// seat inventory reads, the atomic booking commit, and the forward-only
// order lifecycle.
package service

import (
	"context"

	"marquee/internal/cart"
	"marquee/internal/config"
	"marquee/internal/lock"
	"marquee/internal/metrics"
	"marquee/internal/models"
	"marquee/internal/repository"
)

// OrderStore is the persistence surface the booking coordinator needs.
type OrderStore interface {
	CreateWithClaims(ctx context.Context, order *models.Order, seatIDs []string, items []models.OrderItem) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, showID *string) ([]models.Order, error)
	AdvanceStatus(ctx context.Context, orderID, target string) (*models.Order, error)
}

// CatalogStore resolves shows and snacks for listings, validation, and
// commit-time re-pricing.
type CatalogStore interface {
	ListShows(ctx context.Context) ([]models.Show, error)
	GetShow(ctx context.Context, id string) (*models.Show, error)
	ListSnacks(ctx context.Context) ([]models.Snack, error)
	GetSnack(ctx context.Context, id string) (*models.Snack, error)
	GetSnacksByIDs(ctx context.Context, ids []string) (map[string]models.Snack, error)
}

// SeatStore reads seat inventory.
type SeatStore interface {
	ListByShow(ctx context.Context, showID string) ([]models.Seat, error)
	GetByID(ctx context.Context, id string) (*models.Seat, error)
}

// ChangeNotifier fans order changes out to downstream consumers.
type ChangeNotifier interface {
	OrderCreated(order *models.Order)
	OrderStatusChanged(order *models.Order)
}

// SeatCache invalidates the cached seat map after bookings.
type SeatCache interface {
	InvalidateSeats(ctx context.Context, showID string) error
}

// OrderSearch serves the staff snapshot from the denormalized index.
type OrderSearch interface {
	Search(ctx context.Context, showID string, size int) ([]models.OrderDocument, error)
}

// UserStore is the account surface behind profiles and staff provisioning.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type Services struct {
	Seats     *SeatService
	Booking   *BookingService
	Lifecycle *LifecycleService
	Users     *UsersService
}

func NewServices(repos *repository.Repositories, carts *cart.Store, locks *lock.ShowLocks,
	notifier ChangeNotifier, seatCache SeatCache, search OrderSearch,
	m *metrics.Metrics, cfg config.BookingConfig) *Services {

	return &Services{
		Seats:     NewSeatService(repos.Seats, repos.Catalog),
		Booking:   NewBookingService(repos.Orders, repos.Catalog, carts, locks, notifier, seatCache, search, m, cfg),
		Lifecycle: NewLifecycleService(repos.Orders, notifier),
		Users:     NewUsersService(repos.Users),
	}
}
