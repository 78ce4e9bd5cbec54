package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"marquee/internal/cart"
	"marquee/internal/config"
	apperrors "marquee/internal/errors"
	"marquee/internal/lock"
	"marquee/internal/logger"
	"marquee/internal/metrics"
	"marquee/internal/models"
)

// BookingService is the transaction coordinator: it turns a cart
// snapshot into a committed order or leaves no trace at all.
type BookingService struct {
	orders    OrderStore
	catalog   CatalogStore
	carts     *cart.Store
	locks     *lock.ShowLocks
	notifier  ChangeNotifier
	seatCache SeatCache
	search    OrderSearch
	metrics   *metrics.Metrics
	cfg       config.BookingConfig
}

func NewBookingService(orders OrderStore, catalog CatalogStore, carts *cart.Store,
	locks *lock.ShowLocks, notifier ChangeNotifier, seatCache SeatCache,
	search OrderSearch, m *metrics.Metrics, cfg config.BookingConfig) *BookingService {

	return &BookingService{
		orders:    orders,
		catalog:   catalog,
		carts:     carts,
		locks:     locks,
		notifier:  notifier,
		seatCache: seatCache,
		search:    search,
		metrics:   m,
		cfg:       cfg,
	}
}

// Commit books the snapshot's seats and snacks as one order. Totals are
// recomputed server-side from current catalog prices; anything the
// client sent is ignored. On any failure the cart is left intact so the
// session can retry or adjust.
func (s *BookingService) Commit(ctx context.Context, userID int64, snap cart.Snapshot, paymentRef string) (*models.Order, error) {
	log := logger.WithComponent("booking")

	if err := s.validate(userID, snap, paymentRef); err != nil {
		s.countOutcome(metrics.BookingOutcomeInvalid)
		return nil, err
	}

	seatIDs := make([]string, len(snap.Seats))
	for i, seat := range snap.Seats {
		seatIDs[i] = seat.ID
	}

	total, items, err := s.price(ctx, snap)
	if err != nil {
		s.countOutcome(metrics.BookingOutcomeInvalid)
		return nil, err
	}

	lockStart := time.Now()
	release, err := s.locks.Acquire(ctx, snap.Show.ID, s.cfg.ClaimLockTimeout)
	if err != nil {
		s.countOutcome(metrics.BookingOutcomeLockTimeout)
		return nil, err
	}
	defer release()
	s.observeLockWait(time.Since(lockStart))

	order := &models.Order{
		ID:          uuid.New().String(),
		ShowID:      snap.Show.ID,
		UserID:      userID,
		TotalAmount: total,
		PaymentRef:  paymentRef,
		Status:      models.OrderStatusConfirmed,
		Items:       items,
	}

	if err := s.orders.CreateWithClaims(ctx, order, seatIDs, items); err != nil {
		switch {
		case apperrors.IsConflict(err):
			s.countOutcome(metrics.BookingOutcomeConflict)
			log.Info("Booking rejected on seat conflict",
				"show_id", snap.Show.ID, "seats", len(seatIDs), "error", err)
			return nil, fmt.Errorf("%w: %s", apperrors.ErrSeatsUnavailable, err)
		default:
			s.countOutcome(metrics.BookingOutcomeError)
			return nil, err
		}
	}

	// The order exists; everything below is best-effort cleanup and
	// fan-out, never a reason to fail the commit.
	s.carts.Clear(snap.SessionID)

	if s.seatCache != nil {
		if err := s.seatCache.InvalidateSeats(ctx, snap.Show.ID); err != nil {
			log.Warn("Failed to invalidate seat cache", "show_id", snap.Show.ID, "error", err)
		}
	}

	if s.notifier != nil {
		go s.notifier.OrderCreated(order)
	}

	s.countOutcome(metrics.BookingOutcomeSuccess)
	log.Info("Booking committed",
		"order_id", order.ID, "show_id", order.ShowID,
		"seats", len(seatIDs), "total", order.TotalAmount)

	return order, nil
}

func (s *BookingService) validate(userID int64, snap cart.Snapshot, paymentRef string) error {
	if userID <= 0 {
		return fmt.Errorf("%w: missing purchasing user", apperrors.ErrInvalidCart)
	}
	if snap.Show == nil || len(snap.Seats) == 0 {
		return fmt.Errorf("%w: cart has no show or no seats", apperrors.ErrInvalidCart)
	}
	if paymentRef == "" {
		return fmt.Errorf("%w: empty payment reference", apperrors.ErrPaymentRefInvalid)
	}
	if s.cfg.MaxPaymentRefLen > 0 && len(paymentRef) > s.cfg.MaxPaymentRefLen {
		return fmt.Errorf("%w: payment reference too long", apperrors.ErrPaymentRefInvalid)
	}

	seen := make(map[string]bool, len(snap.Seats))
	for _, seat := range snap.Seats {
		if seat.ShowID != snap.Show.ID {
			return fmt.Errorf("%w: seat %s", apperrors.ErrShowMismatch, seat.ID)
		}
		if seen[seat.ID] {
			return fmt.Errorf("%w: duplicate seat %s", apperrors.ErrInvalidCart, seat.ID)
		}
		seen[seat.ID] = true
	}
	return nil
}

// price recomputes the order total from current catalog data. Cart
// prices are display values only.
func (s *BookingService) price(ctx context.Context, snap cart.Snapshot) (int64, []models.OrderItem, error) {
	total := int64(len(snap.Seats)) * s.cfg.SeatPrice

	if len(snap.Snacks) == 0 {
		return total, nil, nil
	}

	ids := make([]string, len(snap.Snacks))
	for i, line := range snap.Snacks {
		ids[i] = line.SnackID
	}
	snacks, err := s.catalog.GetSnacksByIDs(ctx, ids)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: load snacks: %v", apperrors.ErrPersistence, err)
	}

	items := make([]models.OrderItem, 0, len(snap.Snacks))
	for _, line := range snap.Snacks {
		snack, ok := snacks[line.SnackID]
		if !ok {
			return 0, nil, fmt.Errorf("%w: unknown snack %s", apperrors.ErrInvalidCart, line.SnackID)
		}
		if line.Quantity <= 0 {
			return 0, nil, fmt.Errorf("%w: non-positive quantity for snack %s", apperrors.ErrInvalidCart, line.SnackID)
		}
		total += snack.Price * int64(line.Quantity)
		items = append(items, models.OrderItem{SnackID: line.SnackID, Quantity: line.Quantity})
	}

	return total, items, nil
}

// GetOrder returns a single order for ticket display.
func (s *BookingService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.ErrOrderNotFound
	}
	return order, nil
}

// Ticket builds the client-facing ticket record for an order.
func (s *BookingService) Ticket(ctx context.Context, order *models.Order) (*models.TicketResponse, error) {
	resp := &models.TicketResponse{
		OrderID:    order.ID,
		ShowID:     order.ShowID,
		SeatLabels: order.SeatLabels,
		Total:      order.TotalAmount,
		PaymentRef: order.PaymentRef,
		Status:     order.Status,
	}

	show, err := s.catalog.GetShow(ctx, order.ShowID)
	if err == nil && show != nil {
		resp.ShowTime = show.ShowTime
		resp.Screen = show.Screen
		resp.MovieTitle = show.MovieTitle
	}

	return resp, nil
}

// Snapshot serves the staff dashboard: the search index when available,
// Postgres otherwise. The fallback keeps the dashboard correct while
// consumers catch up or the index is down.
func (s *BookingService) Snapshot(ctx context.Context, showID *string) ([]models.OrderSummary, error) {
	if s.search != nil {
		filter := ""
		if showID != nil {
			filter = *showID
		}
		docs, err := s.search.Search(ctx, filter, 100)
		if err == nil {
			summaries := make([]models.OrderSummary, len(docs))
			for i, doc := range docs {
				summaries[i] = models.OrderSummary{
					OrderID:     doc.OrderID,
					ShowID:      doc.ShowID,
					Status:      doc.Status,
					TotalAmount: doc.TotalAmount,
					SeatLabels:  doc.SeatLabels,
					CreatedAt:   doc.CreatedAt,
				}
			}
			return summaries, nil
		}
		logger.WithComponent("booking").Warn("Search snapshot failed, falling back to database", "error", err)
	}

	orders, err := s.orders.List(ctx, showID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.OrderSummary, len(orders))
	for i, order := range orders {
		summaries[i] = models.OrderSummary{
			OrderID:     order.ID,
			ShowID:      order.ShowID,
			Status:      order.Status,
			TotalAmount: order.TotalAmount,
			SeatLabels:  order.SeatLabels,
			CreatedAt:   order.CreatedAt,
		}
	}
	return summaries, nil
}

func (s *BookingService) countOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *BookingService) observeLockWait(d time.Duration) {
	if s.metrics != nil {
		s.metrics.ClaimLockWait.Observe(d.Seconds())
	}
}
