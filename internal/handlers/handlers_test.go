package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marquee/internal/cart"
	"marquee/internal/config"
	apperrors "marquee/internal/errors"
	"marquee/internal/lock"
	"marquee/internal/metrics"
	"marquee/internal/middleware"
	"marquee/internal/models"
	"marquee/internal/service"
)

type fakeStore struct {
	mu     sync.Mutex
	booked map[string]bool
	orders map[string]*models.Order
	seats  map[string]models.Seat
	shows  map[string]models.Show
	snacks map[string]models.Snack
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		booked: make(map[string]bool),
		orders: make(map[string]*models.Order),
		seats: map[string]models.Seat{
			"A1": {ID: "A1", ShowID: "show-1", SeatNumber: "A1"},
			"A2": {ID: "A2", ShowID: "show-1", SeatNumber: "A2"},
			"B1": {ID: "B1", ShowID: "show-2", SeatNumber: "B1"},
		},
		shows: map[string]models.Show{
			"show-1": {ID: "show-1", MovieID: "m1", MovieTitle: "Test Movie", ShowTime: time.Now().Add(time.Hour), Screen: "1"},
			"show-2": {ID: "show-2", MovieID: "m1", MovieTitle: "Test Movie", ShowTime: time.Now().Add(2 * time.Hour), Screen: "2"},
		},
		snacks: map[string]models.Snack{
			"popcorn": {ID: "popcorn", Name: "Popcorn", Price: 150},
		},
	}
}

func (f *fakeStore) CreateWithClaims(ctx context.Context, order *models.Order, seatIDs []string, items []models.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, id := range seatIDs {
		if f.booked[id] {
			return fmt.Errorf("seat %s: %w", id, apperrors.ErrSeatAlreadyBooked)
		}
	}
	for _, id := range seatIDs {
		f.booked[id] = true
		order.SeatLabels = append(order.SeatLabels, id)
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	clone := *order
	return &clone, nil
}

func (f *fakeStore) List(ctx context.Context, showID *string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var orders []models.Order
	for _, order := range f.orders {
		if showID != nil && order.ShowID != *showID {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (f *fakeStore) AdvanceStatus(ctx context.Context, orderID, target string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}
	if models.StatusRank(target) <= models.StatusRank(order.Status) {
		return nil, fmt.Errorf("%s -> %s: %w", order.Status, target, apperrors.ErrInvalidTransition)
	}
	order.Status = target
	clone := *order
	return &clone, nil
}

func (f *fakeStore) ListShows(ctx context.Context) ([]models.Show, error) {
	var shows []models.Show
	for _, show := range f.shows {
		shows = append(shows, show)
	}
	return shows, nil
}

func (f *fakeStore) GetShow(ctx context.Context, id string) (*models.Show, error) {
	show, ok := f.shows[id]
	if !ok {
		return nil, nil
	}
	return &show, nil
}

func (f *fakeStore) ListSnacks(ctx context.Context) ([]models.Snack, error) {
	var snacks []models.Snack
	for _, snack := range f.snacks {
		snacks = append(snacks, snack)
	}
	return snacks, nil
}

func (f *fakeStore) GetSnack(ctx context.Context, id string) (*models.Snack, error) {
	snack, ok := f.snacks[id]
	if !ok {
		return nil, nil
	}
	return &snack, nil
}

func (f *fakeStore) GetSnacksByIDs(ctx context.Context, ids []string) (map[string]models.Snack, error) {
	result := make(map[string]models.Snack)
	for _, id := range ids {
		if snack, ok := f.snacks[id]; ok {
			result[id] = snack
		}
	}
	return result, nil
}

func (f *fakeStore) ListByShow(ctx context.Context, showID string) ([]models.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var seats []models.Seat
	for _, seat := range f.seats {
		if seat.ShowID == showID {
			seat.IsBooked = f.booked[seat.ID]
			seats = append(seats, seat)
		}
	}
	return seats, nil
}

func (f *fakeStore) GetSeatByID(ctx context.Context, id string) (*models.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seat, ok := f.seats[id]
	if !ok {
		return nil, nil
	}
	seat.IsBooked = f.booked[seat.ID]
	return &seat, nil
}

// seatStoreAdapter renames GetSeatByID to the SeatStore method set.
type seatStoreAdapter struct{ *fakeStore }

func (a seatStoreAdapter) GetByID(ctx context.Context, id string) (*models.Seat, error) {
	return a.fakeStore.GetSeatByID(ctx, id)
}

type noopNotifier struct{}

func (noopNotifier) OrderCreated(*models.Order)       {}
func (noopNotifier) OrderStatusChanged(*models.Order) {}

type fakeUsers struct {
	nextID int64
	users  map[int64]*models.User
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) error {
	f.nextID++
	user.UserID = f.nextID
	stored := *user
	f.users[user.UserID] = &stored
	return nil
}

func newTestRouter(t *testing.T, actor models.Actor) (*gin.Engine, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeStore()
	carts := cart.NewStore(200)
	cfg := config.BookingConfig{
		SeatPrice:        200,
		ClaimLockTimeout: 100 * time.Millisecond,
		SeatCacheTTL:     5 * time.Second,
		MaxPaymentRefLen: 128,
	}
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	users := &fakeUsers{users: map[int64]*models.User{
		1: {UserID: 1, Email: "customer@marquee.test", IsActive: true},
	}, nextID: 1}

	services := &service.Services{
		Seats:     service.NewSeatService(seatStoreAdapter{store}, store),
		Booking:   service.NewBookingService(store, store, carts, lock.NewShowLocks(), noopNotifier{}, nil, nil, m, cfg),
		Lifecycle: service.NewLifecycleService(store, noopNotifier{}),
		Users:     service.NewUsersService(users),
	}

	h := NewHandlers(services, carts, nil, cfg)

	router := gin.New()
	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(middleware.ContextWithActor(c.Request.Context(), actor))
		c.Next()
	})
	{
		api.GET("/shows", h.ListShows)
		api.GET("/shows/:id", h.GetShow)
		api.GET("/shows/:id/seats", h.ListSeats)
		api.GET("/snacks", h.ListSnacks)
		api.GET("/users/me", h.Me)
		api.GET("/cart", h.GetCart)
		api.DELETE("/cart", h.ClearCart)
		api.POST("/cart/show", h.SelectShow)
		api.POST("/cart/seats", h.ToggleSeat)
		api.POST("/cart/snacks", h.SetSnack)
		api.POST("/orders", h.CreateOrder)
		api.GET("/orders/:id", h.GetOrder)
		api.GET("/admin/orders", h.ListOrders)
		api.PATCH("/admin/orders/status", h.AdvanceOrder)
		api.POST("/admin/users", h.CreateUser)
	}

	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path, session string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListShows(t *testing.T) {
	router, _ := newTestRouter(t, models.Actor{UserID: 1})

	w := doJSON(t, router, http.MethodGet, "/api/shows", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var shows []models.Show
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shows))
	assert.Len(t, shows, 2)
}

func TestGetShow(t *testing.T) {
	router, _ := newTestRouter(t, models.Actor{UserID: 1})

	w := doJSON(t, router, http.MethodGet, "/api/shows/show-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var show models.Show
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &show))
	assert.Equal(t, "show-1", show.ID)

	w = doJSON(t, router, http.MethodGet, "/api/shows/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSeats(t *testing.T) {
	router, _ := newTestRouter(t, models.Actor{UserID: 1})

	w := doJSON(t, router, http.MethodGet, "/api/shows/show-1/seats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var seats []models.ListSeatsResponseItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &seats))
	assert.Len(t, seats, 2)
}

func TestListSeatsUnknownShow(t *testing.T) {
	router, _ := newTestRouter(t, models.Actor{UserID: 1})

	w := doJSON(t, router, http.MethodGet, "/api/shows/missing/seats", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartRequiresSessionHeader(t *testing.T) {
	router, _ := newTestRouter(t, models.Actor{UserID: 1})

	w := doJSON(t, router, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartFlow(t *testing.T) {
	router, _ := newTestRouter(t, models.Actor{UserID: 1})
	const session = "sess-1"

	w := doJSON(t, router, http.MethodPost, "/api/cart/show", session, models.SelectShowRequest{ShowID: "show-1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/cart/seats", session, models.ToggleSeatRequest{SeatID: "A1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/cart/snacks", session, models.SetSnackRequest{SnackID: "popcorn", Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, cart.StateSnacksAdjusted, resp.State)
	assert.Equal(t, int64(200), resp.SeatSubtotal)
	assert.Equal(t, int64(300), resp.SnackSubtotal)
	assert.Equal(t, int64(500), resp.Total)
}

func TestToggleSeatFromOtherShow(t *testing.T) {
	router, _ := newTestRouter(t, models.Actor{UserID: 1})
	const session = "sess-1"

	w := doJSON(t, router, http.MethodPost, "/api/cart/show", session, models.SelectShowRequest{ShowID: "show-1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/cart/seats", session, models.ToggleSeatRequest{SeatID: "B1"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateOrder(t *testing.T) {
	router, store := newTestRouter(t, models.Actor{UserID: 7})
	const session = "sess-1"

	doJSON(t, router, http.MethodPost, "/api/cart/show", session, models.SelectShowRequest{ShowID: "show-1"})
	doJSON(t, router, http.MethodPost, "/api/cart/seats", session, models.ToggleSeatRequest{SeatID: "A1"})
	doJSON(t, router, http.MethodPost, "/api/cart/seats", session, models.ToggleSeatRequest{SeatID: "A2"})

	w := doJSON(t, router, http.MethodPost, "/api/orders", session, models.CreateOrderRequest{PaymentRef: "pay-001"})
	require.Equal(t, http.StatusCreated, w.Code)

	var ticket models.TicketResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
	assert.Equal(t, int64(400), ticket.Total)
	assert.Equal(t, models.OrderStatusConfirmed, ticket.Status)
	assert.ElementsMatch(t, []string{"A1", "A2"}, ticket.SeatLabels)
	assert.Equal(t, "Test Movie", ticket.MovieTitle)

	// Cart is gone after the commit.
	w = doJSON(t, router, http.MethodGet, "/api/cart", session, nil)
	var resp models.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, cart.StateEmpty, resp.State)

	assert.True(t, store.booked["A1"])
	assert.True(t, store.booked["A2"])
}

func TestCreateOrderConflict(t *testing.T) {
	router, store := newTestRouter(t, models.Actor{UserID: 7})
	const session = "sess-1"

	doJSON(t, router, http.MethodPost, "/api/cart/show", session, models.SelectShowRequest{ShowID: "show-1"})
	doJSON(t, router, http.MethodPost, "/api/cart/seats", session, models.ToggleSeatRequest{SeatID: "A2"})

	// Lose the race: another booking takes A2 after it entered the cart.
	store.mu.Lock()
	store.booked["A2"] = true
	store.mu.Unlock()

	w := doJSON(t, router, http.MethodPost, "/api/orders", session, models.CreateOrderRequest{PaymentRef: "pay-002"})
	require.Equal(t, http.StatusConflict, w.Code)

	// The cart still holds the seat for reselection.
	w = doJSON(t, router, http.MethodGet, "/api/cart", session, nil)
	var resp models.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Seats, 1)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	router, _ := newTestRouter(t, models.Actor{UserID: 7})

	w := doJSON(t, router, http.MethodPost, "/api/orders", "sess-1", models.CreateOrderRequest{PaymentRef: "pay-003"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminOrdersForbiddenForCustomers(t *testing.T) {
	router, _ := newTestRouter(t, models.Actor{UserID: 1, IsStaff: false})

	w := doJSON(t, router, http.MethodGet, "/api/admin/orders", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/api/admin/orders/status", "",
		models.AdvanceOrderRequest{OrderID: "any", Status: models.OrderStatusPreparing})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminAdvanceOrder(t *testing.T) {
	router, store := newTestRouter(t, models.Actor{UserID: 99, IsStaff: true})
	store.orders["order-1"] = &models.Order{
		ID: "order-1", ShowID: "show-1", UserID: 1,
		TotalAmount: 200, Status: models.OrderStatusConfirmed,
	}

	w := doJSON(t, router, http.MethodPatch, "/api/admin/orders/status", "",
		models.AdvanceOrderRequest{OrderID: "order-1", Status: models.OrderStatusPreparing})
	require.Equal(t, http.StatusOK, w.Code)

	// A backward move is rejected with 409.
	w = doJSON(t, router, http.MethodPatch, "/api/admin/orders/status", "",
		models.AdvanceOrderRequest{OrderID: "order-1", Status: models.OrderStatusConfirmed})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminListOrders(t *testing.T) {
	router, store := newTestRouter(t, models.Actor{UserID: 99, IsStaff: true})
	store.orders["order-1"] = &models.Order{
		ID: "order-1", ShowID: "show-1", UserID: 1,
		TotalAmount: 200, Status: models.OrderStatusConfirmed,
	}

	w := doJSON(t, router, http.MethodGet, "/api/admin/orders?show_id=show-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summaries []models.OrderSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "order-1", summaries[0].OrderID)

	w = doJSON(t, router, http.MethodGet, "/api/admin/orders?show_id=show-2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summaries = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	assert.Empty(t, summaries)
}

func TestMe(t *testing.T) {
	router, _ := newTestRouter(t, models.Actor{UserID: 1})

	w := doJSON(t, router, http.MethodGet, "/api/users/me", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "customer@marquee.test", user.Email)
}

func TestAdminCreateUser(t *testing.T) {
	router, _ := newTestRouter(t, models.Actor{UserID: 1, IsStaff: true})

	req := models.CreateUserRequest{Email: "cashier@marquee.test", Password: "secret", IsStaff: true}
	w := doJSON(t, router, http.MethodPost, "/api/admin/users", "", req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.UserID)
	assert.True(t, created.IsStaff)

	w = doJSON(t, router, http.MethodPost, "/api/admin/users", "", req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminCreateUserForbiddenForCustomers(t *testing.T) {
	router, _ := newTestRouter(t, models.Actor{UserID: 1})

	req := models.CreateUserRequest{Email: "someone@marquee.test", Password: "secret"}
	w := doJSON(t, router, http.MethodPost, "/api/admin/users", "", req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
