package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "marquee/internal/errors"
	"marquee/internal/models"
)

func seedOrder(t *testing.T, store *fakeOrderStore, status string) string {
	t.Helper()
	order := &models.Order{
		ID:          "order-1",
		ShowID:      "show-1",
		UserID:      1,
		TotalAmount: 200,
		PaymentRef:  "pay-1",
		Status:      status,
	}
	store.orders[order.ID] = order
	return order.ID
}

var staff = models.Actor{UserID: 99, IsStaff: true}

func TestAdvanceSequence(t *testing.T) {
	store := newFakeOrderStore()
	notifier := &fakeNotifier{}
	svc := NewLifecycleService(store, notifier)
	id := seedOrder(t, store, models.OrderStatusConfirmed)

	order, err := svc.Advance(context.Background(), staff, id, models.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)

	order, err = svc.Advance(context.Background(), staff, id, models.OrderStatusReady)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReady, order.Status)

	require.Eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.changed) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestAdvanceSkippingPreparing(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewLifecycleService(store, &fakeNotifier{})
	id := seedOrder(t, store, models.OrderStatusConfirmed)

	// Confirmed -> Ready is forward, so it is allowed.
	order, err := svc.Advance(context.Background(), staff, id, models.OrderStatusReady)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReady, order.Status)
}

func TestAdvanceRejectsNonForwardMoves(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
	}{
		{"ready back to preparing", models.OrderStatusReady, models.OrderStatusPreparing},
		{"preparing back to confirmed", models.OrderStatusPreparing, models.OrderStatusConfirmed},
		{"same status", models.OrderStatusPreparing, models.OrderStatusPreparing},
		{"ready is terminal", models.OrderStatusReady, models.OrderStatusReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeOrderStore()
			svc := NewLifecycleService(store, &fakeNotifier{})
			id := seedOrder(t, store, tt.current)

			_, err := svc.Advance(context.Background(), staff, id, tt.target)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

			// Status is unchanged after the rejection.
			order, getErr := store.GetByID(context.Background(), id)
			require.NoError(t, getErr)
			assert.Equal(t, tt.current, order.Status)
		})
	}
}

func TestAdvanceUnknownStatus(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewLifecycleService(store, &fakeNotifier{})
	id := seedOrder(t, store, models.OrderStatusConfirmed)

	_, err := svc.Advance(context.Background(), staff, id, "Cancelled")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestAdvanceRequiresStaff(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewLifecycleService(store, &fakeNotifier{})
	id := seedOrder(t, store, models.OrderStatusConfirmed)

	customer := models.Actor{UserID: 5, IsStaff: false}
	_, err := svc.Advance(context.Background(), customer, id, models.OrderStatusPreparing)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAdvanceOrderNotFound(t *testing.T) {
	svc := NewLifecycleService(newFakeOrderStore(), &fakeNotifier{})

	_, err := svc.Advance(context.Background(), staff, "missing", models.OrderStatusPreparing)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}
