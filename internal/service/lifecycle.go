package service

import (
	"context"
	"fmt"

	apperrors "marquee/internal/errors"
	"marquee/internal/logger"
	"marquee/internal/models"
)

// LifecycleService advances orders along Confirmed -> Preparing -> Ready.
// Transitions are forward-only and staff-only; there is no cancellation
// and Ready is terminal.
type LifecycleService struct {
	orders   OrderStore
	notifier ChangeNotifier
}

func NewLifecycleService(orders OrderStore, notifier ChangeNotifier) *LifecycleService {
	return &LifecycleService{orders: orders, notifier: notifier}
}

// Advance moves one order to the target status.
func (s *LifecycleService) Advance(ctx context.Context, actor models.Actor, orderID, target string) (*models.Order, error) {
	if !actor.IsStaff {
		return nil, apperrors.ErrUnauthorized
	}

	if models.StatusRank(target) < 0 {
		return nil, fmt.Errorf("unknown status %q: %w", target, apperrors.ErrInvalidTransition)
	}

	order, err := s.orders.AdvanceStatus(ctx, orderID, target)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go s.notifier.OrderStatusChanged(order)
	}

	logger.WithComponent("lifecycle").Info("Order advanced",
		"order_id", order.ID, "status", order.Status, "staff_user", actor.UserID)

	return order, nil
}
