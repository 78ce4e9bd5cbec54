package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"marquee/internal/database"
	apperrors "marquee/internal/errors"
	"marquee/internal/models"
)

type OrderRepository struct {
	db    *database.DB
	seats *SeatRepository
}

func NewOrderRepository(db *database.DB, seats *SeatRepository) *OrderRepository {
	return &OrderRepository{db: db, seats: seats}
}

// CreateWithClaims persists an order together with its seat claims and
// snack lines in a single transaction. Either every seat is claimed and
// the order exists, or the transaction rolls back and nothing changed.
// The UNIQUE constraint on order_seats.seat_id backs the claim check.
func (r *OrderRepository) CreateWithClaims(ctx context.Context, order *models.Order, seatIDs []string, items []models.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", apperrors.ErrPersistence, err)
	}
	defer tx.Rollback()

	labels, err := r.seats.ClaimTx(ctx, tx, order.ShowID, seatIDs)
	if err != nil {
		return err
	}
	order.SeatLabels = labels

	query := `
		INSERT INTO orders (id, show_id, user_id, total_amount, payment_ref, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err = tx.QueryRowContext(ctx, query,
		order.ID,
		order.ShowID,
		order.UserID,
		order.TotalAmount,
		order.PaymentRef,
		order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert order: %v", apperrors.ErrPersistence, err)
	}

	for _, seatID := range seatIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_seats (order_id, seat_id) VALUES ($1, $2)`,
			order.ID, seatID)
		if err != nil {
			return fmt.Errorf("%w: insert order seat: %v", apperrors.ErrPersistence, err)
		}
	}

	for _, item := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, snack_id, quantity) VALUES ($1, $2, $3)`,
			order.ID, item.SnackID, item.Quantity)
		if err != nil {
			return fmt.Errorf("%w: insert order item: %v", apperrors.ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", apperrors.ErrPersistence, err)
	}

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, show_id, user_id, total_amount, payment_ref, status, created_at, updated_at
		FROM orders
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.ShowID,
		&order.UserID,
		&order.TotalAmount,
		&order.PaymentRef,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadSeatLabels(ctx, order); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) loadSeatLabels(ctx context.Context, order *models.Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.seat_number
		FROM order_seats os
		JOIN seats s ON s.id = os.seat_id
		WHERE os.order_id = $1
		ORDER BY s.seat_number`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return err
		}
		order.SeatLabels = append(order.SeatLabels, label)
	}
	return rows.Err()
}

func (r *OrderRepository) loadItems(ctx context.Context, order *models.Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT snack_id, quantity
		FROM order_items
		WHERE order_id = $1`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.SnackID, &item.Quantity); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

// List returns orders newest first, optionally filtered by show.
func (r *OrderRepository) List(ctx context.Context, showID *string) ([]models.Order, error) {
	query := `
		SELECT o.id, o.show_id, o.user_id, o.total_amount, o.payment_ref, o.status,
		       o.created_at, o.updated_at,
		       COALESCE(array_to_string(array_agg(s.seat_number ORDER BY s.seat_number), ','), '')
		FROM orders o
		LEFT JOIN order_seats os ON os.order_id = o.id
		LEFT JOIN seats s ON s.id = os.seat_id`

	var args []interface{}
	if showID != nil {
		query += ` WHERE o.show_id = $1`
		args = append(args, *showID)
	}
	query += `
		GROUP BY o.id
		ORDER BY o.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		var seatLabels string
		err := rows.Scan(
			&order.ID,
			&order.ShowID,
			&order.UserID,
			&order.TotalAmount,
			&order.PaymentRef,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
			&seatLabels,
		)
		if err != nil {
			return nil, err
		}
		if seatLabels != "" {
			order.SeatLabels = strings.Split(seatLabels, ",")
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// AdvanceStatus moves an order forward along
// Confirmed -> Preparing -> Ready. The row is locked so concurrent
// advances serialize, and the rank comparison rejects any move that is
// not strictly forward.
func (r *OrderRepository) AdvanceStatus(ctx context.Context, orderID, target string) (*models.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", apperrors.ErrPersistence, err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID,
	).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	currentRank := models.StatusRank(current)
	targetRank := models.StatusRank(target)
	if targetRank < 0 || targetRank <= currentRank {
		return nil, fmt.Errorf("%s -> %s: %w", current, target, apperrors.ErrInvalidTransition)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		target, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: update status: %v", apperrors.ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", apperrors.ErrPersistence, err)
	}

	return r.GetByID(ctx, orderID)
}
