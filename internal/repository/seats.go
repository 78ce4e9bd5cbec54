package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"marquee/internal/database"
	apperrors "marquee/internal/errors"
	"marquee/internal/models"
)

type SeatRepository struct {
	db *database.DB
}

func NewSeatRepository(db *database.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

func (r *SeatRepository) ListByShow(ctx context.Context, showID string) ([]models.Seat, error) {
	query := `
		SELECT id, show_id, seat_number, is_booked
		FROM seats
		WHERE show_id = $1
		ORDER BY seat_number`

	rows, err := r.db.QueryContext(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []models.Seat
	for rows.Next() {
		var seat models.Seat
		if err := rows.Scan(&seat.ID, &seat.ShowID, &seat.SeatNumber, &seat.IsBooked); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	return seats, rows.Err()
}

func (r *SeatRepository) GetByID(ctx context.Context, id string) (*models.Seat, error) {
	seat := &models.Seat{}
	query := `
		SELECT id, show_id, seat_number, is_booked
		FROM seats
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&seat.ID,
		&seat.ShowID,
		&seat.SeatNumber,
		&seat.IsBooked,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return seat, err
}

// ClaimTx flips the requested seats to booked inside the caller's
// transaction. The conditional UPDATE is the authoritative availability
// check: if any seat is missing, belongs to another show, or is already
// booked, the row count falls short and the caller rolls everything back.
func (r *SeatRepository) ClaimTx(ctx context.Context, tx *sql.Tx, showID string, seatIDs []string) ([]string, error) {
	query := `
		UPDATE seats
		SET is_booked = TRUE
		WHERE id = ANY($1) AND show_id = $2 AND NOT is_booked
		RETURNING id, seat_number`

	rows, err := tx.QueryContext(ctx, query, pq.Array(seatIDs), showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claimed := make(map[string]bool, len(seatIDs))
	var labels []string
	for rows.Next() {
		var id, label string
		if err := rows.Scan(&id, &label); err != nil {
			return nil, err
		}
		claimed[id] = true
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(labels) != len(seatIDs) {
		return nil, r.diagnoseClaimFailure(ctx, tx, showID, seatIDs, claimed)
	}

	return labels, nil
}

// diagnoseClaimFailure names the first seat that blocked the claim.
// Seats we did claim in this transaction are skipped: within the
// transaction they already read as booked.
func (r *SeatRepository) diagnoseClaimFailure(ctx context.Context, tx *sql.Tx, showID string, seatIDs []string, claimed map[string]bool) error {
	for _, seatID := range seatIDs {
		if claimed[seatID] {
			continue
		}

		var gotShowID string
		var isBooked bool
		err := tx.QueryRowContext(ctx,
			`SELECT show_id, is_booked FROM seats WHERE id = $1`, seatID,
		).Scan(&gotShowID, &isBooked)

		switch {
		case err == sql.ErrNoRows:
			return fmt.Errorf("seat %s: %w", seatID, apperrors.ErrSeatNotFound)
		case err != nil:
			return err
		case gotShowID != showID:
			return fmt.Errorf("seat %s: %w", seatID, apperrors.ErrShowMismatch)
		case isBooked:
			return fmt.Errorf("seat %s: %w", seatID, apperrors.ErrSeatAlreadyBooked)
		}
	}
	return apperrors.ErrSeatsUnavailable
}
