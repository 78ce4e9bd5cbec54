package service

import (
	"context"

	apperrors "marquee/internal/errors"
	"marquee/internal/models"
)

// SeatService reads seat inventory. Listings are advisory: the
// authoritative availability check happens inside the booking commit.
type SeatService struct {
	seats   SeatStore
	catalog CatalogStore
}

func NewSeatService(seats SeatStore, catalog CatalogStore) *SeatService {
	return &SeatService{seats: seats, catalog: catalog}
}

// ListShows returns all scheduled shows with their movie titles.
func (s *SeatService) ListShows(ctx context.Context) ([]models.Show, error) {
	return s.catalog.ListShows(ctx)
}

// ListSnacks returns the snack catalog.
func (s *SeatService) ListSnacks(ctx context.Context) ([]models.Snack, error) {
	return s.catalog.ListSnacks(ctx)
}

// GetShow resolves one show for cart selection.
func (s *SeatService) GetShow(ctx context.Context, id string) (*models.Show, error) {
	show, err := s.catalog.GetShow(ctx, id)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, apperrors.ErrShowNotFound
	}
	return show, nil
}

// GetSnack resolves one snack for cart adjustment.
func (s *SeatService) GetSnack(ctx context.Context, id string) (*models.Snack, error) {
	snack, err := s.catalog.GetSnack(ctx, id)
	if err != nil {
		return nil, err
	}
	if snack == nil {
		return nil, apperrors.ErrSnackNotFound
	}
	return snack, nil
}

// ListByShow returns a show's full seat map.
func (s *SeatService) ListByShow(ctx context.Context, showID string) ([]models.Seat, error) {
	show, err := s.catalog.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, apperrors.ErrShowNotFound
	}

	seats, err := s.seats.ListByShow(ctx, showID)
	if err != nil {
		return nil, err
	}
	if seats == nil {
		seats = []models.Seat{}
	}
	return seats, nil
}

// Get returns one seat, for cart toggling.
func (s *SeatService) Get(ctx context.Context, id string) (*models.Seat, error) {
	seat, err := s.seats.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if seat == nil {
		return nil, apperrors.ErrSeatNotFound
	}
	return seat, nil
}
