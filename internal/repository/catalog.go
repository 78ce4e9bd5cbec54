package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"marquee/internal/database"
	"marquee/internal/models"
)

type CatalogRepository struct {
	db *database.DB
}

func NewCatalogRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListShows(ctx context.Context) ([]models.Show, error) {
	query := `
		SELECT sh.id, sh.movie_id, m.title, sh.show_time, sh.screen
		FROM shows sh
		JOIN movies m ON m.id = sh.movie_id
		ORDER BY sh.show_time`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shows []models.Show
	for rows.Next() {
		var show models.Show
		if err := rows.Scan(&show.ID, &show.MovieID, &show.MovieTitle, &show.ShowTime, &show.Screen); err != nil {
			return nil, err
		}
		shows = append(shows, show)
	}

	return shows, rows.Err()
}

func (r *CatalogRepository) GetShow(ctx context.Context, id string) (*models.Show, error) {
	show := &models.Show{}
	query := `
		SELECT sh.id, sh.movie_id, m.title, sh.show_time, sh.screen
		FROM shows sh
		JOIN movies m ON m.id = sh.movie_id
		WHERE sh.id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&show.ID,
		&show.MovieID,
		&show.MovieTitle,
		&show.ShowTime,
		&show.Screen,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return show, err
}

func (r *CatalogRepository) ListSnacks(ctx context.Context) ([]models.Snack, error) {
	query := `
		SELECT id, name, price, category, image_url
		FROM snacks
		ORDER BY category, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snacks []models.Snack
	for rows.Next() {
		var snack models.Snack
		if err := rows.Scan(&snack.ID, &snack.Name, &snack.Price, &snack.Category, &snack.ImageURL); err != nil {
			return nil, err
		}
		snacks = append(snacks, snack)
	}

	return snacks, rows.Err()
}

func (r *CatalogRepository) GetSnack(ctx context.Context, id string) (*models.Snack, error) {
	snack := &models.Snack{}
	query := `
		SELECT id, name, price, category, image_url
		FROM snacks
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&snack.ID,
		&snack.Name,
		&snack.Price,
		&snack.Category,
		&snack.ImageURL,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return snack, err
}

// GetSnacksByIDs loads the snacks referenced by a cart so commit can
// re-price every line from current catalog data.
func (r *CatalogRepository) GetSnacksByIDs(ctx context.Context, ids []string) (map[string]models.Snack, error) {
	query := `
		SELECT id, name, price, category, image_url
		FROM snacks
		WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snacks := make(map[string]models.Snack, len(ids))
	for rows.Next() {
		var snack models.Snack
		if err := rows.Scan(&snack.ID, &snack.Name, &snack.Price, &snack.Category, &snack.ImageURL); err != nil {
			return nil, err
		}
		snacks[snack.ID] = snack
	}

	return snacks, rows.Err()
}
