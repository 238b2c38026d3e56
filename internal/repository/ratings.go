package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelstack/moviecatalog/internal/domain"
)

// RatingsRepository appends rating rows. Ratings are immutable once
// created and are removed only by the movie delete cascade.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a rating and returns the stored entity. The movies FK
// and the score range CHECK on the table back up the service-layer
// validation.
func (r *RatingsRepository) Create(ctx context.Context, movieID int64, score int) (domain.Rating, error) {
	const query = `
        INSERT INTO ratings (movie_id, score)
        VALUES ($1, $2)
        RETURNING id, created_at
    `
	rating := domain.Rating{MovieID: movieID, Score: score}
	err := r.pool.QueryRow(ctx, query, movieID, score).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("insert rating: %w", err)
	}
	return rating, nil
}
