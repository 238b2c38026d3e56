package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelstack/moviecatalog/internal/domain"
)

// GenresRepository reads genre rows. Genres are managed externally.
type GenresRepository struct {
	pool *pgxpool.Pool
}

// GetByIDs returns the subset of genres whose ids exist, ordered by id.
// Unknown ids are silently dropped; callers detect gaps by comparing the
// result count against the distinct input count.
func (r *GenresRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Genre, error) {
	if len(ids) == 0 {
		return []domain.Genre{}, nil
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, name, description
        FROM genres
        WHERE id = ANY($1)
        ORDER BY id
    `, ids)
	if err != nil {
		return nil, fmt.Errorf("select genres: %w", err)
	}
	defer rows.Close()

	genres := make([]domain.Genre, 0, len(ids))
	for rows.Next() {
		var genre domain.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Description); err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}
	return genres, rows.Err()
}
