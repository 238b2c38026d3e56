package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelstack/moviecatalog/internal/domain"
)

// DirectorsRepository reads director rows. Directors are managed
// externally; the service only validates references against them.
type DirectorsRepository struct {
	pool *pgxpool.Pool
}

// GetByID fetches a director by its identifier.
func (r *DirectorsRepository) GetByID(ctx context.Context, id int64) (domain.Director, error) {
	const query = `
        SELECT id, name, birth_year, description
        FROM directors
        WHERE id = $1
    `
	var director domain.Director
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&director.ID,
		&director.Name,
		&director.BirthYear,
		&director.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Director{}, ErrNotFound
		}
		return domain.Director{}, err
	}
	return director, nil
}
