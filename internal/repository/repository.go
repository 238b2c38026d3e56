// Package repository is the data access layer: filtered, paginated,
// ordered queries against the catalog tables plus single-row writes.
// It owns no business rules.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelstack/moviecatalog/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// Repositories aggregates all domain-specific repositories.
type Repositories struct {
	Movies    *MoviesRepository
	Directors *DirectorsRepository
	Genres    *GenresRepository
	Ratings   *RatingsRepository
}

// New constructs Repositories backed by the provided store.
func New(st *store.Store) *Repositories {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Movies:    &MoviesRepository{pool: pool},
		Directors: &DirectorsRepository{pool: pool},
		Genres:    &GenresRepository{pool: pool},
		Ratings:   &RatingsRepository{pool: pool},
	}
}
