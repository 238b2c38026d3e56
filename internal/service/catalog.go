// Package service is the mutation validation and orchestration layer:
// it validates foreign-key references and rating scores, sequences the
// read-validate-write steps of each operation, and projects entities
// into response shapes. It owns no SQL and no transport concerns.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/reelstack/moviecatalog/internal/domain"
	"github.com/reelstack/moviecatalog/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	minScore = 1
	maxScore = 10
)

// MoviesRepo is the slice of the data access layer the catalog needs
// for movies.
type MoviesRepo interface {
	List(ctx context.Context, filters repository.MovieFilters, page, pageSize int) ([]domain.Movie, int, error)
	GetByID(ctx context.Context, id int64) (domain.Movie, error)
	Create(ctx context.Context, params repository.MovieCreateParams, genreIDs []int64) (domain.Movie, error)
	Update(ctx context.Context, id int64, params repository.MovieUpdateParams, genreIDs []int64) (domain.Movie, error)
	Delete(ctx context.Context, id int64) error
}

// DirectorsRepo resolves director references.
type DirectorsRepo interface {
	GetByID(ctx context.Context, id int64) (domain.Director, error)
}

// GenresRepo resolves genre references.
type GenresRepo interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Genre, error)
}

// RatingsRepo appends ratings.
type RatingsRepo interface {
	Create(ctx context.Context, movieID int64, score int) (domain.Rating, error)
}

// Catalog orchestrates all catalog operations.
type Catalog struct {
	movies    MoviesRepo
	directors DirectorsRepo
	genres    GenresRepo
	ratings   RatingsRepo
	logger    zerolog.Logger
}

// New constructs a Catalog over the full repository set.
func New(repos *repository.Repositories, logger zerolog.Logger) *Catalog {
	return NewWith(repos.Movies, repos.Directors, repos.Genres, repos.Ratings, logger)
}

// NewWith constructs a Catalog from individual repositories; tests use
// it to substitute fakes.
func NewWith(movies MoviesRepo, directors DirectorsRepo, genres GenresRepo, ratings RatingsRepo, logger zerolog.Logger) *Catalog {
	return &Catalog{
		movies:    movies,
		directors: directors,
		genres:    genres,
		ratings:   ratings,
		logger:    logger.With().Str("component", "catalog").Logger(),
	}
}

// ListMoviesInput carries the optional conjunctive filters and the
// requested page window.
type ListMoviesInput struct {
	Title    *string
	Year     *int
	Genre    *string
	Page     int
	PageSize int
}

// CreateMovieInput carries the fields for a new movie.
type CreateMovieInput struct {
	Title       string
	DirectorID  int64
	ReleaseYear *int
	Cast        *string
	GenreIDs    []int64
}

// UpdateMovieInput carries the replaceable fields of a movie. The
// director reference is never part of an update.
type UpdateMovieInput struct {
	Title       string
	ReleaseYear *int
	Cast        *string
	GenreIDs    []int64
}

// ListMovies returns one projected page. Page and page size are
// normalized here, never rejected: page floors at 1, pageSize falls
// back to 10 when non-positive and caps at 100. TotalItems reflects the
// filtered set, not the unfiltered catalog.
func (c *Catalog) ListMovies(ctx context.Context, in ListMoviesInput) (MoviePage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filters := repository.MovieFilters{Title: in.Title, Year: in.Year, Genre: in.Genre}
	movies, total, err := c.movies.List(ctx, filters, page, pageSize)
	if err != nil {
		return MoviePage{}, fmt.Errorf("list movies: %w", err)
	}

	c.logger.Debug().Int("page", page).Int("page_size", pageSize).Int("total", total).Msg("movies listed")

	items := make([]MovieListItem, 0, len(movies))
	for _, movie := range movies {
		items = append(items, toListItem(movie))
	}
	return MoviePage{Page: page, PageSize: pageSize, TotalItems: total, Items: items}, nil
}

// GetMovie returns the detail projection of one movie.
func (c *Catalog) GetMovie(ctx context.Context, id int64) (MovieDetail, error) {
	movie, err := c.movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return MovieDetail{}, ErrMovieNotFound
		}
		return MovieDetail{}, fmt.Errorf("get movie: %w", err)
	}
	return toDetail(movie), nil
}

// CreateMovie validates the director reference, then the genre set,
// then persists. The check order is part of the contract: an unknown
// director wins over unknown genres.
func (c *Catalog) CreateMovie(ctx context.Context, in CreateMovieInput) (MovieDetail, error) {
	if _, err := c.directors.GetByID(ctx, in.DirectorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.logger.Warn().Int64("director_id", in.DirectorID).Msg("create rejected: unknown director")
			return MovieDetail{}, ErrDirectorNotFound
		}
		return MovieDetail{}, fmt.Errorf("validate director: %w", err)
	}

	genres, err := c.resolveGenres(ctx, in.GenreIDs)
	if err != nil {
		return MovieDetail{}, err
	}

	params := repository.MovieCreateParams{
		Title:       in.Title,
		DirectorID:  in.DirectorID,
		ReleaseYear: in.ReleaseYear,
		Cast:        in.Cast,
	}
	movie, err := c.movies.Create(ctx, params, genreIDs(genres))
	if err != nil {
		return MovieDetail{}, fmt.Errorf("create movie: %w", err)
	}

	c.logger.Info().Int64("movie_id", movie.ID).Str("title", movie.Title).Msg("movie created")
	return toDetail(movie), nil
}

// UpdateMovie replaces title, release year, cast, and the full genre
// set of an existing movie. Prior genres are discarded, not merged, and
// the director reference is left untouched.
func (c *Catalog) UpdateMovie(ctx context.Context, id int64, in UpdateMovieInput) (MovieDetail, error) {
	if _, err := c.movies.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return MovieDetail{}, ErrMovieNotFound
		}
		return MovieDetail{}, fmt.Errorf("fetch movie: %w", err)
	}

	genres, err := c.resolveGenres(ctx, in.GenreIDs)
	if err != nil {
		return MovieDetail{}, err
	}

	params := repository.MovieUpdateParams{
		Title:       in.Title,
		ReleaseYear: in.ReleaseYear,
		Cast:        in.Cast,
	}
	movie, err := c.movies.Update(ctx, id, params, genreIDs(genres))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return MovieDetail{}, ErrMovieNotFound
		}
		return MovieDetail{}, fmt.Errorf("update movie: %w", err)
	}

	c.logger.Info().Int64("movie_id", movie.ID).Msg("movie updated")
	return toDetail(movie), nil
}

// DeleteMovie removes a movie; its ratings and genre links disappear
// through the storage cascade.
func (c *Catalog) DeleteMovie(ctx context.Context, id int64) error {
	if err := c.movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMovieNotFound
		}
		return fmt.Errorf("delete movie: %w", err)
	}
	c.logger.Info().Int64("movie_id", id).Msg("movie deleted")
	return nil
}

// AddRating validates the movie and the score, persists the rating, and
// returns the movie's re-fetched detail projection so the caller sees
// the updated aggregate. The movie projection (not the bare rating) is
// the documented response shape for this operation.
func (c *Catalog) AddRating(ctx context.Context, movieID int64, score int) (MovieDetail, error) {
	if _, err := c.movies.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return MovieDetail{}, ErrMovieNotFound
		}
		return MovieDetail{}, fmt.Errorf("fetch movie: %w", err)
	}

	if score < minScore || score > maxScore {
		c.logger.Warn().Int64("movie_id", movieID).Int("score", score).Msg("rating rejected: score out of range")
		return MovieDetail{}, ErrScoreOutOfRange
	}

	if _, err := c.ratings.Create(ctx, movieID, score); err != nil {
		return MovieDetail{}, fmt.Errorf("create rating: %w", err)
	}

	movie, err := c.movies.GetByID(ctx, movieID)
	if err != nil {
		return MovieDetail{}, fmt.Errorf("reload movie: %w", err)
	}

	c.logger.Info().Int64("movie_id", movieID).Int("score", score).Msg("rating added")
	return toDetail(movie), nil
}

// resolveGenres loads the supplied genre ids and fails when any
// distinct id is unknown. Duplicate ids in the input are tolerated.
func (c *Catalog) resolveGenres(ctx context.Context, ids []int64) ([]domain.Genre, error) {
	genres, err := c.genres.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve genres: %w", err)
	}
	if len(genres) < distinctCount(ids) {
		c.logger.Warn().Ints64("genre_ids", ids).Msg("mutation rejected: unknown genres")
		return nil, ErrGenresNotFound
	}
	return genres, nil
}

func distinctCount(ids []int64) int {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

func genreIDs(genres []domain.Genre) []int64 {
	ids := make([]int64, 0, len(genres))
	for _, genre := range genres {
		ids = append(ids, genre.ID)
	}
	return ids
}
