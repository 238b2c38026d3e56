package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelstack/moviecatalog/internal/domain"
)

// MoviesRepository provides persistence helpers for movie entities.
// Every read returns movies with their director, genres, and ratings
// eagerly loaded so callers never trigger follow-up fetches.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieSelect = `
    SELECT m.id, m.title, m.director_id, m.release_year, m."cast", m.created_at, m.updated_at,
           d.id, d.name, d.birth_year, d.description
    FROM movies m
    LEFT JOIN directors d ON d.id = m.director_id
`

// MovieFilters is an optional conjunction of list predicates. Absent
// fields impose no constraint; provided fields combine with AND.
type MovieFilters struct {
	// Title matches case-insensitively on any substring of the title.
	Title *string
	// Year matches the release year exactly.
	Year *int
	// Genre matches case-insensitively on any substring of any
	// associated genre's name.
	Genre *string
}

// MovieCreateParams bundles the fields required to create a movie.
type MovieCreateParams struct {
	Title       string
	DirectorID  int64
	ReleaseYear *int
	Cast        *string
}

// MovieUpdateParams bundles the replaceable fields of a movie. The
// director reference is deliberately absent: updates never change it.
type MovieUpdateParams struct {
	Title       string
	ReleaseYear *int
	Cast        *string
}

// List returns one page of movies matching the filters, ordered by id
// ascending, together with the total match count before pagination.
// page and pageSize must arrive normalized by the caller.
func (r *MoviesRepository) List(ctx context.Context, filters MovieFilters, page, pageSize int) ([]domain.Movie, int, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Title != nil && strings.TrimSpace(*filters.Title) != "" {
		where = append(where, fmt.Sprintf("m.title ILIKE %s", arg("%"+strings.TrimSpace(*filters.Title)+"%")))
	}
	if filters.Year != nil {
		where = append(where, fmt.Sprintf("m.release_year = %s", arg(*filters.Year)))
	}
	if filters.Genre != nil && strings.TrimSpace(*filters.Genre) != "" {
		sub := fmt.Sprintf(`EXISTS (
            SELECT 1 FROM genres_movies gm
            JOIN genres g ON g.id = gm.genre_id
            WHERE gm.movie_id = m.id AND g.name ILIKE %s
        )`, arg("%"+strings.TrimSpace(*filters.Genre)+"%"))
		where = append(where, sub)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM movies m" + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	listQuery := movieSelect + whereClause +
		fmt.Sprintf(" ORDER BY m.id ASC LIMIT %s OFFSET %s", arg(pageSize), arg((page-1)*pageSize))

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0, pageSize)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, 0, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadAssociations(ctx, movies); err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// GetByID fetches a movie by its identifier with associations loaded.
func (r *MoviesRepository) GetByID(ctx context.Context, id int64) (domain.Movie, error) {
	row := r.pool.QueryRow(ctx, movieSelect+" WHERE m.id = $1", id)
	movie, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}

	movies := []domain.Movie{movie}
	if err := r.loadAssociations(ctx, movies); err != nil {
		return domain.Movie{}, err
	}
	return movies[0], nil
}

// Create inserts the movie row and its genre association rows in one
// transaction, then returns the stored entity fully loaded.
func (r *MoviesRepository) Create(ctx context.Context, params MovieCreateParams, genreIDs []int64) (domain.Movie, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
        INSERT INTO movies (title, director_id, release_year, "cast")
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, params.Title, params.DirectorID, params.ReleaseYear, params.Cast).Scan(&id)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("insert movie: %w", err)
	}

	if err := insertGenreLinks(ctx, tx, id, genreIDs); err != nil {
		return domain.Movie{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Movie{}, fmt.Errorf("commit: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update replaces title, release year, and cast, and swaps the genre
// association set wholesale, in one transaction. director_id is never
// touched.
func (r *MoviesRepository) Update(ctx context.Context, id int64, params MovieUpdateParams, genreIDs []int64) (domain.Movie, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
        UPDATE movies
        SET title = $2, release_year = $3, "cast" = $4, updated_at = now()
        WHERE id = $1
    `, id, params.Title, params.ReleaseYear, params.Cast)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("update movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Movie{}, ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM genres_movies WHERE movie_id = $1`, id); err != nil {
		return domain.Movie{}, fmt.Errorf("clear genre links: %w", err)
	}
	if err := insertGenreLinks(ctx, tx, id, genreIDs); err != nil {
		return domain.Movie{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Movie{}, fmt.Errorf("commit: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Delete removes a movie. Ratings and genre links disappear through the
// ON DELETE CASCADE rules on their tables.
func (r *MoviesRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func insertGenreLinks(ctx context.Context, tx pgx.Tx, movieID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
        INSERT INTO genres_movies (movie_id, genre_id)
        SELECT $1, unnest($2::bigint[])
        ON CONFLICT DO NOTHING
    `, movieID, genreIDs)
	if err != nil {
		return fmt.Errorf("insert genre links: %w", err)
	}
	return nil
}

// loadAssociations batch-fetches genres and ratings for the given movies
// with two ANY($1) queries and attaches them in place.
func (r *MoviesRepository) loadAssociations(ctx context.Context, movies []domain.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	ids := make([]int64, len(movies))
	index := make(map[int64]*domain.Movie, len(movies))
	for i := range movies {
		ids[i] = movies[i].ID
		index[movies[i].ID] = &movies[i]
	}

	genreRows, err := r.pool.Query(ctx, `
        SELECT gm.movie_id, g.id, g.name, g.description
        FROM genres_movies gm
        JOIN genres g ON g.id = gm.genre_id
        WHERE gm.movie_id = ANY($1)
        ORDER BY gm.movie_id, g.id
    `, ids)
	if err != nil {
		return fmt.Errorf("load genres: %w", err)
	}
	defer genreRows.Close()
	for genreRows.Next() {
		var movieID int64
		var genre domain.Genre
		if err := genreRows.Scan(&movieID, &genre.ID, &genre.Name, &genre.Description); err != nil {
			return err
		}
		if movie, ok := index[movieID]; ok {
			movie.Genres = append(movie.Genres, genre)
		}
	}
	if err := genreRows.Err(); err != nil {
		return err
	}

	ratingRows, err := r.pool.Query(ctx, `
        SELECT id, movie_id, score, created_at
        FROM ratings
        WHERE movie_id = ANY($1)
        ORDER BY id
    `, ids)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}
	defer ratingRows.Close()
	for ratingRows.Next() {
		var rating domain.Rating
		if err := ratingRows.Scan(&rating.ID, &rating.MovieID, &rating.Score, &rating.CreatedAt); err != nil {
			return err
		}
		if movie, ok := index[rating.MovieID]; ok {
			movie.Ratings = append(movie.Ratings, rating)
		}
	}
	return ratingRows.Err()
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var (
		movie          domain.Movie
		dirID          *int64
		dirName        *string
		dirBirthYear   *int
		dirDescription *string
	)

	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.DirectorID,
		&movie.Year,
		&movie.Cast,
		&movie.CreatedAt,
		&movie.UpdatedAt,
		&dirID,
		&dirName,
		&dirBirthYear,
		&dirDescription,
	)
	if err != nil {
		return domain.Movie{}, err
	}

	if dirID != nil && dirName != nil {
		movie.Director = &domain.Director{
			ID:          *dirID,
			Name:        *dirName,
			BirthYear:   dirBirthYear,
			Description: dirDescription,
		}
	}
	return movie, nil
}
