package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/reelstack/moviecatalog/internal/domain"
	"github.com/reelstack/moviecatalog/internal/logging"
	"github.com/reelstack/moviecatalog/internal/repository"
)

type fakeMovies struct {
	byID map[int64]domain.Movie

	listFilters  repository.MovieFilters
	listPage     int
	listPageSize int

	created      *repository.MovieCreateParams
	updatedID    int64
	updated      *repository.MovieUpdateParams
	linkedGenres []int64

	deleteErr error
}

func (f *fakeMovies) List(ctx context.Context, filters repository.MovieFilters, page, pageSize int) ([]domain.Movie, int, error) {
	f.listFilters = filters
	f.listPage = page
	f.listPageSize = pageSize
	var movies []domain.Movie
	for _, m := range f.byID {
		movies = append(movies, m)
	}
	return movies, len(movies), nil
}

func (f *fakeMovies) GetByID(ctx context.Context, id int64) (domain.Movie, error) {
	movie, ok := f.byID[id]
	if !ok {
		return domain.Movie{}, repository.ErrNotFound
	}
	return movie, nil
}

func (f *fakeMovies) Create(ctx context.Context, params repository.MovieCreateParams, genreIDs []int64) (domain.Movie, error) {
	f.created = &params
	f.linkedGenres = genreIDs
	movie := domain.Movie{ID: 1, Title: params.Title, DirectorID: params.DirectorID, Year: params.ReleaseYear, Cast: params.Cast}
	if f.byID == nil {
		f.byID = map[int64]domain.Movie{}
	}
	f.byID[movie.ID] = movie
	return movie, nil
}

func (f *fakeMovies) Update(ctx context.Context, id int64, params repository.MovieUpdateParams, genreIDs []int64) (domain.Movie, error) {
	if _, ok := f.byID[id]; !ok {
		return domain.Movie{}, repository.ErrNotFound
	}
	f.updatedID = id
	f.updated = &params
	f.linkedGenres = genreIDs
	movie := f.byID[id]
	movie.Title = params.Title
	movie.Year = params.ReleaseYear
	movie.Cast = params.Cast
	f.byID[id] = movie
	return movie, nil
}

func (f *fakeMovies) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeDirectors struct {
	byID map[int64]domain.Director
}

func (f *fakeDirectors) GetByID(ctx context.Context, id int64) (domain.Director, error) {
	director, ok := f.byID[id]
	if !ok {
		return domain.Director{}, repository.ErrNotFound
	}
	return director, nil
}

type fakeGenres struct {
	byID   map[int64]domain.Genre
	called bool
}

func (f *fakeGenres) GetByIDs(ctx context.Context, ids []int64) ([]domain.Genre, error) {
	f.called = true
	seen := make(map[int64]struct{})
	var genres []domain.Genre
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if genre, ok := f.byID[id]; ok {
			genres = append(genres, genre)
		}
	}
	return genres, nil
}

type fakeRatings struct {
	created []int
	movieID int64
}

func (f *fakeRatings) Create(ctx context.Context, movieID int64, score int) (domain.Rating, error) {
	f.movieID = movieID
	f.created = append(f.created, score)
	return domain.Rating{ID: int64(len(f.created)), MovieID: movieID, Score: score}, nil
}

type catalogFixture struct {
	catalog   *Catalog
	movies    *fakeMovies
	directors *fakeDirectors
	genres    *fakeGenres
	ratings   *fakeRatings
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	movies := &fakeMovies{byID: map[int64]domain.Movie{}}
	directors := &fakeDirectors{byID: map[int64]domain.Director{}}
	genres := &fakeGenres{byID: map[int64]domain.Genre{}}
	ratings := &fakeRatings{}
	return &catalogFixture{
		catalog:   NewWith(movies, directors, genres, ratings, logging.NewTestLogger(io.Discard)),
		movies:    movies,
		directors: directors,
		genres:    genres,
		ratings:   ratings,
	}
}

func TestListMoviesNormalizesPaging(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"zero values fall back", 0, 0, 1, 10},
		{"negative values fall back", -3, -1, 1, 10},
		{"in range passes through", 2, 25, 2, 25},
		{"oversized page size caps at 100", 1, 500, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newCatalogFixture(t)
			page, err := fx.catalog.ListMovies(ctx, ListMoviesInput{Page: tt.page, PageSize: tt.pageSize})
			if err != nil {
				t.Fatalf("ListMovies: %v", err)
			}
			if page.Page != tt.wantPage || page.PageSize != tt.wantPageSize {
				t.Fatalf("page=%d pageSize=%d, want %d/%d", page.Page, page.PageSize, tt.wantPage, tt.wantPageSize)
			}
			if fx.movies.listPage != tt.wantPage || fx.movies.listPageSize != tt.wantPageSize {
				t.Fatalf("repo saw page=%d pageSize=%d", fx.movies.listPage, fx.movies.listPageSize)
			}
			if page.Items == nil {
				t.Fatalf("items must be non-nil even when empty")
			}
		})
	}
}

func TestListMoviesPassesFiltersThrough(t *testing.T) {
	fx := newCatalogFixture(t)

	title := "seven"
	year := 1954
	genre := "Drama"
	_, err := fx.catalog.ListMovies(context.Background(), ListMoviesInput{Title: &title, Year: &year, Genre: &genre})
	if err != nil {
		t.Fatalf("ListMovies: %v", err)
	}
	got := fx.movies.listFilters
	if got.Title == nil || *got.Title != "seven" || got.Year == nil || *got.Year != 1954 || got.Genre == nil || *got.Genre != "Drama" {
		t.Fatalf("filters not passed through: %+v", got)
	}
}

func TestCreateMovieChecksDirectorBeforeGenres(t *testing.T) {
	fx := newCatalogFixture(t)
	// Neither the director nor the genre exists; the director error must win.
	_, err := fx.catalog.CreateMovie(context.Background(), CreateMovieInput{
		Title:      "Ghost",
		DirectorID: 42,
		GenreIDs:   []int64{7},
	})
	if !errors.Is(err, ErrDirectorNotFound) {
		t.Fatalf("error = %v, want ErrDirectorNotFound", err)
	}
	if fx.genres.called {
		t.Fatalf("genres resolved before director validation failed")
	}
	if fx.movies.created != nil {
		t.Fatalf("movie persisted despite validation failure")
	}
}

func TestCreateMovieRejectsUnknownGenres(t *testing.T) {
	fx := newCatalogFixture(t)
	fx.directors.byID[1] = domain.Director{ID: 1, Name: "Director"}
	fx.genres.byID[10] = domain.Genre{ID: 10, Name: "Drama"}

	_, err := fx.catalog.CreateMovie(context.Background(), CreateMovieInput{
		Title:      "Partial",
		DirectorID: 1,
		GenreIDs:   []int64{10, 11},
	})
	if !errors.Is(err, ErrGenresNotFound) {
		t.Fatalf("error = %v, want ErrGenresNotFound", err)
	}
	if fx.movies.created != nil {
		t.Fatalf("movie persisted despite unknown genre")
	}
}

func TestCreateMovieToleratesDuplicateGenreIDs(t *testing.T) {
	fx := newCatalogFixture(t)
	fx.directors.byID[1] = domain.Director{ID: 1, Name: "Director"}
	fx.genres.byID[10] = domain.Genre{ID: 10, Name: "Drama"}

	detail, err := fx.catalog.CreateMovie(context.Background(), CreateMovieInput{
		Title:      "Twice Tagged",
		DirectorID: 1,
		GenreIDs:   []int64{10, 10, 10},
	})
	if err != nil {
		t.Fatalf("CreateMovie: %v", err)
	}
	if len(fx.movies.linkedGenres) != 1 || fx.movies.linkedGenres[0] != 10 {
		t.Fatalf("linked genres = %v, want [10]", fx.movies.linkedGenres)
	}
	if detail.Title != "Twice Tagged" {
		t.Fatalf("detail = %+v", detail)
	}
}

func TestCreateMovieAllowsEmptyGenreSet(t *testing.T) {
	fx := newCatalogFixture(t)
	fx.directors.byID[1] = domain.Director{ID: 1, Name: "Director"}

	detail, err := fx.catalog.CreateMovie(context.Background(), CreateMovieInput{
		Title:      "Bare",
		DirectorID: 1,
	})
	if err != nil {
		t.Fatalf("CreateMovie: %v", err)
	}
	if len(fx.movies.linkedGenres) != 0 {
		t.Fatalf("linked genres = %v, want none", fx.movies.linkedGenres)
	}
	if detail.Genres == nil || len(detail.Genres) != 0 {
		t.Fatalf("projected genres must be an empty slice: %+v", detail.Genres)
	}
	if detail.AverageRating != nil || detail.RatingsCount != 0 {
		t.Fatalf("fresh movie aggregate: %+v", detail)
	}
}

func TestUpdateMovieUnknownID(t *testing.T) {
	fx := newCatalogFixture(t)
	_, err := fx.catalog.UpdateMovie(context.Background(), 99, UpdateMovieInput{Title: "X"})
	if !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("error = %v, want ErrMovieNotFound", err)
	}
}

func TestUpdateMovieReplacesGenresAndKeepsDirector(t *testing.T) {
	fx := newCatalogFixture(t)
	fx.movies.byID[5] = domain.Movie{ID: 5, Title: "Old", DirectorID: 3}
	fx.genres.byID[20] = domain.Genre{ID: 20, Name: "Noir"}

	year := 1944
	detail, err := fx.catalog.UpdateMovie(context.Background(), 5, UpdateMovieInput{
		Title:       "New",
		ReleaseYear: &year,
		GenreIDs:    []int64{20},
	})
	if err != nil {
		t.Fatalf("UpdateMovie: %v", err)
	}
	if fx.movies.updatedID != 5 || fx.movies.updated.Title != "New" {
		t.Fatalf("update params: id=%d %+v", fx.movies.updatedID, fx.movies.updated)
	}
	if len(fx.movies.linkedGenres) != 1 || fx.movies.linkedGenres[0] != 20 {
		t.Fatalf("linked genres = %v, want [20]", fx.movies.linkedGenres)
	}
	// UpdateMovieInput has no director field at all; the stored reference
	// survives untouched.
	if fx.movies.byID[5].DirectorID != 3 {
		t.Fatalf("director changed: %d", fx.movies.byID[5].DirectorID)
	}
	if detail.Title != "New" {
		t.Fatalf("detail = %+v", detail)
	}
}

func TestUpdateMovieRejectsUnknownGenres(t *testing.T) {
	fx := newCatalogFixture(t)
	fx.movies.byID[5] = domain.Movie{ID: 5, Title: "Old", DirectorID: 3}

	_, err := fx.catalog.UpdateMovie(context.Background(), 5, UpdateMovieInput{Title: "New", GenreIDs: []int64{77}})
	if !errors.Is(err, ErrGenresNotFound) {
		t.Fatalf("error = %v, want ErrGenresNotFound", err)
	}
	if fx.movies.updated != nil {
		t.Fatalf("update persisted despite unknown genre")
	}
}

func TestDeleteMovie(t *testing.T) {
	fx := newCatalogFixture(t)
	fx.movies.byID[7] = domain.Movie{ID: 7}

	if err := fx.catalog.DeleteMovie(context.Background(), 7); err != nil {
		t.Fatalf("DeleteMovie: %v", err)
	}
	if err := fx.catalog.DeleteMovie(context.Background(), 7); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("second delete error = %v, want ErrMovieNotFound", err)
	}
}

func TestAddRatingValidationOrder(t *testing.T) {
	fx := newCatalogFixture(t)

	// Unknown movie wins over the out-of-range score.
	if _, err := fx.catalog.AddRating(context.Background(), 99, 50); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("error = %v, want ErrMovieNotFound", err)
	}
	if len(fx.ratings.created) != 0 {
		t.Fatalf("rating persisted for unknown movie")
	}

	fx.movies.byID[1] = domain.Movie{ID: 1, Title: "Rated"}
	for _, score := range []int{0, -1, 11, 100} {
		if _, err := fx.catalog.AddRating(context.Background(), 1, score); !errors.Is(err, ErrScoreOutOfRange) {
			t.Fatalf("score %d: error = %v, want ErrScoreOutOfRange", score, err)
		}
	}
	if len(fx.ratings.created) != 0 {
		t.Fatalf("out-of-range rating persisted")
	}
}

func TestAddRatingReturnsRefreshedDetail(t *testing.T) {
	fx := newCatalogFixture(t)
	fx.movies.byID[1] = domain.Movie{
		ID:      1,
		Title:   "Rated",
		Ratings: []domain.Rating{{ID: 1, MovieID: 1, Score: 8}},
	}

	detail, err := fx.catalog.AddRating(context.Background(), 1, 6)
	if err != nil {
		t.Fatalf("AddRating: %v", err)
	}
	if fx.ratings.movieID != 1 || len(fx.ratings.created) != 1 || fx.ratings.created[0] != 6 {
		t.Fatalf("rating not persisted: %+v", fx.ratings)
	}
	// The fake returns the stored movie, which still holds one rating;
	// the projection must reflect exactly what the reload produced.
	if detail.RatingsCount != 1 || detail.AverageRating == nil || *detail.AverageRating != 8.0 {
		t.Fatalf("detail aggregate = count %d avg %v", detail.RatingsCount, detail.AverageRating)
	}

	// Boundary scores 1 and 10 are accepted.
	for _, score := range []int{1, 10} {
		if _, err := fx.catalog.AddRating(context.Background(), 1, score); err != nil {
			t.Fatalf("boundary score %d rejected: %v", score, err)
		}
	}
}

func TestGetMovieUnknownID(t *testing.T) {
	fx := newCatalogFixture(t)
	if _, err := fx.catalog.GetMovie(context.Background(), 404); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("error = %v, want ErrMovieNotFound", err)
	}
}
