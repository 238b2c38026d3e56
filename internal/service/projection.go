package service

import (
	"math"
	"time"

	"github.com/reelstack/moviecatalog/internal/domain"
)

// DirectorRef is the director shape embedded in movie projections.
type DirectorRef struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	BirthYear   *int    `json:"birthYear,omitempty"`
	Description *string `json:"description,omitempty"`
}

// MovieListItem is the projection used in listing responses.
// AverageRating is null (never zero) when the movie has no ratings;
// scores start at 1, so callers can always tell the two states apart.
type MovieListItem struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	ReleaseYear   *int        `json:"releaseYear,omitempty"`
	Director      DirectorRef `json:"director"`
	Genres        []string    `json:"genres"`
	AverageRating *float64    `json:"averageRating"`
	RatingsCount  int         `json:"ratingsCount"`
}

// MovieDetail extends the list item with the cast field and the last
// modification timestamp.
type MovieDetail struct {
	MovieListItem
	Cast      *string `json:"cast,omitempty"`
	UpdatedAt *string `json:"updatedAt,omitempty"`
}

// MoviePage wraps one page of list items.
type MoviePage struct {
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalItems int             `json:"totalItems"`
	Items      []MovieListItem `json:"items"`
}

func toListItem(movie domain.Movie) MovieListItem {
	return MovieListItem{
		ID:            movie.ID,
		Title:         movie.Title,
		ReleaseYear:   movie.Year,
		Director:      directorRef(movie),
		Genres:        genreNames(movie.Genres),
		AverageRating: averageRating(movie.Ratings),
		RatingsCount:  len(movie.Ratings),
	}
}

func toDetail(movie domain.Movie) MovieDetail {
	detail := MovieDetail{
		MovieListItem: toListItem(movie),
		Cast:          movie.Cast,
	}
	if !movie.UpdatedAt.IsZero() {
		formatted := movie.UpdatedAt.UTC().Format(time.RFC3339)
		detail.UpdatedAt = &formatted
	}
	return detail
}

// directorRef substitutes an explicit sentinel when the director
// reference is unresolved at read time. With director_id NOT NULL plus
// an FK this should be unreachable; it guards rows predating those
// constraints without failing the read.
func directorRef(movie domain.Movie) DirectorRef {
	if movie.Director == nil {
		return DirectorRef{ID: 0, Name: "Unknown"}
	}
	return DirectorRef{
		ID:          movie.Director.ID,
		Name:        movie.Director.Name,
		BirthYear:   movie.Director.BirthYear,
		Description: movie.Director.Description,
	}
}

// genreNames projects genres to their names in the order the data
// access layer returned them.
func genreNames(genres []domain.Genre) []string {
	names := make([]string, 0, len(genres))
	for _, genre := range genres {
		names = append(names, genre.Name)
	}
	return names
}

// averageRating returns the mean score rounded to one decimal place,
// or nil when there are no ratings.
func averageRating(ratings []domain.Rating) *float64 {
	if len(ratings) == 0 {
		return nil
	}
	sum := 0
	for _, rating := range ratings {
		sum += rating.Score
	}
	avg := math.Round(float64(sum)/float64(len(ratings))*10) / 10
	return &avg
}
