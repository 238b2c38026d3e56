package service

import (
	"testing"
	"time"

	"github.com/reelstack/moviecatalog/internal/domain"
)

func ratingsWithScores(scores ...int) []domain.Rating {
	ratings := make([]domain.Rating, 0, len(scores))
	for i, score := range scores {
		ratings = append(ratings, domain.Rating{ID: int64(i + 1), Score: score})
	}
	return ratings
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   float64
	}{
		{"single", []int{8}, 8.0},
		{"two scores mean", []int{8, 6}, 7.0},
		{"exact half", []int{8, 7}, 7.5},
		{"one decimal", []int{7, 7, 8}, 7.3},
		{"rounds up", []int{7, 8, 8}, 7.7},
		{"all max", []int{10, 10, 10}, 10.0},
		{"all min", []int{1, 1}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := averageRating(ratingsWithScores(tt.scores...))
			if got == nil {
				t.Fatalf("averageRating(%v) = nil", tt.scores)
			}
			if *got != tt.want {
				t.Fatalf("averageRating(%v) = %v, want %v", tt.scores, *got, tt.want)
			}
		})
	}
}

func TestAverageRatingNoRatings(t *testing.T) {
	if got := averageRating(nil); got != nil {
		t.Fatalf("averageRating(nil) = %v, want nil", *got)
	}
	if got := averageRating([]domain.Rating{}); got != nil {
		t.Fatalf("averageRating(empty) = %v, want nil", *got)
	}
}

func TestToListItem(t *testing.T) {
	year := 1954
	movie := domain.Movie{
		ID:    3,
		Title: "Seven Samurai",
		Year:  &year,
		Director: &domain.Director{
			ID:   1,
			Name: "Akira Kurosawa",
		},
		Genres:  []domain.Genre{{ID: 2, Name: "Drama"}, {ID: 5, Name: "Action"}},
		Ratings: ratingsWithScores(9, 10),
	}

	item := toListItem(movie)
	if item.ID != 3 || item.Title != "Seven Samurai" || *item.ReleaseYear != 1954 {
		t.Fatalf("item = %+v", item)
	}
	if item.Director.ID != 1 || item.Director.Name != "Akira Kurosawa" {
		t.Fatalf("director = %+v", item.Director)
	}
	if len(item.Genres) != 2 || item.Genres[0] != "Drama" || item.Genres[1] != "Action" {
		t.Fatalf("genres = %v", item.Genres)
	}
	if item.AverageRating == nil || *item.AverageRating != 9.5 || item.RatingsCount != 2 {
		t.Fatalf("aggregate = avg %v count %d", item.AverageRating, item.RatingsCount)
	}
}

func TestToListItemEmptyCollections(t *testing.T) {
	item := toListItem(domain.Movie{ID: 1, Title: "Bare"})
	if item.Genres == nil || len(item.Genres) != 0 {
		t.Fatalf("genres must be an empty slice, got %#v", item.Genres)
	}
	if item.AverageRating != nil {
		t.Fatalf("average for unrated movie = %v, want nil", *item.AverageRating)
	}
	if item.RatingsCount != 0 {
		t.Fatalf("ratingsCount = %d", item.RatingsCount)
	}
	if item.ReleaseYear != nil {
		t.Fatalf("releaseYear = %v, want nil", *item.ReleaseYear)
	}
}

func TestDirectorRefFallback(t *testing.T) {
	ref := directorRef(domain.Movie{ID: 1})
	if ref.ID != 0 || ref.Name != "Unknown" {
		t.Fatalf("fallback ref = %+v", ref)
	}
}

func TestToDetail(t *testing.T) {
	cast := "Toshiro Mifune"
	updated := time.Date(2026, 3, 14, 9, 26, 53, 0, time.FixedZone("JST", 9*3600))
	movie := domain.Movie{
		ID:        3,
		Title:     "Seven Samurai",
		Cast:      &cast,
		UpdatedAt: updated,
	}

	detail := toDetail(movie)
	if detail.Cast == nil || *detail.Cast != cast {
		t.Fatalf("cast = %v", detail.Cast)
	}
	if detail.UpdatedAt == nil {
		t.Fatalf("updatedAt missing")
	}
	// RFC 3339 in UTC regardless of the stored zone.
	if *detail.UpdatedAt != "2026-03-14T00:26:53Z" {
		t.Fatalf("updatedAt = %q", *detail.UpdatedAt)
	}
}

func TestToDetailZeroUpdatedAt(t *testing.T) {
	detail := toDetail(domain.Movie{ID: 1, Title: "Bare"})
	if detail.UpdatedAt != nil {
		t.Fatalf("updatedAt for zero time = %q, want nil", *detail.UpdatedAt)
	}
	if detail.Cast != nil {
		t.Fatalf("cast = %v, want nil", *detail.Cast)
	}
}
