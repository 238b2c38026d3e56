package domain

import "time"

// Movie represents the canonical movie entity in the database/service.
// Director, Genres, and Ratings are populated by the repository's
// eager-loading queries so callers never trigger follow-up fetches.
type Movie struct {
	ID         int64
	Title      string
	DirectorID int64
	Year       *int
	Cast       *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Director *Director
	Genres   []Genre
	Ratings  []Rating
}
