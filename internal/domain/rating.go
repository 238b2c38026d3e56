package domain

import "time"

// Rating is a single user-submitted score for a movie. Ratings are
// immutable once created and are removed only when their movie is
// deleted.
type Rating struct {
	ID        int64
	MovieID   int64
	Score     int
	CreatedAt time.Time
}
