package service

import "errors"

// Typed conditions raised by the orchestration layer. Each one maps to
// a specific response code at the HTTP boundary; anything else coming
// out of this package is an infrastructure failure.
var (
	// ErrMovieNotFound reports that the target movie does not exist.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrDirectorNotFound reports that a movie creation referenced an
	// unknown director.
	ErrDirectorNotFound = errors.New("director not found")

	// ErrGenresNotFound reports that one or more supplied genre ids do
	// not exist. Partial validity is not partial success.
	ErrGenresNotFound = errors.New("one or more genres not found")

	// ErrScoreOutOfRange reports a rating score outside [1, 10].
	ErrScoreOutOfRange = errors.New("score must be between 1 and 10")
)
