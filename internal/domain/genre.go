package domain

// Genre classifies movies. Names are unique; membership in a movie's
// genre set has no ordering significance.
type Genre struct {
	ID          int64
	Name        string
	Description *string
}
