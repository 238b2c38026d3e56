package domain

// Director is a movie's credited director. Rows are managed externally;
// the service only reads them.
type Director struct {
	ID          int64
	Name        string
	BirthYear   *int
	Description *string
}
