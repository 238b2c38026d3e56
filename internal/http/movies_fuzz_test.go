package httpserver

import (
	"net/url"
	"testing"
)

func FuzzBuildListInput(f *testing.F) {
	seeds := []string{
		"title=Winter&genre=Drama&year=1963",
		"year=abc",
		"page=2&page_size=200",
		"page_size=-1",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		in, err := buildListInput(values)
		if err != nil {
			return
		}
		// A successfully parsed title or genre is never blank: blank
		// inputs must be dropped, not wrapped in a pointer.
		if in.Title != nil && *in.Title == "" {
			t.Fatalf("blank title pointer for query %q", raw)
		}
		if in.Genre != nil && *in.Genre == "" {
			t.Fatalf("blank genre pointer for query %q", raw)
		}
	})
}
