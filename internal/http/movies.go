package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reelstack/moviecatalog/internal/metrics"
	"github.com/reelstack/moviecatalog/internal/service"
)

const maxRequestBody = 1 << 20 // 1 MiB

// apiResponse is the envelope every JSON response carries: a status
// discriminator, a data payload on success, an error descriptor on
// failure.
type apiResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type movieCreateRequest struct {
	Title       string  `json:"title" validate:"required"`
	DirectorID  int64   `json:"directorId" validate:"required,gt=0"`
	ReleaseYear *int    `json:"releaseYear" validate:"omitempty,gte=1888,lte=2100"`
	Cast        *string `json:"cast"`
	GenreIDs    []int64 `json:"genreIds" validate:"dive,gt=0"`
}

type movieUpdateRequest struct {
	Title       string  `json:"title" validate:"required"`
	ReleaseYear *int    `json:"releaseYear" validate:"omitempty,gte=1888,lte=2100"`
	Cast        *string `json:"cast"`
	GenreIDs    []int64 `json:"genreIds" validate:"dive,gt=0"`
}

// ratingCreateRequest carries no validate tags for the score on
// purpose: the range check belongs to the service layer, which reports
// it as a named condition.
type ratingCreateRequest struct {
	Score int `json:"score"`
}

// GET /movies
func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	in, err := buildListInput(r.URL.Query())
	if err != nil {
		s.respondFailure(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	page, err := s.catalog.ListMovies(r.Context(), in)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondSuccess(w, http.StatusOK, page)
}

// GET /movies/{id}
func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondFailure(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	detail, err := s.catalog.GetMovie(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondSuccess(w, http.StatusOK, detail)
}

// POST /movies
func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieCreateRequest
	if err := s.decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := validateStruct(req); err != nil {
		s.respondFailure(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	detail, err := s.catalog.CreateMovie(r.Context(), service.CreateMovieInput{
		Title:       strings.TrimSpace(req.Title),
		DirectorID:  req.DirectorID,
		ReleaseYear: req.ReleaseYear,
		Cast:        req.Cast,
		GenreIDs:    req.GenreIDs,
	})
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	metrics.MoviesCreated.Inc()
	w.Header().Set("Location", fmt.Sprintf("/movies/%d", detail.ID))
	s.respondSuccess(w, http.StatusCreated, detail)
}

// PUT /movies/{id}
func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondFailure(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var req movieUpdateRequest
	if err := s.decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := validateStruct(req); err != nil {
		s.respondFailure(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	detail, err := s.catalog.UpdateMovie(r.Context(), id, service.UpdateMovieInput{
		Title:       strings.TrimSpace(req.Title),
		ReleaseYear: req.ReleaseYear,
		Cast:        req.Cast,
		GenreIDs:    req.GenreIDs,
	})
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondSuccess(w, http.StatusOK, detail)
}

// DELETE /movies/{id}
func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondFailure(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.catalog.DeleteMovie(r.Context(), id); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /movies/{id}/ratings
//
// The response is the movie's updated detail projection, not the bare
// rating, so callers immediately see the new aggregate.
func (s *Server) handleAddRating(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondFailure(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var req ratingCreateRequest
	if err := s.decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	detail, err := s.catalog.AddRating(r.Context(), id, req.Score)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	metrics.RatingsCreated.Inc()
	s.respondSuccess(w, http.StatusCreated, detail)
}

// buildListInput parses the list query parameters. Out-of-range page
// and page_size values are passed through for the service to normalize;
// values that fail to parse at all are rejected so a typo never
// silently widens a result set.
func buildListInput(query url.Values) (service.ListMoviesInput, error) {
	var in service.ListMoviesInput

	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return in, fmt.Errorf("invalid page value")
		}
		in.Page = page
	}
	if raw := strings.TrimSpace(query.Get("page_size")); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil {
			return in, fmt.Errorf("invalid page_size value")
		}
		in.PageSize = pageSize
	}
	if raw := strings.TrimSpace(query.Get("title")); raw != "" {
		in.Title = &raw
	}
	if raw := strings.TrimSpace(query.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return in, fmt.Errorf("invalid year value")
		}
		in.Year = &year
	}
	if raw := strings.TrimSpace(query.Get("genre")); raw != "" {
		in.Genre = &raw
	}
	return in, nil
}

func parseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid movie id")
	}
	return id, nil
}

func (s *Server) decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error().Err(err).Msg("failed to encode response")
		}
	}
}

func (s *Server) respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	s.respondJSON(w, status, apiResponse{Status: "success", Data: data})
}

func (s *Server) respondFailure(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, apiResponse{
		Status: "failure",
		Error:  &apiError{Code: status, Message: message},
	})
}

// respondServiceError maps the service's named conditions to response
// codes; anything unrecognized is an opaque infrastructure failure.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMovieNotFound):
		s.respondFailure(w, http.StatusNotFound, service.ErrMovieNotFound.Error())
	case errors.Is(err, service.ErrDirectorNotFound):
		s.respondFailure(w, http.StatusUnprocessableEntity, service.ErrDirectorNotFound.Error())
	case errors.Is(err, service.ErrGenresNotFound):
		s.respondFailure(w, http.StatusUnprocessableEntity, service.ErrGenresNotFound.Error())
	case errors.Is(err, service.ErrScoreOutOfRange):
		s.respondFailure(w, http.StatusUnprocessableEntity, service.ErrScoreOutOfRange.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		s.respondFailure(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondFailure(w, http.StatusUnprocessableEntity, "malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondFailure(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondFailure(w, http.StatusUnprocessableEntity, "request body cannot be empty")
	default:
		s.respondFailure(w, http.StatusBadRequest, "unable to parse request body")
	}
}

// Request validation uses a package-level singleton; the validator
// caches struct metadata, so one instance serves every handler.
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func validateStruct(v interface{}) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return fmt.Errorf("invalid value for field(s): %s", strings.Join(fields, ", "))
	}
	return err
}
