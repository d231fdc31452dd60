package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iho/moneymanager/internal/adapter/http/dto"
	"github.com/iho/moneymanager/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status and writes it. Internal failures
// are logged and their details withheld.
func writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg(message)
		writeError(w, status, message, "An error occurred")
		return
	}
	writeError(w, status, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEditWindowExpired):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseRangeQuery reads startDate and endDate. It returns nil unless both
// are present.
func parseRangeQuery(r *http.Request, loc *time.Location) (*domain.DateRange, error) {
	q := r.URL.Query()
	startRaw, endRaw := q.Get("startDate"), q.Get("endDate")
	if startRaw == "" || endRaw == "" {
		return nil, nil
	}

	start, err := dto.ParseDateTime(startRaw, loc)
	if err != nil {
		return nil, err
	}
	end, err := dto.ParseDateTime(endRaw, loc)
	if err != nil {
		return nil, err
	}
	return &domain.DateRange{Start: start, End: end}, nil
}

// optionalEnum parses a query parameter with parse, returning nil when absent.
func optionalEnum[T ~string](r *http.Request, key string, parse func(string) (T, error)) (*T, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := parse(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
