package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/moneymanager/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader  = "Idempotency-Key"
	defaultIdempotencyTTL = 24 * time.Hour
	pendingResponse       = "processing"
)

// storedResponse is what gets replayed for a repeated key.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyMiddleware replays the first successful response for a repeated
// Idempotency-Key on POST and PUT requests.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, logger: logger}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get(IdempotencyKeyHeader)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		// the same key on a different endpoint is a different request
		key := r.Method + " " + r.URL.Path + " " + header

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			m.logger.Error().Err(err).Msg("idempotency check failed")
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if exists {
			if cached == nil || string(cached) == pendingResponse {
				http.Error(w, "a request with this idempotency key is in progress", http.StatusConflict)
				return
			}
			replay(w, cached)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// detached so a client hang-up does not leave the key locked
		ctx := context.WithoutCancel(r.Context())

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			if err := m.store.Release(ctx, key); err != nil {
				m.logger.Warn().Err(err).Msg("failed to release idempotency key")
			}
			return
		}

		payload, err := json.Marshal(storedResponse{
			Status:      recorder.statusCode,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		})
		if err == nil {
			err = m.store.Update(ctx, key, payload, m.ttl)
		}
		if err != nil {
			m.logger.Warn().Err(err).Msg("failed to store idempotent response")
		}
	})
}

func replay(w http.ResponseWriter, cached []byte) {
	var stored storedResponse
	if err := json.Unmarshal(cached, &stored); err != nil || stored.Status == 0 {
		// raw body written by something other than this middleware
		stored = storedResponse{Status: http.StatusOK, ContentType: "application/json", Body: cached}
	}

	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set("X-Idempotency-Replay", "true")
	w.WriteHeader(stored.Status)
	w.Write(stored.Body)
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
