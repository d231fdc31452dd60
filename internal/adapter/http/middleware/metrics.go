package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/moneymanager/internal/infrastructure/metrics"
)

// Metrics records request counts, latencies and in-flight requests.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.HTTPInFlight.Inc()
			defer m.HTTPInFlight.Dec()

			wrapped := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(wrapped, r)

			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}

			path := routePattern(r)
			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// routePattern labels a request by its chi route, e.g.
// /api/v1/accounts/{id}, keeping IDs out of the label values.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
