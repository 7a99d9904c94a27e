package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/shoken-receipts-backend/internal/logger"
	"github.com/ndewijer/shoken-receipts-backend/internal/metrics"
)

var sanitize = strings.NewReplacer("\n", "", "\r", "").Replace

// RequestLogger logs every request through log and records its status and latency in m.
// Requests are labelled with the matched chi route pattern so metrics stay bounded.
func RequestLogger(log *logger.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			route := routePattern(r)

			m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())

			reqLog := log.ForRequest(chimw.GetReqID(r.Context()), sanitize(r.Method), sanitize(r.URL.Path))
			fields := []any{"status", wrapped.statusCode, "duration", duration, "route", route}
			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				reqLog.Errorw("request failed", fields...)
			case wrapped.statusCode >= http.StatusBadRequest:
				reqLog.Warnw("request rejected", fields...)
			default:
				reqLog.Infow("request completed", fields...)
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
