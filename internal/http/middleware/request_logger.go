package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/openfence/fence-quote-api/pkg/logging"
)

// RequestLogger emits one structured record per request once the
// response is written, carrying the fields the intake pipeline is
// debugged by: status, duration, request id, and the widget's Origin.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
				"remote_ip", r.RemoteAddr,
			}
			if origin := r.Header.Get("Origin"); origin != "" {
				attrs = append(attrs, "origin", origin)
			}
			logger.Info("http request", attrs...)
		})
	}
}
