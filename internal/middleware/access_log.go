package middleware

import (
	"net/http"
	"time"

	"pet-store-console/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLog registra método, ruta, status y latencia de cada request.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			fields := map[string]any{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"latency_ms": time.Since(start).Milliseconds(),
				"request_id": chimw.GetReqID(r.Context()),
			}
			switch {
			case ww.Status() >= 500:
				log.Error("request", fields)
			case ww.Status() >= 400:
				log.Warn("request", fields)
			default:
				log.Info("request", fields)
			}
		})
	}
}
