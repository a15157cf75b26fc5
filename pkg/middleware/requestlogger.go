package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/catalog-datagen/pkg/httputil"
	"github.com/utafrali/catalog-datagen/pkg/logger"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// RequestLogger logs each request at debug level, tagged with the run ID of
// the generation run the server belongs to. Scrapes and probes are frequent,
// so only non-2xx responses are logged at warn.
func RequestLogger(base *slog.Logger, runID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := logger.WithRunID(r.Context(), runID)
			l := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, l)

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			level := slog.LevelDebug
			if wrapped.statusCode >= http.StatusBadRequest {
				level = slog.LevelWarn
			}
			l.Log(ctx, level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", wrapped.bytes),
				slog.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	httputil.WriteError(w, status, code, message, logger.RunIDFromContext(r.Context()))
}
