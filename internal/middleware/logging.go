package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"badgehub/internal/contextutils"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const slowRequestThreshold = 2 * time.Second

// StructuredLogging logs one line per completed request. Server errors log
// at error level, client errors and slow requests at warn.
func StructuredLogging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := contextutils.GetRequestStart(r.Context())
			requestLogger := contextutils.GetLogger(r.Context(), logger)

			rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			if ce := requestLogger.Check(logLevel(rw.status, duration), "Request completed"); ce != nil {
				ce.Write(
					zap.Int("status", rw.status),
					zap.Duration("duration", duration),
					zap.Int64("response_size", rw.bytesWritten),
					zap.String("query", r.URL.RawQuery),
				)
			}
		})
	}
}

func logLevel(status int, duration time.Duration) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400, duration > slowRequestThreshold:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// statusWriter records the status code and body size. It forwards Hijack so
// websocket upgrades pass through.
type statusWriter struct {
	http.ResponseWriter
	status       int
	bytesWritten int64
	wroteHeader  bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(data []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(data)
	w.bytesWritten += int64(n)
	return n, err
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func (w *statusWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
