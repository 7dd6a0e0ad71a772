// Package httplog provides HTTP middleware that emits one structured log
// record per request through a logger, correlated by a request id.
package httplog

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/j-raghavan/goguru/core"
	"github.com/j-raghavan/goguru/logctx"
	"github.com/j-raghavan/goguru/logger"
)

// Middleware wraps a handler so that every request produces one info
// record carrying method, path, status, response size, duration and a
// request id. A nil logger falls back to the global one.
//
// The request id is taken from chi's RequestID middleware when present,
// then from the incoming X-Request-ID header, and generated as a UUIDv7
// otherwise. It is echoed on the response and pushed into the request
// context so handlers can attach it to their own records via logctx.
func Middleware(l *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := middleware.GetReqID(r.Context())
			if requestID == "" {
				requestID = r.Header.Get("X-Request-ID")
			}
			if requestID == "" {
				requestID = logctx.RequestID()
			}
			w.Header().Set("X-Request-ID", requestID)

			ctx := logctx.With(r.Context(), "request_id", requestID)
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r.WithContext(ctx))

			target := l
			if target == nil {
				target = logger.Global()
			}
			rec := core.NewRecord(core.InfoLevel, r.Method+" "+r.URL.Path).
				WithMetadata("request_id", requestID).
				WithMetadata("method", r.Method).
				WithMetadata("path", r.URL.Path).
				WithMetadata("status", fmt.Sprintf("%d", ww.status)).
				WithMetadata("response_size", fmt.Sprintf("%d", ww.bytesWritten)).
				WithMetadata("duration", time.Since(start).String()).
				WithMetadata("remote_ip", r.RemoteAddr)
			target.Log(rec)
		})
	}
}

// responseWriter captures status and size while delegating the optional
// http interfaces to the wrapped writer.
type responseWriter struct {
	http.ResponseWriter
	status       int
	bytesWritten int64
	wroteHeader  bool
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(data)
	w.bytesWritten += int64(n)
	return n, err
}

// Flush implements http.Flusher for streaming responses.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack implements http.Hijacker for connection upgrades.
func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Unwrap returns the underlying ResponseWriter for interface checks.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
