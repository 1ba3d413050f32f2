// Package server wires the HTTP routes and middleware.
package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diewo77/paytrack/internal/handlers"
	"github.com/diewo77/paytrack/internal/httpx"
	"github.com/diewo77/paytrack/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// NewRouter returns the API handler with request logging applied.
func NewRouter(ih *handlers.InvoiceHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /invoices", ih.Create)
	mux.HandleFunc("GET /invoices/{id}", ih.View)
	mux.HandleFunc("DELETE /invoices/{id}", ih.Delete)
	mux.HandleFunc("POST /invoices/{id}/payments", ih.RecordPayment)
	return WithLogging(logger.WithComponent("http"), mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithLogging logs every request and tags it with a request id, reusing the
// caller's X-Request-ID when present. The id travels in the request context
// so service log lines carry it too.
func WithLogging(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		reqLog := log.With().Str("request_id", reqID).Logger()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := logger.ContextWithRequestID(reqLog.WithContext(r.Context()), reqID)
		next.ServeHTTP(rec, r.WithContext(ctx))

		reqLog.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
