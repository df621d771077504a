package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	traceIDCtxKey contextKey = "traceID"

	TraceIDHeader = "X-Trace-ID"
)

// TraceID injects a UUID trace ID into every request context and echoes it
// in the response header. An inbound X-Trace-ID is honored.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set(TraceIDHeader, traceID)

		ctx := context.WithValue(r.Context(), traceIDCtxKey, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTraceID retrieves the trace ID from the request context.
func GetTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDCtxKey).(string); ok {
		return v
	}
	return ""
}
