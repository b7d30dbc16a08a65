package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// TraceHeader carries the per-request trace ID in responses
const TraceHeader = "X-Trace-ID"

type contextKey string

const traceIDKey contextKey = "traceID"

// Trace assigns every request a trace ID, stores it in the request context
// and echoes it in the X-Trace-ID response header
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := uuid.NewString()
		w.Header().Set(TraceHeader, traceID)

		ctx := context.WithValue(r.Context(), traceIDKey, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TraceID returns the trace ID stored by Trace, or "" if there is none
func TraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey).(string)
	return traceID
}
