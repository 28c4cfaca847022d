package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/securematch/securematch/infrastructure/service/logger"
)

const CorrelationIDHeader = "X-Correlation-ID"

const maxCorrelationIDLength = 128

// CorrelationIDMiddleware ensures every request/response carries a correlation ID
// and stores it in the request context for the logger.
func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return CorrelationID(CorrelationIDHeader)(next)
}

// CorrelationID is CorrelationIDMiddleware with a custom header name.
func CorrelationID(header string) mux.MiddlewareFunc {
	if header == "" {
		header = CorrelationIDHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := r.Header.Get(header)
			if cid == "" || len(cid) > maxCorrelationIDLength {
				cid = uuid.NewString()
			}
			w.Header().Set(header, cid)
			ctx := logger.ContextWithCorrelationID(r.Context(), cid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
