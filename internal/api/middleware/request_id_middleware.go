package middleware

import (
	"context"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/google/uuid"
)

const requestIDHeader = "request_id"

// RequestIdMiddleware 沿用上游的 request_id, 沒有就產生一個
func RequestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), constants.RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
