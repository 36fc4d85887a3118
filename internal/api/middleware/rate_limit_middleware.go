package middleware

import (
	"net"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/ratelimit"
)

// RateLimitMiddleware 以 client ip 為 key, 需放在 chi RealIP 之後
func RateLimitMiddleware(limiter ratelimit.ILimiter) func(next http.Handler) http.Handler {
	if limiter == nil {
		panic("limiter cannot be nil")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.Context(), clientIP(r)) {
				api.ErrorJSON(w, http.StatusTooManyRequests, "Too Many Requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
