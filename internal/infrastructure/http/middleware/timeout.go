package middleware

import (
	"context"
	"net/http"
	"time"
)

// WithTimeout bounds the request context. The server's WriteTimeout still
// applies; this caps downstream database and SMTP work per route.
func WithTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
