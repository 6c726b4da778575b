package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hankerbiao/Registration-System/internal/api/apierr"
	"github.com/hankerbiao/Registration-System/internal/middleware"
)

// Recovery creates panic recovery middleware for the API
// Returns JSON error responses on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

// LoginRateLimit throttles credential checks per client address
func LoginRateLimit(limiter *middleware.RateLimiter) func(http.Handler) http.Handler {
	return middleware.RateLimit(limiter, func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewTooManyRequestsError())
	})
}
