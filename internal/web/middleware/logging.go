package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hankerbiao/Registration-System/internal/middleware"
)

// Logging creates logging middleware for the web console
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}
