package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hankerbiao/Registration-System/internal/console/notify"
)

const (
	flashCookieName = "flash"
	flashContextKey = contextKey("flash")
)

// GetFlash retrieves the toasts carried over from the previous request
// Returns nil if there are none
func GetFlash(ctx context.Context) []notify.Toast {
	toasts, _ := ctx.Value(flashContextKey).([]notify.Toast)
	return toasts
}

// SetFlash sets toasts to be displayed on the next request
func SetFlash(w http.ResponseWriter, toasts ...notify.Toast) {
	data, err := json.Marshal(toasts)
	if err != nil {
		return
	}
	// Cookie values cannot carry the message text directly
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   60, // 1 minute expiry
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flash returns middleware that reads and clears flash toasts
func Flash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var toasts []notify.Toast

			cookie, err := r.Cookie(flashCookieName)
			if err == nil && cookie.Value != "" {
				toasts = parseFlash(cookie.Value)

				// Clear the cookie
				http.SetCookie(w, &http.Cookie{
					Name:     flashCookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					Expires:  time.Unix(0, 0),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), flashContextKey, toasts)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseFlash(value string) []notify.Toast {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var toasts []notify.Toast
	if err := json.Unmarshal(data, &toasts); err != nil {
		return nil
	}
	return toasts
}
