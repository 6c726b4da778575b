package middleware

import (
	"net/http"

	"github.com/hankerbiao/Registration-System/internal/web/templates/layout"
)

const themeCookieName = "theme"

// GetTheme returns the colour theme chosen in this browser, or
// layout.ThemeSystem when none was chosen
func GetTheme(r *http.Request) string {
	cookie, err := r.Cookie(themeCookieName)
	if err != nil || !layout.ValidTheme(cookie.Value) {
		return layout.ThemeSystem
	}
	return cookie.Value
}

// SetTheme remembers the colour theme for a year
func SetTheme(w http.ResponseWriter, theme string) {
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookieName,
		Value:    theme,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
