package middleware

import (
	"net/http"
)

// Superuser returns middleware that lets only administrators through.
// Requires auth middleware to be applied first.
func Superuser(forbidden http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil || !user.IsSuperuser {
				forbidden.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
