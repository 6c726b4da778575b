package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/console/session"
	mw "github.com/hankerbiao/Registration-System/internal/middleware"
	"github.com/hankerbiao/Registration-System/internal/web/state"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
	entryContextKey   contextKey = "entry"
	userContextKey    contextKey = "user"
)

// DefaultCookieMaxAge matches the lifetime of an API access token
const DefaultCookieMaxAge = 8 * 24 * time.Hour

// Sessions opens the console session of each request
type Sessions struct {
	APIBaseURL   string
	HTTPClient   *http.Client
	Registry     *state.Registry
	Secure       bool
	CookieMaxAge time.Duration
}

// Open builds the session for one request. The entry is nil when the
// request carries no token.
func (s *Sessions) Open(w http.ResponseWriter, r *http.Request) (*session.Session, *state.Entry, error) {
	maxAge := s.CookieMaxAge
	if maxAge == 0 {
		maxAge = DefaultCookieMaxAge
	}
	store := &session.CookieStore{W: w, R: r, Secure: s.Secure, MaxAge: maxAge}

	token, err := store.Load()
	if err != nil {
		return nil, nil, err
	}

	opts := []client.Option{client.WithForwardedFor(mw.RemoteHost(r))}
	if s.HTTPClient != nil {
		opts = append(opts, client.WithHTTPClient(s.HTTPClient))
	}

	var entry *state.Entry
	if token != "" {
		entry = s.Registry.Get(token)
	}
	var sess *session.Session
	if entry != nil {
		sess, err = session.New(store, client.New(s.APIBaseURL, opts...), entry.Cache)
	} else {
		sess, err = session.New(store, client.New(s.APIBaseURL, opts...), nil)
	}
	if err != nil {
		return nil, nil, err
	}
	return sess, entry, nil
}

// Forget logs the session out and drops its registry entry
func (s *Sessions) Forget(sess *session.Session) error {
	s.Registry.Remove(sess.Token())
	return sess.Logout()
}

// GetSession retrieves the console session from the request context
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

// GetEntry retrieves the registry entry from the request context.
// Returns nil if the request carries no token.
func GetEntry(ctx context.Context) *state.Entry {
	entry, _ := ctx.Value(entryContextKey).(*state.Entry)
	return entry
}

// GetUser retrieves the signed-in user from the request context.
// Returns nil if nobody is signed in.
func GetUser(ctx context.Context) *client.User {
	user, _ := ctx.Value(userContextKey).(*client.User)
	return user
}

// ErrorRenderer writes a page for a request that could not be served
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, status int, err error)

// Auth returns middleware that requires a signed-in user.
// Redirects to the login page, remembering the original path.
func Auth(s *Sessions, onError ErrorRenderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, entry, err := s.Open(w, r)
			if err != nil {
				onError(w, r, http.StatusBadRequest, err)
				return
			}

			if err := sess.Guard(); err != nil {
				redirectToLogin(w, r)
				return
			}

			user, err := sess.CurrentUser(r.Context())
			if err != nil {
				var apiErr *client.APIError
				if errors.As(err, &apiErr) {
					// The API no longer accepts the token
					_ = s.Forget(sess)
					redirectToLogin(w, r)
					return
				}
				onError(w, r, http.StatusBadGateway, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			ctx = context.WithValue(ctx, entryContextKey, entry)
			ctx = context.WithValue(ctx, userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns middleware that opens the session without requiring
// a user. Sets the user in context if the token is accepted, nil otherwise.
func OptionalAuth(s *Sessions, onError ErrorRenderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, entry, err := s.Open(w, r)
			if err != nil {
				onError(w, r, http.StatusBadRequest, err)
				return
			}

			var user *client.User
			if sess.LoggedIn() {
				user, _ = sess.CurrentUser(r.Context())
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			ctx = context.WithValue(ctx, entryContextKey, entry)
			ctx = context.WithValue(ctx, userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, session.LoginRoute+"?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
}
