// Package session tracks who is signed in to the console.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/console/query"
)

// ErrLoginRequired is returned by Guard when no token is held
var ErrLoginRequired = errors.New("login required")

// Routes a session sends the user to
const (
	LoginRoute   = "/login"
	DefaultRoute = "/athletes"
)

// Session holds the token, the API client using it and the cached identity
type Session struct {
	store  TokenStore
	client *client.Client
	cache  *query.Cache
}

// New creates a session, loading any token already in store into c
func New(store TokenStore, c *client.Client, cache *query.Cache) (*Session, error) {
	token, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if token != "" {
		c.SetToken(token)
	}
	if cache == nil {
		cache = query.NewCache()
	}
	return &Session{store: store, client: c, cache: cache}, nil
}

// Client returns the API client
func (s *Session) Client() *client.Client {
	return s.client
}

// Cache returns the query cache owned by the session
func (s *Session) Cache() *query.Cache {
	return s.cache
}

// Token returns the held access token
func (s *Session) Token() string {
	return s.client.Token()
}

// LoggedIn reports whether a token is held
func (s *Session) LoggedIn() bool {
	return s.client.Token() != ""
}

// Guard returns ErrLoginRequired unless a token is held
func (s *Session) Guard() error {
	if !s.LoggedIn() {
		return ErrLoginRequired
	}
	return nil
}

// Login exchanges credentials for a token and persists it
func (s *Session) Login(ctx context.Context, username, password string) error {
	tok, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := s.store.Save(tok.AccessToken); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.client.SetToken(tok.AccessToken)
	s.cache.Clear()
	return nil
}

// Signup registers an account. It does not sign the new account in.
func (s *Session) Signup(ctx context.Context, in client.UserRegister) (*client.User, error) {
	return s.client.Signup(ctx, in)
}

// Logout discards the token and everything cached for it
func (s *Session) Logout() error {
	s.client.SetToken("")
	s.cache.Clear()
	return s.store.Clear()
}

// CurrentUser returns the signed-in user, fetching it once per Invalidate
func (s *Session) CurrentUser(ctx context.Context) (*client.User, error) {
	if err := s.Guard(); err != nil {
		return nil, err
	}
	return query.Fetch(ctx, s.cache, query.CurrentUserKey, s.client.Me)
}

// Invalidate forgets the cached identity
func (s *Session) Invalidate() {
	s.cache.Remove(query.CurrentUserKey)
}

// RecoverPassword requests a reset token for email
func (s *Session) RecoverPassword(ctx context.Context, email string) (*client.Message, error) {
	return s.client.RecoverPassword(ctx, email)
}

// ResetPassword sets a new password from a reset token
func (s *Session) ResetPassword(ctx context.Context, in client.NewPassword) (*client.Message, error) {
	return s.client.ResetPassword(ctx, in)
}
