package session

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TokenStore persists the access token between requests or runs
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// MemoryStore keeps the token in memory
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore creates a store holding token
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear() error {
	return s.Save("")
}

// FileStore keeps the token in a file readable only by its owner
type FileStore struct {
	Path string
}

// NewFileStore creates a store for the token file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// DefaultTokenFile returns ~/.regctl/token
func DefaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".regctl/token"
	}
	return filepath.Join(home, ".regctl", "token")
}

func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil // No token file is fine
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStore) Save(token string) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(token), 0600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// CookieName is the cookie the web console keeps the token in
const CookieName = "regsys_token"

// CookieStore keeps the token in a cookie for the duration of one request
type CookieStore struct {
	W      http.ResponseWriter
	R      *http.Request
	Secure bool
	MaxAge time.Duration
}

func (s *CookieStore) Load() (string, error) {
	c, err := s.R.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

func (s *CookieStore) Save(token string) error {
	http.SetCookie(s.W, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *CookieStore) Clear() error {
	http.SetCookie(s.W, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
