package cli

import (
	"os"

	"github.com/hankerbiao/Registration-System/internal/console/session"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("REGCTL_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("REGCTL_TOKEN"),
		TokenFile: getEnvOrDefault("REGCTL_TOKEN_FILE", session.DefaultTokenFile()),
		Output:    getEnvOrDefault("REGCTL_OUTPUT", "text"),
	}
}

// tokenStore reads an explicit --token before the token file. Login and
// logout always write the file.
type tokenStore struct {
	override string
	file     *session.FileStore
}

func newTokenStore(c *Config) *tokenStore {
	return &tokenStore{override: c.Token, file: session.NewFileStore(c.TokenFile)}
}

func (s *tokenStore) Load() (string, error) {
	if s.override != "" {
		return s.override, nil
	}
	return s.file.Load()
}

func (s *tokenStore) Save(token string) error {
	s.override = ""
	return s.file.Save(token)
}

func (s *tokenStore) Clear() error {
	s.override = ""
	return s.file.Clear()
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
