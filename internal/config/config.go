package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "REGSYS"

// Config holds server configuration aggregated from env, .env and config files.
type Config struct {
	Server struct {
		Host            string
		Port            int
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}
	Storage struct {
		Type        string
		RedisURL    string
		PostgresURL string
		Migrate     bool
	}
	Auth struct {
		Secret      string
		TokenTTL    time.Duration
		ResetTTL    time.Duration
		LoginPerMin int
		LoginBurst  int
	}
	Forms struct {
		Source   string
		Path     string
		Bucket   string
		Key      string
		Region   string
		Endpoint string
	}
	Superuser struct {
		Email    string
		Password string
	}
	Console struct {
		APIBaseURL    string
		SecureCookies bool
		IdleTimeout   time.Duration
	}
}

// Load reads configuration from the environment, an optional .env file
// and an optional config.{yaml,json,toml} in the working directory.
func Load() (Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, dir string) (Config, error) {
	if err := godotenv.Load(dir + "/.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.readtimeout", 15*time.Second)
	v.SetDefault("server.writetimeout", 60*time.Second)
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.redisurl", "redis://localhost:6379/0")
	v.SetDefault("storage.postgresurl", "")
	v.SetDefault("storage.migrate", true)

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.tokenttl", 8*24*time.Hour)
	v.SetDefault("auth.resetttl", 48*time.Hour)
	v.SetDefault("auth.loginpermin", 20)
	v.SetDefault("auth.loginburst", 5)

	v.SetDefault("forms.source", "file")
	v.SetDefault("forms.path", "data/registration_form.xlsx")
	v.SetDefault("forms.bucket", "")
	v.SetDefault("forms.key", "")
	v.SetDefault("forms.region", "us-east-1")
	v.SetDefault("forms.endpoint", "")

	v.SetDefault("superuser.email", "admin@example.com")
	v.SetDefault("superuser.password", "changethis")

	v.SetDefault("console.apibaseurl", "")
	v.SetDefault("console.securecookies", false)
	v.SetDefault("console.idletimeout", 30*time.Minute)
}

func (c Config) validate() error {
	switch c.Storage.Type {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("invalid storage type %q: must be memory, redis or postgres", c.Storage.Type)
	}
	if c.Storage.Type == "postgres" && c.Storage.PostgresURL == "" {
		return errors.New("storage.postgresurl is required for postgres storage")
	}
	switch c.Forms.Source {
	case "file":
	case "s3":
		if c.Forms.Bucket == "" || c.Forms.Key == "" {
			return errors.New("forms.bucket and forms.key are required for the s3 form source")
		}
	default:
		return fmt.Errorf("invalid form source %q: must be file or s3", c.Forms.Source)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Console.IdleTimeout < time.Second {
		return fmt.Errorf("console.idletimeout %s is too short", c.Console.IdleTimeout)
	}
	return nil
}

// Addr is the host:port the server listens on
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ConsoleAPIBaseURL is where the web console reaches the JSON API. It
// defaults to the server itself on the loopback interface.
func (c Config) ConsoleAPIBaseURL() string {
	if c.Console.APIBaseURL != "" {
		return strings.TrimRight(c.Console.APIBaseURL, "/")
	}
	return fmt.Sprintf("http://127.0.0.1:%d", c.Server.Port)
}
