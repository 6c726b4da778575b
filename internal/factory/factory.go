package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hankerbiao/Registration-System/internal/dependencies/clock"
	"github.com/hankerbiao/Registration-System/internal/dependencies/idgen"
	"github.com/hankerbiao/Registration-System/internal/services/athletes"
	"github.com/hankerbiao/Registration-System/internal/services/auth"
	"github.com/hankerbiao/Registration-System/internal/services/users"
	"github.com/hankerbiao/Registration-System/internal/storage"
	"github.com/hankerbiao/Registration-System/internal/storage/forms"
	"github.com/hankerbiao/Registration-System/internal/storage/memory"
	"github.com/hankerbiao/Registration-System/internal/storage/postgres"
	redisstorage "github.com/hankerbiao/Registration-System/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// Form source constants
const (
	FormSourceFile = "file"
	FormSourceS3   = "s3"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Forms   forms.Store

	// External dependencies
	Clock clock.Clock
	IDs   idgen.Generator

	// Services
	AuthService    *auth.Service
	UserService    *users.Service
	AthleteService *athletes.Service

	closers []io.Closer
}

// Close releases storage connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// FormsConfig selects where the registration form is read from
type FormsConfig struct {
	// Source is "file" or "s3"; defaults to "file"
	Source string
	// Path is the local file served when Source is "file"
	Path string
	// S3 locates the object served when Source is "s3"
	S3 forms.S3Config
}

// Superuser is the administrator account created on first start
type Superuser struct {
	Email    string
	Password string
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If Secret is empty a random secret is generated, invalidating tokens on restart
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresURL is the connection URL (required if StorageType is "postgres")
	PostgresURL string
	// MigratePostgres applies pending schema migrations before connecting
	MigratePostgres bool
	// Forms selects the registration form source
	Forms FormsConfig
	// Mailer delivers password reset tokens (optional, defaults to logging them)
	Mailer auth.Mailer
	// FirstSuperuser is created when no account uses its email (optional)
	FirstSuperuser Superuser
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var closers []io.Closer

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	case StorageTypePostgres:
		if cfg.PostgresURL == "" {
			return nil, errors.New("PostgresURL required when StorageType is postgres")
		}
		if cfg.MigratePostgres {
			if err := postgres.Migrate(cfg.PostgresURL); err != nil {
				return nil, err
			}
		}
		pgStore, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		store = pgStore
		closers = append(closers, pgStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	formStore, err := newFormStore(ctx, cfg.Forms)
	if err != nil {
		return nil, err
	}

	authCfg := cfg.AuthConfig
	if len(authCfg.Secret) == 0 {
		authCfg.Secret = []byte(idgen.New().NewID())
		logger.Warn("no token secret configured, generated a random one")
	}

	mailer := cfg.Mailer
	if mailer == nil {
		mailer = auth.LogMailer{Logger: logger}
	}

	app := newWithDependencies(store, formStore, clock.New(), idgen.New(), authCfg, mailer, logger)
	app.closers = closers

	created, err := app.UserService.EnsureSuperuser(ctx, cfg.FirstSuperuser.Email, cfg.FirstSuperuser.Password)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if created {
		logger.Info("first superuser created", slog.String("email", cfg.FirstSuperuser.Email))
	}

	return app, nil
}

func newFormStore(ctx context.Context, cfg FormsConfig) (forms.Store, error) {
	switch cfg.Source {
	case "", FormSourceFile:
		return forms.NewFileStore(cfg.Path), nil
	case FormSourceS3:
		store, err := forms.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("registration form store: %w", err)
		}
		return store, nil
	default:
		return nil, errors.New("invalid form source: must be 'file' or 's3'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	formStore forms.Store,
	clk clock.Clock,
	ids idgen.Generator,
	authCfg auth.Config,
	mailer auth.Mailer,
	logger *slog.Logger,
) *App {
	// Create services
	authService := auth.New(store, clk, mailer, authCfg)
	userService := users.New(store, authService, clk, ids, logger)
	athleteService := athletes.New(store, clk, ids, logger)

	return &App{
		Storage:        store,
		Forms:          formStore,
		Clock:          clk,
		IDs:            ids,
		AuthService:    authService,
		UserService:    userService,
		AthleteService: athleteService,
	}
}
