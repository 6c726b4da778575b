package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hankerbiao/Registration-System/internal/api"
	"github.com/hankerbiao/Registration-System/internal/config"
	"github.com/hankerbiao/Registration-System/internal/factory"
	"github.com/hankerbiao/Registration-System/internal/middleware"
	"github.com/hankerbiao/Registration-System/internal/services/auth"
	"github.com/hankerbiao/Registration-System/internal/storage/forms"
	redisstorage "github.com/hankerbiao/Registration-System/internal/storage/redis"
	"github.com/hankerbiao/Registration-System/internal/web"
	"github.com/hankerbiao/Registration-System/internal/web/state"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := factory.New(ctx, factoryConfig(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	limiterCfg := middleware.DefaultRateLimitConfig()
	limiterCfg.PerMinute = cfg.Auth.LoginPerMin
	limiterCfg.Burst = cfg.Auth.LoginBurst

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		UserService:    app.UserService,
		AthleteService: app.AthleteService,
		Forms:          app.Forms,
		LoginLimiter:   middleware.NewRateLimiter(limiterCfg),
	})

	// Console sessions are swept in the background
	registry := state.NewRegistry(logger, cfg.Console.IdleTimeout, app.Clock)
	go registry.Run(ctx, cfg.Console.IdleTimeout/2)

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:        logger,
		APIBaseURL:    cfg.ConsoleAPIBaseURL(),
		Registry:      registry,
		SecureCookies: cfg.Console.SecureCookies,
		CookieMaxAge:  cfg.Auth.TokenTTL,
		StaticDir:     findStaticDir(),
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	serverConfig.Port = cfg.Server.Port
	serverConfig.ReadTimeout = cfg.Server.ReadTimeout
	serverConfig.WriteTimeout = cfg.Server.WriteTimeout
	serverConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	server := api.NewServer(mux, serverConfig, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
		slog.String("forms", cfg.Forms.Source))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

func factoryConfig(cfg config.Config, logger *slog.Logger) factory.Config {
	authCfg := auth.DefaultConfig()
	authCfg.Secret = []byte(cfg.Auth.Secret)
	authCfg.AccessTokenDuration = cfg.Auth.TokenTTL
	authCfg.ResetTokenDuration = cfg.Auth.ResetTTL

	fc := factory.Config{
		AuthConfig:      authCfg,
		Logger:          logger,
		StorageType:     cfg.Storage.Type,
		PostgresURL:     cfg.Storage.PostgresURL,
		MigratePostgres: cfg.Storage.Migrate,
		Forms: factory.FormsConfig{
			Source: cfg.Forms.Source,
			Path:   cfg.Forms.Path,
			S3: forms.S3Config{
				Bucket:   cfg.Forms.Bucket,
				Key:      cfg.Forms.Key,
				Region:   cfg.Forms.Region,
				Endpoint: cfg.Forms.Endpoint,
			},
		},
		FirstSuperuser: factory.Superuser{
			Email:    cfg.Superuser.Email,
			Password: cfg.Superuser.Password,
		},
	}

	if cfg.Storage.Type == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		fc.RedisConfig = &redisCfg
	}

	return fc
}

// findStaticDir looks for the static files directory
func findStaticDir() string {
	// Try common locations
	candidates := []string{
		"internal/web/static",
		"./internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	// Default to relative path
	return "internal/web/static"
}
