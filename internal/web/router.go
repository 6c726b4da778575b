package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hankerbiao/Registration-System/internal/web/handler"
	"github.com/hankerbiao/Registration-System/internal/web/middleware"
	"github.com/hankerbiao/Registration-System/internal/web/state"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger *slog.Logger
	// APIBaseURL is where the registration API is served, without /api/v1
	APIBaseURL string
	HTTPClient *http.Client
	// Registry holds per-session console state; created if nil
	Registry      *state.Registry
	SecureCookies bool
	CookieMaxAge  time.Duration
	StaticDir     string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	registry := cfg.Registry
	if registry == nil {
		registry = state.NewRegistry(cfg.Logger, state.DefaultIdleTimeout, nil)
	}
	sessions := &middleware.Sessions{
		APIBaseURL:   cfg.APIBaseURL,
		HTTPClient:   cfg.HTTPClient,
		Registry:     registry,
		Secure:       cfg.SecureCookies,
		CookieMaxAge: cfg.CookieMaxAge,
	}

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(sessions, handler.RenderError)
	optionalAuthMiddleware := middleware.OptionalAuth(sessions, handler.RenderError)
	superuserMiddleware := middleware.Superuser(http.HandlerFunc(handler.Forbidden))

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Create handlers
	homeHandler := handler.NewHomeHandler()
	authHandler := handler.NewAuthHandler(sessions)
	athletesHandler := handler.NewAthletesHandler()
	adminHandler := handler.NewAdminHandler()
	settingsHandler := handler.NewSettingsHandler(sessions)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Sign-in pages (no auth required)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	public.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/signup", authHandler.SignupPage).Methods(http.MethodGet)
	public.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	public.HandleFunc("/recover-password", authHandler.RecoverPage).Methods(http.MethodGet)
	public.HandleFunc("/recover-password", authHandler.Recover).Methods(http.MethodPost)
	public.HandleFunc("/reset-password", authHandler.ResetPage).Methods(http.MethodGet)
	public.HandleFunc("/reset-password", authHandler.Reset).Methods(http.MethodPost)
	public.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := r.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)
	protected.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	// Athlete routes
	protected.HandleFunc("/athletes", athletesHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/athletes", athletesHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/athletes/download", athletesHandler.Download).Methods(http.MethodGet)
	protected.HandleFunc("/athletes/{id}", athletesHandler.Update).Methods(http.MethodPost)
	protected.HandleFunc("/athletes/{id}/delete", athletesHandler.Delete).Methods(http.MethodPost)

	// Settings routes
	protected.HandleFunc("/settings", settingsHandler.Page).Methods(http.MethodGet)
	protected.HandleFunc("/settings/profile", settingsHandler.UpdateProfile).Methods(http.MethodPost)
	protected.HandleFunc("/settings/password", settingsHandler.ChangePassword).Methods(http.MethodPost)
	protected.HandleFunc("/settings/appearance", settingsHandler.SaveAppearance).Methods(http.MethodPost)
	protected.HandleFunc("/settings/delete", settingsHandler.DeleteAccount).Methods(http.MethodPost)

	// Administrator routes
	admin := protected.NewRoute().Subrouter()
	admin.Use(superuserMiddleware)
	admin.HandleFunc("/admin", adminHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/admin/users", adminHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/admin/users/{id}", adminHandler.Update).Methods(http.MethodPost)
	admin.HandleFunc("/admin/users/{id}/delete", adminHandler.Delete).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)

	return r
}
