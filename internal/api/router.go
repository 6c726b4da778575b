package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hankerbiao/Registration-System/internal/api/handler"
	apimw "github.com/hankerbiao/Registration-System/internal/api/middleware"
	"github.com/hankerbiao/Registration-System/internal/api/response"
	"github.com/hankerbiao/Registration-System/internal/middleware"
	"github.com/hankerbiao/Registration-System/internal/services/athletes"
	"github.com/hankerbiao/Registration-System/internal/services/auth"
	"github.com/hankerbiao/Registration-System/internal/services/users"
	"github.com/hankerbiao/Registration-System/internal/storage/forms"
)

// Prefix is the path every API route lives under
const Prefix = "/api/v1"

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	UserService    *users.Service
	AthleteService *athletes.Service
	Forms          forms.Store
	LoginLimiter   *middleware.RateLimiter
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount registers the API routes on r under Prefix
func Mount(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	loginHandler := handler.NewLoginHandler(cfg.AuthService)
	userHandler := handler.NewUserHandler(cfg.UserService)
	athleteHandler := handler.NewAthleteHandler(cfg.AthleteService)
	downloadHandler := handler.NewDownloadHandler(cfg.Forms, cfg.Logger)

	// Create middleware
	authMiddleware := apimw.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimw.Recovery(cfg.Logger)
	limiter := cfg.LoginLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())
	}

	// API subrouter with common middleware
	api := r.PathPrefix(Prefix).Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Login and password recovery (no auth required)
	api.Handle("/login/access-token",
		apimw.LoginRateLimit(limiter)(http.HandlerFunc(loginHandler.AccessToken))).Methods(http.MethodPost)
	api.HandleFunc("/password-recovery/{email}", loginHandler.RecoverPassword).Methods(http.MethodPost)
	api.HandleFunc("/reset-password", loginHandler.ResetPassword).Methods(http.MethodPost)
	api.HandleFunc("/users/signup", userHandler.Signup).Methods(http.MethodPost)

	// Everything below requires a valid access token
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/login/test-token", loginHandler.TestToken).Methods(http.MethodPost)

	// Self-service routes are registered before /users/{id}
	protected.HandleFunc("/users/me", userHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/users/me", userHandler.UpdateMe).Methods(http.MethodPatch)
	protected.HandleFunc("/users/me", userHandler.DeleteMe).Methods(http.MethodDelete)
	protected.HandleFunc("/users/me/password", userHandler.UpdatePassword).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{id}", userHandler.Get).Methods(http.MethodGet)

	// User administration
	admin := func(h http.HandlerFunc) http.Handler { return apimw.Superuser(h) }
	protected.Handle("/users", admin(userHandler.List)).Methods(http.MethodGet)
	protected.Handle("/users", admin(userHandler.Create)).Methods(http.MethodPost)
	protected.Handle("/users/{id}", admin(userHandler.Update)).Methods(http.MethodPatch)
	protected.Handle("/users/{id}", admin(userHandler.Delete)).Methods(http.MethodDelete)

	// Athlete routes
	protected.HandleFunc("/athletes", athleteHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/athletes", athleteHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/athletes/{id}", athleteHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/athletes/{id}", athleteHandler.Update).Methods(http.MethodPatch)
	protected.HandleFunc("/athletes/{id}", athleteHandler.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/download/download-registration-form", downloadHandler.RegistrationForm).
		Methods(http.MethodGet)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
