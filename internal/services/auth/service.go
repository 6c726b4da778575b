package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hankerbiao/Registration-System/internal/dependencies/clock"
	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/storage"
)

// Token purposes carried in the "purpose" claim
const (
	purposeAccess = "access"
	purposeReset  = "password_reset"
)

// TokenType is returned alongside every access token
const TokenType = "bearer"

// Session is an issued access token together with the user it identifies
type Session struct {
	Token     string
	User      model.User
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	// Secret signs access and reset tokens (HS256)
	Secret []byte
	// AccessTokenDuration is how long a login stays valid
	AccessTokenDuration time.Duration
	// ResetTokenDuration is how long a password reset link stays valid
	ResetTokenDuration time.Duration
	// BcryptCost is the password hashing cost
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		AccessTokenDuration: 8 * 24 * time.Hour,
		ResetTokenDuration:  48 * time.Hour,
		BcryptCost:          bcrypt.DefaultCost,
	}
}

// Mailer delivers password reset tokens
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes reset tokens to the log instead of sending email
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	m.Logger.InfoContext(ctx, "password reset requested", slog.String("email", email), slog.String("token", token))
	return nil
}

// Service handles password hashing, login and token validation
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	mailer  Mailer
	cfg     Config
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, mailer Mailer, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.AccessTokenDuration == 0 {
		cfg.AccessTokenDuration = defaults.AccessTokenDuration
	}
	if cfg.ResetTokenDuration == 0 {
		cfg.ResetTokenDuration = defaults.ResetTokenDuration
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}
	return &Service{
		storage: storage,
		clock:   clock,
		mailer:  mailer,
		cfg:     cfg,
	}
}

type claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// HashPassword returns the bcrypt hash of password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash
func (s *Service) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Login checks credentials and issues an access token
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.VerifyPassword(user.PasswordHash, password) {
		return nil, model.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, model.ErrInactiveUser
	}

	token, expires, err := s.sign(purposeAccess, string(user.ID), s.cfg.AccessTokenDuration)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: *user, ExpiresAt: expires}, nil
}

// ValidateToken resolves an access token to its active user
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.User, error) {
	subject, err := s.parse(token, purposeAccess)
	if err != nil {
		return nil, model.ErrUnauthenticated
	}

	user, err := s.storage.GetUser(ctx, model.UserID(subject))
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, model.ErrInactiveUser
	}
	return user, nil
}

// RecoverPassword sends a reset token to the owner of email
func (s *Service) RecoverPassword(ctx context.Context, email string) error {
	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, _, err := s.sign(purposeReset, user.Email, s.cfg.ResetTokenDuration)
	if err != nil {
		return err
	}
	return s.mailer.SendPasswordReset(ctx, user.Email, token)
}

// ResetPassword replaces the password of the user a reset token was issued to
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := s.parse(token, purposeReset)
	if err != nil {
		return model.ErrInvalidToken
	}

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return model.ErrInactiveUser
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.clock.Now()
	return s.storage.UpdateUser(ctx, user)
}

func (s *Service) sign(purpose, subject string, ttl time.Duration) (string, time.Time, error) {
	now := s.clock.Now()
	expires := now.Add(ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := tok.SignedString(s.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

func (s *Service) parse(token, purpose string) (string, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	if c.Purpose != purpose || c.Subject == "" {
		return "", model.ErrInvalidToken
	}
	return c.Subject, nil
}
