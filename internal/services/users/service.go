package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hankerbiao/Registration-System/internal/dependencies/clock"
	"github.com/hankerbiao/Registration-System/internal/dependencies/idgen"
	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/services/auth"
	"github.com/hankerbiao/Registration-System/internal/storage"
)

// CreateInput describes a new account
type CreateInput struct {
	Email       string
	Password    string
	FullName    string
	IsActive    bool
	IsSuperuser bool
}

// UpdateInput is a partial update; nil fields are left unchanged
type UpdateInput struct {
	Email       *string
	FullName    *string
	Password    *string
	IsActive    *bool
	IsSuperuser *bool
}

// Service manages team and administrator accounts
type Service struct {
	storage storage.Storage
	auth    *auth.Service
	clock   clock.Clock
	ids     idgen.Generator
	logger  *slog.Logger
}

// New creates a new users Service
func New(
	storage storage.Storage,
	auth *auth.Service,
	clock clock.Clock,
	ids idgen.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		auth:    auth,
		clock:   clock,
		ids:     ids,
		logger:  logger.With(slog.String("component", "users-service")),
	}
}

// Create adds an account on behalf of an administrator
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.UserSummary, error) {
	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:           model.UserID(s.ids.NewID()),
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		IsActive:     in.IsActive,
		IsSuperuser:  in.IsSuperuser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		slog.String("user_id", string(user.ID)),
		slog.Bool("superuser", user.IsSuperuser),
	)
	return &model.UserSummary{User: user}, nil
}

// Register creates an active, non-privileged account for self-signup.
// It does not log the new user in.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (*model.UserSummary, error) {
	return s.Create(ctx, CreateInput{
		Email:    email,
		Password: password,
		FullName: fullName,
		IsActive: true,
	})
}

// EnsureSuperuser creates the initial administrator when no account uses email
func (s *Service) EnsureSuperuser(ctx context.Context, email, password string) (bool, error) {
	if email == "" {
		return false, nil
	}
	_, err := s.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return false, err
	}

	_, err = s.Create(ctx, CreateInput{
		Email:       email,
		Password:    password,
		IsActive:    true,
		IsSuperuser: true,
	})
	if errors.Is(err, model.ErrEmailExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create first superuser: %w", err)
	}
	return true, nil
}

// List returns a page of accounts with their athlete counts
func (s *Service) List(ctx context.Context, params model.ListParams) ([]model.UserSummary, int, error) {
	users, count, err := s.storage.ListUsers(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	out := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		summary, err := s.summarize(ctx, u)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *summary)
	}
	return out, count, nil
}

// Get returns an account; only its owner or a superuser may read it
func (s *Service) Get(ctx context.Context, requester *model.User, id model.UserID) (*model.UserSummary, error) {
	user, err := s.storage.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID != requester.ID && !requester.IsSuperuser {
		return nil, model.ErrForbidden
	}
	return s.summarize(ctx, user)
}

// Me returns the requester's own account with its athlete count
func (s *Service) Me(ctx context.Context, requester *model.User) (*model.UserSummary, error) {
	return s.summarize(ctx, requester)
}

// Update applies an administrator's changes to any account
func (s *Service) Update(ctx context.Context, id model.UserID, in UpdateInput) (*model.UserSummary, error) {
	user, err := s.storage.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.IsSuperuser != nil {
		user.IsSuperuser = *in.IsSuperuser
	}
	if in.Password != nil {
		hash, err := s.auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	return s.save(ctx, user)
}

// UpdateMe changes the requester's own email and display name
func (s *Service) UpdateMe(ctx context.Context, requester *model.User, email, fullName *string) (*model.UserSummary, error) {
	return s.Update(ctx, requester.ID, UpdateInput{Email: email, FullName: fullName})
}

// UpdatePassword changes the requester's password after checking the current one
func (s *Service) UpdatePassword(ctx context.Context, requester *model.User, current, next string) error {
	if !s.auth.VerifyPassword(requester.PasswordHash, current) {
		return model.ErrIncorrectPassword
	}
	if current == next {
		return model.ErrSamePassword
	}

	_, err := s.Update(ctx, requester.ID, UpdateInput{Password: &next})
	return err
}

// DeleteMe removes the requester's account and its athletes.
// Superusers cannot delete themselves.
func (s *Service) DeleteMe(ctx context.Context, requester *model.User) error {
	if requester.IsSuperuser {
		return model.ErrSuperuserSelfDelete
	}
	return s.remove(ctx, requester.ID)
}

// Delete removes another account and its athletes on behalf of a superuser
func (s *Service) Delete(ctx context.Context, requester *model.User, id model.UserID) error {
	if _, err := s.storage.GetUser(ctx, id); err != nil {
		return err
	}
	if id == requester.ID {
		return model.ErrSuperuserSelfDelete
	}
	return s.remove(ctx, id)
}

func (s *Service) remove(ctx context.Context, id model.UserID) error {
	if err := s.storage.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", slog.String("user_id", string(id)))
	return nil
}

func (s *Service) save(ctx context.Context, user *model.User) (*model.UserSummary, error) {
	user.UpdatedAt = s.clock.Now()
	if err := s.storage.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailExists) {
			return nil, model.ErrEmailConflict
		}
		return nil, err
	}
	return s.summarize(ctx, user)
}

func (s *Service) summarize(ctx context.Context, user *model.User) (*model.UserSummary, error) {
	n, err := s.storage.CountAthletes(ctx, storage.AthleteFilter{OwnerID: user.ID})
	if err != nil {
		return nil, fmt.Errorf("count athletes: %w", err)
	}
	return &model.UserSummary{User: user, AthletesCount: n}, nil
}
