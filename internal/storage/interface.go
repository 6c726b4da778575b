package storage

import (
	"context"

	"github.com/hankerbiao/Registration-System/internal/model"
)

// AthleteFilter narrows an athlete listing
type AthleteFilter struct {
	// OwnerID restricts the listing to one team when non-empty
	OwnerID model.UserID
}

// Storage defines the interface for data persistence.
// Lists are ordered by creation time, oldest first.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, params model.ListParams) ([]*model.User, int, error)
	// DeleteUser removes the user together with every athlete it owns
	DeleteUser(ctx context.Context, id model.UserID) error

	// Athlete operations
	CreateAthlete(ctx context.Context, athlete *model.Athlete) error
	UpdateAthlete(ctx context.Context, athlete *model.Athlete) error
	GetAthlete(ctx context.Context, id model.AthleteID) (*model.Athlete, error)
	GetAthleteByIDNumber(ctx context.Context, idNumber string) (*model.Athlete, error)
	ListAthletes(ctx context.Context, filter AthleteFilter, params model.ListParams) ([]*model.Athlete, int, error)
	CountAthletes(ctx context.Context, filter AthleteFilter) (int, error)
	DeleteAthlete(ctx context.Context, id model.AthleteID) error
}
