package athletes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hankerbiao/Registration-System/internal/dependencies/clock"
	"github.com/hankerbiao/Registration-System/internal/dependencies/idgen"
	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/storage"
)

// View is an athlete as presented to a requester. Unit is the owning
// team's name and is only filled in for superusers.
type View struct {
	*model.Athlete
	Unit string
}

// Patch is a partial athlete update; nil fields are left unchanged
type Patch struct {
	Name             *string
	IDNumber         *string
	Gender           *model.Gender
	KumiteCategory   *model.KumiteCategory
	KumiteIndividual *string
	KumiteTeam       *string
	IndividualKata   *string
	MixedDoubleKata  *string
	TeamKata         *string
	MixedTeamKata    *string
}

func (p Patch) apply(f *model.AthleteFields) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&f.Name, p.Name)
	set(&f.IDNumber, p.IDNumber)
	set(&f.KumiteIndividual, p.KumiteIndividual)
	set(&f.KumiteTeam, p.KumiteTeam)
	set(&f.IndividualKata, p.IndividualKata)
	set(&f.MixedDoubleKata, p.MixedDoubleKata)
	set(&f.TeamKata, p.TeamKata)
	set(&f.MixedTeamKata, p.MixedTeamKata)
	if p.Gender != nil {
		f.Gender = *p.Gender
	}
	if p.KumiteCategory != nil {
		f.KumiteCategory = *p.KumiteCategory
	}
}

// Service manages athlete registrations
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     idgen.Generator
	logger  *slog.Logger
}

// New creates a new athletes Service
func New(storage storage.Storage, clock clock.Clock, ids idgen.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		ids:     ids,
		logger:  logger.With(slog.String("component", "athletes-service")),
	}
}

// List returns a page of athletes visible to requester: all of them for a
// superuser, otherwise only the requester's own.
func (s *Service) List(ctx context.Context, requester *model.User, params model.ListParams) ([]View, int, error) {
	filter := storage.AthleteFilter{}
	if !requester.IsSuperuser {
		filter.OwnerID = requester.ID
	}

	athletes, count, err := s.storage.ListAthletes(ctx, filter, params)
	if err != nil {
		return nil, 0, err
	}

	units := map[model.UserID]string{}
	views := make([]View, 0, len(athletes))
	for _, a := range athletes {
		v := View{Athlete: a}
		if requester.IsSuperuser {
			unit, ok := units[a.OwnerID]
			if !ok {
				unit, err = s.unitName(ctx, a.OwnerID)
				if err != nil {
					return nil, 0, err
				}
				units[a.OwnerID] = unit
			}
			v.Unit = unit
		}
		views = append(views, v)
	}
	return views, count, nil
}

// Create registers an athlete for owner
func (s *Service) Create(ctx context.Context, owner *model.User, fields model.AthleteFields) (*View, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	a := &model.Athlete{
		ID:            model.AthleteID(s.ids.NewID()),
		OwnerID:       owner.ID,
		AthleteFields: fields,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.storage.CreateAthlete(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("athlete registered",
		slog.String("athlete_id", string(a.ID)),
		slog.String("owner_id", string(a.OwnerID)),
	)
	return &View{Athlete: a}, nil
}

// Get returns an athlete the requester owns, or any athlete for a superuser
func (s *Service) Get(ctx context.Context, requester *model.User, id model.AthleteID) (*View, error) {
	a, err := s.authorized(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	return &View{Athlete: a}, nil
}

// Update applies patch to an athlete after validating the merged record
func (s *Service) Update(ctx context.Context, requester *model.User, id model.AthleteID, patch Patch) (*View, error) {
	a, err := s.authorized(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	patch.apply(&a.AthleteFields)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	a.UpdatedAt = s.clock.Now()

	if err := s.storage.UpdateAthlete(ctx, a); err != nil {
		if errors.Is(err, model.ErrIDNumberExists) {
			return nil, model.ErrIDNumberConflict
		}
		return nil, err
	}
	return &View{Athlete: a}, nil
}

// Delete removes an athlete the requester owns, or any athlete for a superuser
func (s *Service) Delete(ctx context.Context, requester *model.User, id model.AthleteID) error {
	if _, err := s.authorized(ctx, requester, id); err != nil {
		return err
	}
	if err := s.storage.DeleteAthlete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("athlete deleted", slog.String("athlete_id", string(id)))
	return nil
}

func (s *Service) authorized(ctx context.Context, requester *model.User, id model.AthleteID) (*model.Athlete, error) {
	a, err := s.storage.GetAthlete(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.OwnerID != requester.ID && !requester.IsSuperuser {
		return nil, model.ErrForbidden
	}
	return a, nil
}

func (s *Service) unitName(ctx context.Context, owner model.UserID) (string, error) {
	u, err := s.storage.GetUser(ctx, owner)
	if errors.Is(err, model.ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve unit: %w", err)
	}
	return u.FullName, nil
}
