package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	emailIndex    map[string]model.UserID
	athletes      map[model.AthleteID]*model.Athlete
	idNumberIndex map[string]model.AthleteID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		emailIndex:    make(map[string]model.UserID),
		athletes:      make(map[model.AthleteID]*model.Athlete),
		idNumberIndex: make(map[string]model.AthleteID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emailIndex[user.Email]; taken {
		return model.ErrEmailExists
	}
	u := *user
	s.users[u.ID] = &u
	s.emailIndex[u.Email] = u.ID
	return nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return model.ErrUserNotFound
	}
	if owner, taken := s.emailIndex[user.Email]; taken && owner != user.ID {
		return model.ErrEmailExists
	}
	delete(s.emailIndex, existing.Email)
	u := *user
	s.users[u.ID] = &u
	s.emailIndex[u.Email] = u.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	id, ok := s.emailIndex[email]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.GetUser(ctx, id)
}

func (s *Storage) ListUsers(ctx context.Context, params model.ListParams) ([]*model.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		c := *u
		all = append(all, &c)
	}
	slices.SortFunc(all, func(a, b *model.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	start, end := params.Window(len(all))
	return all[start:end], len(all), nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	for aid, a := range s.athletes {
		if a.OwnerID == id {
			delete(s.idNumberIndex, a.IDNumber)
			delete(s.athletes, aid)
		}
	}
	delete(s.emailIndex, user.Email)
	delete(s.users, id)
	return nil
}

// Athlete operations

func (s *Storage) CreateAthlete(ctx context.Context, athlete *model.Athlete) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.idNumberIndex[athlete.IDNumber]; taken {
		return model.ErrIDNumberExists
	}
	a := *athlete
	s.athletes[a.ID] = &a
	s.idNumberIndex[a.IDNumber] = a.ID
	return nil
}

func (s *Storage) UpdateAthlete(ctx context.Context, athlete *model.Athlete) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.athletes[athlete.ID]
	if !ok {
		return model.ErrAthleteNotFound
	}
	if holder, taken := s.idNumberIndex[athlete.IDNumber]; taken && holder != athlete.ID {
		return model.ErrIDNumberExists
	}
	delete(s.idNumberIndex, existing.IDNumber)
	a := *athlete
	s.athletes[a.ID] = &a
	s.idNumberIndex[a.IDNumber] = a.ID
	return nil
}

func (s *Storage) GetAthlete(ctx context.Context, id model.AthleteID) (*model.Athlete, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	athlete, ok := s.athletes[id]
	if !ok {
		return nil, model.ErrAthleteNotFound
	}
	a := *athlete
	return &a, nil
}

func (s *Storage) GetAthleteByIDNumber(ctx context.Context, idNumber string) (*model.Athlete, error) {
	s.mu.RLock()
	id, ok := s.idNumberIndex[idNumber]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrAthleteNotFound
	}
	return s.GetAthlete(ctx, id)
}

func (s *Storage) ListAthletes(ctx context.Context, filter storage.AthleteFilter, params model.ListParams) ([]*model.Athlete, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filterAthletes(filter)
	slices.SortFunc(matched, func(a, b *model.Athlete) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	start, end := params.Window(len(matched))
	return matched[start:end], len(matched), nil
}

func (s *Storage) CountAthletes(ctx context.Context, filter storage.AthleteFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.filterAthletes(filter)), nil
}

func (s *Storage) DeleteAthlete(ctx context.Context, id model.AthleteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	athlete, ok := s.athletes[id]
	if !ok {
		return model.ErrAthleteNotFound
	}
	delete(s.idNumberIndex, athlete.IDNumber)
	delete(s.athletes, id)
	return nil
}

// filterAthletes returns copies of the athletes matching filter; callers hold the lock
func (s *Storage) filterAthletes(filter storage.AthleteFilter) []*model.Athlete {
	out := make([]*model.Athlete, 0, len(s.athletes))
	for _, a := range s.athletes {
		if filter.OwnerID != "" && a.OwnerID != filter.OwnerID {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	return out
}
