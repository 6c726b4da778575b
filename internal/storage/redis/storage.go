package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Records are JSON values; uniqueness of email and id_number is enforced
// with SETNX on index keys and ordering with creation-time sorted sets.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// score orders index members by creation time; ties fall back to member order
func score(t time.Time) float64 {
	return float64(t.UnixMicro())
}

func getJSON[T any](ctx context.Context, c *redis.Client, key string, notFound error) (*T, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound
		}
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	claimed, err := s.client.SetNX(ctx, emailIndexKey(user.Email), string(user.ID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrEmailExists
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.ZAdd(ctx, usersIndexKey(), redis.Z{Score: score(user.CreatedAt), Member: string(user.ID)})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) UpdateUser(ctx context.Context, user *model.User) error {
	existing, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return err
	}

	if existing.Email != user.Email {
		claimed, err := s.client.SetNX(ctx, emailIndexKey(user.Email), string(user.ID), 0).Result()
		if err != nil {
			return err
		}
		if !claimed {
			return model.ErrEmailExists
		}
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	if existing.Email != user.Email {
		pipe.Del(ctx, emailIndexKey(existing.Email))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return getJSON[model.User](ctx, s.client, userKey(id), model.ErrUserNotFound)
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	id, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(id))
}

func (s *Storage) ListUsers(ctx context.Context, params model.ListParams) ([]*model.User, int, error) {
	ids, count, err := s.rangeIndex(ctx, usersIndexKey(), params)
	if err != nil {
		return nil, 0, err
	}

	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.GetUser(ctx, model.UserID(id))
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, count, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	athleteIDs, err := s.client.ZRange(ctx, ownerAthletesIndexKey(id), 0, -1).Result()
	if err != nil {
		return err
	}
	athletes := make([]*model.Athlete, 0, len(athleteIDs))
	for _, aid := range athleteIDs {
		a, err := s.GetAthlete(ctx, model.AthleteID(aid))
		if errors.Is(err, model.ErrAthleteNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		athletes = append(athletes, a)
	}

	pipe := s.client.TxPipeline()
	for _, a := range athletes {
		pipe.Del(ctx, athleteKey(a.ID), idNumberIndexKey(a.IDNumber))
		pipe.ZRem(ctx, athletesIndexKey(), string(a.ID))
	}
	pipe.Del(ctx, ownerAthletesIndexKey(id))
	pipe.Del(ctx, userKey(id), emailIndexKey(user.Email))
	pipe.ZRem(ctx, usersIndexKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Athlete operations

func (s *Storage) CreateAthlete(ctx context.Context, athlete *model.Athlete) error {
	data, err := json.Marshal(athlete)
	if err != nil {
		return err
	}

	claimed, err := s.client.SetNX(ctx, idNumberIndexKey(athlete.IDNumber), string(athlete.ID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrIDNumberExists
	}

	z := redis.Z{Score: score(athlete.CreatedAt), Member: string(athlete.ID)}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, athleteKey(athlete.ID), data, 0)
	pipe.ZAdd(ctx, athletesIndexKey(), z)
	pipe.ZAdd(ctx, ownerAthletesIndexKey(athlete.OwnerID), z)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) UpdateAthlete(ctx context.Context, athlete *model.Athlete) error {
	existing, err := s.GetAthlete(ctx, athlete.ID)
	if err != nil {
		return err
	}

	if existing.IDNumber != athlete.IDNumber {
		claimed, err := s.client.SetNX(ctx, idNumberIndexKey(athlete.IDNumber), string(athlete.ID), 0).Result()
		if err != nil {
			return err
		}
		if !claimed {
			return model.ErrIDNumberExists
		}
	}

	data, err := json.Marshal(athlete)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, athleteKey(athlete.ID), data, 0)
	if existing.IDNumber != athlete.IDNumber {
		pipe.Del(ctx, idNumberIndexKey(existing.IDNumber))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAthlete(ctx context.Context, id model.AthleteID) (*model.Athlete, error) {
	return getJSON[model.Athlete](ctx, s.client, athleteKey(id), model.ErrAthleteNotFound)
}

func (s *Storage) GetAthleteByIDNumber(ctx context.Context, idNumber string) (*model.Athlete, error) {
	id, err := s.client.Get(ctx, idNumberIndexKey(idNumber)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAthleteNotFound
		}
		return nil, err
	}
	return s.GetAthlete(ctx, model.AthleteID(id))
}

func (s *Storage) ListAthletes(ctx context.Context, filter storage.AthleteFilter, params model.ListParams) ([]*model.Athlete, int, error) {
	ids, count, err := s.rangeIndex(ctx, athleteIndexFor(filter), params)
	if err != nil {
		return nil, 0, err
	}

	athletes := make([]*model.Athlete, 0, len(ids))
	for _, id := range ids {
		a, err := s.GetAthlete(ctx, model.AthleteID(id))
		if err != nil {
			return nil, 0, err
		}
		athletes = append(athletes, a)
	}
	return athletes, count, nil
}

func (s *Storage) CountAthletes(ctx context.Context, filter storage.AthleteFilter) (int, error) {
	n, err := s.client.ZCard(ctx, athleteIndexFor(filter)).Result()
	return int(n), err
}

func (s *Storage) DeleteAthlete(ctx context.Context, id model.AthleteID) error {
	athlete, err := s.GetAthlete(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, athleteKey(id), idNumberIndexKey(athlete.IDNumber))
	pipe.ZRem(ctx, athletesIndexKey(), string(id))
	pipe.ZRem(ctx, ownerAthletesIndexKey(athlete.OwnerID), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func athleteIndexFor(filter storage.AthleteFilter) string {
	if filter.OwnerID != "" {
		return ownerAthletesIndexKey(filter.OwnerID)
	}
	return athletesIndexKey()
}

// rangeIndex returns the members of a sorted-set index inside the params
// window together with the index size
func (s *Storage) rangeIndex(ctx context.Context, key string, params model.ListParams) ([]string, int, error) {
	params = params.Normalize()

	count, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return nil, 0, err
	}
	if int64(params.Skip) >= count {
		return []string{}, int(count), nil
	}

	stop := int64(params.Skip + params.Limit - 1)
	ids, err := s.client.ZRange(ctx, key, int64(params.Skip), stop).Result()
	if err != nil {
		return nil, 0, err
	}
	return ids, int(count), nil
}
