package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/storage"
)

// DB is the subset of pgxpool.Pool the storage uses
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

const uniqueViolation = "23505"

// Storage is a PostgreSQL-backed implementation of the storage interface.
// Deleting a user relies on the ON DELETE CASCADE foreign key for athletes.
type Storage struct {
	db DB
}

// Open connects a pgx pool to url and verifies the connection
func Open(ctx context.Context, url string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewWithDB(pool), nil
}

// NewWithDB wraps an existing connection (for testing)
func NewWithDB(db DB) *Storage {
	return &Storage{db: db}
}

// Close releases the pool
func (s *Storage) Close() error {
	s.db.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

const userColumns = `id, email, full_name, hashed_password, is_active, is_superuser, created_at, updated_at`

const athleteColumns = `id, owner_id, name, id_number, gender, kumite_category, kumite_individual,
	kumite_team, individual_kata, mixed_double_kata, team_kata, mixed_team_kata, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*model.User, error) {
	var (
		id string
		u  model.User
	)
	err := row.Scan(&id, &u.Email, &u.FullName, &u.PasswordHash, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.ID = model.UserID(id)
	return &u, nil
}

func scanAthlete(row scanner) (*model.Athlete, error) {
	var (
		id, owner, gender, category string
		a                           model.Athlete
	)
	err := row.Scan(
		&id, &owner, &a.Name, &a.IDNumber, &gender, &category, &a.KumiteIndividual,
		&a.KumiteTeam, &a.IndividualKata, &a.MixedDoubleKata, &a.TeamKata, &a.MixedTeamKata,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ID = model.AthleteID(id)
	a.OwnerID = model.UserID(owner)
	a.Gender = model.Gender(gender)
	a.KumiteCategory = model.KumiteCategory(category)
	return &a, nil
}

// isUniqueViolation reports whether err is a unique constraint failure
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(user.ID), user.Email, user.FullName, user.PasswordHash,
		user.IsActive, user.IsSuperuser, user.CreatedAt, user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return model.ErrEmailExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *model.User) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET email = $2, full_name = $3, hashed_password = $4,
			is_active = $5, is_superuser = $6, updated_at = $7
		WHERE id = $1`,
		string(user.ID), user.Email, user.FullName, user.PasswordHash,
		user.IsActive, user.IsSuperuser, user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return model.ErrEmailExists
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, string(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *Storage) ListUsers(ctx context.Context, params model.ListParams) ([]*model.User, int, error) {
	params = params.Normalize()

	var count int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id OFFSET $1 LIMIT $2`,
		params.Skip, params.Limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, count, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// Athlete operations

func (s *Storage) CreateAthlete(ctx context.Context, a *model.Athlete) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO athletes (`+athleteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		string(a.ID), string(a.OwnerID), a.Name, a.IDNumber, string(a.Gender), string(a.KumiteCategory),
		a.KumiteIndividual, a.KumiteTeam, a.IndividualKata, a.MixedDoubleKata, a.TeamKata, a.MixedTeamKata,
		a.CreatedAt, a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return model.ErrIDNumberExists
	}
	if err != nil {
		return fmt.Errorf("create athlete: %w", err)
	}
	return nil
}

func (s *Storage) UpdateAthlete(ctx context.Context, a *model.Athlete) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE athletes SET name = $2, id_number = $3, gender = $4, kumite_category = $5,
			kumite_individual = $6, kumite_team = $7, individual_kata = $8,
			mixed_double_kata = $9, team_kata = $10, mixed_team_kata = $11, updated_at = $12
		WHERE id = $1`,
		string(a.ID), a.Name, a.IDNumber, string(a.Gender), string(a.KumiteCategory),
		a.KumiteIndividual, a.KumiteTeam, a.IndividualKata, a.MixedDoubleKata, a.TeamKata, a.MixedTeamKata,
		a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return model.ErrIDNumberExists
	}
	if err != nil {
		return fmt.Errorf("update athlete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAthleteNotFound
	}
	return nil
}

func (s *Storage) GetAthlete(ctx context.Context, id model.AthleteID) (*model.Athlete, error) {
	a, err := scanAthlete(s.db.QueryRow(ctx, `SELECT `+athleteColumns+` FROM athletes WHERE id = $1`, string(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAthleteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get athlete: %w", err)
	}
	return a, nil
}

func (s *Storage) GetAthleteByIDNumber(ctx context.Context, idNumber string) (*model.Athlete, error) {
	a, err := scanAthlete(s.db.QueryRow(ctx, `SELECT `+athleteColumns+` FROM athletes WHERE id_number = $1`, idNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAthleteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get athlete by id number: %w", err)
	}
	return a, nil
}

func (s *Storage) ListAthletes(ctx context.Context, filter storage.AthleteFilter, params model.ListParams) ([]*model.Athlete, int, error) {
	params = params.Normalize()

	count, err := s.CountAthletes(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+athleteColumns+` FROM athletes
		WHERE ($1 = '' OR owner_id = $1)
		ORDER BY created_at, id OFFSET $2 LIMIT $3`,
		string(filter.OwnerID), params.Skip, params.Limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list athletes: %w", err)
	}
	defer rows.Close()

	athletes := []*model.Athlete{}
	for rows.Next() {
		a, err := scanAthlete(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan athlete: %w", err)
		}
		athletes = append(athletes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list athletes: %w", err)
	}
	return athletes, count, nil
}

func (s *Storage) CountAthletes(ctx context.Context, filter storage.AthleteFilter) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM athletes WHERE ($1 = '' OR owner_id = $1)`,
		string(filter.OwnerID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count athletes: %w", err)
	}
	return count, nil
}

func (s *Storage) DeleteAthlete(ctx context.Context, id model.AthleteID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM athletes WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("delete athlete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAthleteNotFound
	}
	return nil
}
