package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/storage"
)

// FakeDB lets each test script the database responses
type FakeDB struct {
	ExecFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	closed     bool
}

func (f *FakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.ExecFn != nil {
		return f.ExecFn(ctx, sql, args...)
	}
	panic("unexpected Exec")
}

func (f *FakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.QueryFn != nil {
		return f.QueryFn(ctx, sql, args...)
	}
	panic("unexpected Query")
}

func (f *FakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.QueryRowFn != nil {
		return f.QueryRowFn(ctx, sql, args...)
	}
	panic("unexpected QueryRow")
}

func (f *FakeDB) Ping(context.Context) error { return nil }
func (f *FakeDB) Close()                     { f.closed = true }

// fakeRows serves fixed rows of values to Scan
type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.rows[r.idx-1], dest)
}

// fakeRow is a single-row result
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d targets", len(values), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = values[i].(string)
		case *bool:
			*p = values[i].(bool)
		case *int:
			*p = values[i].(int)
		case *time.Time:
			*p = values[i].(time.Time)
		default:
			return fmt.Errorf("scan: unsupported target %T", d)
		}
	}
	return nil
}

var created = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func userRow(id, email string) []any {
	return []any{id, email, "运动队", "hash", true, false, created, created}
}

func athleteRow(id, owner, idNumber string) []any {
	return []any{
		id, owner, "张三", idNumber, "男", "甲组", "-55kg",
		"不参加", "平安二段", "不参加", "一队", "不参加", created, created,
	}
}

func TestCreateUserMapsUniqueViolation(t *testing.T) {
	db := &FakeDB{
		ExecFn: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			assert.Contains(t, sql, "INSERT INTO users")
			assert.Len(t, args, 8)
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		},
	}
	s := NewWithDB(db)

	err := s.CreateUser(context.Background(), &model.User{ID: "u1", Email: "a@example.com"})
	assert.ErrorIs(t, err, model.ErrEmailExists)
}

func TestCreateUserWrapsOtherErrors(t *testing.T) {
	db := &FakeDB{
		ExecFn: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, errors.New("connection reset")
		},
	}
	err := NewWithDB(db).CreateUser(context.Background(), &model.User{ID: "u1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create user")
	assert.NotErrorIs(t, err, model.ErrEmailExists)
}

func TestUpdateUserNotFound(t *testing.T) {
	db := &FakeDB{
		ExecFn: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
	}
	err := NewWithDB(db).UpdateUser(context.Background(), &model.User{ID: "missing"})
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestGetUser(t *testing.T) {
	db := &FakeDB{
		QueryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			if args[0] == "u1" {
				return fakeRow{values: userRow("u1", "a@example.com")}
			}
			return fakeRow{err: pgx.ErrNoRows}
		},
	}
	s := NewWithDB(db)

	u, err := s.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.UserID("u1"), u.ID)
	assert.Equal(t, "a@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.Equal(t, created, u.CreatedAt)

	_, err = s.GetUser(context.Background(), "nope")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestListUsersPassesWindow(t *testing.T) {
	db := &FakeDB{
		QueryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			assert.Contains(t, sql, "count(*)")
			return fakeRow{values: []any{23}}
		},
		QueryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			assert.Contains(t, sql, "ORDER BY created_at, id OFFSET $1 LIMIT $2")
			assert.Equal(t, []any{10, 5}, args)
			return &fakeRows{rows: [][]any{userRow("u11", "k@example.com"), userRow("u12", "l@example.com")}}, nil
		},
	}

	users, count, err := NewWithDB(db).ListUsers(context.Background(), model.ListParams{Skip: 10, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 23, count)
	require.Len(t, users, 2)
	assert.Equal(t, model.UserID("u12"), users[1].ID)
}

func TestListAthletesFiltersByOwner(t *testing.T) {
	var seen []any
	db := &FakeDB{
		QueryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			assert.Equal(t, []any{"team-1"}, args)
			return fakeRow{values: []any{1}}
		},
		QueryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			seen = args
			assert.True(t, strings.Contains(sql, "owner_id = $1"))
			return &fakeRows{rows: [][]any{athleteRow("a1", "team-1", "120101200001011234")}}, nil
		},
	}

	athletes, count, err := NewWithDB(db).ListAthletes(context.Background(),
		storage.AthleteFilter{OwnerID: "team-1"}, model.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []any{"team-1", 0, model.DefaultListLimit}, seen)
	require.Len(t, athletes, 1)
	assert.Equal(t, model.GenderMale, athletes[0].Gender)
	assert.Equal(t, model.CategoryA, athletes[0].KumiteCategory)
	assert.Equal(t, "平安二段", athletes[0].IndividualKata)
}

func TestAthleteUniqueViolation(t *testing.T) {
	db := &FakeDB{
		ExecFn: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505", ConstraintName: "athletes_id_number_key"}
		},
	}
	s := NewWithDB(db)
	a := &model.Athlete{ID: "a1", AthleteFields: model.DefaultAthleteFields()}

	assert.ErrorIs(t, s.CreateAthlete(context.Background(), a), model.ErrIDNumberExists)
	assert.ErrorIs(t, s.UpdateAthlete(context.Background(), a), model.ErrIDNumberExists)
}

func TestDeleteRowsAffected(t *testing.T) {
	db := &FakeDB{
		ExecFn: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			if args[0] == "present" {
				return pgconn.NewCommandTag("DELETE 1"), nil
			}
			return pgconn.NewCommandTag("DELETE 0"), nil
		},
	}
	s := NewWithDB(db)

	assert.NoError(t, s.DeleteUser(context.Background(), "present"))
	assert.ErrorIs(t, s.DeleteUser(context.Background(), "gone"), model.ErrUserNotFound)
	assert.NoError(t, s.DeleteAthlete(context.Background(), "present"))
	assert.ErrorIs(t, s.DeleteAthlete(context.Background(), "gone"), model.ErrAthleteNotFound)
}

func TestClose(t *testing.T) {
	db := &FakeDB{}
	require.NoError(t, NewWithDB(db).Close())
	assert.True(t, db.closed)
}
