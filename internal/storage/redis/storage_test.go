package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.Reset(s.storage)
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestKeysLayout() {
	u := &model.User{ID: "user-1", Email: "team@example.com", CreatedAt: time.Now()}
	s.Require().NoError(s.storage.CreateUser(s.Ctx, u))

	s.True(s.mini.Exists(userKey("user-1")))
	id, err := s.mini.Get(emailIndexKey("team@example.com"))
	s.Require().NoError(err)
	s.Equal("user-1", id)

	members, err := s.mini.ZMembers(usersIndexKey())
	s.Require().NoError(err)
	s.Equal([]string{"user-1"}, members)
}

func (s *StorageSuite) TestFailedEmailClaimLeavesRecordUntouched() {
	a := &model.User{ID: "user-1", Email: "a@example.com", FullName: "甲", CreatedAt: time.Now()}
	b := &model.User{ID: "user-2", Email: "b@example.com", FullName: "乙", CreatedAt: time.Now()}
	s.Require().NoError(s.storage.CreateUser(s.Ctx, a))
	s.Require().NoError(s.storage.CreateUser(s.Ctx, b))

	b.Email = "a@example.com"
	b.FullName = "changed"
	s.ErrorIs(s.storage.UpdateUser(s.Ctx, b), model.ErrEmailExists)

	got, err := s.storage.GetUser(s.Ctx, "user-2")
	s.Require().NoError(err)
	s.Equal("b@example.com", got.Email)
	s.Equal("乙", got.FullName)
}

func (s *StorageSuite) TestNewRejectsBadURL() {
	_, err := New(Config{URL: "not a url"})
	s.Error(err)
}

func (s *StorageSuite) TestNewConnects() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()

	st, err := New(cfg)
	s.Require().NoError(err)
	s.NoError(st.Close())
}
