package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.Reset(s.storage)
}

func (s *StorageSuite) TestReturnedUserIsACopy() {
	u := &model.User{ID: "user-1", Email: "a@example.com"}
	s.Require().NoError(s.storage.CreateUser(s.Ctx, u))

	got, err := s.storage.GetUser(s.Ctx, "user-1")
	s.Require().NoError(err)
	got.Email = "mutated@example.com"

	again, err := s.storage.GetUser(s.Ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("a@example.com", again.Email)
}
