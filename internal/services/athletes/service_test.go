package athletes

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/hankerbiao/Registration-System/internal/dependencies/mocks"
	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/storage/memory"
	"github.com/hankerbiao/Registration-System/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context

	teamA *model.User
	teamB *model.User
	admin *model.User
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, mocks.NewSequenceIDs("athlete"), testutil.NopLogger())
	s.ctx = context.Background()

	s.teamA = s.user("team-a", "南开大学", false)
	s.teamB = s.user("team-b", "天津大学", false)
	s.admin = s.user("admin", "", true)
}

func (s *ServiceSuite) user(id, name string, superuser bool) *model.User {
	u := &model.User{
		ID:          model.UserID(id),
		Email:       id + "@example.com",
		FullName:    name,
		IsActive:    true,
		IsSuperuser: superuser,
		CreatedAt:   s.clock.Now(),
	}
	s.Require().NoError(s.storage.CreateUser(s.ctx, u))
	return u
}

func fields(name, idNumber string) model.AthleteFields {
	f := model.DefaultAthleteFields()
	f.Name = name
	f.IDNumber = idNumber
	return f
}

func (s *ServiceSuite) register(owner *model.User, name, idNumber string) *View {
	s.clock.Advance(time.Second)
	v, err := s.service.Create(s.ctx, owner, fields(name, idNumber))
	s.Require().NoError(err)
	return v
}

func ptr[T any](v T) *T { return &v }

func (s *ServiceSuite) TestCreate() {
	v := s.register(s.teamA, "张三", "120101200001011234")

	s.Equal(model.AthleteID("athlete-1"), v.ID)
	s.Equal(s.teamA.ID, v.OwnerID)
	s.Equal(model.GenderMale, v.Gender)
	s.Equal(model.NotParticipating, v.KumiteTeam)
	s.Empty(v.Unit)
}

func (s *ServiceSuite) TestCreateRejectsInvalidData() {
	_, err := s.service.Create(s.ctx, s.teamA, fields("", "120101200001011234"))
	s.ErrorIs(err, model.ErrInvalidAthleteData)

	f := fields("张三", "120101200001011234")
	f.KumiteTeam = "团体9组"
	_, err = s.service.Create(s.ctx, s.teamA, f)
	s.ErrorIs(err, model.ErrInvalidAthleteData)
}

func (s *ServiceSuite) TestCreateDuplicateIDNumber() {
	s.register(s.teamA, "张三", "120101200001011234")

	_, err := s.service.Create(s.ctx, s.teamB, fields("李四", "120101200001011234"))
	s.ErrorIs(err, model.ErrIDNumberExists)
}

func (s *ServiceSuite) TestListScopesToOwner() {
	s.register(s.teamA, "张三", "120101200001010001")
	s.register(s.teamB, "李四", "120101200001010002")
	s.register(s.teamA, "王五", "120101200001010003")

	list, count, err := s.service.List(s.ctx, s.teamA, model.ListParams{})
	s.Require().NoError(err)
	s.Equal(2, count)
	s.Require().Len(list, 2)
	s.Equal("张三", list[0].Name)
	s.Equal("王五", list[1].Name)
	s.Empty(list[0].Unit)
}

func (s *ServiceSuite) TestSuperuserListCarriesUnit() {
	s.register(s.teamA, "张三", "120101200001010001")
	s.register(s.teamB, "李四", "120101200001010002")

	list, count, err := s.service.List(s.ctx, s.admin, model.ListParams{})
	s.Require().NoError(err)
	s.Equal(2, count)
	s.Equal("南开大学", list[0].Unit)
	s.Equal("天津大学", list[1].Unit)
}

func (s *ServiceSuite) TestListPaginates() {
	for i := range 23 {
		s.register(s.teamA, fmt.Sprintf("选手%d", i), fmt.Sprintf("1201012000010100%02d", i))
	}

	list, count, err := s.service.List(s.ctx, s.teamA, model.ListParams{Skip: 20, Limit: 10})
	s.Require().NoError(err)
	s.Equal(23, count)
	s.Len(list, 3)
}

func (s *ServiceSuite) TestGetChecksOwnership() {
	v := s.register(s.teamA, "张三", "120101200001011234")

	_, err := s.service.Get(s.ctx, s.teamA, v.ID)
	s.NoError(err)
	_, err = s.service.Get(s.ctx, s.admin, v.ID)
	s.NoError(err)
	_, err = s.service.Get(s.ctx, s.teamB, v.ID)
	s.ErrorIs(err, model.ErrForbidden)
	_, err = s.service.Get(s.ctx, s.teamA, "missing")
	s.ErrorIs(err, model.ErrAthleteNotFound)
}

func (s *ServiceSuite) TestUpdateMergesPatch() {
	v := s.register(s.teamA, "张三", "120101200001011234")
	s.clock.Advance(time.Hour)

	updated, err := s.service.Update(s.ctx, s.teamA, v.ID, Patch{
		Gender:           ptr(model.GenderFemale),
		KumiteIndividual: ptr("-53kg"),
	})
	s.Require().NoError(err)
	s.Equal("张三", updated.Name)
	s.Equal(model.GenderFemale, updated.Gender)
	s.Equal("-53kg", updated.KumiteIndividual)
	s.Equal(s.clock.Now(), updated.UpdatedAt)

	stored, err := s.storage.GetAthlete(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal("-53kg", stored.KumiteIndividual)
}

func (s *ServiceSuite) TestUpdateRejectsInvalidMerge() {
	v := s.register(s.teamA, "张三", "120101200001011234")

	_, err := s.service.Update(s.ctx, s.teamA, v.ID, Patch{TeamKata: ptr("三队")})
	s.ErrorIs(err, model.ErrInvalidAthleteData)
}

func (s *ServiceSuite) TestUpdateIDNumberConflict() {
	s.register(s.teamA, "张三", "120101200001010001")
	other := s.register(s.teamA, "李四", "120101200001010002")

	_, err := s.service.Update(s.ctx, s.teamA, other.ID, Patch{IDNumber: ptr("120101200001010001")})
	s.ErrorIs(err, model.ErrIDNumberConflict)

	_, err = s.service.Update(s.ctx, s.teamA, "missing", Patch{})
	s.ErrorIs(err, model.ErrAthleteNotFound)
}

func (s *ServiceSuite) TestDelete() {
	v := s.register(s.teamA, "张三", "120101200001011234")

	s.ErrorIs(s.service.Delete(s.ctx, s.teamB, v.ID), model.ErrForbidden)
	s.Require().NoError(s.service.Delete(s.ctx, s.teamA, v.ID))
	s.ErrorIs(s.service.Delete(s.ctx, s.teamA, v.ID), model.ErrAthleteNotFound)
}
