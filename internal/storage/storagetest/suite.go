// Package storagetest holds behaviour tests shared by every storage backend.
package storagetest

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/storage"
)

// Suite runs the storage contract against the Storage returned by New.
// Backends embed it and set New in their own SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context

	base time.Time
}

// Reset prepares per-test state; call it after assigning Storage
func (s *Suite) Reset(st storage.Storage) {
	s.Storage = st
	s.Ctx = context.Background()
	s.base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
}

func (s *Suite) user(n int) *model.User {
	return &model.User{
		ID:        model.UserID(fmt.Sprintf("user-%02d", n)),
		Email:     fmt.Sprintf("team%d@example.com", n),
		FullName:  fmt.Sprintf("运动队%d", n),
		IsActive:  true,
		CreatedAt: s.base.Add(time.Duration(n) * time.Minute),
	}
}

func (s *Suite) athlete(n int, owner model.UserID) *model.Athlete {
	f := model.DefaultAthleteFields()
	f.Name = fmt.Sprintf("选手%d", n)
	f.IDNumber = fmt.Sprintf("1201012000%08d", n)
	return &model.Athlete{
		ID:            model.AthleteID(fmt.Sprintf("athlete-%02d", n)),
		OwnerID:       owner,
		AthleteFields: f,
		CreatedAt:     s.base.Add(time.Duration(n) * time.Second),
	}
}

func (s *Suite) TestCreateAndGetUser() {
	u := s.user(1)
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, u))

	got, err := s.Storage.GetUser(s.Ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u.Email, got.Email)
	s.Equal(u.FullName, got.FullName)
	s.True(got.IsActive)

	byEmail, err := s.Storage.GetUserByEmail(s.Ctx, u.Email)
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.Storage.GetUser(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.Storage.GetUserByEmail(s.Ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestCreateUserDuplicateEmail() {
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, s.user(1)))

	dup := s.user(2)
	dup.Email = s.user(1).Email
	s.ErrorIs(s.Storage.CreateUser(s.Ctx, dup), model.ErrEmailExists)
}

func (s *Suite) TestUpdateUserMovesEmailIndex() {
	u := s.user(1)
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, u))

	u.Email = "renamed@example.com"
	u.FullName = "新名称"
	s.Require().NoError(s.Storage.UpdateUser(s.Ctx, u))

	_, err := s.Storage.GetUserByEmail(s.Ctx, s.user(1).Email)
	s.ErrorIs(err, model.ErrUserNotFound)
	got, err := s.Storage.GetUserByEmail(s.Ctx, "renamed@example.com")
	s.Require().NoError(err)
	s.Equal("新名称", got.FullName)
}

func (s *Suite) TestUpdateUserEmailTaken() {
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, s.user(1)))
	other := s.user(2)
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, other))

	other.Email = s.user(1).Email
	s.ErrorIs(s.Storage.UpdateUser(s.Ctx, other), model.ErrEmailExists)
}

func (s *Suite) TestUpdateUserNotFound() {
	s.ErrorIs(s.Storage.UpdateUser(s.Ctx, s.user(9)), model.ErrUserNotFound)
}

func (s *Suite) TestListUsersPaginates() {
	for i := 1; i <= 7; i++ {
		s.Require().NoError(s.Storage.CreateUser(s.Ctx, s.user(i)))
	}

	page, count, err := s.Storage.ListUsers(s.Ctx, model.ListParams{Skip: 5, Limit: 5})
	s.Require().NoError(err)
	s.Equal(7, count)
	s.Require().Len(page, 2)
	s.Equal(model.UserID("user-06"), page[0].ID)
	s.Equal(model.UserID("user-07"), page[1].ID)

	page, _, err = s.Storage.ListUsers(s.Ctx, model.ListParams{Skip: 50, Limit: 5})
	s.Require().NoError(err)
	s.Empty(page)
}

func (s *Suite) TestDeleteUserCascadesAthletes() {
	owner := s.user(1)
	keep := s.user(2)
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, owner))
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, keep))
	s.Require().NoError(s.Storage.CreateAthlete(s.Ctx, s.athlete(1, owner.ID)))
	s.Require().NoError(s.Storage.CreateAthlete(s.Ctx, s.athlete(2, owner.ID)))
	s.Require().NoError(s.Storage.CreateAthlete(s.Ctx, s.athlete(3, keep.ID)))

	s.Require().NoError(s.Storage.DeleteUser(s.Ctx, owner.ID))

	_, err := s.Storage.GetUser(s.Ctx, owner.ID)
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.Storage.GetAthlete(s.Ctx, "athlete-01")
	s.ErrorIs(err, model.ErrAthleteNotFound)
	_, err = s.Storage.GetAthleteByIDNumber(s.Ctx, s.athlete(2, owner.ID).IDNumber)
	s.ErrorIs(err, model.ErrAthleteNotFound)

	all, count, err := s.Storage.ListAthletes(s.Ctx, storage.AthleteFilter{}, model.ListParams{})
	s.Require().NoError(err)
	s.Equal(1, count)
	s.Equal(model.AthleteID("athlete-03"), all[0].ID)

	// The freed id number can be registered again
	s.NoError(s.Storage.CreateAthlete(s.Ctx, s.athlete(1, keep.ID)))
	// and the freed email too
	s.NoError(s.Storage.CreateUser(s.Ctx, s.user(1)))
}

func (s *Suite) TestDeleteUserNotFound() {
	s.ErrorIs(s.Storage.DeleteUser(s.Ctx, "missing"), model.ErrUserNotFound)
}

func (s *Suite) TestCreateAndGetAthlete() {
	a := s.athlete(1, "user-01")
	a.Gender = model.GenderFemale
	a.KumiteIndividual = "-57kg"
	a.IndividualKata = "拔塞大 Bassai Dai"
	s.Require().NoError(s.Storage.CreateAthlete(s.Ctx, a))

	got, err := s.Storage.GetAthlete(s.Ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(a.AthleteFields, got.AthleteFields)
	s.Equal(a.OwnerID, got.OwnerID)

	byNumber, err := s.Storage.GetAthleteByIDNumber(s.Ctx, a.IDNumber)
	s.Require().NoError(err)
	s.Equal(a.ID, byNumber.ID)
}

func (s *Suite) TestCreateAthleteDuplicateIDNumber() {
	s.Require().NoError(s.Storage.CreateAthlete(s.Ctx, s.athlete(1, "user-01")))

	dup := s.athlete(2, "user-02")
	dup.IDNumber = s.athlete(1, "").IDNumber
	s.ErrorIs(s.Storage.CreateAthlete(s.Ctx, dup), model.ErrIDNumberExists)
}

func (s *Suite) TestUpdateAthlete() {
	a := s.athlete(1, "user-01")
	s.Require().NoError(s.Storage.CreateAthlete(s.Ctx, a))
	other := s.athlete(2, "user-01")
	s.Require().NoError(s.Storage.CreateAthlete(s.Ctx, other))

	a.Name = "改名"
	a.IDNumber = "999999999999999999"
	s.Require().NoError(s.Storage.UpdateAthlete(s.Ctx, a))

	got, err := s.Storage.GetAthleteByIDNumber(s.Ctx, "999999999999999999")
	s.Require().NoError(err)
	s.Equal("改名", got.Name)
	_, err = s.Storage.GetAthleteByIDNumber(s.Ctx, s.athlete(1, "").IDNumber)
	s.ErrorIs(err, model.ErrAthleteNotFound)

	other.IDNumber = a.IDNumber
	s.ErrorIs(s.Storage.UpdateAthlete(s.Ctx, other), model.ErrIDNumberExists)

	s.ErrorIs(s.Storage.UpdateAthlete(s.Ctx, s.athlete(7, "user-01")), model.ErrAthleteNotFound)
}

func (s *Suite) TestListAthletesByOwner() {
	for i := 1; i <= 12; i++ {
		owner := model.UserID("user-01")
		if i%3 == 0 {
			owner = "user-02"
		}
		s.Require().NoError(s.Storage.CreateAthlete(s.Ctx, s.athlete(i, owner)))
	}

	all, count, err := s.Storage.ListAthletes(s.Ctx, storage.AthleteFilter{}, model.ListParams{Skip: 10, Limit: 10})
	s.Require().NoError(err)
	s.Equal(12, count)
	s.Len(all, 2)

	own, count, err := s.Storage.ListAthletes(s.Ctx, storage.AthleteFilter{OwnerID: "user-02"}, model.ListParams{Limit: 10})
	s.Require().NoError(err)
	s.Equal(4, count)
	s.Require().Len(own, 4)
	s.Equal(model.AthleteID("athlete-03"), own[0].ID)
	for _, a := range own {
		s.Equal(model.UserID("user-02"), a.OwnerID)
	}

	n, err := s.Storage.CountAthletes(s.Ctx, storage.AthleteFilter{OwnerID: "user-01"})
	s.Require().NoError(err)
	s.Equal(8, n)
}

func (s *Suite) TestDeleteAthlete() {
	a := s.athlete(1, "user-01")
	s.Require().NoError(s.Storage.CreateAthlete(s.Ctx, a))

	s.Require().NoError(s.Storage.DeleteAthlete(s.Ctx, a.ID))
	_, err := s.Storage.GetAthlete(s.Ctx, a.ID)
	s.ErrorIs(err, model.ErrAthleteNotFound)
	s.ErrorIs(s.Storage.DeleteAthlete(s.Ctx, a.ID), model.ErrAthleteNotFound)

	n, err := s.Storage.CountAthletes(s.Ctx, storage.AthleteFilter{})
	s.Require().NoError(err)
	s.Zero(n)
}
