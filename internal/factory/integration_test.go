package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/hankerbiao/Registration-System/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp("")
	s.ctx = context.Background()
}

func athleteFields(name, idNumber string) model.AthleteFields {
	f := model.DefaultAthleteFields()
	f.Name = name
	f.IDNumber = idNumber
	return f
}

// Test: a team signs up, registers athletes, and an administrator sees them by unit
func (s *IntegrationSuite) TestRegistrationFlow() {
	// Step 1: First superuser is bootstrapped
	created, err := s.app.UserService.EnsureSuperuser(s.ctx, "admin@example.com", "changethis")
	s.Require().NoError(err)
	s.True(created)

	// Step 2: A team signs up and logs in
	team, err := s.app.UserService.Register(s.ctx, "team@example.com", "password123", "南开大学")
	s.Require().NoError(err)
	session, err := s.app.AuthService.Login(s.ctx, "team@example.com", "password123")
	s.Require().NoError(err)
	me, err := s.app.AuthService.ValidateToken(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(team.User.ID, me.ID)

	// Step 3: The team registers two athletes
	_, err = s.app.AthleteService.Create(s.ctx, me, athleteFields("张三", "120101200001010001"))
	s.Require().NoError(err)
	_, err = s.app.AthleteService.Create(s.ctx, me, athleteFields("李四", "120101200001010002"))
	s.Require().NoError(err)

	// Step 4: The administrator sees both with the team as unit
	admin, err := s.app.Storage.GetUserByEmail(s.ctx, "admin@example.com")
	s.Require().NoError(err)
	list, count, err := s.app.AthleteService.List(s.ctx, admin, model.ListParams{})
	s.Require().NoError(err)
	s.Equal(2, count)
	for _, v := range list {
		s.Equal("南开大学", v.Unit)
	}

	// Step 5: The user list reports the athlete count
	summaries, _, err := s.app.UserService.List(s.ctx, model.ListParams{})
	s.Require().NoError(err)
	counts := map[string]int{}
	for _, u := range summaries {
		counts[u.User.Email] = u.AthletesCount
	}
	s.Equal(2, counts["team@example.com"])
	s.Equal(0, counts["admin@example.com"])

	// Step 6: Deleting the team cascades to its athletes
	s.Require().NoError(s.app.UserService.Delete(s.ctx, admin, me.ID))
	_, count, err = s.app.AthleteService.List(s.ctx, admin, model.ListParams{})
	s.Require().NoError(err)
	s.Zero(count)
}

// Test: password recovery issues a token that resets the password once delivered
func (s *IntegrationSuite) TestPasswordRecoveryFlow() {
	_, err := s.app.CreateUser(s.ctx, "team@example.com", "password123", "", false)
	s.Require().NoError(err)

	s.Require().NoError(s.app.AuthService.RecoverPassword(s.ctx, "team@example.com"))
	token := s.app.Mailer.Token("team@example.com")
	s.Require().NotEmpty(token)

	s.Require().NoError(s.app.AuthService.ResetPassword(s.ctx, token, "another-pass"))
	_, err = s.app.Token(s.ctx, "team@example.com", "another-pass")
	s.NoError(err)
}

func (s *IntegrationSuite) TestNewRejectsUnknownBackends() {
	_, err := New(s.ctx, Config{StorageType: "sqlite"})
	s.Error(err)

	_, err = New(s.ctx, Config{StorageType: StorageTypeRedis})
	s.Error(err)

	_, err = New(s.ctx, Config{StorageType: StorageTypePostgres})
	s.Error(err)

	_, err = New(s.ctx, Config{Forms: FormsConfig{Source: "ftp"}})
	s.Error(err)
}

func (s *IntegrationSuite) TestNewMemoryAppBootstrapsSuperuser() {
	app, err := New(s.ctx, Config{
		FirstSuperuser: Superuser{Email: "admin@example.com", Password: "changethis"},
	})
	s.Require().NoError(err)
	defer func() { _ = app.Close() }()

	session, err := app.AuthService.Login(s.ctx, "admin@example.com", "changethis")
	s.Require().NoError(err)
	s.True(session.User.IsSuperuser)
}
