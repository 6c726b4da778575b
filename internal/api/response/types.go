package response

import (
	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/services/athletes"
)

// Token is returned by the login endpoint
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Message is a generic acknowledgement
type Message struct {
	Message string `json:"message"`
}

// User represents a user in API responses
type User struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	FullName      *string `json:"full_name"`
	IsActive      bool    `json:"is_active"`
	IsSuperuser   bool    `json:"is_superuser"`
	AthletesCount *int    `json:"athletes_count"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	var fullName *string
	if u.FullName != "" {
		name := u.FullName
		fullName = &name
	}
	return User{
		ID:          string(u.ID),
		Email:       u.Email,
		FullName:    fullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
	}
}

// UserFromSummary converts a model.UserSummary, including its athlete count
func UserFromSummary(s *model.UserSummary) User {
	out := UserFromModel(s.User)
	count := s.AthletesCount
	out.AthletesCount = &count
	return out
}

// Users is a page of users
type Users struct {
	Data  []User `json:"data"`
	Count int    `json:"count"`
}

// Athlete represents an athlete in API responses
type Athlete struct {
	ID               string  `json:"id"`
	OwnerID          string  `json:"owner_id"`
	Name             string  `json:"name"`
	IDNumber         string  `json:"id_number"`
	Gender           string  `json:"gender"`
	KumiteCategory   string  `json:"kumite_category"`
	KumiteIndividual string  `json:"kumite_individual"`
	KumiteTeam       string  `json:"kumite_team"`
	IndividualKata   string  `json:"individual_kata"`
	MixedDoubleKata  string  `json:"mixed_double_kata"`
	TeamKata         string  `json:"team_kata"`
	MixedTeamKata    string  `json:"mixed_team_kata"`
	Unit             *string `json:"unit"`
}

// AthleteFromView converts a service view; unit is only set for superuser listings
func AthleteFromView(v *athletes.View, withUnit bool) Athlete {
	a := Athlete{
		ID:               string(v.ID),
		OwnerID:          string(v.OwnerID),
		Name:             v.Name,
		IDNumber:         v.IDNumber,
		Gender:           string(v.Gender),
		KumiteCategory:   string(v.KumiteCategory),
		KumiteIndividual: v.KumiteIndividual,
		KumiteTeam:       v.KumiteTeam,
		IndividualKata:   v.IndividualKata,
		MixedDoubleKata:  v.MixedDoubleKata,
		TeamKata:         v.TeamKata,
		MixedTeamKata:    v.MixedTeamKata,
	}
	if withUnit {
		unit := v.Unit
		a.Unit = &unit
	}
	return a
}

// Athletes is a page of athletes
type Athletes struct {
	Data  []Athlete `json:"data"`
	Count int       `json:"count"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
