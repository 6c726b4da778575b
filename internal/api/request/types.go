package request

import (
	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/services/athletes"
)

// UserCreate is the request body for an administrator creating a user
type UserCreate struct {
	Email       string  `json:"email" validate:"required,email,max=255"`
	Password    string  `json:"password" validate:"required,min=8,max=40"`
	FullName    *string `json:"full_name" validate:"omitempty,max=255"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser bool    `json:"is_superuser"`
}

// UserRegister is the request body for self-signup
type UserRegister struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=40"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
}

// UserUpdate is the request body for an administrator editing a user
type UserUpdate struct {
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	Password    *string `json:"password" validate:"omitempty,min=8,max=40"`
	FullName    *string `json:"full_name" validate:"omitempty,max=255"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// UserUpdateMe is the request body for a user editing their own profile
type UserUpdateMe struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
}

// UpdatePassword is the request body for changing one's own password
type UpdatePassword struct {
	CurrentPassword string `json:"current_password" validate:"required,min=8,max=40"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=40"`
}

// NewPassword is the request body for completing a password reset
type NewPassword struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=40"`
}

// Login holds the OAuth2 password form fields
type Login struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Page holds skip/limit query parameters
type Page struct {
	Skip  int `json:"skip" validate:"gte=0"`
	Limit int `json:"limit" validate:"gte=0"`
}

// ListParams converts the query into storage list parameters
func (p Page) ListParams() model.ListParams {
	return model.ListParams{Skip: p.Skip, Limit: p.Limit}
}

// AthleteCreate is the request body for registering an athlete
type AthleteCreate struct {
	Name             string `json:"name" validate:"required,max=255"`
	IDNumber         string `json:"id_number" validate:"required,max=18"`
	Gender           string `json:"gender" validate:"required,option=gender"`
	KumiteCategory   string `json:"kumite_category" validate:"required,option=kumite_category"`
	KumiteIndividual string `json:"kumite_individual" validate:"required,option=kumite_individual"`
	KumiteTeam       string `json:"kumite_team" validate:"required,option=kumite_team"`
	IndividualKata   string `json:"individual_kata" validate:"required,option=individual_kata"`
	MixedDoubleKata  string `json:"mixed_double_kata" validate:"required,option=mixed_double_kata"`
	TeamKata         string `json:"team_kata" validate:"required,option=team_kata"`
	MixedTeamKata    string `json:"mixed_team_kata" validate:"required,option=mixed_team_kata"`
}

// Fields converts the request into athlete attributes
func (a AthleteCreate) Fields() model.AthleteFields {
	return model.AthleteFields{
		Name:             a.Name,
		IDNumber:         a.IDNumber,
		Gender:           model.Gender(a.Gender),
		KumiteCategory:   model.KumiteCategory(a.KumiteCategory),
		KumiteIndividual: a.KumiteIndividual,
		KumiteTeam:       a.KumiteTeam,
		IndividualKata:   a.IndividualKata,
		MixedDoubleKata:  a.MixedDoubleKata,
		TeamKata:         a.TeamKata,
		MixedTeamKata:    a.MixedTeamKata,
	}
}

// AthleteUpdate is the request body for a partial athlete update
type AthleteUpdate struct {
	Name             *string `json:"name" validate:"omitempty,max=255"`
	IDNumber         *string `json:"id_number" validate:"omitempty,max=18"`
	Gender           *string `json:"gender" validate:"omitempty,option=gender"`
	KumiteCategory   *string `json:"kumite_category" validate:"omitempty,option=kumite_category"`
	KumiteIndividual *string `json:"kumite_individual" validate:"omitempty,option=kumite_individual"`
	KumiteTeam       *string `json:"kumite_team" validate:"omitempty,option=kumite_team"`
	IndividualKata   *string `json:"individual_kata" validate:"omitempty,option=individual_kata"`
	MixedDoubleKata  *string `json:"mixed_double_kata" validate:"omitempty,option=mixed_double_kata"`
	TeamKata         *string `json:"team_kata" validate:"omitempty,option=team_kata"`
	MixedTeamKata    *string `json:"mixed_team_kata" validate:"omitempty,option=mixed_team_kata"`
}

// Patch converts the request into a service patch
func (a AthleteUpdate) Patch() athletes.Patch {
	p := athletes.Patch{
		Name:             a.Name,
		IDNumber:         a.IDNumber,
		KumiteIndividual: a.KumiteIndividual,
		KumiteTeam:       a.KumiteTeam,
		IndividualKata:   a.IndividualKata,
		MixedDoubleKata:  a.MixedDoubleKata,
		TeamKata:         a.TeamKata,
		MixedTeamKata:    a.MixedTeamKata,
	}
	if a.Gender != nil {
		g := model.Gender(*a.Gender)
		p.Gender = &g
	}
	if a.KumiteCategory != nil {
		c := model.KumiteCategory(*a.KumiteCategory)
		p.KumiteCategory = &c
	}
	return p
}
