package client

// Token is returned by the login endpoint
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Message is a generic acknowledgement
type Message struct {
	Message string `json:"message"`
}

// User is a team or administrator account
type User struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	FullName      *string `json:"full_name"`
	IsActive      bool    `json:"is_active"`
	IsSuperuser   bool    `json:"is_superuser"`
	AthletesCount *int    `json:"athletes_count"`
}

// DisplayName returns the full name, or the email when no name is set
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Email
}

// Users is a page of users
type Users struct {
	Data  []User `json:"data"`
	Count int    `json:"count"`
}

// UserCreate is the payload for an administrator creating an account
type UserCreate struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FullName    *string `json:"full_name,omitempty"`
	IsActive    bool    `json:"is_active"`
	IsSuperuser bool    `json:"is_superuser"`
}

// UserRegister is the self-signup payload
type UserRegister struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

// UserUpdate is a partial administrator edit; nil fields are left unchanged
type UserUpdate struct {
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
}

// UserUpdateMe is a partial profile edit
type UserUpdateMe struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// UpdatePassword is the payload for changing one's own password
type UpdatePassword struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// NewPassword completes a password reset
type NewPassword struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// AthleteFields holds every editable athlete attribute
type AthleteFields struct {
	Name             string `json:"name"`
	IDNumber         string `json:"id_number"`
	Gender           string `json:"gender"`
	KumiteCategory   string `json:"kumite_category"`
	KumiteIndividual string `json:"kumite_individual"`
	KumiteTeam       string `json:"kumite_team"`
	IndividualKata   string `json:"individual_kata"`
	MixedDoubleKata  string `json:"mixed_double_kata"`
	TeamKata         string `json:"team_kata"`
	MixedTeamKata    string `json:"mixed_team_kata"`
}

// Athlete is a registered competitor
type Athlete struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	AthleteFields
	// Unit is the owning team's name, present in superuser listings only
	Unit *string `json:"unit,omitempty"`
}

// Athletes is a page of athletes
type Athletes struct {
	Data  []Athlete `json:"data"`
	Count int       `json:"count"`
}

// AthletePatch is a partial athlete edit; nil fields are left unchanged
type AthletePatch struct {
	Name             *string `json:"name,omitempty"`
	IDNumber         *string `json:"id_number,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	KumiteCategory   *string `json:"kumite_category,omitempty"`
	KumiteIndividual *string `json:"kumite_individual,omitempty"`
	KumiteTeam       *string `json:"kumite_team,omitempty"`
	IndividualKata   *string `json:"individual_kata,omitempty"`
	MixedDoubleKata  *string `json:"mixed_double_kata,omitempty"`
	TeamKata         *string `json:"team_kata,omitempty"`
	MixedTeamKata    *string `json:"mixed_team_kata,omitempty"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
