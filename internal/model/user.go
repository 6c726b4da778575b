package model

import "time"

// UserID uniquely identifies a user (team or administrator)
type UserID string

// User is an account representing a competing team or an administrator
type User struct {
	ID           UserID
	Email        string // unique
	FullName     string // team or unit name, may be empty
	PasswordHash string // bcrypt hash, never leaves the server
	IsActive     bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is a user together with the number of athletes it registered
type UserSummary struct {
	User          *User
	AthletesCount int
}

// Field length limits shared by the API and the console forms
const (
	MaxEmailLength    = 255
	MaxFullNameLength = 255
	MinPasswordLength = 8
	MaxPasswordLength = 40
	MaxIDNumberLength = 18
)
