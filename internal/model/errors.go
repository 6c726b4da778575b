package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailExists         = errors.New("email already registered")
	ErrEmailConflict       = errors.New("email belongs to another user")
	ErrInactiveUser        = errors.New("user is inactive")
	ErrIncorrectPassword   = errors.New("incorrect password")
	ErrSamePassword        = errors.New("new password equals current password")
	ErrSuperuserSelfDelete = errors.New("superuser cannot delete itself")
	ErrForbidden           = errors.New("insufficient privileges")

	// Auth errors
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("could not validate credentials")

	// Athlete errors
	ErrAthleteNotFound    = errors.New("athlete not found")
	ErrIDNumberExists     = errors.New("id number already registered")
	ErrIDNumberConflict   = errors.New("id number belongs to another athlete")
	ErrInvalidAthleteData = errors.New("invalid athlete data")

	// Registration form errors
	ErrFormNotFound = errors.New("registration form not found")
)
