package pages

import (
	"github.com/hankerbiao/Registration-System/internal/console/validate"
	"github.com/hankerbiao/Registration-System/internal/web/templates/layout"
)

// LoginData is the sign-in page
type LoginData struct {
	layout.PageData
	Username string
	Next     string
	Errors   validate.Errors
}

// SignupData is the registration page
type SignupData struct {
	layout.PageData
	Form   validate.SignupForm
	Errors validate.Errors
}

// RecoverData is the password recovery page
type RecoverData struct {
	layout.PageData
	Email  string
	Errors validate.Errors
}

// ResetData is the password reset page
type ResetData struct {
	layout.PageData
	Token  string
	Errors validate.Errors
}
