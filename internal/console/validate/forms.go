package validate

import (
	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/model"
)

// Field names shared by the console forms
const (
	FieldEmail           = "email"
	FieldFullName        = "full_name"
	FieldPassword        = "password"
	FieldConfirm         = "confirm_password"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldUsername        = "username"
	FieldToken           = "token"
	FieldName            = "name"
	FieldIDNumber        = "id_number"
)

func emailField(value string) Field {
	return Field{FieldEmail, value, []Rule{Required(MsgEmailRequired), Email(), MaxLength(model.MaxEmailLength)}}
}

func passwordField(name, value string, required bool) Field {
	rules := []Rule{MinLength(model.MinPasswordLength, MsgPasswordTooShort)}
	if required {
		rules = append([]Rule{Required(MsgPasswordRequired)}, rules...)
	}
	return Field{name, value, rules}
}

func confirmField(value string, password func() string, required bool) Field {
	rules := []Rule{Matches(password, MsgConfirmMismatch)}
	if required {
		rules = append([]Rule{Required(MsgConfirmRequired)}, rules...)
	}
	return Field{FieldConfirm, value, rules}
}

func fullNameField(value string) Field {
	return Field{FieldFullName, value, []Rule{MaxLength(model.MaxFullNameLength)}}
}

// UserForm is the administrator's add/edit user form
type UserForm struct {
	Email       string
	FullName    string
	Password    string
	Confirm     string
	IsSuperuser bool
	IsActive    bool
}

// ValidateUserCreate requires a password and a matching confirmation
func ValidateUserCreate(f *UserForm) Errors {
	return Check(
		emailField(f.Email),
		fullNameField(f.FullName),
		passwordField(FieldPassword, f.Password, true),
		confirmField(f.Confirm, func() string { return f.Password }, true),
	)
}

// ValidateUserUpdate treats a blank password as unchanged
func ValidateUserUpdate(f *UserForm) Errors {
	return Check(
		emailField(f.Email),
		fullNameField(f.FullName),
		passwordField(FieldPassword, f.Password, false),
		confirmField(f.Confirm, func() string { return f.Password }, false),
	)
}

// CreatePayload builds the request for a new account
func (f *UserForm) CreatePayload() client.UserCreate {
	return client.UserCreate{
		Email:       f.Email,
		Password:    f.Password,
		FullName:    optional(f.FullName),
		IsActive:    f.IsActive,
		IsSuperuser: f.IsSuperuser,
	}
}

// UpdatePayload builds a partial edit; an empty password is left out
func (f *UserForm) UpdatePayload() client.UserUpdate {
	email, fullName := f.Email, f.FullName
	active, superuser := f.IsActive, f.IsSuperuser
	return client.UserUpdate{
		Email:       &email,
		FullName:    &fullName,
		Password:    optional(f.Password),
		IsActive:    &active,
		IsSuperuser: &superuser,
	}
}

// UserFormFrom fills the edit form from an existing account
func UserFormFrom(u *client.User) UserForm {
	f := UserForm{Email: u.Email, IsSuperuser: u.IsSuperuser, IsActive: u.IsActive}
	if u.FullName != nil {
		f.FullName = *u.FullName
	}
	return f
}

// SignupForm is the self-registration form
type SignupForm struct {
	FullName string
	Email    string
	Password string
	Confirm  string
}

// ValidateSignup checks the registration form
func ValidateSignup(f *SignupForm) Errors {
	return Check(
		fullNameField(f.FullName),
		emailField(f.Email),
		passwordField(FieldPassword, f.Password, true),
		confirmField(f.Confirm, func() string { return f.Password }, true),
	)
}

// Payload builds the signup request
func (f *SignupForm) Payload() client.UserRegister {
	return client.UserRegister{Email: f.Email, Password: f.Password, FullName: optional(f.FullName)}
}

// ProfileForm is the user information tab of the settings page
type ProfileForm struct {
	FullName string
	Email    string
}

// ValidateProfile checks the profile form
func ValidateProfile(f *ProfileForm) Errors {
	return Check(fullNameField(f.FullName), emailField(f.Email))
}

// Dirty reports whether the profile form may be saved: something changed
// and the email is not empty
func Dirty(before, after ProfileForm) bool {
	return before != after && after.Email != ""
}

// Payload builds the profile edit request
func (f *ProfileForm) Payload() client.UserUpdateMe {
	email, fullName := f.Email, f.FullName
	return client.UserUpdateMe{Email: &email, FullName: &fullName}
}

// ProfileFormFrom fills the profile form from the current user
func ProfileFormFrom(u *client.User) ProfileForm {
	f := ProfileForm{Email: u.Email}
	if u.FullName != nil {
		f.FullName = *u.FullName
	}
	return f
}

// PasswordForm is the change password tab of the settings page
type PasswordForm struct {
	Current string
	New     string
	Confirm string
}

// ValidatePasswordChange checks the change password form
func ValidatePasswordChange(f *PasswordForm) Errors {
	return Check(
		passwordField(FieldCurrentPassword, f.Current, true),
		passwordField(FieldNewPassword, f.New, true),
		confirmField(f.Confirm, func() string { return f.New }, true),
	)
}

// Payload builds the password change request
func (f *PasswordForm) Payload() client.UpdatePassword {
	return client.UpdatePassword{CurrentPassword: f.Current, NewPassword: f.New}
}

// LoginForm holds login credentials
type LoginForm struct {
	Username string
	Password string
}

// ValidateLogin checks the login form
func ValidateLogin(f *LoginForm) Errors {
	return Check(
		Field{FieldUsername, f.Username, []Rule{Required(MsgUsernameRequired), Email()}},
		passwordField(FieldPassword, f.Password, true),
	)
}

// ResetForm completes a password reset
type ResetForm struct {
	Token    string
	Password string
	Confirm  string
}

// ValidateResetPassword checks the reset password form
func ValidateResetPassword(f *ResetForm) Errors {
	return Check(
		Field{FieldToken, f.Token, []Rule{Required(MsgTokenRequired)}},
		passwordField(FieldNewPassword, f.Password, true),
		confirmField(f.Confirm, func() string { return f.Password }, true),
	)
}

// Payload builds the reset request
func (f *ResetForm) Payload() client.NewPassword {
	return client.NewPassword{Token: f.Token, NewPassword: f.Password}
}

// ValidateRecover checks the password recovery form
func ValidateRecover(email string) Errors {
	return Check(emailField(email))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
