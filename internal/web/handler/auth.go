package handler

import (
	"net/http"
	"strings"

	"github.com/hankerbiao/Registration-System/internal/console/notify"
	"github.com/hankerbiao/Registration-System/internal/console/session"
	"github.com/hankerbiao/Registration-System/internal/console/validate"
	"github.com/hankerbiao/Registration-System/internal/web/middleware"
	"github.com/hankerbiao/Registration-System/internal/web/templates/pages"
)

// AuthHandler handles the sign-in, registration and password pages
type AuthHandler struct {
	sessions *middleware.Sessions
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions *middleware.Sessions) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r.Context()) != nil {
		// Already logged in
		redirect(w, r, session.DefaultRoute)
		return
	}

	data := pages.LoginData{
		PageData: pageData(r, "登录", "", nil),
		Next:     r.URL.Query().Get("next"),
	}
	render(w, r, http.StatusOK, pages.Login(data))
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest, err)
		return
	}

	form := validate.LoginForm{
		Username: strings.TrimSpace(r.FormValue(validate.FieldUsername)),
		Password: r.FormValue(validate.FieldPassword),
	}
	next := r.FormValue("next")
	rec, errs := notifier()

	fieldErrs := validate.ValidateLogin(&form)
	if fieldErrs.OK() {
		sess := middleware.GetSession(r.Context())
		err := sess.Login(r.Context(), form.Username, form.Password)
		if err == nil {
			redirect(w, r, safeNext(next, session.DefaultRoute))
			return
		}
		errs.Handle(err)
	}

	data := pages.LoginData{
		PageData: pageData(r, "登录", "", rec),
		Username: form.Username,
		Next:     next,
		Errors:   fieldErrs,
	}
	render(w, r, http.StatusOK, pages.Login(data))
}

// SignupPage renders the registration page
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r.Context()) != nil {
		redirect(w, r, session.DefaultRoute)
		return
	}

	data := pages.SignupData{PageData: pageData(r, "注册", "", nil)}
	render(w, r, http.StatusOK, pages.Signup(data))
}

// Signup handles registration form submission. The new account is not
// signed in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest, err)
		return
	}

	form := validate.SignupForm{
		FullName: strings.TrimSpace(r.FormValue(validate.FieldFullName)),
		Email:    strings.TrimSpace(r.FormValue(validate.FieldEmail)),
		Password: r.FormValue(validate.FieldPassword),
		Confirm:  r.FormValue(validate.FieldConfirm),
	}
	rec, errs := notifier()

	fieldErrs := validate.ValidateSignup(&form)
	if fieldErrs.OK() {
		sess := middleware.GetSession(r.Context())
		_, err := sess.Signup(r.Context(), form.Payload())
		if err == nil {
			middleware.SetFlash(w, notify.Success(notify.SignupSucceeded))
			redirect(w, r, session.LoginRoute)
			return
		}
		errs.Handle(err)
	}

	data := pages.SignupData{
		PageData: pageData(r, "注册", "", rec),
		Form:     validate.SignupForm{FullName: form.FullName, Email: form.Email},
		Errors:   fieldErrs,
	}
	render(w, r, http.StatusOK, pages.Signup(data))
}

// Logout discards the session token
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.GetSession(r.Context()); sess != nil {
		_ = h.sessions.Forget(sess)
	}
	redirect(w, r, session.LoginRoute)
}

// RecoverPage renders the password recovery page
func (h *AuthHandler) RecoverPage(w http.ResponseWriter, r *http.Request) {
	data := pages.RecoverData{PageData: pageData(r, "找回密码", "", nil)}
	render(w, r, http.StatusOK, pages.RecoverPassword(data))
}

// Recover requests a password reset email
func (h *AuthHandler) Recover(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest, err)
		return
	}

	email := strings.TrimSpace(r.FormValue(validate.FieldEmail))
	rec, errs := notifier()

	fieldErrs := validate.ValidateRecover(email)
	if fieldErrs.OK() {
		sess := middleware.GetSession(r.Context())
		_, err := sess.RecoverPassword(r.Context(), email)
		if err == nil {
			middleware.SetFlash(w, notify.Success(notify.RecoveryEmailSent))
			redirect(w, r, session.LoginRoute)
			return
		}
		errs.Handle(err)
	}

	data := pages.RecoverData{
		PageData: pageData(r, "找回密码", "", rec),
		Email:    email,
		Errors:   fieldErrs,
	}
	render(w, r, http.StatusOK, pages.RecoverPassword(data))
}

// ResetPage renders the password reset page for the token in the link
func (h *AuthHandler) ResetPage(w http.ResponseWriter, r *http.Request) {
	data := pages.ResetData{
		PageData: pageData(r, "重置密码", "", nil),
		Token:    r.URL.Query().Get(validate.FieldToken),
	}
	render(w, r, http.StatusOK, pages.ResetPassword(data))
}

// Reset sets a new password from a reset token
func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest, err)
		return
	}

	form := validate.ResetForm{
		Token:    r.FormValue(validate.FieldToken),
		Password: r.FormValue(validate.FieldNewPassword),
		Confirm:  r.FormValue(validate.FieldConfirm),
	}
	rec, errs := notifier()

	fieldErrs := validate.ValidateResetPassword(&form)
	if fieldErrs.OK() {
		sess := middleware.GetSession(r.Context())
		_, err := sess.ResetPassword(r.Context(), form.Payload())
		if err == nil {
			middleware.SetFlash(w, notify.Success(notify.PasswordResetSuccess))
			redirect(w, r, session.LoginRoute)
			return
		}
		errs.Handle(err)
	}

	data := pages.ResetData{
		PageData: pageData(r, "重置密码", "", rec),
		Token:    form.Token,
		Errors:   fieldErrs,
	}
	render(w, r, http.StatusOK, pages.ResetPassword(data))
}
