package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hankerbiao/Registration-System/internal/api/apierr"
	"github.com/hankerbiao/Registration-System/internal/api/middleware"
	"github.com/hankerbiao/Registration-System/internal/api/request"
	"github.com/hankerbiao/Registration-System/internal/api/response"
	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/services/auth"
)

// LoginHandler handles token issue and password recovery endpoints
type LoginHandler struct {
	authService *auth.Service
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(authService *auth.Service) *LoginHandler {
	return &LoginHandler{
		authService: authService,
	}
}

// AccessToken handles POST /api/v1/login/access-token
func (h *LoginHandler) AccessToken(w http.ResponseWriter, r *http.Request) {
	login, err := request.DecodeLogin(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.authService.Login(r.Context(), login.Username, login.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Token{
		AccessToken: session.Token,
		TokenType:   auth.TokenType,
	})
}

// TestToken handles POST /api/v1/login/test-token
func (h *LoginHandler) TestToken(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// RecoverPassword handles POST /api/v1/password-recovery/{email}
func (h *LoginHandler) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	err := h.authService.RecoverPassword(r.Context(), email)
	if err != nil {
		WriteError(w, apierr.Override(err, model.ErrUserNotFound,
			http.StatusNotFound, "The user with this email does not exist in the system."))
		return
	}

	response.JSON(w, http.StatusOK, response.Message{Message: "Password recovery email sent"})
}

// ResetPassword handles POST /api/v1/reset-password
func (h *LoginHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.NewPassword
	if err := request.DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	err := h.authService.ResetPassword(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		WriteError(w, apierr.Override(err, model.ErrUserNotFound,
			http.StatusNotFound, "The user with this email does not exist in the system."))
		return
	}

	response.JSON(w, http.StatusOK, response.Message{Message: "Password updated successfully"})
}
