package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hankerbiao/Registration-System/internal/api/apierr"
	"github.com/hankerbiao/Registration-System/internal/api/middleware"
	"github.com/hankerbiao/Registration-System/internal/api/request"
	"github.com/hankerbiao/Registration-System/internal/api/response"
	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/services/users"
)

// UserHandler handles user management and self-service endpoints
type UserHandler struct {
	users *users.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *users.Service) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

// List handles GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := request.DecodePage(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	summaries, count, err := h.users.List(r.Context(), page.ListParams())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := response.Users{Data: make([]response.User, 0, len(summaries)), Count: count}
	for i := range summaries {
		out.Data = append(out.Data, response.UserFromSummary(&summaries[i]))
	}
	response.JSON(w, http.StatusOK, out)
}

// Create handles POST /api/v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.UserCreate
	if err := request.DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	in := users.CreateInput{
		Email:       req.Email,
		Password:    req.Password,
		IsActive:    true,
		IsSuperuser: req.IsSuperuser,
	}
	if req.FullName != nil {
		in.FullName = *req.FullName
	}
	if req.IsActive != nil {
		in.IsActive = *req.IsActive
	}

	summary, err := h.users.Create(r.Context(), in)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromSummary(summary))
}

// Signup handles POST /api/v1/users/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.UserRegister
	if err := request.DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	var fullName string
	if req.FullName != nil {
		fullName = *req.FullName
	}

	summary, err := h.users.Register(r.Context(), req.Email, req.Password, fullName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromSummary(summary))
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	summary, err := h.users.Me(r.Context(), user)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromSummary(summary))
}

// UpdateMe handles PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.UserUpdateMe
	if err := request.DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	summary, err := h.users.UpdateMe(r.Context(), user, req.Email, req.FullName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromSummary(summary))
}

// UpdatePassword handles PATCH /api/v1/users/me/password
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.UpdatePassword
	if err := request.DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.users.UpdatePassword(r.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Message{Message: "Password updated successfully"})
}

// DeleteMe handles DELETE /api/v1/users/me
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	if err := h.users.DeleteMe(r.Context(), user); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Message{Message: "User deleted successfully"})
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.UserID(mux.Vars(r)["id"])

	summary, err := h.users.Get(r.Context(), user, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromSummary(summary))
}

// Update handles PATCH /api/v1/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.UserID(mux.Vars(r)["id"])

	var req request.UserUpdate
	if err := request.DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	summary, err := h.users.Update(r.Context(), id, users.UpdateInput{
		Email:       req.Email,
		FullName:    req.FullName,
		Password:    req.Password,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		WriteError(w, apierr.Override(err, model.ErrUserNotFound,
			http.StatusNotFound, "The user with this id does not exist in the system"))
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromSummary(summary))
}

// Delete handles DELETE /api/v1/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.UserID(mux.Vars(r)["id"])

	if err := h.users.Delete(r.Context(), user, id); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Message{Message: "User deleted successfully"})
}
