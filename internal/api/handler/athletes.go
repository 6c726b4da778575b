package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hankerbiao/Registration-System/internal/api/apierr"
	"github.com/hankerbiao/Registration-System/internal/api/middleware"
	"github.com/hankerbiao/Registration-System/internal/api/request"
	"github.com/hankerbiao/Registration-System/internal/api/response"
	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/services/athletes"
)

// AthleteHandler handles athlete registration endpoints
type AthleteHandler struct {
	athletes *athletes.Service
}

// NewAthleteHandler creates a new athlete handler
func NewAthleteHandler(athletes *athletes.Service) *AthleteHandler {
	return &AthleteHandler{
		athletes: athletes,
	}
}

// List handles GET /api/v1/athletes
func (h *AthleteHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	page, err := request.DecodePage(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	views, count, err := h.athletes.List(r.Context(), user, page.ListParams())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := response.Athletes{Data: make([]response.Athlete, 0, len(views)), Count: count}
	for i := range views {
		out.Data = append(out.Data, response.AthleteFromView(&views[i], user.IsSuperuser))
	}
	response.JSON(w, http.StatusOK, out)
}

// Create handles POST /api/v1/athletes
func (h *AthleteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.AthleteCreate
	if err := request.DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.athletes.Create(r.Context(), user, req.Fields())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AthleteFromView(view, false))
}

// Get handles GET /api/v1/athletes/{id}
func (h *AthleteHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.AthleteID(mux.Vars(r)["id"])

	view, err := h.athletes.Get(r.Context(), user, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AthleteFromView(view, false))
}

// Update handles PATCH /api/v1/athletes/{id}
func (h *AthleteHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.AthleteID(mux.Vars(r)["id"])

	var req request.AthleteUpdate
	if err := request.DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.athletes.Update(r.Context(), user, id, req.Patch())
	if err != nil {
		WriteError(w, apierr.Override(err, model.ErrAthleteNotFound,
			http.StatusNotFound, "The athlete with this id does not exist in the system"))
		return
	}

	response.JSON(w, http.StatusOK, response.AthleteFromView(view, false))
}

// Delete handles DELETE /api/v1/athletes/{id}
func (h *AthleteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.AthleteID(mux.Vars(r)["id"])

	if err := h.athletes.Delete(r.Context(), user, id); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Message{Message: "Athlete deleted successfully"})
}
