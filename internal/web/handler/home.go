package handler

import (
	"net/http"

	"github.com/hankerbiao/Registration-System/internal/console/session"
)

// HomeHandler handles the root path
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home sends signed-in users to the default page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, session.DefaultRoute)
}
