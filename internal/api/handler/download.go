package handler

import (
	"log/slog"
	"net/http"

	"github.com/hankerbiao/Registration-System/internal/api/middleware"
	"github.com/hankerbiao/Registration-System/internal/api/response"
	"github.com/hankerbiao/Registration-System/internal/storage/forms"
)

// DownloadHandler serves the registration form spreadsheet
type DownloadHandler struct {
	forms  forms.Store
	logger *slog.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(store forms.Store, logger *slog.Logger) *DownloadHandler {
	return &DownloadHandler{
		forms:  store,
		logger: logger,
	}
}

// RegistrationForm handles GET /api/v1/download/download-registration-form
func (h *DownloadHandler) RegistrationForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	form, err := h.forms.Open(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	defer func() { _ = form.Body.Close() }()

	// Headers are already sent once copying starts
	if err := response.Attachment(w, forms.FileName, forms.ContentType, form.Size, form.Body); err != nil {
		h.logger.Warn("registration form download interrupted",
			slog.String("user_id", string(user.ID)),
			slog.String("error", err.Error()),
		)
	}
}
