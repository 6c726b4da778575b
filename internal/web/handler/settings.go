package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/console/mutation"
	"github.com/hankerbiao/Registration-System/internal/console/notify"
	"github.com/hankerbiao/Registration-System/internal/console/query"
	"github.com/hankerbiao/Registration-System/internal/console/session"
	"github.com/hankerbiao/Registration-System/internal/console/validate"
	"github.com/hankerbiao/Registration-System/internal/web/middleware"
	"github.com/hankerbiao/Registration-System/internal/web/templates/layout"
	"github.com/hankerbiao/Registration-System/internal/web/templates/pages"
)

const deleteAccountDialog = "settings.delete"

// SettingsHandler handles the user settings page
type SettingsHandler struct {
	sessions *middleware.Sessions
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(sessions *middleware.Sessions) *SettingsHandler {
	return &SettingsHandler{sessions: sessions}
}

func (h *SettingsHandler) render(w http.ResponseWriter, r *http.Request, rec *notify.Recorder, data pages.SettingsData) {
	data.PageData = pageData(r, "用户设置", layout.NavSettings, rec)
	if data.Tab == "" {
		data.Tab = pages.TabProfile
	}
	render(w, r, http.StatusOK, pages.Settings(data))
}

// Page renders the settings tab named in the query
func (h *SettingsHandler) Page(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	entry := middleware.GetEntry(r.Context())
	q := r.URL.Query()

	data := pages.SettingsData{
		Tab:     q.Get("tab"),
		Profile: validate.ProfileFormFrom(user),
		Editing: q.Get("edit") != "",
	}

	d := entry.Dialog(deleteAccountDialog)
	if data.Tab == pages.TabDanger && q.Get("dialog") == pages.DialogDelete {
		d.Open()
	} else {
		d.Dismiss()
	}
	data.ConfirmDelete = d.IsOpen()
	data.Submitting = d.Submitting()

	h.render(w, r, nil, data)
}

// UpdateProfile saves the user information tab
func (h *SettingsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest, err)
		return
	}

	sess := middleware.GetSession(r.Context())
	entry := middleware.GetEntry(r.Context())
	user := middleware.GetUser(r.Context())
	rec, errs := notifier()

	before := validate.ProfileFormFrom(user)
	after := validate.ProfileForm{
		FullName: strings.TrimSpace(r.FormValue(validate.FieldFullName)),
		Email:    strings.TrimSpace(r.FormValue(validate.FieldEmail)),
	}
	data := pages.SettingsData{Tab: pages.TabProfile, Profile: after, Editing: true, Dirty: validate.Dirty(before, after)}

	if !data.Dirty {
		// Save is disabled until something changes
		if after.Email == "" {
			data.ProfileErrors = validate.ValidateProfile(&after)
			h.render(w, r, rec, data)
			return
		}
		redirect(w, r, "/settings?tab="+pages.TabProfile)
		return
	}
	if data.ProfileErrors = validate.ValidateProfile(&after); !data.ProfileErrors.OK() {
		h.render(w, r, rec, data)
		return
	}

	g := mutation.New(sess.Client().UpdateMe, entry.Cache, query.UsersKey)
	g.OnSuccess = func(*client.User) {
		sess.Invalidate()
		middleware.SetFlash(w, notify.Success(notify.ProfileUpdated))
	}
	g.OnError = errs.Handle

	if _, err := g.Mutate(r.Context(), after.Payload()); err != nil {
		h.render(w, r, rec, data)
		return
	}
	redirect(w, r, "/settings?tab="+pages.TabProfile)
}

// ChangePassword saves the change password tab
func (h *SettingsHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest, err)
		return
	}

	sess := middleware.GetSession(r.Context())
	rec, errs := notifier()

	form := validate.PasswordForm{
		Current: r.FormValue(validate.FieldCurrentPassword),
		New:     r.FormValue(validate.FieldNewPassword),
		Confirm: r.FormValue(validate.FieldConfirm),
	}
	data := pages.SettingsData{Tab: pages.TabPassword}

	if data.PasswordErrors = validate.ValidatePasswordChange(&form); !data.PasswordErrors.OK() {
		h.render(w, r, rec, data)
		return
	}

	g := mutation.New(sess.Client().UpdatePassword, nil)
	g.OnSuccess = func(*client.Message) {
		middleware.SetFlash(w, notify.Success(notify.PasswordUpdated))
	}
	g.OnError = errs.Handle

	if _, err := g.Mutate(r.Context(), form.Payload()); err != nil {
		h.render(w, r, rec, data)
		return
	}
	redirect(w, r, "/settings?tab="+pages.TabPassword)
}

// SaveAppearance remembers the colour theme picked on the appearance tab
func (h *SettingsHandler) SaveAppearance(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest, err)
		return
	}
	theme := r.FormValue("theme")
	if !layout.ValidTheme(theme) {
		RenderError(w, r, http.StatusBadRequest, nil)
		return
	}
	middleware.SetTheme(w, theme)
	redirect(w, r, "/settings?tab="+pages.TabAppearance)
}

// DeleteAccount deletes the signed-in account and signs out
func (h *SettingsHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	entry := middleware.GetEntry(r.Context())
	rec, errs := notifier()

	d := entry.Dialog(deleteAccountDialog)
	d.Open()

	g := mutation.New(func(ctx context.Context, _ struct{}) (*client.Message, error) {
		return sess.Client().DeleteMe(ctx)
	}, entry.Cache, query.UsersKey, query.AthletesKey)
	g.Dialog = d
	g.OnSuccess = func(*client.Message) {
		sess.Invalidate()
		_ = h.sessions.Forget(sess)
		middleware.SetFlash(w, notify.Success(notify.AccountDeleted))
	}
	g.OnError = errs.Handle

	if _, err := g.Mutate(r.Context(), struct{}{}); err != nil {
		data := pages.SettingsData{
			Tab:           pages.TabDanger,
			ConfirmDelete: d.IsOpen(),
			Submitting:    d.Submitting(),
		}
		h.render(w, r, rec, data)
		return
	}
	redirect(w, r, session.LoginRoute)
}
