package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/console/dialog"
	"github.com/hankerbiao/Registration-System/internal/console/mutation"
	"github.com/hankerbiao/Registration-System/internal/console/notify"
	"github.com/hankerbiao/Registration-System/internal/console/query"
	"github.com/hankerbiao/Registration-System/internal/console/session"
	"github.com/hankerbiao/Registration-System/internal/console/validate"
	"github.com/hankerbiao/Registration-System/internal/web/middleware"
	"github.com/hankerbiao/Registration-System/internal/web/state"
	"github.com/hankerbiao/Registration-System/internal/web/templates/layout"
	"github.com/hankerbiao/Registration-System/internal/web/templates/pages"
)

const adminPath = "/admin"

// AdminHandler handles the user management page
type AdminHandler struct{}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

func userLoader(sess *session.Session, cache *query.Cache, onError func(error)) *query.ListLoader[client.User] {
	return &query.ListLoader[client.User]{
		Cache:    cache,
		Name:     query.UsersList,
		PageSize: query.UsersPageSize,
		Fetch: func(ctx context.Context, skip, limit int) ([]client.User, int, error) {
			res, err := sess.Client().ListUsers(ctx, client.Page{Skip: skip, Limit: limit})
			if err != nil {
				return nil, 0, err
			}
			return res.Data, res.Count, nil
		},
		OnError: onError,
	}
}

func userDialog(entry *state.Entry, name string) *dialog.Dialog {
	return entry.Dialog("users." + name)
}

type adminView struct {
	dialog     string
	targetID   string
	form       validate.UserForm
	errors     validate.Errors
	submitting bool
}

func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, status int, rec *notify.Recorder, errs *notify.ErrorHandler, v adminView) {
	sess := middleware.GetSession(r.Context())
	entry := middleware.GetEntry(r.Context())
	user := middleware.GetUser(r.Context())

	view := userLoader(sess, entry.Cache, errs.Handle).Load(r.Context(), pageParam(r))

	data := pages.AdminData{
		PageData:      pageData(r, "用户管理", layout.NavAdmin, rec),
		View:          view,
		CurrentUserID: user.ID,
		Dialog:        v.dialog,
		TargetID:      v.targetID,
		Form:          v.form,
		Errors:        v.errors,
		Submitting:    v.submitting,
	}
	render(w, r, status, pages.Admin(data))
}

// List renders a page of users with at most one dialog open
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry := middleware.GetEntry(ctx)
	sess := middleware.GetSession(ctx)
	rec, errs := notifier()

	v := adminView{
		dialog:   r.URL.Query().Get("dialog"),
		targetID: r.URL.Query().Get("id"),
	}
	dismissOthers(entry, "users", v.dialog)

	switch v.dialog {
	case pages.DialogAdd:
		v.form = validate.UserForm{IsActive: true}
	case pages.DialogEdit, pages.DialogDelete:
		u, err := sess.Client().GetUser(ctx, v.targetID)
		if err != nil {
			errs.Handle(err)
			v.dialog = ""
			break
		}
		v.form = validate.UserFormFrom(u)
	default:
		v.dialog = ""
	}
	if v.dialog != "" {
		d := userDialog(entry, v.dialog)
		d.Open()
		v.submitting = d.Submitting()
	}

	h.render(w, r, http.StatusOK, rec, errs, v)
}

func userForm(r *http.Request) validate.UserForm {
	return validate.UserForm{
		Email:       strings.TrimSpace(r.FormValue(validate.FieldEmail)),
		FullName:    strings.TrimSpace(r.FormValue(validate.FieldFullName)),
		Password:    r.FormValue(validate.FieldPassword),
		Confirm:     r.FormValue(validate.FieldConfirm),
		IsSuperuser: formBool(r, "is_superuser"),
		IsActive:    formBool(r, "is_active"),
	}
}

// Create adds a team account from the add dialog
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest, err)
		return
	}

	entry := middleware.GetEntry(r.Context())
	sess := middleware.GetSession(r.Context())
	rec, errs := notifier()

	form := userForm(r)
	v := adminView{dialog: pages.DialogAdd, form: form}
	d := userDialog(entry, pages.DialogAdd)
	d.Open()

	if v.errors = validate.ValidateUserCreate(&form); !v.errors.OK() {
		h.render(w, r, http.StatusOK, rec, errs, v)
		return
	}

	g := mutation.New(sess.Client().CreateUser, entry.Cache, query.UsersKey)
	g.Dialog = d
	g.OnSuccess = func(*client.User) {
		middleware.SetFlash(w, notify.Success(notify.UserCreated))
	}
	g.OnError = errs.Handle

	if _, err := g.Mutate(r.Context(), form.CreatePayload()); err != nil {
		h.renderFailure(w, r, rec, errs, d, v, err)
		return
	}
	redirect(w, r, pageURL(adminPath, pageParam(r)))
}

// Update saves the edit dialog; a blank password is left unchanged
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest, err)
		return
	}

	entry := middleware.GetEntry(r.Context())
	sess := middleware.GetSession(r.Context())
	rec, errs := notifier()
	id := mux.Vars(r)["id"]

	form := userForm(r)
	v := adminView{dialog: pages.DialogEdit, targetID: id, form: form}
	d := userDialog(entry, pages.DialogEdit)
	d.Open()

	if v.errors = validate.ValidateUserUpdate(&form); !v.errors.OK() {
		h.render(w, r, http.StatusOK, rec, errs, v)
		return
	}

	g := mutation.New(func(ctx context.Context, in client.UserUpdate) (*client.User, error) {
		return sess.Client().UpdateUser(ctx, id, in)
	}, entry.Cache, query.UsersKey)
	g.Dialog = d
	g.OnSuccess = func(*client.User) {
		middleware.SetFlash(w, notify.Success(notify.UserUpdated))
	}
	g.OnError = errs.Handle

	if _, err := g.Mutate(r.Context(), form.UpdatePayload()); err != nil {
		h.renderFailure(w, r, rec, errs, d, v, err)
		return
	}
	redirect(w, r, pageURL(adminPath, pageParam(r)))
}

// Delete removes a team account and, on the server, its athletes
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entry := middleware.GetEntry(r.Context())
	sess := middleware.GetSession(r.Context())
	rec, errs := notifier()
	id := mux.Vars(r)["id"]

	v := adminView{dialog: pages.DialogDelete, targetID: id}
	d := userDialog(entry, pages.DialogDelete)
	d.Open()

	g := mutation.New(sess.Client().DeleteUser, entry.Cache, query.UsersKey, query.AthletesKey)
	g.Dialog = d
	g.OnSuccess = func(*client.Message) {
		middleware.SetFlash(w, notify.Success(notify.UserDeleted))
	}
	g.OnError = func(error) {
		rec.Notify(notify.Failure(notify.UserDeleteFailed))
	}

	if _, err := g.Mutate(r.Context(), id); err != nil {
		h.renderFailure(w, r, rec, errs, d, v, err)
		return
	}
	redirect(w, r, pageURL(adminPath, pageParam(r)))
}

func (h *AdminHandler) renderFailure(w http.ResponseWriter, r *http.Request, rec *notify.Recorder, errs *notify.ErrorHandler, d *dialog.Dialog, v adminView, err error) {
	status := http.StatusOK
	if errors.Is(err, mutation.ErrInFlight) {
		status = http.StatusConflict
	}
	v.submitting = d.Submitting()
	h.render(w, r, status, rec, errs, v)
}
