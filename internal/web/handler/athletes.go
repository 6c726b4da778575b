package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
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

const athletesPath = "/athletes"

// AthletesHandler handles the athlete management page
type AthletesHandler struct{}

// NewAthletesHandler creates a new AthletesHandler
func NewAthletesHandler() *AthletesHandler {
	return &AthletesHandler{}
}

func athleteLoader(sess *session.Session, cache *query.Cache, onError func(error)) *query.ListLoader[client.Athlete] {
	return &query.ListLoader[client.Athlete]{
		Cache:    cache,
		Name:     query.AthletesList,
		PageSize: query.AthletesPageSize,
		Fetch: func(ctx context.Context, skip, limit int) ([]client.Athlete, int, error) {
			res, err := sess.Client().ListAthletes(ctx, client.Page{Skip: skip, Limit: limit})
			if err != nil {
				return nil, 0, err
			}
			return res.Data, res.Count, nil
		},
		OnError: onError,
	}
}

func athleteDialog(entry *state.Entry, name string) *dialog.Dialog {
	return entry.Dialog("athletes." + name)
}

// dismissOthers closes every open dialog of the section except keep
func dismissOthers(entry *state.Entry, section, keep string) {
	for _, name := range entry.OpenDialogs() {
		if strings.HasPrefix(name, section+".") && name != section+"."+keep {
			entry.Dialog(name).Dismiss()
		}
	}
}

// athletesView is what a render of the athletes page needs besides the list
type athletesView struct {
	dialog     string
	targetID   string
	form       client.AthleteFields
	errors     validate.Errors
	submitting bool
}

func (h *AthletesHandler) render(w http.ResponseWriter, r *http.Request, status int, rec *notify.Recorder, errs *notify.ErrorHandler, v athletesView) {
	sess := middleware.GetSession(r.Context())
	entry := middleware.GetEntry(r.Context())
	user := middleware.GetUser(r.Context())

	view := athleteLoader(sess, entry.Cache, errs.Handle).Load(r.Context(), pageParam(r))

	data := pages.AthletesData{
		PageData:   pageData(r, "运动员管理", layout.NavAthletes, rec),
		View:       view,
		ShowUnit:   user != nil && user.IsSuperuser,
		Dialog:     v.dialog,
		TargetID:   v.targetID,
		Form:       v.form,
		Errors:     v.errors,
		Submitting: v.submitting,
	}
	render(w, r, status, pages.Athletes(data))
}

// List renders a page of athletes with at most one dialog open
func (h *AthletesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry := middleware.GetEntry(ctx)
	sess := middleware.GetSession(ctx)
	rec, errs := notifier()

	v := athletesView{
		dialog:   r.URL.Query().Get("dialog"),
		targetID: r.URL.Query().Get("id"),
	}
	dismissOthers(entry, "athletes", v.dialog)

	switch v.dialog {
	case pages.DialogAdd:
		v.form = validate.DefaultAthlete()
	case pages.DialogEdit, pages.DialogDelete:
		a, err := sess.Client().GetAthlete(ctx, v.targetID)
		if err != nil {
			errs.Handle(err)
			v.dialog = ""
			break
		}
		v.form = a.AthleteFields
	default:
		v.dialog = ""
	}
	if v.dialog != "" {
		d := athleteDialog(entry, v.dialog)
		d.Open()
		v.submitting = d.Submitting()
	}

	h.render(w, r, http.StatusOK, rec, errs, v)
}

func athleteForm(r *http.Request, start client.AthleteFields) client.AthleteFields {
	f := start
	for name := range validate.AthleteLabels {
		if _, ok := r.PostForm[name]; ok {
			validate.SetAthleteField(&f, name, strings.TrimSpace(r.PostForm.Get(name)))
		}
	}
	return f
}

// Create adds an athlete from the add dialog
func (h *AthletesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest, err)
		return
	}

	entry := middleware.GetEntry(r.Context())
	sess := middleware.GetSession(r.Context())
	rec, errs := notifier()

	v := athletesView{dialog: pages.DialogAdd, form: athleteForm(r, validate.DefaultAthlete())}
	d := athleteDialog(entry, pages.DialogAdd)
	d.Open()

	if v.errors = validate.ValidateAthlete(v.form); !v.errors.OK() {
		h.render(w, r, http.StatusOK, rec, errs, v)
		return
	}

	g := mutation.New(sess.Client().CreateAthlete, entry.Cache, query.AthletesKey, query.UsersKey)
	g.Dialog = d
	g.OnSuccess = func(*client.Athlete) {
		middleware.SetFlash(w, notify.Success(notify.AthleteCreated))
	}
	g.OnError = errs.Handle

	if _, err := g.Mutate(r.Context(), v.form); err != nil {
		h.renderFailure(w, r, rec, errs, d, v, err)
		return
	}
	redirect(w, r, pageURL(athletesPath, pageParam(r)))
}

// Update saves the changed attributes from the edit dialog
func (h *AthletesHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	entry := middleware.GetEntry(ctx)
	sess := middleware.GetSession(ctx)
	rec, errs := notifier()
	id := mux.Vars(r)["id"]

	before, err := sess.Client().GetAthlete(ctx, id)
	if err != nil {
		errs.Handle(err)
		h.render(w, r, http.StatusOK, rec, errs, athletesView{})
		return
	}

	v := athletesView{dialog: pages.DialogEdit, targetID: id, form: athleteForm(r, before.AthleteFields)}
	d := athleteDialog(entry, pages.DialogEdit)
	d.Open()

	if v.errors = validate.ValidateAthlete(v.form); !v.errors.OK() {
		h.render(w, r, http.StatusOK, rec, errs, v)
		return
	}

	g := mutation.New(func(ctx context.Context, p client.AthletePatch) (*client.Athlete, error) {
		return sess.Client().UpdateAthlete(ctx, id, p)
	}, entry.Cache, query.AthletesKey)
	g.Dialog = d
	g.OnSuccess = func(*client.Athlete) {
		middleware.SetFlash(w, notify.Success(notify.AthleteUpdated))
	}
	g.OnError = errs.Handle

	if _, err := g.Mutate(ctx, validate.AthletePatch(before.AthleteFields, v.form)); err != nil {
		h.renderFailure(w, r, rec, errs, d, v, err)
		return
	}
	redirect(w, r, pageURL(athletesPath, pageParam(r)))
}

// Delete removes the athlete confirmed in the delete dialog
func (h *AthletesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entry := middleware.GetEntry(r.Context())
	sess := middleware.GetSession(r.Context())
	rec, errs := notifier()
	id := mux.Vars(r)["id"]

	v := athletesView{dialog: pages.DialogDelete, targetID: id}
	d := athleteDialog(entry, pages.DialogDelete)
	d.Open()

	g := mutation.New(sess.Client().DeleteAthlete, entry.Cache, query.AthletesKey, query.UsersKey)
	g.Dialog = d
	g.OnSuccess = func(*client.Message) {
		middleware.SetFlash(w, notify.Success(notify.AthleteDeleted))
	}
	g.OnError = func(error) {
		rec.Notify(notify.Failure(notify.AthleteDeleteFailed))
	}

	if _, err := g.Mutate(r.Context(), id); err != nil {
		h.renderFailure(w, r, rec, errs, d, v, err)
		return
	}
	redirect(w, r, pageURL(athletesPath, pageParam(r)))
}

// renderFailure shows the dialog again with the submitted values
func (h *AthletesHandler) renderFailure(w http.ResponseWriter, r *http.Request, rec *notify.Recorder, errs *notify.ErrorHandler, d *dialog.Dialog, v athletesView, err error) {
	status := http.StatusOK
	if errors.Is(err, mutation.ErrInFlight) {
		status = http.StatusConflict
	}
	v.submitting = d.Submitting()
	h.render(w, r, status, rec, errs, v)
}

// Download streams the registration form spreadsheet
func (h *AthletesHandler) Download(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	dl, err := sess.Client().DownloadForm(r.Context())
	if err != nil {
		middleware.SetFlash(w,
			notify.Failure(notify.Message(err)),
			notify.Toast{Level: notify.LevelError, Title: notify.DownloadFailedTitle, Description: notify.DownloadFailed},
		)
		redirect(w, r, athletesPath)
		return
	}
	defer func() { _ = dl.Body.Close() }()

	middleware.SetFlash(w, notify.Success(notify.FormDownloaded))
	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.FileName}))
	if dl.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(dl.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, dl.Body)
}
