package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/hankerbiao/Registration-System/internal/console/notify"
	"github.com/hankerbiao/Registration-System/internal/web/middleware"
	"github.com/hankerbiao/Registration-System/internal/web/templates/layout"
	"github.com/hankerbiao/Registration-System/internal/web/templates/pages"
)

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func pageData(r *http.Request, title, nav string, rec *notify.Recorder) layout.PageData {
	toasts := middleware.GetFlash(r.Context())
	if rec != nil {
		toasts = append(toasts, rec.Drain()...)
	}
	return layout.PageData{
		Title:  title,
		User:   middleware.GetUser(r.Context()),
		Toasts: toasts,
		Nav:    nav,
		Theme:  middleware.GetTheme(r),
	}
}

// notifier creates the toast recorder and error handler of one request
func notifier() (*notify.Recorder, *notify.ErrorHandler) {
	rec := &notify.Recorder{}
	return rec, notify.NewErrorHandler(rec)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// pageParam returns the 1-based page number of the request
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func pageURL(base string, page int) string {
	return base + "?page=" + strconv.Itoa(page)
}

// safeNext accepts only local paths as redirect targets. Browsers read a
// backslash as a slash, so "/\host" counts as offsite.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.ContainsAny(next, "\\\r\n\t") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}

func formBool(r *http.Request, name string) bool {
	v := r.FormValue(name)
	return v == "true" || v == "on"
}

// RenderError renders a full page error
func RenderError(w http.ResponseWriter, r *http.Request, status int, _ error) {
	msg := notify.FallbackMessage
	switch status {
	case http.StatusNotFound:
		msg = "页面不存在。"
	case http.StatusForbidden:
		msg = "您没有足够的权限访问此页面。"
	case http.StatusBadGateway:
		msg = "无法连接到报名服务，请稍后重试。"
	}
	data := pages.ErrorData{
		PageData: pageData(r, http.StatusText(status), "", nil),
		Status:   status,
		Message:  msg,
	}
	render(w, r, status, pages.Error(data))
}

// NotFound renders the 404 page
func NotFound(w http.ResponseWriter, r *http.Request) {
	RenderError(w, r, http.StatusNotFound, nil)
}

// Forbidden renders the 403 page
func Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderError(w, r, http.StatusForbidden, nil)
}
