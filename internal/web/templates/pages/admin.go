package pages

import (
	"net/url"

	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/console/query"
	"github.com/hankerbiao/Registration-System/internal/console/validate"
	"github.com/hankerbiao/Registration-System/internal/web/templates/layout"
)

// AdminData is the user management page
type AdminData struct {
	layout.PageData
	View          query.PageView[client.User]
	CurrentUserID string

	Dialog     string
	TargetID   string
	Form       validate.UserForm
	Errors     validate.Errors
	Submitting bool
}

func (d AdminData) href(extra url.Values) string {
	return pageHref("/admin", d.View.Page, extra)
}

func (d AdminData) targetHref(suffix string) string {
	return pageHref("/admin/users/"+url.PathEscape(d.TargetID)+suffix, d.View.Page, nil)
}

func roleLabel(u client.User) string {
	if u.IsSuperuser {
		return "管理员"
	}
	return "普通运动队"
}

func athletesCount(u client.User) int {
	if u.AthletesCount == nil {
		return 0
	}
	return *u.AthletesCount
}
