package pages

import (
	"net/url"

	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/console/query"
	"github.com/hankerbiao/Registration-System/internal/console/validate"
	"github.com/hankerbiao/Registration-System/internal/web/templates/layout"
)

// Dialog names used in the dialog query parameter
const (
	DialogAdd    = "add"
	DialogEdit   = "edit"
	DialogDelete = "delete"
)

// AthletesData is the athlete management page
type AthletesData struct {
	layout.PageData
	View query.PageView[client.Athlete]
	// ShowUnit adds the owning team column for administrators
	ShowUnit bool

	Dialog     string
	TargetID   string
	Form       client.AthleteFields
	Errors     validate.Errors
	Submitting bool
}

func (d AthletesData) empty() bool {
	return len(d.View.Items) == 0 && !d.View.Placeholder && d.View.Err == nil
}

func (d AthletesData) href(extra url.Values) string {
	return pageHref("/athletes", d.View.Page, extra)
}

func (d AthletesData) targetHref(suffix string) string {
	return pageHref("/athletes/"+url.PathEscape(d.TargetID)+suffix, d.View.Page, nil)
}

func rowHref(base string, page int, dialog, id string) string {
	return pageHref(base, page, url.Values{"dialog": {dialog}, "id": {id}})
}

var athleteColumns = []string{
	"name", "gender", "kumite_category", "kumite_individual", "kumite_team",
	"individual_kata", "mixed_double_kata", "team_kata", "mixed_team_kata",
}

func athleteValue(a client.AthleteFields, column string) string {
	switch column {
	case "name":
		return a.Name
	case "gender":
		return a.Gender
	case "kumite_category":
		return a.KumiteCategory
	case "kumite_individual":
		return a.KumiteIndividual
	case "kumite_team":
		return a.KumiteTeam
	case "individual_kata":
		return a.IndividualKata
	case "mixed_double_kata":
		return a.MixedDoubleKata
	case "team_kata":
		return a.TeamKata
	case "mixed_team_kata":
		return a.MixedTeamKata
	}
	return ""
}

func athleteUnit(a client.Athlete) string {
	if a.Unit == nil {
		return ""
	}
	return *a.Unit
}
