package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/console/notify"
	"github.com/hankerbiao/Registration-System/internal/console/query"
	"github.com/hankerbiao/Registration-System/internal/console/validate"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter writing results to w and
// failures to errW
func NewOutput(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

func (o *Output) json() bool {
	return o.format == "json"
}

// Notify shows a toast. Success toasts are only shown as text so that
// json output stays machine readable.
func (o *Output) Notify(t notify.Toast) {
	if t.Level == notify.LevelError {
		if o.json() {
			o.printErrorJSON(t.Description)
			return
		}
		notify.WriterNotifier{W: o.errW}.Notify(t)
		return
	}
	if !o.json() {
		notify.WriterNotifier{W: o.w}.Notify(t)
	}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.json() {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.json() {
		o.printErrorJSON(err.Error())
	} else {
		_, _ = fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.json() {
		o.printJSON(map[string]string{"message": msg})
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

// FieldErrors prints validation failures, one per line, sorted by field
func (o *Output) FieldErrors(errs validate.Errors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	if o.json() {
		enc := json.NewEncoder(o.errW)
		_ = enc.Encode(map[string]any{"error": map[string]any{"fields": errs}})
		return
	}
	for _, f := range fields {
		for _, msg := range errs[f] {
			_, _ = fmt.Fprintf(o.errW, "%s: %s\n", f, msg)
		}
	}
}

func (o *Output) printErrorJSON(msg string) {
	data, _ := json.Marshal(map[string]any{
		"error": map[string]string{
			"message": msg,
		},
	})
	_, _ = fmt.Fprintln(o.errW, string(data))
}

func (o *Output) printJSON(data any) {
	switch v := data.(type) {
	case query.PageView[client.User]:
		data = pageJSON[client.User]{Data: v.Items, Count: v.Count, Page: v.Page, Pages: v.Pages}
	case query.PageView[client.Athlete]:
		data = pageJSON[client.Athlete]{Data: v.Items, Count: v.Count, Page: v.Page, Pages: v.Pages}
	}
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// pageJSON is the json form of one page of a list
type pageJSON[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case *client.User:
		o.printUser(v)
	case query.PageView[client.User]:
		o.printUsers(v)
	case *client.Athlete:
		o.printAthlete(v)
	case query.PageView[client.Athlete]:
		o.printAthletes(v)
	case *client.Message:
		_, _ = fmt.Fprintln(o.w, v.Message)
	case *client.Health:
		_, _ = fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

func role(u client.User) string {
	if u.IsSuperuser {
		return "管理员"
	}
	return "普通运动队"
}

func (o *Output) printUser(u *client.User) {
	_, _ = fmt.Fprintf(o.w, "User: %s (%s)\n", u.Email, u.ID)
	_, _ = fmt.Fprintf(o.w, "Full name: %s\n", orNA(u.FullName))
	_, _ = fmt.Fprintf(o.w, "Role: %s\n", role(*u))
	active := "yes"
	if !u.IsActive {
		active = "no"
	}
	_, _ = fmt.Fprintf(o.w, "Active: %s\n", active)
	if u.AthletesCount != nil {
		_, _ = fmt.Fprintf(o.w, "Athletes: %d\n", *u.AthletesCount)
	}
}

func (o *Output) printUsers(v query.PageView[client.User]) {
	if len(v.Items) == 0 {
		_, _ = fmt.Fprintln(o.w, "No users")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\t全名\t邮箱\t角色\t报名人数")
	for _, u := range v.Items {
		count := 0
		if u.AthletesCount != nil {
			count = *u.AthletesCount
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", u.ID, orNA(u.FullName), u.Email, role(u), count)
	}
	_ = tw.Flush()
	o.printPageFooter(v.Page, v.Pages, v.Count)
}

func (o *Output) printAthlete(a *client.Athlete) {
	_, _ = fmt.Fprintf(o.w, "Athlete: %s (%s)\n", a.Name, a.ID)
	if a.Unit != nil {
		_, _ = fmt.Fprintf(o.w, "%s: %s\n", "单位", *a.Unit)
	}
	for _, col := range athleteColumns {
		_, _ = fmt.Fprintf(o.w, "%s: %s\n", validate.AthleteLabels[col], athleteValue(a.AthleteFields, col))
	}
}

var athleteColumns = []string{
	validate.FieldIDNumber, "gender", "kumite_category", "kumite_individual", "kumite_team",
	"individual_kata", "mixed_double_kata", "team_kata", "mixed_team_kata",
}

func athleteValue(a client.AthleteFields, column string) string {
	switch column {
	case validate.FieldName:
		return a.Name
	case validate.FieldIDNumber:
		return a.IDNumber
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

func (o *Output) printAthletes(v query.PageView[client.Athlete]) {
	if len(v.Items) == 0 {
		_, _ = fmt.Fprintln(o.w, "您还没有任何运动员")
		return
	}
	showUnit := false
	for _, a := range v.Items {
		if a.Unit != nil {
			showUnit = true
			break
		}
	}

	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprint(tw, "ID\t")
	if showUnit {
		_, _ = fmt.Fprint(tw, "单位\t")
	}
	_, _ = fmt.Fprint(tw, validate.AthleteLabels[validate.FieldName])
	for _, col := range athleteColumns[1:] {
		_, _ = fmt.Fprint(tw, "\t"+validate.AthleteLabels[col])
	}
	_, _ = fmt.Fprintln(tw)

	for _, a := range v.Items {
		_, _ = fmt.Fprint(tw, a.ID+"\t")
		if showUnit {
			_, _ = fmt.Fprint(tw, orNA(a.Unit)+"\t")
		}
		_, _ = fmt.Fprint(tw, a.Name)
		for _, col := range athleteColumns[1:] {
			_, _ = fmt.Fprint(tw, "\t"+athleteValue(a.AthleteFields, col))
		}
		_, _ = fmt.Fprintln(tw)
	}
	_ = tw.Flush()
	o.printPageFooter(v.Page, v.Pages, v.Count)
}

func (o *Output) printPageFooter(page, pages, count int) {
	_, _ = fmt.Fprintf(o.w, "Page %d of %d (%d total)\n", page, max(pages, 1), count)
}
