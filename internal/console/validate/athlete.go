package validate

import (
	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/model"
)

// AthleteLabels names the athlete attributes in forms and tables
var AthleteLabels = map[string]string{
	"name":              "姓名",
	"id_number":         "身份证号",
	"gender":            "性别",
	"kumite_category":   "组手级别",
	"kumite_individual": "个人组手",
	"kumite_team":       "团体组手",
	"individual_kata":   "个人型",
	"mixed_double_kata": "混合型",
	"team_kata":         "团体型",
	"mixed_team_kata":   "混合团体型",
}

// AthleteFormLabels names the athlete attributes on the add/edit form
var AthleteFormLabels = map[string]string{
	"name":              "姓名",
	"id_number":         "身份证号",
	"gender":            "性别",
	"kumite_category":   "运动员级别",
	"kumite_individual": "竞技个人",
	"kumite_team":       "团体竞技",
	"individual_kata":   "个人型",
	"mixed_double_kata": "混双型",
	"team_kata":         "团体型",
	"mixed_team_kata":   "混合团体型",
}

// AthletePlaceholders hold the hint text of the free-text form inputs
var AthletePlaceholders = map[string]string{
	"name":      "姓名",
	"id_number": "身份证信息用于打印证书",
}

var athleteRequired = map[string]string{
	"gender":            "性别是必填项。",
	"kumite_category":   "请选择运动员级别。",
	"kumite_individual": "竞技个人级别。",
	"kumite_team":       "团体竞技必填",
	"individual_kata":   "个人型必填",
	"mixed_double_kata": "混双型必填",
	"team_kata":         "团体型必填",
	"mixed_team_kata":   "混合团体型必填",
}

// teamOptionFields display their team options prefixed with the field label
var teamOptionFields = map[string]bool{
	"mixed_double_kata": true,
	"team_kata":         true,
	"mixed_team_kata":   true,
}

// OptionLabel returns the text shown for option in the form select of field
func OptionLabel(field, option string) string {
	if teamOptionFields[field] && option != model.NotParticipating {
		return AthleteFormLabels[field] + option
	}
	return option
}

// DefaultAthlete returns the values a new athlete form starts with
func DefaultAthlete() client.AthleteFields {
	return fromModel(model.DefaultAthleteFields())
}

// AthleteEnums lists the enumerated attributes of f with their options,
// in form order
func AthleteEnums(f client.AthleteFields) []model.EnumField {
	return toModel(f).EnumFields()
}

// ValidateAthlete checks the add/edit athlete form
func ValidateAthlete(f client.AthleteFields) Errors {
	fields := []Field{
		{FieldName, f.Name, []Rule{Required(MsgNameRequired), MaxLength(model.MaxFullNameLength)}},
		{FieldIDNumber, f.IDNumber, []Rule{Required(MsgIDNumberRequired), MaxLength(model.MaxIDNumberLength)}},
	}
	for _, ef := range AthleteEnums(f) {
		fields = append(fields, Field{ef.Name, ef.Value, []Rule{
			Required(athleteRequired[ef.Name]),
			OneOf(ef.Options),
		}})
	}
	return Check(fields...)
}

// AthletePatch builds a partial update holding only the attributes that
// differ between before and after
func AthletePatch(before, after client.AthleteFields) client.AthletePatch {
	var p client.AthletePatch
	set := func(dst **string, old, cur string) {
		if old != cur {
			v := cur
			*dst = &v
		}
	}
	set(&p.Name, before.Name, after.Name)
	set(&p.IDNumber, before.IDNumber, after.IDNumber)
	set(&p.Gender, before.Gender, after.Gender)
	set(&p.KumiteCategory, before.KumiteCategory, after.KumiteCategory)
	set(&p.KumiteIndividual, before.KumiteIndividual, after.KumiteIndividual)
	set(&p.KumiteTeam, before.KumiteTeam, after.KumiteTeam)
	set(&p.IndividualKata, before.IndividualKata, after.IndividualKata)
	set(&p.MixedDoubleKata, before.MixedDoubleKata, after.MixedDoubleKata)
	set(&p.TeamKata, before.TeamKata, after.TeamKata)
	set(&p.MixedTeamKata, before.MixedTeamKata, after.MixedTeamKata)
	return p
}

// SetAthleteField assigns value to the attribute with the given wire name.
// It reports false for unknown names.
func SetAthleteField(f *client.AthleteFields, name, value string) bool {
	switch name {
	case FieldName:
		f.Name = value
	case FieldIDNumber:
		f.IDNumber = value
	case "gender":
		f.Gender = value
	case "kumite_category":
		f.KumiteCategory = value
	case "kumite_individual":
		f.KumiteIndividual = value
	case "kumite_team":
		f.KumiteTeam = value
	case "individual_kata":
		f.IndividualKata = value
	case "mixed_double_kata":
		f.MixedDoubleKata = value
	case "team_kata":
		f.TeamKata = value
	case "mixed_team_kata":
		f.MixedTeamKata = value
	default:
		return false
	}
	return true
}

func toModel(f client.AthleteFields) model.AthleteFields {
	return model.AthleteFields{
		Name:             f.Name,
		IDNumber:         f.IDNumber,
		Gender:           model.Gender(f.Gender),
		KumiteCategory:   model.KumiteCategory(f.KumiteCategory),
		KumiteIndividual: f.KumiteIndividual,
		KumiteTeam:       f.KumiteTeam,
		IndividualKata:   f.IndividualKata,
		MixedDoubleKata:  f.MixedDoubleKata,
		TeamKata:         f.TeamKata,
		MixedTeamKata:    f.MixedTeamKata,
	}
}

func fromModel(f model.AthleteFields) client.AthleteFields {
	return client.AthleteFields{
		Name:             f.Name,
		IDNumber:         f.IDNumber,
		Gender:           string(f.Gender),
		KumiteCategory:   string(f.KumiteCategory),
		KumiteIndividual: f.KumiteIndividual,
		KumiteTeam:       f.KumiteTeam,
		IndividualKata:   f.IndividualKata,
		MixedDoubleKata:  f.MixedDoubleKata,
		TeamKata:         f.TeamKata,
		MixedTeamKata:    f.MixedTeamKata,
	}
}
