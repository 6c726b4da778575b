package model

import (
	"fmt"
	"slices"
	"time"
)

// AthleteID uniquely identifies an athlete
type AthleteID string

// NotParticipating marks an event the athlete does not enter
const NotParticipating = "不参加"

// Gender of an athlete
type Gender string

const (
	GenderMale   Gender = "男"
	GenderFemale Gender = "女"
)

// KumiteCategory is the competition group an athlete is entered in
type KumiteCategory string

const (
	CategoryA KumiteCategory = "甲组"
	CategoryB KumiteCategory = "乙组"
	CategoryC KumiteCategory = "丙组"
)

// Participation option lists, in display order
var (
	GenderOptions         = []string{string(GenderMale), string(GenderFemale)}
	KumiteCategoryOptions = []string{string(CategoryA), string(CategoryB), string(CategoryC)}

	MaleKumiteIndividualOptions = []string{
		"-55kg", "-59kg", "-63kg", "-67kg", "-71kg", "-75kg", "-79kg", "+79kg", NotParticipating,
	}
	FemaleKumiteIndividualOptions = []string{
		"-49kg", "-53kg", "-57kg", "-61kg", "+61kg", NotParticipating,
	}
	KumiteTeamOptions     = []string{"团体1组", "团体2组", NotParticipating}
	IndividualKataOptions = []string{"平安二段", "平安三段", "拔塞大 Bassai Dai", NotParticipating}
	KataTeamOptions       = []string{"一队", "二队", NotParticipating}
)

// KumiteIndividualOptions returns every accepted individual kumite class
// for either gender
func KumiteIndividualOptions() []string {
	out := make([]string, 0, len(MaleKumiteIndividualOptions)+len(FemaleKumiteIndividualOptions))
	out = append(out, MaleKumiteIndividualOptions[:len(MaleKumiteIndividualOptions)-1]...)
	out = append(out, FemaleKumiteIndividualOptions...)
	return out
}

// AthleteFields holds the editable attributes of an athlete
type AthleteFields struct {
	Name             string
	IDNumber         string
	Gender           Gender
	KumiteCategory   KumiteCategory
	KumiteIndividual string
	KumiteTeam       string
	IndividualKata   string
	MixedDoubleKata  string
	TeamKata         string
	MixedTeamKata    string
}

// DefaultAthleteFields returns the values a blank registration starts with
func DefaultAthleteFields() AthleteFields {
	return AthleteFields{
		Gender:           GenderMale,
		KumiteCategory:   CategoryA,
		KumiteIndividual: NotParticipating,
		KumiteTeam:       NotParticipating,
		IndividualKata:   NotParticipating,
		MixedDoubleKata:  NotParticipating,
		TeamKata:         NotParticipating,
		MixedTeamKata:    NotParticipating,
	}
}

// Athlete is a competitor registered by exactly one team
type Athlete struct {
	ID      AthleteID
	OwnerID UserID
	AthleteFields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnumField names an enumerated athlete attribute with its allowed values
type EnumField struct {
	Name    string
	Value   string
	Options []string
}

// EnumFields lists the enumerated attributes of f in form order
func (f AthleteFields) EnumFields() []EnumField {
	return []EnumField{
		{"gender", string(f.Gender), GenderOptions},
		{"kumite_category", string(f.KumiteCategory), KumiteCategoryOptions},
		{"kumite_individual", f.KumiteIndividual, KumiteIndividualOptions()},
		{"kumite_team", f.KumiteTeam, KumiteTeamOptions},
		{"individual_kata", f.IndividualKata, IndividualKataOptions},
		{"mixed_double_kata", f.MixedDoubleKata, KataTeamOptions},
		{"team_kata", f.TeamKata, KataTeamOptions},
		{"mixed_team_kata", f.MixedTeamKata, KataTeamOptions},
	}
}

// Validate checks required text fields and that every enumerated
// attribute holds one of its options
func (f AthleteFields) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidAthleteData)
	}
	if f.IDNumber == "" {
		return fmt.Errorf("%w: id_number is required", ErrInvalidAthleteData)
	}
	if len(f.IDNumber) > MaxIDNumberLength {
		return fmt.Errorf("%w: id_number exceeds %d characters", ErrInvalidAthleteData, MaxIDNumberLength)
	}
	for _, ef := range f.EnumFields() {
		if !slices.Contains(ef.Options, ef.Value) {
			return fmt.Errorf("%w: %s has unknown value %q", ErrInvalidAthleteData, ef.Name, ef.Value)
		}
	}
	return nil
}

// AthleteOptions returns the allowed values of the enumerated attribute
// with the given wire name
func AthleteOptions(field string) ([]string, bool) {
	for _, ef := range DefaultAthleteFields().EnumFields() {
		if ef.Name == field {
			return ef.Options, true
		}
	}
	return nil, false
}
