package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() AthleteFields {
	f := DefaultAthleteFields()
	f.Name = "张三"
	f.IDNumber = "120101200001011234"
	return f
}

func TestDefaultAthleteFields(t *testing.T) {
	f := DefaultAthleteFields()

	assert.Equal(t, GenderMale, f.Gender)
	assert.Equal(t, CategoryA, f.KumiteCategory)
	for _, ef := range f.EnumFields()[2:] {
		assert.Equal(t, NotParticipating, ef.Value, ef.Name)
	}
	assert.Empty(t, f.Name)
	assert.Empty(t, f.IDNumber)
}

func TestAthleteFields_Validate(t *testing.T) {
	t.Run("defaults with name and id are valid", func(t *testing.T) {
		require.NoError(t, validFields().Validate())
	})

	t.Run("female kumite class accepted", func(t *testing.T) {
		f := validFields()
		f.Gender = GenderFemale
		f.KumiteIndividual = "-53kg"
		require.NoError(t, f.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*AthleteFields)
	}{
		{"missing name", func(f *AthleteFields) { f.Name = "" }},
		{"missing id number", func(f *AthleteFields) { f.IDNumber = "" }},
		{"id number too long", func(f *AthleteFields) { f.IDNumber = "1201012000010112345" }},
		{"unknown gender", func(f *AthleteFields) { f.Gender = "male" }},
		{"unknown category", func(f *AthleteFields) { f.KumiteCategory = "丁组" }},
		{"unknown kumite class", func(f *AthleteFields) { f.KumiteIndividual = "-100kg" }},
		{"unknown kata", func(f *AthleteFields) { f.IndividualKata = "观空大" }},
		{"empty team kata", func(f *AthleteFields) { f.TeamKata = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			assert.ErrorIs(t, f.Validate(), ErrInvalidAthleteData)
		})
	}
}

func TestKumiteIndividualOptions(t *testing.T) {
	opts := KumiteIndividualOptions()

	assert.Contains(t, opts, "+79kg")
	assert.Contains(t, opts, "+61kg")
	count := 0
	for _, o := range opts {
		if o == NotParticipating {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestListParams(t *testing.T) {
	p := ListParams{Skip: -3, Limit: 0}.Normalize()
	assert.Equal(t, 0, p.Skip)
	assert.Equal(t, DefaultListLimit, p.Limit)

	start, end := ListParams{Skip: 10, Limit: 10}.Window(23)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	start, end = ListParams{Skip: 20, Limit: 10}.Window(23)
	assert.Equal(t, 20, start)
	assert.Equal(t, 23, end)

	start, end = ListParams{Skip: 40, Limit: 10}.Window(23)
	assert.Equal(t, 23, start)
	assert.Equal(t, 23, end)
}

func TestAthleteOptions(t *testing.T) {
	opts, ok := AthleteOptions("individual_kata")
	require.True(t, ok)
	assert.Contains(t, opts, "拔塞大 Bassai Dai")

	opts, ok = AthleteOptions("kumite_individual")
	require.True(t, ok)
	assert.Contains(t, opts, "+61kg")

	_, ok = AthleteOptions("name")
	assert.False(t, ok)
}
