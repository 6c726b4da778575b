package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankerbiao/Registration-System/internal/console/client"
)

func TestEmailRule(t *testing.T) {
	valid := []string{
		"team@example.com",
		"A.B-c_d%e+f@sub.example.org",
		"UPPER@EXAMPLE.CN",
		"x@y.io",
	}
	for _, email := range valid {
		assert.True(t, Email()(email).Valid, email)
	}

	invalid := []string{
		"team.example.com",
		"team@example",
		"team@example.c",
		"team@example.c0m",
		"@example.com",
		"team@@example.com",
		"张三@example.com",
	}
	for _, email := range invalid {
		r := Email()(email)
		assert.False(t, r.Valid, email)
		assert.Equal(t, MsgEmailInvalid, r.Message)
	}
}

func TestPasswordRuleWhenRequired(t *testing.T) {
	field := func(v string) []string { return passwordField(FieldPassword, v, true).Check() }

	assert.Equal(t, []string{MsgPasswordRequired}, field(""))
	for n := 1; n < 8; n++ {
		assert.Equal(t, []string{MsgPasswordTooShort}, field(strings.Repeat("a", n)), n)
	}
	for n := 8; n < 20; n++ {
		assert.Empty(t, field(strings.Repeat("a", n)), n)
	}
	// Length counts characters, not bytes
	assert.Equal(t, []string{MsgPasswordTooShort}, field("密码密码密码密"))
}

func TestOptionalPasswordAcceptsBlank(t *testing.T) {
	assert.Empty(t, passwordField(FieldPassword, "", false).Check())
	assert.Equal(t, []string{MsgPasswordTooShort}, passwordField(FieldPassword, "short", false).Check())
}

func TestConfirmReadsSiblingAtCheckTime(t *testing.T) {
	f := &SignupForm{Email: "team@example.com", Password: "password123", Confirm: "password123"}
	assert.True(t, ValidateSignup(f).OK())

	f.Password = "password124"
	errs := ValidateSignup(f)
	assert.Equal(t, []string{MsgConfirmMismatch}, errs[FieldConfirm])

	f.Confirm = ""
	errs = ValidateSignup(f)
	assert.Equal(t, []string{MsgConfirmRequired, MsgConfirmMismatch}, errs[FieldConfirm])
}

func TestValidateSignupCollectsEveryFailure(t *testing.T) {
	errs := ValidateSignup(&SignupForm{})
	assert.Equal(t, MsgEmailRequired, errs.First(FieldEmail))
	assert.Equal(t, MsgPasswordRequired, errs.First(FieldPassword))
	assert.Equal(t, MsgConfirmRequired, errs.First(FieldConfirm))
	assert.Empty(t, errs.First(FieldFullName))
}

func TestValidateUserUpdate(t *testing.T) {
	f := &UserForm{Email: "team@example.com"}
	assert.True(t, ValidateUserUpdate(f).OK())

	f.Password = "password123"
	assert.Equal(t, MsgConfirmMismatch, ValidateUserUpdate(f).First(FieldConfirm))

	f.Confirm = "password123"
	assert.True(t, ValidateUserUpdate(f).OK())
	assert.False(t, ValidateUserCreate(&UserForm{Email: "team@example.com"}).OK())
}

func TestUpdatePayloadOmitsBlankPassword(t *testing.T) {
	f := UserForm{Email: "team@example.com", FullName: "南开大学", IsActive: true}
	p := f.UpdatePayload()
	assert.Nil(t, p.Password)
	require.NotNil(t, p.IsActive)
	assert.True(t, *p.IsActive)
	require.NotNil(t, p.IsSuperuser)
	assert.False(t, *p.IsSuperuser)

	f.Password = "password123"
	require.NotNil(t, f.UpdatePayload().Password)
}

func TestDirty(t *testing.T) {
	name := "南开大学"
	before := ProfileFormFrom(&client.User{Email: "team@example.com", FullName: &name})

	assert.False(t, Dirty(before, before))

	after := before
	after.FullName = "天津大学"
	assert.True(t, Dirty(before, after))

	after.Email = ""
	assert.False(t, Dirty(before, after))
}

func TestValidateLogin(t *testing.T) {
	errs := ValidateLogin(&LoginForm{})
	assert.Equal(t, MsgUsernameRequired, errs.First(FieldUsername))
	assert.Equal(t, MsgPasswordRequired, errs.First(FieldPassword))

	assert.True(t, ValidateLogin(&LoginForm{Username: "team@example.com", Password: "password123"}).OK())
}

func TestValidateResetPassword(t *testing.T) {
	errs := ValidateResetPassword(&ResetForm{Password: "password123", Confirm: "password123"})
	assert.Equal(t, MsgTokenRequired, errs.First(FieldToken))
	assert.Len(t, errs, 1)
}

func TestValidateAthleteDefaults(t *testing.T) {
	f := DefaultAthlete()
	errs := ValidateAthlete(f)
	assert.Equal(t, MsgNameRequired, errs.First(FieldName))
	assert.Equal(t, MsgIDNumberRequired, errs.First(FieldIDNumber))
	assert.Len(t, errs, 2)

	f.Name = "张三"
	f.IDNumber = "120101200001010001"
	assert.True(t, ValidateAthlete(f).OK())
}

func TestValidateAthleteRejectsUnknownOptions(t *testing.T) {
	f := DefaultAthlete()
	f.Name = "张三"
	f.IDNumber = "120101200001010001"
	f.TeamKata = "三队"
	f.Gender = ""

	errs := ValidateAthlete(f)
	assert.Equal(t, []string{MsgOptionInvalid}, errs["team_kata"])
	assert.Equal(t, []string{"性别是必填项。", MsgOptionInvalid}, errs["gender"])
}

func TestValidateAthleteRequiredMessages(t *testing.T) {
	f := DefaultAthlete()
	f.Name = "张三"
	f.IDNumber = "120101200001010001"
	for _, ef := range AthleteEnums(f) {
		require.True(t, SetAthleteField(&f, ef.Name, ""))
	}

	errs := ValidateAthlete(f)
	for field, msg := range map[string]string{
		"gender":            "性别是必填项。",
		"kumite_category":   "请选择运动员级别。",
		"kumite_individual": "竞技个人级别。",
		"kumite_team":       "团体竞技必填",
		"individual_kata":   "个人型必填",
		"mixed_double_kata": "混双型必填",
		"team_kata":         "团体型必填",
		"mixed_team_kata":   "混合团体型必填",
	} {
		assert.Equal(t, msg, errs.First(field), field)
	}
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "混双型一队", OptionLabel("mixed_double_kata", "一队"))
	assert.Equal(t, "团体型二队", OptionLabel("team_kata", "二队"))
	assert.Equal(t, "混合团体型一队", OptionLabel("mixed_team_kata", "一队"))
	assert.Equal(t, "不参加", OptionLabel("team_kata", "不参加"))
	assert.Equal(t, "甲组", OptionLabel("kumite_category", "甲组"))
}

func TestAthletePatchHoldsChangesOnly(t *testing.T) {
	before := DefaultAthlete()
	before.Name = "张三"
	after := before
	require.True(t, SetAthleteField(&after, "gender", "女"))
	require.True(t, SetAthleteField(&after, "kumite_individual", "-49kg"))
	assert.False(t, SetAthleteField(&after, "unit", "x"))

	p := AthletePatch(before, after)
	assert.Nil(t, p.Name)
	require.NotNil(t, p.Gender)
	assert.Equal(t, "女", *p.Gender)
	require.NotNil(t, p.KumiteIndividual)
	assert.Equal(t, "-49kg", *p.KumiteIndividual)
}
