package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_ProfileView(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "", false)
	ts.login("team@example.com", "password123")

	rr := ts.get("/settings")

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "nav.tabs a[href='/settings?tab=profile'][aria-current='page']")
	assertContainsText(t, doc, "dd.full-name", "暂无")
	assertContainsText(t, doc, "dd.email", "team@example.com")
	assertContainsElement(t, doc, "a.edit-profile")
	assertNotContainsElement(t, doc, "form.profile-form")
}

func TestSettings_EditStartsWithSaveDisabled(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "南开大学", false)
	ts.login("team@example.com", "password123")

	doc := parseHTML(ts.get("/settings?tab=profile&edit=1").Body)

	assertContainsElement(t, doc, "form.profile-form[action='/settings/profile']")
	assertContainsElement(t, doc, "input[name='full_name'][value='南开大学']")
	assertContainsElement(t, doc, "button.save[disabled]")
}

func TestSettings_UnchangedProfileIsNotSaved(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "南开大学", false)
	ts.login("team@example.com", "password123")

	rr := ts.post("/settings/profile", url.Values{"full_name": {"南开大学"}, "email": {"team@example.com"}})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertNotContainsElement(t, doc, ".toast")
}

func TestSettings_UpdateProfile(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "南开大学", false)
	ts.login("team@example.com", "password123")
	require.Equal(t, http.StatusOK, ts.get("/settings").Code)

	rr := ts.post("/settings/profile", url.Values{"full_name": {"天津大学"}, "email": {"team@example.com"}})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/settings?tab=profile", rr.Header().Get("Location"))

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".toast-success .toast-description", "用户信息更新成功。")
	assertContainsText(t, doc, "dd.full-name", "天津大学")
	assertContainsText(t, doc, "nav.sidebar .current-user", "天津大学")
}

func TestSettings_UpdateProfileValidation(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "南开大学", false)
	ts.login("team@example.com", "password123")

	rr := ts.post("/settings/profile", url.Values{"full_name": {"南开大学"}, "email": {"not-an-email"}})

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertFieldError(t, doc, "email", "无效的电子邮件地址")
	assertContainsElement(t, doc, "input[name='email'][value='not-an-email']")
}

func TestSettings_UpdateProfileEmailTaken(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "南开大学", false)
	ts.login("team@example.com", "password123")

	rr := ts.post("/settings/profile", url.Values{"full_name": {"南开大学"}, "email": {adminEmail}})

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".toast-error .toast-description", "User with this email already exists")
	assertContainsElement(t, doc, "button.save:not([disabled])")
}

func TestSettings_ChangePassword(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "", false)
	ts.login("team@example.com", "password123")

	rr := ts.post("/settings/password", url.Values{
		"current_password": {"password123"},
		"new_password":     {"newpassword1"},
		"confirm_password": {"newpassword1"},
	})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/settings?tab=password", rr.Header().Get("Location"))
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".toast-success .toast-description", "密码更新成功。")

	_, err := ts.app.Token(t.Context(), "team@example.com", "newpassword1")
	require.NoError(t, err)
}

func TestSettings_ChangePasswordErrors(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "", false)
	ts.login("team@example.com", "password123")

	rr := ts.post("/settings/password", url.Values{
		"current_password": {"password123"},
		"new_password":     {"newpassword1"},
		"confirm_password": {"newpassword2"},
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertFieldError(t, doc, "confirm_password", "两次输入的密码不匹配")

	rr = ts.post("/settings/password", url.Values{
		"current_password": {"wrongpassword"},
		"new_password":     {"newpassword1"},
		"confirm_password": {"newpassword1"},
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	doc = parseHTML(rr.Body)
	assertContainsText(t, doc, ".toast-error .toast-description", "Incorrect password")
}

func TestSettings_DeleteAccount(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "", false)
	ts.login("team@example.com", "password123")

	doc := parseHTML(ts.get("/settings?tab=danger").Body)
	assertContainsElement(t, doc, "a.delete-account")
	assertNotContainsElement(t, doc, "#delete-account-dialog")

	doc = parseHTML(ts.get("/settings?tab=danger&dialog=delete").Body)
	assertContainsText(t, doc, "#delete-account-dialog .dialog-title", "需要确认")

	rr := ts.post("/settings/delete", nil)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())

	doc = parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".toast-success .toast-description", "您的账户已成功删除")

	_, err := ts.app.Token(t.Context(), "team@example.com", "password123")
	assert.Error(t, err)
}

func TestSettings_SuperuserCannotDeleteSelf(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.loginAsAdmin()

	rr := ts.post("/settings/delete", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, ts.cookies.hasSession())
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".toast-error .toast-description", "Super users are not allowed to delete themselves")
	assertContainsElement(t, doc, "#delete-account-dialog")
}

func TestSettings_AppearanceDefaultsToSystem(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "", false)
	ts.login("team@example.com", "password123")

	rr := ts.get("/settings?tab=appearance")

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "nav.tabs a[href='/settings?tab=appearance'][aria-current='page']")
	assertContainsElement(t, doc, "form.appearance-form[action='/settings/appearance']")
	assertContainsElement(t, doc, "input[name='theme'][value='system'][checked]")
	assertContainsText(t, doc, "section.appearance", "跟随系统")
	assertContainsText(t, doc, "section.appearance", "浅色模式")
	assertContainsText(t, doc, "section.appearance", "深色模式")
	assertContainsElement(t, doc, "html[data-theme='system']")
}

func TestSettings_SaveAppearance(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "", false)
	ts.login("team@example.com", "password123")

	rr := ts.post("/settings/appearance", url.Values{"theme": {"dark"}})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/settings?tab=appearance", rr.Header().Get("Location"))

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsElement(t, doc, "input[name='theme'][value='dark'][checked]")
	assertNotContainsElement(t, doc, "input[name='theme'][value='system'][checked]")
	assertContainsElement(t, doc, "html[data-theme='dark']")

	doc = parseHTML(ts.get("/athletes").Body)
	assertContainsElement(t, doc, "html[data-theme='dark']")
}

func TestSettings_SaveAppearanceRejectsUnknownTheme(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "", false)
	ts.login("team@example.com", "password123")

	rr := ts.post("/settings/appearance", url.Values{"theme": {"neon"}})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	doc := parseHTML(ts.get("/settings?tab=appearance").Body)
	assertContainsElement(t, doc, "input[name='theme'][value='system'][checked]")
}
