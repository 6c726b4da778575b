package web_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankerbiao/Registration-System/internal/console/session"
	"github.com/hankerbiao/Registration-System/internal/middleware"
)

func TestLoginPage_Renders(t *testing.T) {
	ts := newWebTestServer(t, "")

	rr := ts.get("/login")

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "title", "天津市大学生空手道比赛报名")
	assertContainsElement(t, doc, "form.login-form[action='/login']")
	assertContainsElement(t, doc, "input[name='username']")
	assertContainsElement(t, doc, "input[name='password'][type='password']")
	assertContainsElement(t, doc, "a[href='/recover-password']")
	assertContainsElement(t, doc, "a[href='/signup']")
	assertNotContainsElement(t, doc, "nav.sidebar")
}

func TestLogin_RedirectsToAthletes(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "河北工业大学", false)

	rr := ts.post("/login", url.Values{"username": {"team@example.com"}, "password": {"password123"}})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/athletes", rr.Header().Get("Location"))
	assert.True(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "nav.sidebar .current-user", "河北工业大学")
	assertContainsElement(t, doc, "nav.sidebar a[href='/athletes']")
	assertContainsElement(t, doc, "nav.sidebar a[href='/settings']")
	assertNotContainsElement(t, doc, "nav.sidebar a[href='/admin']")
}

func TestLogin_FollowsNext(t *testing.T) {
	ts := newWebTestServer(t, "")

	rr := ts.post("/login", url.Values{
		"username": {adminEmail},
		"password": {adminPassword},
		"next":     {"/settings"},
	})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/settings", rr.Header().Get("Location"))
}

func TestLogin_IgnoresOffsiteNext(t *testing.T) {
	for _, next := range []string{
		"//evil.example.com/",
		"/\\evil.example.com/",
		"/\\/evil.example.com/",
		"/path\\..\\..",
		"https://evil.example.com/",
		"athletes",
	} {
		t.Run(next, func(t *testing.T) {
			ts := newWebTestServer(t, "")

			rr := ts.post("/login", url.Values{
				"username": {adminEmail},
				"password": {adminPassword},
				"next":     {next},
			})

			assert.Equal(t, http.StatusSeeOther, rr.Code)
			assert.Equal(t, "/athletes", rr.Header().Get("Location"))
		})
	}
}

func TestLogin_BrowsersHaveSeparateLoginBudgets(t *testing.T) {
	ts := newWebTestServerWithLimits(t, "", middleware.DefaultRateLimitConfig())

	burst := middleware.DefaultRateLimitConfig().Burst
	for i := range burst + 2 {
		ts.cookies = newCookieJar()
		remote := fmt.Sprintf("198.51.100.%d:50000", i+1)

		rr := ts.requestFrom(remote, http.MethodPost, "/login",
			url.Values{"username": {adminEmail}, "password": {adminPassword}})

		require.Equal(t, http.StatusSeeOther, rr.Code, "browser %s", remote)
		assert.Equal(t, "/athletes", rr.Header().Get("Location"))
	}
}

func TestLogin_OneBrowserIsThrottled(t *testing.T) {
	ts := newWebTestServerWithLimits(t, "", middleware.DefaultRateLimitConfig())
	wrong := url.Values{"username": {adminEmail}, "password": {"wrong-password"}}

	burst := middleware.DefaultRateLimitConfig().Burst
	for range burst {
		rr := ts.requestFrom("198.51.100.20:50000", http.MethodPost, "/login", wrong)
		doc := parseHTML(rr.Body)
		assertContainsText(t, doc, ".toast-error .toast-description", "Incorrect email or password")
	}

	rr := ts.requestFrom("198.51.100.20:50000", http.MethodPost, "/login", wrong)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".toast-error .toast-description", "Too many requests")

	// another browser is unaffected
	rr = ts.requestFrom("198.51.100.21:50000", http.MethodPost, "/login",
		url.Values{"username": {adminEmail}, "password": {adminPassword}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestLogin_WrongPasswordShowsToast(t *testing.T) {
	ts := newWebTestServer(t, "")

	rr := ts.post("/login", url.Values{"username": {adminEmail}, "password": {"wrong-password"}})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ts.cookies.hasSession())
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".toast-error .toast-description", "Incorrect email or password")
	assertContainsElement(t, doc, "input[name='username'][value='admin@example.com']")
}

func TestLogin_ValidatesBeforeSending(t *testing.T) {
	ts := newWebTestServer(t, "")

	rr := ts.post("/login", url.Values{"username": {"not-an-email"}, "password": {""}})

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertFieldError(t, doc, "username", "无效的电子邮件地址")
	assertFieldError(t, doc, "password", "密码是必填项")
	assertNotContainsElement(t, doc, ".toast")
}

func TestLoginPage_RedirectsWhenSignedIn(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.loginAsAdmin()

	rr := ts.get("/login")

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/athletes", rr.Header().Get("Location"))
}

func TestProtectedPage_RedirectsToLogin(t *testing.T) {
	ts := newWebTestServer(t, "")

	for _, path := range []string{"/", "/athletes", "/settings", "/admin"} {
		rr := ts.get(path)
		assert.Equal(t, http.StatusSeeOther, rr.Code, path)
		assert.Equal(t, "/login?next="+url.QueryEscape(path), rr.Header().Get("Location"), path)
	}
}

func TestHome_RedirectsToAthletes(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.loginAsAdmin()

	rr := ts.get("/")

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/athletes", rr.Header().Get("Location"))
}

func TestInvalidToken_ClearsSessionAndRedirects(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.cookies.cookies[session.CookieName] = &http.Cookie{Name: session.CookieName, Value: "garbage"}

	rr := ts.get("/athletes")

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?next=%2Fathletes", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())
}

func TestSignup_DoesNotSignIn(t *testing.T) {
	ts := newWebTestServer(t, "")

	rr := ts.post("/signup", url.Values{
		"full_name":        {"南开大学"},
		"email":            {"nankai@example.com"},
		"password":         {"password123"},
		"confirm_password": {"password123"},
	})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".toast-success .toast-description", "注册成功，请登录。")

	ts.login("nankai@example.com", "password123")
}

func TestSignup_Validation(t *testing.T) {
	ts := newWebTestServer(t, "")

	rr := ts.post("/signup", url.Values{
		"email":            {"nankai@example.com"},
		"password":         {"short"},
		"confirm_password": {"different"},
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertFieldError(t, doc, "password", "密码必须至少8个字符")
	assertFieldError(t, doc, "confirm_password", "两次输入的密码不匹配")
	assertContainsElement(t, doc, "input[name='email'][value='nankai@example.com']")
	assertNotContainsElement(t, doc, "input[name='password'][value='short']")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	ts := newWebTestServer(t, "")

	rr := ts.post("/signup", url.Values{
		"email":            {adminEmail},
		"password":         {"password123"},
		"confirm_password": {"password123"},
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".toast-error .toast-description", "The user with this email already exists in the system.")
}

func TestLogout(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.loginAsAdmin()
	require.Equal(t, http.StatusOK, ts.get("/athletes").Code)
	require.Equal(t, 1, ts.registry.Len())

	rr := ts.post("/logout", nil)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())
	assert.Equal(t, 0, ts.registry.Len())

	rr = ts.get("/athletes")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestPasswordRecoveryAndReset(t *testing.T) {
	ts := newWebTestServer(t, "")
	ts.createUser("team@example.com", "password123", "", false)

	rr := ts.post("/recover-password", url.Values{"email": {"team@example.com"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".toast-success .toast-description", "密码恢复邮件已发送。")

	token := ts.app.Mailer.Token("team@example.com")
	require.NotEmpty(t, token)

	rr = ts.get("/reset-password?token=" + url.QueryEscape(token))
	require.Equal(t, http.StatusOK, rr.Code)
	doc = parseHTML(rr.Body)
	assertContainsElement(t, doc, "form.reset-form input[type='hidden'][name='token']")

	rr = ts.post("/reset-password", url.Values{
		"token":            {token},
		"new_password":     {"newpassword1"},
		"confirm_password": {"newpassword1"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	doc = parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".toast-success .toast-description", "密码已重置。")

	ts.login("team@example.com", "newpassword1")
}

func TestPasswordRecovery_UnknownEmail(t *testing.T) {
	ts := newWebTestServer(t, "")

	rr := ts.post("/recover-password", url.Values{"email": {"nobody@example.com"}})

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".toast-error .toast-description", "The user with this email does not exist in the system.")
}

func TestPasswordReset_InvalidToken(t *testing.T) {
	ts := newWebTestServer(t, "")

	rr := ts.post("/reset-password", url.Values{
		"token":            {"not-a-token"},
		"new_password":     {"newpassword1"},
		"confirm_password": {"newpassword1"},
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".toast-error .toast-description", "Invalid token")
}
