package web_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/hankerbiao/Registration-System/internal/api"
	"github.com/hankerbiao/Registration-System/internal/console/session"
	"github.com/hankerbiao/Registration-System/internal/factory"
	"github.com/hankerbiao/Registration-System/internal/middleware"
	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/testutil"
	"github.com/hankerbiao/Registration-System/internal/web"
	"github.com/hankerbiao/Registration-System/internal/web/state"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "changethis"
)

// webTestServer provides a test server for web console testing. The
// console talks to a real API server over HTTP.
type webTestServer struct {
	t        *testing.T
	handler  http.Handler
	app      *factory.TestApp
	api      *httptest.Server
	registry *state.Registry
	cookies  *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired.
// The registration form is read from formPath, which may be empty.
func newWebTestServer(t *testing.T, formPath string) *webTestServer {
	t.Helper()
	return newWebTestServerWithLimits(t, formPath, middleware.RateLimitConfig{PerMinute: 600, Burst: 100})
}

// newWebTestServerWithLimits creates a test server whose API throttles
// logins with limits
func newWebTestServerWithLimits(t *testing.T, formPath string, limits middleware.RateLimitConfig) *webTestServer {
	t.Helper()

	logger := testutil.NopLogger()
	app := factory.NewTestApp(formPath)

	apiServer := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		UserService:    app.UserService,
		AthleteService: app.AthleteService,
		Forms:          app.Forms,
		LoginLimiter:   middleware.NewRateLimiter(limits),
	}))
	t.Cleanup(apiServer.Close)

	registry := state.NewRegistry(logger, time.Hour, nil)
	router := web.NewRouter(web.RouterConfig{
		Logger:     logger,
		APIBaseURL: apiServer.URL,
		HTTPClient: apiServer.Client(),
		Registry:   registry,
	})

	_, err := app.CreateUser(context.Background(), adminEmail, adminPassword, "", true)
	require.NoError(t, err)

	return &webTestServer{
		t:        t,
		handler:  router,
		app:      app,
		api:      apiServer,
		registry: registry,
		cookies:  newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	return ts.requestFrom("", method, path, form)
}

// requestFrom makes an HTTP request from the browser at remoteAddr.
// An empty remoteAddr keeps the httptest default.
func (ts *webTestServer) requestFrom(remoteAddr, method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return ts.request(http.MethodPost, path, form)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies[session.CookieName]
	return ok
}

// Helper functions for common test operations

// createUser adds an account directly through the users service
func (ts *webTestServer) createUser(email, password, fullName string, superuser bool) *model.User {
	ts.t.Helper()
	user, err := ts.app.CreateUser(ts.t.Context(), email, password, fullName, superuser)
	require.NoError(ts.t, err)
	return user
}

// login signs in through the login form
func (ts *webTestServer) login(email, password string) {
	ts.t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	rr := ts.post("/login", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after login")
	require.True(ts.t, ts.cookies.hasSession(), "Expected session cookie to be set")
}

// loginAsAdmin signs in as the superuser every test server starts with
func (ts *webTestServer) loginAsAdmin() {
	ts.t.Helper()
	ts.login(adminEmail, adminPassword)
}

// createAthlete registers an athlete for owner directly through the service
func (ts *webTestServer) createAthlete(owner *model.User, name, idNumber string) string {
	ts.t.Helper()
	fields := model.DefaultAthleteFields()
	fields.Name = name
	fields.IDNumber = idNumber
	view, err := ts.app.AthleteService.Create(ts.t.Context(), owner, fields)
	require.NoError(ts.t, err)
	return string(view.ID)
}

// athleteForm returns a complete add athlete form
func athleteForm(name, idNumber string) url.Values {
	return url.Values{
		"name":              {name},
		"id_number":         {idNumber},
		"gender":            {"男"},
		"kumite_category":   {"甲组"},
		"kumite_individual": {"不参加"},
		"kumite_team":       {"不参加"},
		"individual_kata":   {"不参加"},
		"mixed_double_kata": {"不参加"},
		"team_kata":         {"不参加"},
		"mixed_team_kata":   {"不参加"},
	}
}

// followRedirect follows a redirect and returns the response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "Expected Location header for redirect")
	return ts.get(location)
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}

// assertFieldError asserts that the form shows msg for field
func assertFieldError(t *testing.T, doc *goquery.Document, field, msg string) {
	t.Helper()
	assertContainsText(t, doc, ".field-error[data-field='"+field+"']", msg)
}
