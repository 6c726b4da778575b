package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankerbiao/Registration-System/internal/api"
	"github.com/hankerbiao/Registration-System/internal/api/apierr"
	"github.com/hankerbiao/Registration-System/internal/api/response"
	"github.com/hankerbiao/Registration-System/internal/factory"
	"github.com/hankerbiao/Registration-System/internal/middleware"
	"github.com/hankerbiao/Registration-System/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
	admin   string
}

func newTestServer(t *testing.T, formPath string) *testServer {
	t.Helper()

	app := factory.NewTestApp(formPath)
	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		AuthService:    app.AuthService,
		UserService:    app.UserService,
		AthleteService: app.AthleteService,
		Forms:          app.Forms,
		LoginLimiter:   middleware.NewRateLimiter(middleware.RateLimitConfig{PerMinute: 1, Burst: 3}),
	})

	ctx := context.Background()
	_, err := app.CreateUser(ctx, "admin@example.com", "changethis", "", true)
	require.NoError(t, err)
	token, err := app.Token(ctx, "admin@example.com", "changethis")
	require.NoError(t, err)

	return &testServer{handler: router, app: app, admin: token}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) login(username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login/access-token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "192.0.2.1:1234"

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// signupAndLogin registers a team and returns its access token
func (ts *testServer) signupAndLogin(t *testing.T, email, fullName string) string {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/users/signup", map[string]string{
		"email": email, "password": "password123", "full_name": fullName,
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.login(email, "password123")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var tok response.Token
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tok))
	return tok.AccessToken
}

func athleteBody(name, idNumber string) map[string]string {
	return map[string]string{
		"name":              name,
		"id_number":         idNumber,
		"gender":            "男",
		"kumite_category":   "甲组",
		"kumite_individual": "-55kg",
		"kumite_team":       "不参加",
		"individual_kata":   "拔塞大 Bassai Dai",
		"mixed_double_kata": "不参加",
		"team_kata":         "一队",
		"mixed_team_kata":   "不参加",
	}
}

func detail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body.Detail
}

func issues(t *testing.T, rr *httptest.ResponseRecorder) []apierr.ValidationIssue {
	t.Helper()
	var body struct {
		Detail []apierr.ValidationIssue `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body.Detail
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.login("admin@example.com", "changethis")
	require.Equal(t, http.StatusOK, rr.Code)
	var tok response.Token
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tok))
	assert.Equal(t, "bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)

	rr = ts.login("admin@example.com", "wrong-password")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Incorrect email or password", detail(t, rr))
}

func TestLoginMissingFields(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.login("", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	got := issues(t, rr)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"body", "username"}, got[0].Loc)
	assert.Equal(t, "missing", got[0].Type)
}

func TestLoginInactiveUser(t *testing.T) {
	ts := newTestServer(t, "")
	ts.signupAndLogin(t, "team@example.com", "")

	rr := ts.request(http.MethodGet, "/api/v1/users?limit=10", nil, ts.admin)
	require.Equal(t, http.StatusOK, rr.Code)
	var list response.Users
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	var teamID string
	for _, u := range list.Data {
		if u.Email == "team@example.com" {
			teamID = u.ID
		}
	}
	require.NotEmpty(t, teamID)

	rr = ts.request(http.MethodPatch, "/api/v1/users/"+teamID, map[string]any{"is_active": false}, ts.admin)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.login("team@example.com", "password123")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Inactive user", detail(t, rr))
}

func TestLoginIsRateLimited(t *testing.T) {
	ts := newTestServer(t, "")

	for range 3 {
		ts.login("admin@example.com", "wrong-password")
	}
	rr := ts.login("admin@example.com", "changethis")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestTestTokenRequiresValidToken(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodPost, "/api/v1/login/test-token", nil, ts.admin)
	require.Equal(t, http.StatusOK, rr.Code)
	var me response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, "admin@example.com", me.Email)
	assert.True(t, me.IsSuperuser)

	for _, token := range []string{"", "garbage"} {
		rr = ts.request(http.MethodPost, "/api/v1/login/test-token", nil, token)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Could not validate credentials", detail(t, rr))
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	ts := newTestServer(t, "")
	ts.signupAndLogin(t, "team@example.com", "南开大学")

	rr := ts.request(http.MethodPost, "/api/v1/users/signup", map[string]string{
		"email": "team@example.com", "password": "password123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "The user with this email already exists in the system.", detail(t, rr))
}

func TestSignupValidation(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodPost, "/api/v1/users/signup", map[string]string{
		"email": "not-an-email", "password": "short",
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	got := issues(t, rr)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"body", "email"}, got[0].Loc)
	assert.Equal(t, []string{"body", "password"}, got[1].Loc)
	assert.Equal(t, "string_too_short", got[1].Type)
}

func TestUserAdministrationRequiresSuperuser(t *testing.T) {
	ts := newTestServer(t, "")
	team := ts.signupAndLogin(t, "team@example.com", "")

	rr := ts.request(http.MethodGet, "/api/v1/users", nil, team)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "The user doesn't have enough privileges", detail(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/users", map[string]any{
		"email": "new@example.com", "password": "password123",
	}, team)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestUsersListReportsAthleteCounts(t *testing.T) {
	ts := newTestServer(t, "")
	team := ts.signupAndLogin(t, "team@example.com", "南开大学")
	ts.request(http.MethodPost, "/api/v1/athletes", athleteBody("张三", "120101200001010001"), team)

	rr := ts.request(http.MethodGet, "/api/v1/users?skip=0&limit=5", nil, ts.admin)
	require.Equal(t, http.StatusOK, rr.Code)

	var list response.Users
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)
	for _, u := range list.Data {
		require.NotNil(t, u.AthletesCount)
		if u.Email == "team@example.com" {
			assert.Equal(t, 1, *u.AthletesCount)
			require.NotNil(t, u.FullName)
			assert.Equal(t, "南开大学", *u.FullName)
		}
	}
}

func TestUsersListRejectsBadPagination(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodGet, "/api/v1/users?skip=abc", nil, ts.admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, []string{"query", "skip"}, issues(t, rr)[0].Loc)

	rr = ts.request(http.MethodGet, "/api/v1/users?limit=-1", nil, ts.admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCreateUserAsAdmin(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodPost, "/api/v1/users", map[string]any{
		"email": "coach@example.com", "password": "password123", "full_name": "天津大学", "is_superuser": true,
	}, ts.admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var u response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &u))
	assert.True(t, u.IsSuperuser)
	assert.True(t, u.IsActive)

	rr = ts.request(http.MethodPost, "/api/v1/users", map[string]any{
		"email": "coach@example.com", "password": "password123",
	}, ts.admin)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "The user with this email already exists in the system.", detail(t, rr))
}

func TestUpdateUserNotFound(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodPatch, "/api/v1/users/missing", map[string]any{"full_name": "x"}, ts.admin)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "The user with this id does not exist in the system", detail(t, rr))

	rr = ts.request(http.MethodDelete, "/api/v1/users/missing", nil, ts.admin)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", detail(t, rr))
}

func TestGetUserByID(t *testing.T) {
	ts := newTestServer(t, "")
	team := ts.signupAndLogin(t, "team@example.com", "")
	other := ts.signupAndLogin(t, "other@example.com", "")

	rr := ts.request(http.MethodGet, "/api/v1/users/me", nil, other)
	require.Equal(t, http.StatusOK, rr.Code)
	var me response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))

	rr = ts.request(http.MethodGet, "/api/v1/users/"+me.ID, nil, other)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodGet, "/api/v1/users/"+me.ID, nil, team)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = ts.request(http.MethodGet, "/api/v1/users/"+me.ID, nil, ts.admin)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUpdateMe(t *testing.T) {
	ts := newTestServer(t, "")
	team := ts.signupAndLogin(t, "team@example.com", "")

	rr := ts.request(http.MethodPatch, "/api/v1/users/me", map[string]any{"full_name": "南开大学"}, team)
	require.Equal(t, http.StatusOK, rr.Code)
	var me response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	require.NotNil(t, me.FullName)
	assert.Equal(t, "南开大学", *me.FullName)
	assert.Equal(t, "team@example.com", me.Email)

	rr = ts.request(http.MethodPatch, "/api/v1/users/me", map[string]any{"email": "admin@example.com"}, team)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "User with this email already exists", detail(t, rr))
}

func TestUpdateMyPassword(t *testing.T) {
	ts := newTestServer(t, "")
	team := ts.signupAndLogin(t, "team@example.com", "")

	rr := ts.request(http.MethodPatch, "/api/v1/users/me/password", map[string]string{
		"current_password": "wrong-password", "new_password": "newpassword1",
	}, team)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Incorrect password", detail(t, rr))

	rr = ts.request(http.MethodPatch, "/api/v1/users/me/password", map[string]string{
		"current_password": "password123", "new_password": "password123",
	}, team)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "New password cannot be the same as the current one", detail(t, rr))

	rr = ts.request(http.MethodPatch, "/api/v1/users/me/password", map[string]string{
		"current_password": "password123", "new_password": "newpassword1",
	}, team)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Password updated successfully"}`, rr.Body.String())
}

func TestDeleteMe(t *testing.T) {
	ts := newTestServer(t, "")
	team := ts.signupAndLogin(t, "team@example.com", "")

	rr := ts.request(http.MethodDelete, "/api/v1/users/me", nil, ts.admin)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Super users are not allowed to delete themselves", detail(t, rr))

	rr = ts.request(http.MethodDelete, "/api/v1/users/me", nil, team)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"User deleted successfully"}`, rr.Body.String())

	rr = ts.request(http.MethodGet, "/api/v1/users/me", nil, team)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", detail(t, rr))
}

func TestPasswordRecovery(t *testing.T) {
	ts := newTestServer(t, "")
	ts.signupAndLogin(t, "team@example.com", "")

	rr := ts.request(http.MethodPost, "/api/v1/password-recovery/nobody@example.com", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "The user with this email does not exist in the system.", detail(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/password-recovery/team@example.com", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Password recovery email sent"}`, rr.Body.String())

	rr = ts.request(http.MethodPost, "/api/v1/reset-password", map[string]string{
		"token": "garbage", "new_password": "another-pass",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid token", detail(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/reset-password", map[string]string{
		"token": ts.app.Mailer.Token("team@example.com"), "new_password": "another-pass",
	}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, http.StatusOK, ts.login("team@example.com", "another-pass").Code)
}

func TestAthleteLifecycle(t *testing.T) {
	ts := newTestServer(t, "")
	team := ts.signupAndLogin(t, "team@example.com", "南开大学")

	rr := ts.request(http.MethodPost, "/api/v1/athletes", athleteBody("张三", "120101200001010001"), team)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var created response.Athlete
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "拔塞大 Bassai Dai", created.IndividualKata)

	rr = ts.request(http.MethodGet, "/api/v1/athletes/"+created.ID, nil, team)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPatch, "/api/v1/athletes/"+created.ID, map[string]string{"gender": "女", "kumite_individual": "-49kg"}, team)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated response.Athlete
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "女", updated.Gender)
	assert.Equal(t, "张三", updated.Name)

	rr = ts.request(http.MethodDelete, "/api/v1/athletes/"+created.ID, nil, team)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Athlete deleted successfully"}`, rr.Body.String())

	rr = ts.request(http.MethodGet, "/api/v1/athletes/"+created.ID, nil, team)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Athlete not found", detail(t, rr))

	rr = ts.request(http.MethodPatch, "/api/v1/athletes/"+created.ID, map[string]string{"name": "x"}, team)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "The athlete with this id does not exist in the system", detail(t, rr))
}

func TestAthleteIDNumberUniqueness(t *testing.T) {
	ts := newTestServer(t, "")
	team := ts.signupAndLogin(t, "team@example.com", "")

	rr := ts.request(http.MethodPost, "/api/v1/athletes", athleteBody("张三", "120101200001010001"), team)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/athletes", athleteBody("李四", "120101200001010001"), team)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "An athlete with this ID number already exists in the system.", detail(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/athletes", athleteBody("李四", "120101200001010002"), team)
	require.Equal(t, http.StatusOK, rr.Code)
	var second response.Athlete
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &second))

	rr = ts.request(http.MethodPatch, "/api/v1/athletes/"+second.ID, map[string]string{"id_number": "120101200001010001"}, team)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Athlete with this ID number already exists", detail(t, rr))
}

func TestAthleteValidation(t *testing.T) {
	ts := newTestServer(t, "")
	team := ts.signupAndLogin(t, "team@example.com", "")

	body := athleteBody("张三", "1201012000010100011")
	body["team_kata"] = "三队"
	rr := ts.request(http.MethodPost, "/api/v1/athletes", body, team)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	got := issues(t, rr)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"body", "id_number"}, got[0].Loc)
	assert.Equal(t, []string{"body", "team_kata"}, got[1].Loc)
	assert.Equal(t, "enum", got[1].Type)
}

func TestAthleteVisibility(t *testing.T) {
	ts := newTestServer(t, "")
	teamA := ts.signupAndLogin(t, "a@example.com", "南开大学")
	teamB := ts.signupAndLogin(t, "b@example.com", "天津大学")

	rr := ts.request(http.MethodPost, "/api/v1/athletes", athleteBody("张三", "120101200001010001"), teamA)
	require.Equal(t, http.StatusOK, rr.Code)
	var athlete response.Athlete
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &athlete))
	ts.request(http.MethodPost, "/api/v1/athletes", athleteBody("李四", "120101200001010002"), teamB)

	// A team only sees its own athletes, without a unit
	rr = ts.request(http.MethodGet, "/api/v1/athletes", nil, teamB)
	require.Equal(t, http.StatusOK, rr.Code)
	var list response.Athletes
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "李四", list.Data[0].Name)
	assert.Nil(t, list.Data[0].Unit)

	// ...and cannot touch another team's athlete
	rr = ts.request(http.MethodDelete, "/api/v1/athletes/"+athlete.ID, nil, teamB)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// A superuser sees every athlete with its unit
	rr = ts.request(http.MethodGet, "/api/v1/athletes?skip=0&limit=10", nil, ts.admin)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)
	require.NotNil(t, list.Data[0].Unit)
	assert.Equal(t, "南开大学", *list.Data[0].Unit)
	assert.Equal(t, "天津大学", *list.Data[1].Unit)
}

func TestDeleteUserCascadesAthletes(t *testing.T) {
	ts := newTestServer(t, "")
	team := ts.signupAndLogin(t, "team@example.com", "南开大学")
	ts.request(http.MethodPost, "/api/v1/athletes", athleteBody("张三", "120101200001010001"), team)

	rr := ts.request(http.MethodGet, "/api/v1/users/me", nil, team)
	var me response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))

	rr = ts.request(http.MethodDelete, "/api/v1/users/"+me.ID, nil, ts.admin)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/athletes", nil, ts.admin)
	var list response.Athletes
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Zero(t, list.Count)
	assert.Empty(t, list.Data)
}

func TestDownloadRegistrationForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("PK-spreadsheet"), 0o600))
	ts := newTestServer(t, path)

	rr := ts.request(http.MethodGet, "/api/v1/download/download-registration-form", nil, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/download/download-registration-form", nil, ts.admin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), url.PathEscape("运动员报名表.xlsx"))
	assert.Equal(t, "PK-spreadsheet", rr.Body.String())
}

func TestDownloadMissingForm(t *testing.T) {
	ts := newTestServer(t, filepath.Join(t.TempDir(), "missing.xlsx"))

	rr := ts.request(http.MethodGet, "/api/v1/download/download-registration-form", nil, ts.admin)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "文件不存在", detail(t, rr))
}
