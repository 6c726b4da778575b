package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/hankerbiao/Registration-System/internal/api"
	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/factory"
	"github.com/hankerbiao/Registration-System/internal/testutil"
)

type SessionSuite struct {
	suite.Suite
	srv   *httptest.Server
	store *MemoryStore
	sess  *Session
	ctx   context.Context
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	app := factory.NewTestApp("")
	s.srv = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		AuthService:    app.AuthService,
		UserService:    app.UserService,
		AthleteService: app.AthleteService,
		Forms:          app.Forms,
	}))
	s.ctx = context.Background()
	s.store = NewMemoryStore("")

	var err error
	s.sess, err = New(s.store, client.New(s.srv.URL), nil)
	s.Require().NoError(err)
}

func (s *SessionSuite) TearDownTest() {
	s.srv.Close()
}

func (s *SessionSuite) TestSignupDoesNotStoreToken() {
	u, err := s.sess.Signup(s.ctx, client.UserRegister{Email: "team@example.com", Password: "password123"})
	s.Require().NoError(err)
	s.Equal("team@example.com", u.Email)

	s.False(s.sess.LoggedIn())
	tok, _ := s.store.Load()
	s.Empty(tok)
	s.ErrorIs(s.sess.Guard(), ErrLoginRequired)
}

func (s *SessionSuite) TestLoginLogout() {
	_, err := s.sess.Signup(s.ctx, client.UserRegister{Email: "team@example.com", Password: "password123"})
	s.Require().NoError(err)

	s.Require().NoError(s.sess.Login(s.ctx, "team@example.com", "password123"))
	s.True(s.sess.LoggedIn())
	s.NoError(s.sess.Guard())
	tok, _ := s.store.Load()
	s.Equal(s.sess.Token(), tok)

	me, err := s.sess.CurrentUser(s.ctx)
	s.Require().NoError(err)
	s.Equal("team@example.com", me.Email)

	s.Require().NoError(s.sess.Logout())
	s.False(s.sess.LoggedIn())
	tok, _ = s.store.Load()
	s.Empty(tok)
	_, err = s.sess.CurrentUser(s.ctx)
	s.ErrorIs(err, ErrLoginRequired)
}

func (s *SessionSuite) TestFailedLoginKeepsNoToken() {
	err := s.sess.Login(s.ctx, "nobody@example.com", "password123")
	s.Error(err)
	s.False(s.sess.LoggedIn())
}

func TestCurrentUserIsCachedUntilInvalidated(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"id":"u1","email":"team@example.com","is_active":true,"is_superuser":false}`))
	}))
	defer srv.Close()

	sess, err := New(NewMemoryStore("token"), client.New(srv.URL), nil)
	require.NoError(t, err)
	ctx := context.Background()

	for range 3 {
		_, err := sess.CurrentUser(ctx)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, calls.Load())

	sess.Invalidate()
	_, err = sess.CurrentUser(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestFileStore(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "token"))

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, store.Save("abc"))
	tok, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	tok, _ = store.Load()
	assert.Empty(t, tok)
}

func TestCookieStore(t *testing.T) {
	rr := httptest.NewRecorder()
	store := &CookieStore{W: rr, R: httptest.NewRequest(http.MethodGet, "/", nil)}

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, store.Save("abc"))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	tok, err = (&CookieStore{W: httptest.NewRecorder(), R: req}).Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}
