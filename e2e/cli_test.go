package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankerbiao/Registration-System/internal/api"
	"github.com/hankerbiao/Registration-System/internal/factory"
	"github.com/hankerbiao/Registration-System/internal/storage/forms"
	"github.com/hankerbiao/Registration-System/internal/testutil"
	"github.com/hankerbiao/Registration-System/internal/web"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "changethis"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "regctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/regctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

// withTokenFile returns a runner sharing the binary but holding its own login
func (r *cliRunner) withTokenFile(t *testing.T) *cliRunner {
	return &cliRunner{
		binaryPath: r.binaryPath,
		serverURL:  r.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

// run executes the CLI in json mode and returns stdout and stderr separately
func (r *cliRunner) run(args ...string) (string, string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "REGCTL_TOKEN=")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func (r *cliRunner) mustRun(t *testing.T, result any, args ...string) {
	t.Helper()
	stdout, stderr, err := r.run(args...)
	require.NoError(t, err, "stdout: %s\nstderr: %s", stdout, stderr)
	if result != nil {
		require.NoError(t, json.Unmarshal([]byte(stdout), result), "stdout: %s", stdout)
	}
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.TestApp
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	serverURL := "http://" + addr

	formPath := filepath.Join(t.TempDir(), "form.xlsx")
	require.NoError(t, os.WriteFile(formPath, []byte("PK-spreadsheet"), 0o600))

	app := factory.NewTestApp(formPath)
	_, err = app.CreateUser(context.Background(), adminEmail, adminPassword, "", true)
	require.NoError(t, err)

	logger := testutil.NopLogger()

	// Create routers
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		UserService:    app.UserService,
		AthleteService: app.AthleteService,
		Forms:          app.Forms,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:     logger,
		APIBaseURL: serverURL,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	waitForServer(t, serverURL+api.Prefix+"/health")

	return &testServer{
		app:  app,
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type userResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	FullName      *string `json:"full_name"`
	IsActive      bool    `json:"is_active"`
	IsSuperuser   bool    `json:"is_superuser"`
	AthletesCount *int    `json:"athletes_count"`
}

type athleteResponse struct {
	ID             string  `json:"id"`
	OwnerID        string  `json:"owner_id"`
	Name           string  `json:"name"`
	IDNumber       string  `json:"id_number"`
	Gender         string  `json:"gender"`
	KumiteCategory string  `json:"kumite_category"`
	IndividualKata string  `json:"individual_kata"`
	Unit           *string `json:"unit"`
}

type pageResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

type errorResponse struct {
	Error struct {
		Message string              `json:"message"`
		Fields  map[string][]string `json:"fields"`
	} `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	var resp healthResponse
	cli.mustRun(t, &resp, "health")
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_LoginAndLogout(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Wrong password is reported once and no token is saved
	stdout, stderr, err := cli.run("login", "--email", adminEmail, "--password", "wrongpassword")
	require.Error(t, err)
	assert.Empty(t, stdout)
	var failure errorResponse
	require.NoError(t, json.Unmarshal([]byte(stderr), &failure), "stderr: %s", stderr)
	assert.Equal(t, "Incorrect email or password", failure.Error.Message)
	assert.NoFileExists(t, cli.tokenFile)

	var me userResponse
	cli.mustRun(t, &me, "login", "--email", adminEmail, "--password", adminPassword)
	assert.Equal(t, adminEmail, me.Email)
	assert.True(t, me.IsSuperuser)
	assert.FileExists(t, cli.tokenFile)

	var shown userResponse
	cli.mustRun(t, &shown, "me", "show")
	assert.Equal(t, me.ID, shown.ID)

	cli.mustRun(t, nil, "logout")
	assert.NoFileExists(t, cli.tokenFile)

	_, stderr, err = cli.run("me", "show")
	require.Error(t, err)
	assert.Contains(t, stderr, "not logged in")
}

func TestCLI_SignupThenLogin(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	var created userResponse
	cli.mustRun(t, &created, "signup", "--full-name", "Dragons", "--email", "dragons@example.com", "--password", "password123")
	assert.Equal(t, "dragons@example.com", created.Email)
	assert.False(t, created.IsSuperuser)
	assert.NoFileExists(t, cli.tokenFile, "signing up must not log in")

	// Client-side validation stops before the request
	_, stderr, err := cli.run("signup", "--email", "not-an-email", "--password", "short")
	require.Error(t, err)
	var invalid errorResponse
	require.NoError(t, json.Unmarshal([]byte(stderr), &invalid), "stderr: %s", stderr)
	assert.Contains(t, invalid.Error.Fields, "email")
	assert.Contains(t, invalid.Error.Fields, "password")

	var me userResponse
	cli.mustRun(t, &me, "login", "--email", "dragons@example.com", "--password", "password123")
	assert.Equal(t, created.ID, me.ID)
}

func TestCLI_AthleteLifecycle(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	cli.mustRun(t, nil, "signup", "--full-name", "Dragons", "--email", "dragons@example.com", "--password", "password123")
	cli.mustRun(t, nil, "login", "--email", "dragons@example.com", "--password", "password123")

	var empty pageResponse[athleteResponse]
	cli.mustRun(t, &empty, "athletes", "list")
	assert.Empty(t, empty.Data)
	assert.Equal(t, 0, empty.Count)

	var athlete athleteResponse
	cli.mustRun(t, &athlete, "athletes", "create", "--name", "张三", "--id-number", "110101199001011234", "--individual-kata", "平安二段")
	assert.Equal(t, "张三", athlete.Name)
	assert.Equal(t, "男", athlete.Gender)
	assert.Equal(t, "甲组", athlete.KumiteCategory)
	assert.Equal(t, "平安二段", athlete.IndividualKata)

	// Duplicate id numbers are rejected by the server
	_, stderr, err := cli.run("athletes", "create", "--name", "李四", "--id-number", "110101199001011234")
	require.Error(t, err)
	assert.Contains(t, stderr, "An athlete with this ID number already exists in the system.")

	var updated athleteResponse
	cli.mustRun(t, &updated, "athletes", "update", athlete.ID, "--gender", "女")
	assert.Equal(t, "女", updated.Gender)
	assert.Equal(t, "张三", updated.Name)

	var page pageResponse[athleteResponse]
	cli.mustRun(t, &page, "athletes", "list")
	require.Len(t, page.Data, 1)
	assert.Equal(t, 1, page.Pages)
	assert.Nil(t, page.Data[0].Unit, "teams do not see the unit column")

	// Deletion needs confirmation
	_, stderr, err = cli.run("athletes", "delete", athlete.ID)
	require.Error(t, err)
	assert.Contains(t, stderr, "--yes")

	cli.mustRun(t, nil, "athletes", "delete", athlete.ID, "--yes")
	cli.mustRun(t, &page, "athletes", "list")
	assert.Empty(t, page.Data)
}

func TestCLI_DownloadForm(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	cli.mustRun(t, nil, "login", "--email", adminEmail, "--password", adminPassword)

	dest := filepath.Join(t.TempDir(), forms.FileName)
	var saved map[string]string
	cli.mustRun(t, &saved, "athletes", "download", "--out", dest)
	assert.Equal(t, dest, saved["file"])

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "PK-spreadsheet", string(data))
}

func TestCLI_UserAdministration(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	admin := newCLIRunner(t, ts.addr)
	admin.mustRun(t, nil, "login", "--email", adminEmail, "--password", adminPassword)

	var team userResponse
	admin.mustRun(t, &team, "users", "create", "--email", "tigers@example.com", "--full-name", "Tigers", "--password", "password123")
	assert.True(t, team.IsActive)
	require.NotNil(t, team.FullName)
	assert.Equal(t, "Tigers", *team.FullName)

	_, stderr, err := admin.run("users", "create", "--email", "tigers@example.com", "--password", "password123")
	require.Error(t, err)
	assert.Contains(t, stderr, "The user with this email already exists in the system.")

	var renamed userResponse
	admin.mustRun(t, &renamed, "users", "update", team.ID, "--full-name", "Tigers United")
	require.NotNil(t, renamed.FullName)
	assert.Equal(t, "Tigers United", *renamed.FullName)

	// The team registers an athlete and shows up with a count
	teamCLI := admin.withTokenFile(t)
	teamCLI.mustRun(t, nil, "login", "--email", "tigers@example.com", "--password", "password123")
	teamCLI.mustRun(t, nil, "athletes", "create", "--name", "王五", "--id-number", "220101199202023456")

	var users pageResponse[userResponse]
	admin.mustRun(t, &users, "users", "list")
	assert.Equal(t, 2, users.Count)
	for _, u := range users.Data {
		if u.ID == team.ID {
			require.NotNil(t, u.AthletesCount)
			assert.Equal(t, 1, *u.AthletesCount)
		}
	}

	var athletes pageResponse[athleteResponse]
	admin.mustRun(t, &athletes, "athletes", "list")
	require.Len(t, athletes.Data, 1)
	require.NotNil(t, athletes.Data[0].Unit)
	assert.Equal(t, "Tigers United", *athletes.Data[0].Unit)

	// Teams cannot administer users
	_, _, err = teamCLI.run("users", "list")
	require.Error(t, err)

	admin.mustRun(t, nil, "users", "delete", team.ID, "--yes")
	admin.mustRun(t, &athletes, "athletes", "list")
	assert.Empty(t, athletes.Data, "deleting a team removes its athletes")
}
