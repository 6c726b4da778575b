package factory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hankerbiao/Registration-System/internal/dependencies/mocks"
	"github.com/hankerbiao/Registration-System/internal/model"
	"github.com/hankerbiao/Registration-System/internal/services/auth"
	"github.com/hankerbiao/Registration-System/internal/services/users"
	"github.com/hankerbiao/Registration-System/internal/storage/forms"
	"github.com/hankerbiao/Registration-System/internal/storage/memory"
	"github.com/hankerbiao/Registration-System/internal/testutil"
)

// RecordingMailer keeps the last reset token sent to each address
type RecordingMailer struct {
	mu     sync.Mutex
	tokens map[string]string
}

// SendPasswordReset records token for email
func (m *RecordingMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		m.tokens = make(map[string]string)
	}
	m.tokens[email] = token
	return nil
}

// Token returns the last reset token sent to email
func (m *RecordingMailer) Token(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[email]
}

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.SequenceIDs
	Mailer    *RecordingMailer
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The registration form is read from formPath, which may be empty.
func NewTestApp(formPath string) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewSequenceIDs("id")
	mailer := &RecordingMailer{}

	authCfg := auth.DefaultConfig()
	authCfg.Secret = []byte("test-secret")
	authCfg.BcryptCost = bcrypt.MinCost

	app := newWithDependencies(store, forms.NewFileStore(formPath), mockClock, mockIDs, authCfg, mailer, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
		Mailer:    mailer,
	}
}

// CreateUser adds an active account directly through the users service
func (t *TestApp) CreateUser(ctx context.Context, email, password, fullName string, superuser bool) (*model.User, error) {
	summary, err := t.UserService.Create(ctx, users.CreateInput{
		Email:       email,
		Password:    password,
		FullName:    fullName,
		IsActive:    true,
		IsSuperuser: superuser,
	})
	if err != nil {
		return nil, err
	}
	return summary.User, nil
}

// Token logs email in and returns its access token
func (t *TestApp) Token(ctx context.Context, email, password string) (string, error) {
	session, err := t.AuthService.Login(ctx, email, password)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}
