package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/services"
	"github.com/custodia-labs/docchat-cli/internal/core/services/servicestest"
)

// mockAuthService records the calls made by auth commands.
type mockAuthService struct {
	credentials domain.Credentials
	signUp      domain.SignUpRequest
	googleToken *string
	signedOut   bool
	restores    int
	restoreErr  error

	identity *domain.Identity
	profile  *domain.Profile
	err      error
}

func (m *mockAuthService) SignIn(_ context.Context, creds domain.Credentials) (*domain.Identity, error) {
	m.credentials = creds
	if m.err != nil {
		return nil, m.err
	}
	return m.identity, nil
}

func (m *mockAuthService) SignUp(_ context.Context, req domain.SignUpRequest) (*domain.Profile, error) {
	m.signUp = req
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

func (m *mockAuthService) SignInWithGoogle(_ context.Context, idToken string) (*domain.Profile, error) {
	m.googleToken = &idToken
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

func (m *mockAuthService) SignOut(_ context.Context) error {
	m.signedOut = true
	return m.err
}

func (m *mockAuthService) Restore(_ context.Context) error {
	m.restores++
	return m.restoreErr
}

func (m *mockAuthService) Current() *domain.Identity {
	return m.identity
}

// mockProfileService serves a fixed profile.
type mockProfileService struct {
	profile  domain.Profile
	update   *domain.ProfileUpdate
	image    *domain.File
	imageURL string
	err      error
}

func (m *mockProfileService) Get(_ context.Context) (*domain.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p := m.profile
	return &p, nil
}

func (m *mockProfileService) Update(_ context.Context, update domain.ProfileUpdate) (*domain.Profile, error) {
	m.update = &update
	if m.err != nil {
		return nil, m.err
	}
	if update.Name != nil {
		m.profile.Name = *update.Name
	}
	if update.Phone != nil {
		m.profile.Phone = *update.Phone
	}
	if update.Location != nil {
		m.profile.Location = *update.Location
	}
	if update.Bio != nil {
		m.profile.Bio = *update.Bio
	}
	p := m.profile
	return &p, nil
}

func (m *mockProfileService) UploadImage(_ context.Context, file domain.File) (string, error) {
	m.image = &file
	if m.err != nil {
		return "", m.err
	}
	return m.imageURL, nil
}

func (m *mockProfileService) Cached() *domain.Profile {
	return nil
}

// mockGoogleSignIn returns a fixed ID token.
type mockGoogleSignIn struct {
	token string
	err   error
}

func (m *mockGoogleSignIn) IDToken(_ context.Context) (string, error) {
	return m.token, m.err
}

// testEnv holds the services injected for a test.
type testEnv struct {
	workspace *servicestest.Workspace
	session   *services.SessionStore
	settings  *services.SettingsService
	selection *memory.LocalStorage
	auth      *mockAuthService
	profile   *mockProfileService
	google    *mockGoogleSignIn
}

// setupTestServices injects in-memory services and restores the
// package state when the test ends.
func setupTestServices(t *testing.T, docs ...domain.Document) *testEnv {
	t.Helper()

	settings := services.NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.Set("display.markdown", "false"))

	env := &testEnv{
		workspace: servicestest.NewWorkspace(docs...),
		session:   services.NewSessionStore(memory.NewLocalStorage()),
		settings:  settings,
		selection: memory.NewLocalStorage(),
		auth:      &mockAuthService{},
		profile:   &mockProfileService{},
	}
	env.inject()

	t.Cleanup(func() {
		SetServices(Services{})
		resetFlags(rootCmd)
	})
	return env
}

// inject passes the env to SetServices. Call it again after changing
// which services are set.
func (e *testEnv) inject() {
	s := Services{
		Auth:      e.auth,
		Session:   e.session,
		Workspace: e.workspace,
		Profile:   e.profile,
		Settings:  e.settings,
		Selection: e.selection,
	}
	if e.google != nil {
		s.Google = e.google
	}
	SetServices(s)
}

// executeCommand runs the root command with args and stdin and returns
// what it wrote to stdout and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag to its default. Commands are package
// globals, so flag values survive between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
