package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func TestAuthLogin_EmailFlag(t *testing.T) {
	env := setupTestServices(t)
	env.auth.identity = &domain.Identity{ID: "u1", Email: "ada@example.com"}

	out, _, err := executeCommand(t, "s3cret\n", "auth", "login", "--email", "ada@example.com")

	require.NoError(t, err)
	assert.Equal(t, domain.Credentials{Email: "ada@example.com", Password: "s3cret"}, env.auth.credentials)
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "Signed in as ada@example.com")
}

func TestAuthLogin_PromptsForEmail(t *testing.T) {
	env := setupTestServices(t)
	env.auth.identity = &domain.Identity{ID: "u1", Email: "ada@example.com"}

	out, _, err := executeCommand(t, "ada@example.com\ns3cret\n", "auth", "login")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", env.auth.credentials.Email)
	assert.Equal(t, "s3cret", env.auth.credentials.Password)
	assert.Contains(t, out, "Email: ")
}

func TestAuthLogin_ValidationError(t *testing.T) {
	env := setupTestServices(t)
	env.auth.err = domain.NewValidationError("Please fill in all fields", map[string]string{"password": "required"})

	_, stderr, err := executeCommand(t, "\n", "auth", "login", "-e", "ada@example.com")

	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.Contains(t, stderr, "  password: required")
}

func TestAuthSignup(t *testing.T) {
	env := setupTestServices(t)
	env.auth.profile = &domain.Profile{Email: "ada@example.com"}

	out, _, err := executeCommand(t, "pw-1234\npw-1234\n",
		"auth", "signup", "--email", "ada@example.com", "--name", "Ada", "--location", "London")

	require.NoError(t, err)
	assert.Equal(t, domain.SignUpRequest{
		Email:           "ada@example.com",
		Password:        "pw-1234",
		ConfirmPassword: "pw-1234",
		Name:            "Ada",
		Location:        "London",
	}, env.auth.signUp)
	assert.Contains(t, out, "Confirm password: ")
	assert.Contains(t, out, "Account created for ada@example.com")
}

func TestAuthGoogle(t *testing.T) {
	env := setupTestServices(t)
	env.google = &mockGoogleSignIn{token: "google-id-token"}
	env.auth.profile = &domain.Profile{Email: "ada@gmail.com"}
	env.inject()

	out, _, err := executeCommand(t, "", "auth", "google")

	require.NoError(t, err)
	require.NotNil(t, env.auth.googleToken)
	assert.Equal(t, "google-id-token", *env.auth.googleToken)
	assert.Contains(t, out, "Opening the browser")
	assert.Contains(t, out, "Signed in as ada@gmail.com")
}

func TestAuthGoogle_NotConfigured(t *testing.T) {
	env := setupTestServices(t)

	_, _, err := executeCommand(t, "", "auth", "google")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "google.client_id")
	assert.Nil(t, env.auth.googleToken)
}

func TestAuthGoogle_BrowserFailure(t *testing.T) {
	env := setupTestServices(t)
	env.google = &mockGoogleSignIn{err: context.DeadlineExceeded}
	env.inject()

	_, _, err := executeCommand(t, "", "auth", "google")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, env.auth.googleToken)
}

func TestAuthGoogleRegister(t *testing.T) {
	env := setupTestServices(t)
	env.auth.profile = &domain.Profile{Email: "ada@gmail.com"}

	out, _, err := executeCommand(t, "", "auth", "google-register")

	require.NoError(t, err)
	require.NotNil(t, env.auth.googleToken)
	assert.Empty(t, *env.auth.googleToken)
	assert.Contains(t, out, "Registered ada@gmail.com")
}

func TestAuthLogout_ClearsSelection(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.selection.Set(context.Background(), selectedDocumentKey, "doc-1"))

	out, _, err := executeCommand(t, "", "auth", "logout")

	require.NoError(t, err)
	assert.True(t, env.auth.signedOut)
	assert.Equal(t, 0, env.selection.Len())
	assert.Contains(t, out, "Signed out")
}

func TestAuthLogout_Failure(t *testing.T) {
	env := setupTestServices(t)
	env.auth.err = errors.New("provider unavailable")
	require.NoError(t, env.selection.Set(context.Background(), selectedDocumentKey, "doc-1"))

	_, _, err := executeCommand(t, "", "auth", "logout")

	assert.EqualError(t, err, "provider unavailable")
	assert.Equal(t, 1, env.selection.Len())
}

func TestAuthWhoami(t *testing.T) {
	t.Run("signed out", func(t *testing.T) {
		setupTestServices(t)

		out, _, err := executeCommand(t, "", "auth", "whoami")

		require.NoError(t, err)
		assert.Contains(t, out, "Not signed in")
	})

	t.Run("signed in", func(t *testing.T) {
		env := setupTestServices(t)
		identity := &domain.Identity{ID: "u1", Email: "ada@example.com", Token: "eyJhbGciOiJSUzI1NiJ9.payload"}
		require.NoError(t, env.session.OnIdentityChanged(context.Background(), identity))

		out, _, err := executeCommand(t, "", "auth", "whoami")

		require.NoError(t, err)
		assert.Contains(t, out, "User ID: u1")
		assert.Contains(t, out, "Email:   ada@example.com")
		assert.NotContains(t, out, "Token:")
	})

	t.Run("verbose shows masked token", func(t *testing.T) {
		env := setupTestServices(t)
		identity := &domain.Identity{ID: "u1", Email: "ada@example.com", Token: "eyJhbGciOiJSUzI1NiJ9.payload"}
		require.NoError(t, env.session.OnIdentityChanged(context.Background(), identity))

		out, _, err := executeCommand(t, "", "auth", "whoami", "--verbose")

		require.NoError(t, err)
		assert.Contains(t, out, "Token:   eyJh...load")
		assert.NotContains(t, out, "payload")
	})

	t.Run("shows provider error", func(t *testing.T) {
		env := setupTestServices(t)
		env.session.OnProviderError(context.Background(), errors.New("token refresh failed"))

		out, _, err := executeCommand(t, "", "auth", "whoami")

		require.NoError(t, err)
		assert.Contains(t, out, "Not signed in")
		assert.Contains(t, out, "token refresh failed")
	})
}

func TestAuth_NotConfigured(t *testing.T) {
	setupTestServices(t)
	SetServices(Services{})

	for _, args := range [][]string{
		{"auth", "login", "-e", "a@b.c"},
		{"auth", "signup"},
		{"auth", "google"},
		{"auth", "logout"},
		{"auth", "whoami"},
	} {
		_, _, err := executeCommand(t, "\n\n\n", args...)
		assert.Error(t, err, args)
	}
}
