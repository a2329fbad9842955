package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in, sign up, and manage your session",
	Long: `Manage your DocChat account session.

The session is stored in ~/.docchat and shared by every docchat process, so
signing in from one terminal signs in an open TUI as well.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogin,
}

var authSignupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE:  runAuthSignup,
}

var authGoogleCmd = &cobra.Command{
	Use:   "google",
	Short: "Sign in with Google in the browser",
	Long: `Open the browser to sign in with Google, then register the account with
the DocChat backend. Requires google.client_id to be set.`,
	Args: cobra.NoArgs,
	RunE: runAuthGoogle,
}

var authGoogleRegisterCmd = &cobra.Command{
	Use:   "google-register",
	Short: "Register the signed-in Google account with the backend",
	Args:  cobra.NoArgs,
	RunE:  runAuthGoogleRegister,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runAuthWhoami,
}

// errAuthUnavailable is returned when no identity provider is configured.
var errAuthUnavailable = errors.New("sign in is not configured: set firebase.api_key")

// Flags for login and signup.
var (
	authEmail    string
	authName     string
	authPhone    string
	authLocation string
	authBio      string
)

func init() {
	authLoginCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Account email")
	authSignupCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Account email")
	authSignupCmd.Flags().StringVar(&authName, "name", "", "Display name")
	authSignupCmd.Flags().StringVar(&authPhone, "phone", "", "Phone number")
	authSignupCmd.Flags().StringVar(&authLocation, "location", "", "Location")
	authSignupCmd.Flags().StringVar(&authBio, "bio", "", "Short bio")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authSignupCmd)
	authCmd.AddCommand(authGoogleCmd)
	authCmd.AddCommand(authGoogleRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errAuthUnavailable
	}

	p := newPrompter(cmd)
	email := authEmail
	if email == "" {
		email = p.line("Email: ")
	}
	password := p.password("Password: ")

	identity, err := authService.SignIn(cmd.Context(), domain.Credentials{Email: email, Password: password})
	if err != nil {
		printFieldErrors(cmd, err)
		return err
	}

	cmd.Printf("Signed in as %s\n", orDash(identity.Email))
	return nil
}

func runAuthSignup(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errAuthUnavailable
	}

	p := newPrompter(cmd)
	req := domain.SignUpRequest{
		Email:    authEmail,
		Name:     authName,
		Phone:    authPhone,
		Location: authLocation,
		Bio:      authBio,
	}
	if req.Email == "" {
		req.Email = p.line("Email: ")
	}
	req.Password = p.password("Password: ")
	req.ConfirmPassword = p.password("Confirm password: ")

	profile, err := authService.SignUp(cmd.Context(), req)
	if err != nil {
		printFieldErrors(cmd, err)
		return err
	}

	cmd.Printf("Account created for %s\n", orDash(profile.Email))
	return nil
}

func runAuthGoogle(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errAuthUnavailable
	}
	if googleSignIn == nil {
		return errors.New("google sign in not configured: set google.client_id")
	}

	cmd.Println("Opening the browser to sign in with Google...")
	idToken, err := googleSignIn.IDToken(cmd.Context())
	if err != nil {
		return err
	}

	profile, err := authService.SignInWithGoogle(cmd.Context(), idToken)
	if err != nil {
		return err
	}

	cmd.Printf("Signed in as %s\n", orDash(profile.Email))
	return nil
}

func runAuthGoogleRegister(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errAuthUnavailable
	}

	profile, err := authService.SignInWithGoogle(cmd.Context(), "")
	if err != nil {
		return err
	}

	cmd.Printf("Registered %s\n", orDash(profile.Email))
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errAuthUnavailable
	}

	if err := authService.SignOut(cmd.Context()); err != nil {
		return err
	}
	if selectionStore != nil {
		_ = selectionStore.Remove(cmd.Context(), selectedDocumentKey)
	}

	cmd.Println("Signed out")
	return nil
}

func runAuthWhoami(cmd *cobra.Command, _ []string) error {
	if sessionStore == nil {
		return errors.New("session store not configured")
	}

	identity := sessionStore.Current()
	if identity == nil {
		cmd.Println("Not signed in")
		if err := sessionStore.Err(); err != nil {
			cmd.Printf("Last error: %v\n", err)
		}
		return nil
	}

	cmd.Printf("User ID: %s\n", identity.ID)
	cmd.Printf("Email:   %s\n", orDash(identity.Email))
	if verbose {
		cmd.Printf("Token:   %s\n", maskToken(identity.Token))
	}
	return nil
}
