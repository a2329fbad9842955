package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// DefaultTimeout bounds how long the user has to finish signing in.
const DefaultTimeout = 3 * time.Minute

// ErrNoIDToken indicates the token response carried no id_token.
var ErrNoIDToken = errors.New("google did not return an ID token")

// GoogleConfig configures the installed-app Google sign in.
type GoogleConfig struct {
	// ClientID is the OAuth client id (required).
	ClientID string

	// ClientSecret is the installed-app client secret, if the client has one.
	ClientSecret string

	// Endpoint defaults to google.Endpoint.
	Endpoint oauth2.Endpoint

	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration

	// Open launches the browser. Defaults to OpenBrowser.
	Open func(url string) error

	// Prompt is told the authorization URL, so it can be shown when no
	// browser can be opened. Optional.
	Prompt func(url string)
}

// GoogleSignIn runs the authorization code flow with PKCE against a
// loopback redirect and returns the Google ID token.
type GoogleSignIn struct {
	cfg GoogleConfig
}

// NewGoogleSignIn validates cfg and fills in defaults.
func NewGoogleSignIn(cfg GoogleConfig) (*GoogleSignIn, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("google sign in is not configured: set google.client_id")
	}
	if cfg.Endpoint.AuthURL == "" {
		cfg.Endpoint = google.Endpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Open == nil {
		cfg.Open = OpenBrowser
	}
	return &GoogleSignIn{cfg: cfg}, nil
}

// IDToken signs the user in and returns their Google ID token.
func (g *GoogleSignIn) IDToken(ctx context.Context) (string, error) {
	state := uuid.NewString()
	server := NewCallbackServer(0, state)
	if err := server.Start(); err != nil {
		return "", err
	}
	defer server.Stop()

	conf := &oauth2.Config{
		ClientID:     g.cfg.ClientID,
		ClientSecret: g.cfg.ClientSecret,
		Endpoint:     g.cfg.Endpoint,
		RedirectURL:  server.RedirectURI(),
		Scopes:       []string{"openid", "email", "profile"},
	}
	verifier := oauth2.GenerateVerifier()
	authURL := conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))

	if g.cfg.Prompt != nil {
		g.cfg.Prompt(authURL)
	}
	if err := g.cfg.Open(authURL); err != nil {
		logger.Warn("oauth: could not open browser: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	code, err := server.WaitForCode(waitCtx)
	if err != nil {
		return "", err
	}

	tok, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return "", ErrNoIDToken
	}
	logger.Debug("oauth: received Google ID token %s", logger.Redact(idToken))
	return idToken, nil
}
