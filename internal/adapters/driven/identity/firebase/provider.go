package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure Provider implements the interface.
var _ driven.IdentityProvider = (*Provider)(nil)

// SessionKey is the local storage key of the provider session.
const SessionKey = "firebase.session"

// Default configuration values.
const (
	DefaultEndpoint      = "https://www.googleapis.com/identitytoolkit/v3/relyingparty/"
	DefaultTokenEndpoint = "https://securetoken.googleapis.com/v1/token"

	// refreshBuffer refreshes ID tokens this long before they expire.
	refreshBuffer = 5 * time.Minute

	// googleRequestURI is the continue URI sent with Google assertions.
	// It only needs to be a valid http(s) URI for installed apps.
	googleRequestURI = "http://localhost"
)

// Config holds configuration for the Firebase provider.
type Config struct {
	// APIKey is the Firebase web API key (required).
	APIKey string

	// Endpoint is the Identity Toolkit base URL.
	Endpoint string

	// TokenEndpoint is the Secure Token URL.
	TokenEndpoint string

	// Storage keeps the provider session between processes (required).
	Storage driven.LocalStorage

	// HTTPClient is used for token refreshes. Optional.
	HTTPClient *http.Client
}

// session is the persisted provider state.
type session struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	IDToken      string    `json:"id_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *session) identity() *domain.Identity {
	return &domain.Identity{
		ID:          s.UID,
		Email:       s.Email,
		DisplayName: s.DisplayName,
		PhotoURL:    s.PhotoURL,
		Token:       s.IDToken,
		ExpiresAt:   s.ExpiresAt,
	}
}

type listener struct {
	id       int
	onChange driven.IdentityListener
	onError  driven.IdentityErrorListener
}

// Provider is a Firebase Authentication identity provider.
type Provider struct {
	relyingparty *identitytoolkit.RelyingpartyService
	oauth        *oauth2.Config
	storage      driven.LocalStorage
	httpClient   *http.Client
	now          func() time.Time

	// refreshMu serialises token refreshes.
	refreshMu sync.Mutex

	mu        sync.Mutex
	current   *session
	nextID    int
	listeners []listener
}

// NewProvider creates a Firebase provider.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("firebase: API key is required")
	}
	if cfg.Storage == nil {
		return nil, fmt.Errorf("firebase: storage is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.TokenEndpoint == "" {
		cfg.TokenEndpoint = DefaultTokenEndpoint
	}

	svc, err := identitytoolkit.NewService(ctx,
		option.WithAPIKey(cfg.APIKey),
		option.WithEndpoint(cfg.Endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("firebase: create identity toolkit client: %w", err)
	}

	tokenURL, err := url.Parse(cfg.TokenEndpoint)
	if err != nil {
		return nil, fmt.Errorf("firebase: invalid token endpoint: %w", err)
	}
	q := tokenURL.Query()
	q.Set("key", cfg.APIKey)
	tokenURL.RawQuery = q.Encode()

	return &Provider{
		relyingparty: svc.Relyingparty,
		oauth: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL.String(),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		storage:    cfg.Storage,
		httpClient: cfg.HTTPClient,
		now:        time.Now,
	}, nil
}

// SignIn authenticates with email and password.
func (p *Provider) SignIn(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	resp, err := p.relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             creds.Email,
		Password:          creds.Password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, p.failed(ctx, "sign in", err)
	}

	return p.establish(ctx, &session{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		PhotoURL:     resp.PhotoUrl,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    p.expiresAt(resp.ExpiresIn),
	})
}

// SignUp creates an account and signs it in.
func (p *Provider) SignUp(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	resp, err := p.relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    creds.Email,
		Password: creds.Password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, p.failed(ctx, "sign up", err)
	}

	return p.establish(ctx, &session{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    p.expiresAt(resp.ExpiresIn),
	})
}

// SignInWithGoogle exchanges a Google ID token for a Firebase session.
func (p *Provider) SignInWithGoogle(ctx context.Context, googleIDToken string) (*domain.Identity, error) {
	if googleIDToken == "" {
		return nil, fmt.Errorf("firebase: Google ID token is required")
	}

	body := url.Values{}
	body.Set("id_token", googleIDToken)
	body.Set("providerId", "google.com")

	resp, err := p.relyingparty.VerifyAssertion(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyAssertionRequest{
		PostBody:          body.Encode(),
		RequestUri:        googleRequestURI,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, p.failed(ctx, "Google sign in", err)
	}
	if resp.ErrorMessage != "" {
		return nil, p.failed(ctx, "Google sign in", errors.New(resp.ErrorMessage))
	}

	return p.establish(ctx, &session{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		PhotoURL:     resp.PhotoUrl,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    p.expiresAt(resp.ExpiresIn),
	})
}

// SignOut forgets the session and notifies listeners with nil.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()

	err := p.storage.Remove(ctx, SessionKey)
	p.notify(ctx, nil)
	if err != nil {
		return fmt.Errorf("firebase: remove session: %w", err)
	}
	return nil
}

// Restore loads the saved session, refreshing its ID token when it has
// expired, and notifies listeners with the result. Listeners get nil when
// there is no saved session.
func (p *Provider) Restore(ctx context.Context) error {
	saved, err := p.load(ctx)
	if err != nil {
		p.notifyError(ctx, err)
		return err
	}
	if saved == nil {
		logger.Debug("firebase: no saved session")
		p.notify(ctx, nil)
		return nil
	}

	p.mu.Lock()
	p.current = saved
	p.mu.Unlock()

	if p.fresh(saved) {
		logger.Debug("firebase: restored session for %s", saved.Email)
		p.notify(ctx, saved.identity())
		return nil
	}

	if _, err := p.refresh(ctx); err != nil {
		return err
	}
	return nil
}

// FreshToken returns an ID token valid for at least a few minutes,
// refreshing it first when needed. It does not need Restore to have run.
func (p *Provider) FreshToken(ctx context.Context) (string, error) {
	current, err := p.currentSession(ctx)
	if err != nil {
		return "", err
	}
	if current == nil {
		return "", domain.ErrNotAuthenticated
	}
	if p.fresh(current) {
		return current.IDToken, nil
	}

	refreshed, err := p.refresh(ctx)
	if err != nil {
		return "", err
	}
	return refreshed.IDToken, nil
}

// Subscribe registers listeners. Either may be nil.
func (p *Provider) Subscribe(onChange driven.IdentityListener, onError driven.IdentityErrorListener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.listeners = append(p.listeners, listener{id: id, onChange: onChange, onError: onError})

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i := range p.listeners {
			if p.listeners[i].id == id {
				p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

// currentSession returns the in-memory session while its token is fresh.
// Otherwise it rereads the saved session, which another docchat process
// may have refreshed or removed.
func (p *Provider) currentSession(ctx context.Context) (*session, error) {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	if current != nil && p.fresh(current) {
		return current, nil
	}

	saved, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.current = saved
	p.mu.Unlock()
	return saved, nil
}

// refresh exchanges the refresh token for a new ID token.
func (p *Provider) refresh(ctx context.Context) (*session, error) {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	p.mu.Lock()
	current := p.current
	p.mu.Unlock()

	if current == nil || current.RefreshToken == "" {
		p.notifyError(ctx, ErrNoSession)
		return nil, ErrNoSession
	}
	// Another caller may have refreshed while we waited.
	if p.fresh(current) {
		return current, nil
	}

	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}
	tok, err := p.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: current.RefreshToken}).Token()
	if err != nil {
		err = translate(err)
		logger.Warn("firebase: token refresh failed: %v", err)
		p.notifyError(ctx, err)
		return nil, err
	}

	refreshed := *current
	refreshed.IDToken = tok.AccessToken
	if idToken, ok := tok.Extra("id_token").(string); ok && idToken != "" {
		refreshed.IDToken = idToken
	}
	if tok.RefreshToken != "" {
		refreshed.RefreshToken = tok.RefreshToken
	}
	refreshed.ExpiresAt = tok.Expiry
	if refreshed.ExpiresAt.IsZero() {
		refreshed.ExpiresAt = p.now().Add(time.Hour)
	}

	logger.Debug("firebase: refreshed token for %s (%s)", refreshed.Email, logger.Redact(refreshed.IDToken))
	if _, err := p.establish(ctx, &refreshed); err != nil {
		return nil, err
	}
	return &refreshed, nil
}

// establish saves s as the current session and notifies listeners.
func (p *Provider) establish(ctx context.Context, s *session) (*domain.Identity, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("firebase: encode session: %w", err)
	}
	if err := p.storage.Set(ctx, SessionKey, string(data)); err != nil {
		err = fmt.Errorf("firebase: save session: %w", err)
		p.notifyError(ctx, err)
		return nil, err
	}

	p.mu.Lock()
	p.current = s
	p.mu.Unlock()

	identity := s.identity()
	p.notify(ctx, identity)
	return identity, nil
}

func (p *Provider) load(ctx context.Context) (*session, error) {
	raw, err := p.storage.Get(ctx, SessionKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("firebase: read session: %w", err)
	}

	var s session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("firebase: decode session: %w", err)
	}
	if s.UID == "" || s.RefreshToken == "" {
		return nil, nil
	}
	return &s, nil
}

// failed translates err and reports it to error listeners.
func (p *Provider) failed(ctx context.Context, op string, err error) error {
	err = translate(err)
	logger.Debug("firebase: %s failed: %v", op, err)
	p.notifyError(ctx, err)
	return err
}

func (p *Provider) fresh(s *session) bool {
	return s.IDToken != "" && p.now().Add(refreshBuffer).Before(s.ExpiresAt)
}

func (p *Provider) expiresAt(seconds int64) time.Time {
	if seconds <= 0 {
		seconds = 3600
	}
	return p.now().Add(time.Duration(seconds) * time.Second)
}

func (p *Provider) snapshotListeners() []listener {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]listener(nil), p.listeners...)
}

func (p *Provider) notify(ctx context.Context, identity *domain.Identity) {
	for _, l := range p.snapshotListeners() {
		if l.onChange != nil {
			l.onChange(ctx, identity)
		}
	}
}

func (p *Provider) notifyError(ctx context.Context, err error) {
	for _, l := range p.snapshotListeners() {
		if l.onError != nil {
			l.onError(ctx, err)
		}
	}
}
