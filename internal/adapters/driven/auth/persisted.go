package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure PersistedTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*PersistedTokenProvider)(nil)

// DefaultLeeway is the clock skew tolerated when checking token expiry.
const DefaultLeeway = 30 * time.Second

// TokenRefresher issues a new token for the signed-in user. The identity
// provider implements it and persists the new token through its identity
// notifications.
type TokenRefresher interface {
	FreshToken(ctx context.Context) (string, error)
}

// Option configures a PersistedTokenProvider.
type Option func(*PersistedTokenProvider)

// WithRefresher asks r for a new token when the persisted one has expired.
func WithRefresher(r TokenRefresher) Option {
	return func(p *PersistedTokenProvider) {
		p.refresher = r
	}
}

// PersistedTokenProvider returns the token of the persisted identity.
//
// Tokens that parse as JWTs are checked for expiry before use; an expired
// token is exchanged through the refresher when one is configured. Opaque
// tokens are passed through and left to the backend to judge.
type PersistedTokenProvider struct {
	storage   driven.LocalStorage
	refresher TokenRefresher
	parser    *jwt.Parser
	now       func() time.Time
	leeway    time.Duration
}

// NewPersistedTokenProvider creates a token provider over storage.
func NewPersistedTokenProvider(storage driven.LocalStorage, opts ...Option) *PersistedTokenProvider {
	p := &PersistedTokenProvider{
		storage: storage,
		parser:  jwt.NewParser(),
		now:     time.Now,
		leeway:  DefaultLeeway,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetToken returns the persisted token. Every failure is an
// authentication error. Network I/O only happens when an expired token is
// refreshed.
func (p *PersistedTokenProvider) GetToken(ctx context.Context) (string, error) {
	raw, err := p.storage.Get(ctx, domain.PersistedIdentityKey)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.NewAuthError(domain.ErrNotAuthenticated)
	}
	if err != nil {
		return "", domain.NewAuthError(fmt.Errorf("read persisted identity: %w", err))
	}

	var persisted domain.PersistedIdentity
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		return "", domain.NewAuthError(domain.ErrNotAuthenticated)
	}
	if persisted.Token == "" {
		return "", domain.NewAuthError(domain.ErrNoToken)
	}

	if exp, ok := p.expiry(persisted.Token); ok && p.now().After(exp.Add(p.leeway)) {
		logger.Debug("auth: token %s expired at %s", logger.Redact(persisted.Token), exp.Format(time.RFC3339))
		return p.refresh(ctx)
	}
	return persisted.Token, nil
}

func (p *PersistedTokenProvider) refresh(ctx context.Context) (string, error) {
	if p.refresher == nil {
		return "", domain.NewAuthError(domain.ErrAuthExpired)
	}
	token, err := p.refresher.FreshToken(ctx)
	if err != nil {
		return "", domain.NewAuthError(fmt.Errorf("%w: %w", domain.ErrAuthExpired, err))
	}
	if token == "" {
		return "", domain.NewAuthError(domain.ErrNoToken)
	}
	logger.Debug("auth: refreshed expired token (%s)", logger.Redact(token))
	return token, nil
}

// expiry returns the exp claim of a JWT. The signature is not verified;
// that is the backend's job.
func (p *PersistedTokenProvider) expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := p.parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
