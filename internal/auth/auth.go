// Package auth issues and verifies trainer bearer tokens. Every failure is
// returned as a registered fault so the boundary renders it unchanged.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/KirkDiggler/trainer-api/internal/entities"
	"github.com/KirkDiggler/trainer-api/internal/errors"
	"github.com/KirkDiggler/trainer-api/internal/pkg/clock"
)

const (
	// DefaultTTL applies when Config.TTL is not positive
	DefaultTTL = 24 * time.Hour

	bearerPrefix = "bearer "
)

// Claims are the JWT claims carried by a trainer token
type Claims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// Config holds the settings for token issue and verification
type Config struct {
	Secret    string
	Issuer    string
	TTL       time.Duration
	ClockSkew time.Duration
	Clock     clock.Clock
}

// Validate ensures the config can sign tokens
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Secret == "" {
		vb.RequiredField("Secret")
	}
	if c.ClockSkew < 0 {
		vb.Field("ClockSkew", "must not be negative")
	}

	return vb.Build()
}

// Authenticator issues and verifies HS256 trainer tokens
type Authenticator struct {
	secret    []byte
	issuer    string
	ttl       time.Duration
	clockSkew time.Duration
	clock     clock.Clock
}

// New creates an Authenticator
func New(cfg *Config) (*Authenticator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid auth config")
	}

	a := &Authenticator{
		secret:    []byte(cfg.Secret),
		issuer:    cfg.Issuer,
		ttl:       cfg.TTL,
		clockSkew: cfg.ClockSkew,
		clock:     cfg.Clock,
	}
	if a.ttl <= 0 {
		a.ttl = DefaultTTL
	}
	if a.clock == nil {
		a.clock = clock.New()
	}
	return a, nil
}

// Issue signs a token for trainer and returns it with its expiry
func (a *Authenticator) Issue(trainer entities.Trainer) (string, time.Time, error) {
	if trainer.ID == "" {
		return "", time.Time{}, errors.InvalidArgument("trainer ID is required")
	}

	now := a.clock.Now()
	expiresAt := now.Add(a.ttl)
	claims := Claims{
		Email:         trainer.Email,
		EmailVerified: trainer.EmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   trainer.ID,
			Issuer:    a.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "failed to sign token")
	}
	return signed, expiresAt, nil
}

// Verify parses token and returns the trainer it names. It does not check
// email verification.
func (a *Authenticator) Verify(token string) (*entities.Trainer, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(a.clockSkew),
		jwt.WithTimeFunc(a.clock.Now),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, errors.FromReason(errors.ReasonTokenInvalid).WithCause(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, errors.FromReason(errors.ReasonTokenInvalid)
	}

	return &entities.Trainer{
		ID:            claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
	}, nil
}

// Authenticate reads the bearer token from r. Missing credentials are
// TOKEN_MISSING, anything unparseable or expired is TOKEN_INVALID.
func (a *Authenticator) Authenticate(r *http.Request) (*entities.Trainer, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return nil, errors.FromReason(errors.ReasonTokenMissing)
	}
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return nil, errors.FromReason(errors.ReasonTokenInvalid)
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return nil, errors.FromReason(errors.ReasonTokenMissing)
	}
	return a.Verify(token)
}

// RequireVerified returns EMAIL_NOT_VERIFIED for trainers whose email has
// not been confirmed.
func RequireVerified(trainer *entities.Trainer) error {
	if trainer == nil {
		return errors.FromReason(errors.ReasonTokenMissing)
	}
	if !trainer.EmailVerified {
		return errors.FromReason(errors.ReasonEmailNotVerified)
	}
	return nil
}

type trainerKey struct{}

// NewContext returns a copy of ctx carrying trainer
func NewContext(ctx context.Context, trainer *entities.Trainer) context.Context {
	return context.WithValue(ctx, trainerKey{}, trainer)
}

// FromContext returns the authenticated trainer, if any
func FromContext(ctx context.Context) (*entities.Trainer, bool) {
	trainer, ok := ctx.Value(trainerKey{}).(*entities.Trainer)
	return trainer, ok && trainer != nil
}
