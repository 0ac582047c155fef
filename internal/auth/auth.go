// Package auth signs the club administrator in and out with bcrypt-checked
// credentials and HS256 tokens.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/okian/clubrank/internal/adapters/session"
	"github.com/okian/clubrank/pkg/logger"
	"github.com/okian/clubrank/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTTL = 12 * time.Hour
	issuer     = "clubrank"
)

// Claims are the JWT claims of an admin session. Subject holds the admin email.
type Claims struct {
	jwt.RegisteredClaims
}

// Session is an issued admin token.
type Session struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// Authenticator checks the single configured admin account and issues tokens.
type Authenticator struct {
	email   string
	hash    []byte
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	revoker session.Revoker
	logger  logger.Logger
}

// New creates an Authenticator. With no email or hash configured sign-in is
// disabled; a secret is required otherwise.
func New(email, passwordHash, secret string, opts ...Option) (*Authenticator, error) {
	a := &Authenticator{
		email:   strings.ToLower(strings.TrimSpace(email)),
		hash:    []byte(passwordHash),
		secret:  []byte(secret),
		ttl:     defaultTTL,
		now:     time.Now,
		revoker: session.NewMemoryRevoker(),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Enabled() && len(a.secret) == 0 {
		return nil, fmt.Errorf("%w: jwt secret is required when admin credentials are set", ErrMisconfigured)
	}
	if a.Enabled() {
		if _, err := bcrypt.Cost(a.hash); err != nil {
			return nil, fmt.Errorf("%w: admin password hash: %v", ErrMisconfigured, err)
		}
	}
	return a, nil
}

// Enabled reports whether an admin account is configured.
func (a *Authenticator) Enabled() bool {
	return a.email != "" && len(a.hash) > 0
}

// SignIn checks the credentials and issues a token.
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (Session, error) {
	if !a.Enabled() {
		metrics.RecordSignIn("disabled")
		a.logger.Warn(ctx, "sign-in attempted but no admin account is configured")
		return Session{}, ErrInvalidCredentials
	}

	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.email)) == 1
	// always run bcrypt so timing does not reveal a wrong email
	pwErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !emailOK || pwErr != nil {
		metrics.RecordSignIn("invalid_credentials")
		a.logger.Info(ctx, "sign-in rejected", logger.String("email", email))
		return Session{}, ErrInvalidCredentials
	}

	now := a.now()
	exp := now.Add(a.ttl)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   a.email,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		metrics.RecordSignIn("error")
		return Session{}, fmt.Errorf("sign token: %w", err)
	}

	metrics.RecordSignIn("success")
	a.logger.Info(ctx, "admin signed in", logger.String("email", a.email))
	// NumericDate truncates to seconds; report what the token carries
	return Session{Token: token, Email: a.email, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify parses and checks a token, returning its claims or ErrUnauthorized.
func (a *Authenticator) Verify(ctx context.Context, token string) (Claims, error) {
	if !a.Enabled() || token == "" {
		return Claims{}, ErrUnauthorized
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Subject != a.email || claims.ID == "" {
		return Claims{}, fmt.Errorf("%w: unknown subject", ErrUnauthorized)
	}

	revoked, err := a.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Claims{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Claims{}, fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}
	return claims, nil
}

// IsAdmin reports whether token belongs to an active admin session.
func (a *Authenticator) IsAdmin(ctx context.Context, token string) bool {
	_, err := a.Verify(ctx, token)
	return err == nil
}

// SignOut revokes token until it would have expired.
func (a *Authenticator) SignOut(ctx context.Context, token string) error {
	claims, err := a.Verify(ctx, token)
	if err != nil {
		return err
	}
	if err := a.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	metrics.RecordSignOut()
	a.logger.Info(ctx, "admin signed out", logger.String("email", claims.Subject))
	return nil
}

// HashPassword returns a bcrypt hash suitable for the admin_password_hash setting.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
