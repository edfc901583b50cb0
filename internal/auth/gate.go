package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Gate issues bearer tokens for valid credentials and verifies them on
// protected requests.
type Gate struct {
	users  UserRepository
	secret string
	ttl    time.Duration
	logger *slog.Logger

	// dummyHash is verified against when the email is unknown so that
	// unknown and wrong-password logins cost the same.
	dummyOnce sync.Once
	dummyHash string
}

// NewGate creates a Gate signing tokens with secret that expire after ttl.
func NewGate(users UserRepository, secret string, ttl time.Duration, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		users:  users,
		secret: secret,
		ttl:    ttl,
		logger: logger,
	}
}

// Issue checks email and password and returns a signed access token.
// Unknown emails, wrong passwords and inactive accounts all return
// ErrInvalidCredentials.
func (g *Gate) Issue(ctx context.Context, email, password string) (string, error) {
	user, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			g.burnHash(password)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		g.logger.Warn("login attempt for inactive user", "user_id", user.ID)
		return "", ErrInvalidCredentials
	}

	token, err := GenerateAccessToken(user, g.secret, g.ttl)
	if err != nil {
		return "", err
	}

	if err := g.users.RecordLogin(ctx, user.ID, time.Now()); err != nil {
		g.logger.Warn("failed to record login", "user_id", user.ID, "error", err)
	}

	return token, nil
}

// Verify validates a bearer token and returns its principal.
func (g *Gate) Verify(token string) (*Principal, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrTokenInvalid)
	}

	claims, err := ParseToken(token, g.secret)
	if err != nil {
		return nil, err
	}

	return &Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}

func (g *Gate) burnHash(password string) {
	g.dummyOnce.Do(func() {
		g.dummyHash, _ = HashPassword("casos-timing-equaliser") //nolint:errcheck // only fails if crypto/rand fails
	})
	if g.dummyHash != "" {
		_, _ = VerifyPassword(password, g.dummyHash) //nolint:errcheck // result intentionally discarded
	}
}
