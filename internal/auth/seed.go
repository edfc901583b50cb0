package auth

import (
	"context"
	"fmt"
	"log/slog"
)

// DemoAccount describes the account created on first boot.
// PasswordHash, when set, is stored as-is and Password is ignored.
type DemoAccount struct {
	Email        string
	Password     string
	PasswordHash string
}

// SeedDemoUser creates the demo account when the users table is empty.
// It reports whether an account was created.
func SeedDemoUser(ctx context.Context, users UserRepository, account DemoAccount, logger *slog.Logger) (bool, error) {
	if account.Email == "" {
		return false, fmt.Errorf("seeding demo user: email is empty")
	}

	count, err := users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("checking user count: %w", err)
	}
	if count > 0 {
		logger.Debug("users exist, skipping demo user seed", "count", count)
		return false, nil
	}

	hash := account.PasswordHash
	if hash == "" {
		if account.Password == "" {
			return false, fmt.Errorf("seeding demo user: neither password nor password_hash is set")
		}
		if hash, err = HashPassword(account.Password); err != nil {
			return false, fmt.Errorf("hashing demo password: %w", err)
		}
	}

	user := &User{
		Email:        account.Email,
		DisplayName:  "Demo",
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := users.Create(ctx, user); err != nil {
		return false, fmt.Errorf("creating demo user: %w", err)
	}

	logger.Info("demo user created", "email", user.Email, "id", user.ID)
	return true, nil
}
