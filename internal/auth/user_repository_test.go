package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUserRepository_CreateAndGetByEmail(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &User{
		Email:        "  Demo@Demo.com ",
		DisplayName:  "Demo",
		PasswordHash: "$argon2id$placeholder",
		IsActive:     true,
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.ID == "" {
		t.Fatal("Create() should generate an ID")
	}
	if user.Email != "demo@demo.com" {
		t.Errorf("Email = %q, want normalised", user.Email)
	}

	got, err := repo.GetByEmail(ctx, "DEMO@demo.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %q, want %q", got.ID, user.ID)
	}
	if !got.IsActive {
		t.Error("IsActive should be true")
	}
	if got.PasswordHash != user.PasswordHash {
		t.Error("PasswordHash should round-trip")
	}
	if got.LastLoginAt != nil {
		t.Error("LastLoginAt should be nil before first login")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &User{Email: "a@b.c", PasswordHash: "x", IsActive: true}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repo.Create(ctx, &User{Email: "A@B.C", PasswordHash: "y", IsActive: true})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Create() duplicate error = %v, want ErrEmailExists", err)
	}
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo := NewUserRepository(testDB(t))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_Count(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if n, err := repo.Count(ctx); err != nil || n != 0 {
		t.Fatalf("Count() = %d, %v; want 0, nil", n, err)
	}

	seedTestUser(t, db, "one@example.com", "pw-one")
	seedTestUser(t, db, "two@example.com", "pw-two")

	if n, err := repo.Count(ctx); err != nil || n != 2 {
		t.Errorf("Count() = %d, %v; want 2, nil", n, err)
	}
}

func TestUserRepository_RecordLogin(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedTestUser(t, db, "demo@demo.com", "Demo1234")
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.RecordLogin(ctx, user.ID, at); err != nil {
		t.Fatalf("RecordLogin() error = %v", err)
	}

	got, err := repo.GetByEmail(ctx, "demo@demo.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.LastLoginAt == nil || !got.LastLoginAt.Equal(at) {
		t.Errorf("LastLoginAt = %v, want %v", got.LastLoginAt, at)
	}

	if err := repo.RecordLogin(ctx, "usr-missing", at); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("RecordLogin() unknown id error = %v, want ErrUserNotFound", err)
	}
}
