package user

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/kbukum/usermodel/logger"
	"github.com/kbukum/usermodel/store"
)

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, io.Discard, "test")
}

func newGormTestRepository(t *testing.T) *GormRepository {
	t.Helper()
	db, err := store.Open(context.Background(), store.Config{
		Enabled:  true,
		DSN:      filepath.Join(t.TempDir(), "users.db"),
		LogLevel: "silent",
	}, quietLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGormRepository(db)
}

// Both backends must behave the same.
func TestRepositories(t *testing.T) {
	backends := map[string]func(t *testing.T) Repository{
		"memory": func(*testing.T) Repository { return NewMemoryRepository() },
		"gorm":   func(t *testing.T) Repository { return newGormTestRepository(t) },
	}
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			testRepository(t, newRepo(t))
		})
	}
}

func testRepository(t *testing.T, repo Repository) {
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	first, err := repo.Save(ctx, User{Username: "cinnamon", PrimaryEmail: "c@example.com", PasswordHash: []byte("h"), CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("Save new: %v", err)
	}
	second, err := repo.Save(ctx, User{Username: "admin", PrimaryEmail: "a@example.com", PasswordHash: []byte("h"), CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("Save new: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Errorf("expected sequential ids 1 and 2, got %d and %d", first.ID, second.ID)
	}

	all, err := repo.FindAll(ctx)
	if err != nil || len(all) != 2 || all[0].ID != 1 {
		t.Fatalf("FindAll = %+v, %v", all, err)
	}

	got, err := repo.FindByUsername(ctx, "CINNAMON")
	if err != nil || got.ID != first.ID {
		t.Errorf("FindByUsername should ignore case: %+v, %v", got, err)
	}
	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	first.PrimaryEmail = "new@example.com"
	if _, err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save existing: %v", err)
	}
	got, err = repo.FindByID(ctx, first.ID)
	if err != nil || got.PrimaryEmail != "new@example.com" {
		t.Errorf("FindByID after update = %+v, %v", got, err)
	}

	if _, err := repo.Save(ctx, User{ID: 99, Username: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Save unknown id: expected ErrNotFound, got %v", err)
	}

	if err := repo.Delete(ctx, second.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, second.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.FindByID(ctx, second.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID deleted: expected ErrNotFound, got %v", err)
	}
}

func TestGormRepository_DuplicateUsername(t *testing.T) {
	repo := newGormTestRepository(t)
	ctx := context.Background()

	if _, err := repo.Save(ctx, User{Username: "admin", PrimaryEmail: "a@example.com", PasswordHash: []byte("h")}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_, err := repo.Save(ctx, User{Username: "Admin", PrimaryEmail: "b@example.com", PasswordHash: []byte("h")})
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestService_WithGormRepository(t *testing.T) {
	s := NewService(newGormTestRepository(t), quietLogger(), WithNotFoundPrefix(testPrefix))
	ctx := context.Background()

	if err := s.Seed(ctx); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := s.Seed(ctx); err != nil {
		t.Fatalf("second Seed should be idempotent: %v", err)
	}
	users, err := s.FindAll(ctx)
	if err != nil || len(users) != 3 {
		t.Fatalf("FindAll = %d users, %v", len(users), err)
	}
	u, err := s.FindByName(ctx, "admin")
	if err != nil || !s.CheckPassword(u, "password") {
		t.Errorf("seeded admin should verify: %v", err)
	}
}
