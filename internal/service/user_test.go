package service

import (
	"context"
	"errors"
	"testing"

	"livingdocs/internal/domain"
	"livingdocs/internal/domain/models"
)

func TestUserCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.userSvc.Create(ctx, &models.CreateUserRequest{
		Username: "alice",
		Password: "long enough",
		Email:    "alice@example.com",
		IsAdmin:  true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !user.IsActive {
		t.Error("new user not active")
	}
	if user.PasswordHash == "long enough" {
		t.Error("password stored in plaintext")
	}

	// Duplicate username
	_, err = env.userSvc.Create(ctx, &models.CreateUserRequest{Username: "alice", Password: "long enough"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate username error = %v, want ErrConflict", err)
	}
}

func TestUserCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *models.CreateUserRequest
	}{
		{"short password", &models.CreateUserRequest{Username: "alice", Password: "short"}},
		{"short username", &models.CreateUserRequest{Username: "ab", Password: "long enough"}},
		{"bad username chars", &models.CreateUserRequest{Username: "al ice", Password: "long enough"}},
		{"bad email", &models.CreateUserRequest{Username: "alice", Password: "long enough", Email: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.userSvc.Create(ctx, tt.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUserUpdatePartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.userSvc.Create(ctx, &models.CreateUserRequest{
		Username: "alice", Password: "long enough", Email: "old@example.com",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Only the provided field changes
	isAdmin := true
	updated, err := env.userSvc.Update(ctx, user.ID, &models.UpdateUserRequest{IsAdmin: &isAdmin})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.IsAdmin {
		t.Error("admin flag not set")
	}
	if updated.Email != "old@example.com" {
		t.Errorf("Email = %q, want unchanged", updated.Email)
	}

	// Short replacement password rejected
	short := "short"
	if _, err := env.userSvc.Update(ctx, user.ID, &models.UpdateUserRequest{Password: &short}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("short password error = %v, want ErrValidation", err)
	}

	// Deactivation
	inactive := false
	updated, err = env.userSvc.Update(ctx, user.ID, &models.UpdateUserRequest{IsActive: &inactive})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.IsActive {
		t.Error("user still active after deactivation")
	}
}

func TestUserDeleteRemovesOwnedContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.userSvc.Create(ctx, &models.CreateUserRequest{
		Username: "alice", Password: "long enough",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	doc := mustCreateDoc(t, env, user.ID, "report.txt", []byte("v1"))
	keeper := mustCreateDoc(t, env, "other-owner", "keep.txt", []byte("k"))

	if err := env.userSvc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := env.userSvc.Get(ctx, user.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := env.store.Read(doc.CurrentPath); err == nil {
		t.Error("deleted user's blob survived")
	}
	if _, err := env.store.Read(keeper.CurrentPath); err != nil {
		t.Errorf("other owner's blob affected: %v", err)
	}
}
