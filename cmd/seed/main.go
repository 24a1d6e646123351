// Command seed creates or refreshes the superuser account from
// SUPERUSER_NAME and SUPERUSER_PASSWD. Run once after deployment; rerun
// to rotate the password.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"livingdocs/internal/config"
	"livingdocs/internal/domain"
	"livingdocs/internal/domain/models"
	"livingdocs/internal/repository/postgres"
	"livingdocs/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	username := os.Getenv("SUPERUSER_NAME")
	password := os.Getenv("SUPERUSER_PASSWD")
	if username == "" || password == "" {
		log.Fatal("SUPERUSER_NAME and SUPERUSER_PASSWD must be set")
	}
	if len(password) < config.MinPasswordLength {
		log.Fatalf("SUPERUSER_PASSWD must be at least %d characters", config.MinPasswordLength)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	userRepo := postgres.NewUserRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})

	hash, err := service.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	existing, err := userRepo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		existing.PasswordHash = hash
		existing.IsAdmin = true
		existing.IsActive = true
		if err := userRepo.Update(ctx, existing); err != nil {
			log.Fatalf("Failed to update superuser: %v", err)
		}
		logger.Info("superuser refreshed", "username", username)
	case errors.Is(err, domain.ErrNotFound):
		user := &models.User{
			ID:           uuid.New().String(),
			Username:     username,
			PasswordHash: hash,
			IsAdmin:      true,
			IsActive:     true,
			Created:      time.Now(),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create superuser: %v", err)
		}
		logger.Info("superuser created", "username", username)
	default:
		log.Fatalf("Failed to look up superuser: %v", err)
	}
}
