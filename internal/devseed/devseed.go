// Package devseed creates the development admin user at startup.
package devseed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tilworks/glossary/config"
	"github.com/tilworks/glossary/internal/data"
	"github.com/tilworks/glossary/internal/ports"
)

const (
	adminName     = "Admin"
	adminUsername = "admin"
)

// Seed ensures the admin user exists when seeding is enabled. Re-running
// against a seeded database is a no-op.
func Seed(ctx context.Context, cfg *config.AppConfig, users ports.UserRepository, verifier ports.CredentialVerifier) error {
	if !cfg.Auth.SeedAdmin {
		return nil
	}

	if _, err := users.GetByUsername(ctx, adminUsername); err == nil {
		return nil
	} else if !errors.Is(err, data.ErrUserNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hash, err := verifier.Hash(cfg.Auth.SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := users.Create(ctx, ports.CreateUserParams{
		Name:         adminName,
		Username:     adminUsername,
		PasswordHash: hash,
	}); err != nil {
		// A concurrent replica may have seeded first.
		if errors.Is(err, data.ErrUsernameExists) {
			return nil
		}
		return fmt.Errorf("create admin user: %w", err)
	}

	slog.Default().InfoContext(ctx, "seeded admin user", "username", adminUsername)
	return nil
}
