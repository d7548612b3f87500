// seed inserts development sample data for local testing: go run ./cmd/seed
// Idempotent: skips everything if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"org-membership-service/internal/config"
	"org-membership-service/internal/db"
	identitydomain "org-membership-service/internal/identity/domain"
	membershipservice "org-membership-service/internal/membership/service"
	"org-membership-service/internal/platform/logging"
	"org-membership-service/internal/security"
	"org-membership-service/internal/server"
	userrepo "org-membership-service/internal/user/repository"
)

const (
	devUserEmail = "dev@example.com"
	memberEmail  = "member@example.com"
	devPassword  = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := seed(context.Background(), cfg, logger); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}

func seed(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer sqlDB.Close()
	gdb, err := db.NewGorm(sqlDB, logger)
	if err != nil {
		return fmt.Errorf("gorm: %w", err)
	}

	existing, err := userrepo.NewPostgresRepository(gdb).GetByEmail(ctx, devUserEmail)
	if err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if existing != nil {
		logger.Info("seed already applied; skipping", zap.String("email", devUserEmail))
		return nil
	}

	tokens, err := server.NewTokenProvider(cfg)
	if err != nil {
		return err
	}
	svcs := server.NewServices(gdb, tokens, security.NewHasher(cfg.BcryptCost), nil, logger)

	dev, err := svcs.Auth.Register(ctx, identitydomain.Registration{
		FirstName: "Dev",
		LastName:  "User",
		Email:     devUserEmail,
		Password:  devPassword,
	})
	if err != nil {
		return fmt.Errorf("register dev user: %w", err)
	}
	member, err := svcs.Auth.Register(ctx, identitydomain.Registration{
		FirstName: "Member",
		LastName:  "User",
		Email:     memberEmail,
		Password:  devPassword,
	})
	if err != nil {
		return fmt.Errorf("register member user: %w", err)
	}

	orgs, err := svcs.Orgs.ListForUser(ctx, dev.User.ID)
	if err != nil {
		return fmt.Errorf("list dev orgs: %w", err)
	}
	if len(orgs) == 0 {
		return fmt.Errorf("dev user has no organisation")
	}
	if _, err := svcs.Memberships.AddMember(ctx, dev.User.ID, orgs[0].ID, membershipservice.AddMemberInput{
		UserID: member.User.ID,
	}); err != nil {
		return fmt.Errorf("add member: %w", err)
	}

	logger.Info("seed applied",
		zap.String("dev_user_id", dev.User.ID),
		zap.String("member_user_id", member.User.ID),
		zap.String("org_id", orgs[0].ID))
	return nil
}
