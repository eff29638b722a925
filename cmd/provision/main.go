// Command provision creates the administrative account. Running it again is
// harmless: an existing account is left alone unless --reset-password is set.
package main

import (
	"context"
	"file-panel/internal/auth"
	"file-panel/internal/config"
	"file-panel/internal/database"
	"file-panel/internal/logger"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const generatedPasswordSize = 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Cannot load configuration: %v", err)
	}

	flags := pflag.NewFlagSet("provision", pflag.ExitOnError)
	username := flags.String("username", cfg.Admin.Username, "account username")
	email := flags.String("email", cfg.Admin.Email, "account email (optional)")
	password := flags.String("password", cfg.Admin.Password, "account password; generated when empty")
	resetPassword := flags.Bool("reset-password", false, "replace the password of an existing account and re-enable it")
	flags.Parse(os.Args[1:])

	cfg.Admin.Username = *username
	cfg.Admin.Email = *email
	cfg.Admin.Password = *password
	if err := cfg.Validate("DB.Source", "Admin.Username", "Admin.Email"); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Cannot initialise logger: %v", err)
	}
	defer zlog.Sync()

	if err := provision(context.Background(), cfg, *resetPassword, zlog); err != nil {
		zlog.Error("provisioning failed", zap.Error(err))
		zlog.Sync()
		os.Exit(1)
	}
}

func provision(ctx context.Context, cfg *config.Config, resetPassword bool, zlog *zap.Logger) error {
	dbpool, err := pgxpool.New(ctx, cfg.DB.Source)
	if err != nil {
		return err
	}
	defer dbpool.Close()
	store := database.NewStore(dbpool, nil)

	password, generated, err := choosePassword(cfg.Admin.Password)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	var email *string
	if cfg.Admin.Email != "" {
		email = &cfg.Admin.Email
	}

	user, created, err := store.EnsureUser(ctx, database.CreateUserParams{
		Username:     cfg.Admin.Username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	})
	if err != nil {
		return fmt.Errorf("ensure user %q: %w", cfg.Admin.Username, err)
	}

	switch {
	case created:
		zlog.Info("administrative account created", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	case resetPassword:
		err := store.ExecTx(ctx, func(q *database.Queries) error {
			if err := q.UpdateUserPassword(ctx, user.ID, hash); err != nil {
				return err
			}
			if err := q.SetUserActive(ctx, user.ID, true); err != nil {
				return err
			}
			return q.DeleteAllSessionsForUser(ctx, user.ID)
		})
		if err != nil {
			return fmt.Errorf("reset password for %q: %w", user.Username, err)
		}
		zlog.Info("administrative account password reset", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	default:
		zlog.Info("administrative account already exists, nothing changed", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
		return nil
	}

	if generated {
		fmt.Printf("Generated password for %s: %s\n", user.Username, password)
	}
	return nil
}

func choosePassword(configured string) (string, bool, error) {
	if configured != "" {
		return configured, false, nil
	}
	generateID, err := nanoid.Standard(generatedPasswordSize)
	if err != nil {
		return "", false, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}
	return generateID(), true, nil
}
