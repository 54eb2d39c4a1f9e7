// Команда seed-admin заводит учётную запись администратора или преподавателя.
// Самостоятельная регистрация отключена, поэтому первый вход возможен
// только после запуска этой команды.
//
//	CONFIG_PATH=config/local.yaml seed-admin -email admin@university.edu -password secret123 -role ADMIN
//
// Если email уже занят, пароль сбрасывается, роль меняется на указанную,
// а учётная запись включается.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"

	"github.com/magabrotheeeer/university-portal/internal/config"
	"github.com/magabrotheeeer/university-portal/internal/lib/sl"
	"github.com/magabrotheeeer/university-portal/internal/migrations"
	"github.com/magabrotheeeer/university-portal/internal/models"
	"github.com/magabrotheeeer/university-portal/internal/services/audit"
	authservice "github.com/magabrotheeeer/university-portal/internal/services/auth"
	usersservice "github.com/magabrotheeeer/university-portal/internal/services/users"
	"github.com/magabrotheeeer/university-portal/internal/storage"
)

func main() {
	email := flag.String("email", "", "email учётной записи")
	password := flag.String("password", "", "пароль, не короче 6 символов")
	roleName := flag.String("role", models.RoleAdmin.String(), "роль: ADMIN или TEACHER")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(logger, *email, *password, *roleName); err != nil {
		logger.Error("seed failed", sl.Err(err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, email, password, roleName string) error {
	const op = "seed-admin.run"

	role, err := models.ParseRole(roleName)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !role.CanSignIn() {
		return fmt.Errorf("%s: role %s cannot sign in to the panel", op, role)
	}
	if utf8.RuneCountInString(password) < authservice.MinPasswordLength {
		return fmt.Errorf("%s: password must be at least %d characters", op, authservice.MinPasswordLength)
	}

	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	service := usersservice.New(logger, db, audit.NewLogPublisher(logger))
	id, created, err := service.EnsureAccount(ctx, email, password, role)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if created {
		logger.Info("account created", sl.UserID(id), slog.String("role", role.String()))
	} else {
		logger.Info("existing account reset", sl.UserID(id), slog.String("role", role.String()))
	}
	return nil
}
