// Command server runs the Harborview clubhouse API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"

	fiberadapter "github.com/harborview/clubhouse/adapters/fiber"
	pgxadapter "github.com/harborview/clubhouse/adapters/pgx"
	"github.com/harborview/clubhouse/config"
	"github.com/harborview/clubhouse/core"
	"github.com/harborview/clubhouse/pkg/crypto"
	"github.com/harborview/clubhouse/pkg/mail"
	"github.com/harborview/clubhouse/services"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogFormat)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(format string) *slog.Logger {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	return slog.New(handler)
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := migrate(cfg.DatabaseURL, log); err != nil {
			return err
		}
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	storage := pgxadapter.New(pool)
	hasher := crypto.NewPBKDF2()

	var mailer mail.Sender
	if cfg.Mail.Endpoint != "" {
		mailer = mail.NewHTTPSender(cfg.Mail.Endpoint, cfg.Mail.APIKey, cfg.Mail.From)
	} else {
		log.Warn("no mail endpoint configured, outbound mail will be logged")
		mailer = mail.NewLogSender(log)
	}

	sessions := services.NewSessionManager(core.SessionConfig{MaxAge: cfg.SessionMaxAge}, storage)
	gate := services.NewGate(sessions, storage)
	auth := services.NewAuthService(storage, sessions, hasher)
	resets := services.NewPasswordResetService(storage, storage, sessions, hasher, mailer, log, cfg.BaseURL)
	events := services.NewEventService(storage)
	admin := services.NewAdminService(storage, sessions)

	app := fiber.New()
	app.Use(recoverer.New())
	app.Use(logger.New())

	fiberadapter.New(auth, resets, events, admin, gate, fiberadapter.Options{
		CookieSecure: cfg.CookieSecure,
	}).RegisterRoutes(app)

	if cfg.JanitorInterval > 0 {
		go janitor(ctx, cfg.JanitorInterval, sessions, resets, log)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

func migrate(databaseURL string, log *slog.Logger) error {
	migrator, err := pgxadapter.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Error("failed to close migrator", "error", err)
		}
	}()

	if err := migrator.Up(); err != nil {
		return err
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	log.Info("schema up to date", "version", version, "dirty", dirty)
	return nil
}

// janitor garbage-collects expired sessions and reset tokens. Correctness
// never depends on it; resolution filters expiry at read time.
func janitor(ctx context.Context, interval time.Duration, sessions *services.SessionManager, resets *services.PasswordResetService, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := sessions.SweepExpired(ctx); err != nil {
				log.Error("session sweep failed", "error", err)
			} else if n > 0 {
				log.Info("swept expired sessions", "count", n)
			}
			if n, err := resets.SweepExpired(ctx); err != nil {
				log.Error("reset sweep failed", "error", err)
			} else if n > 0 {
				log.Info("swept expired reset tokens", "count", n)
			}
		}
	}
}
