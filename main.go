package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LovationAdmin/birthday-api/config"
	"github.com/LovationAdmin/birthday-api/repositories"
	"github.com/LovationAdmin/birthday-api/routes"
	"github.com/LovationAdmin/birthday-api/services"
	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var release = "dev"

func main() {
	root := &cobra.Command{
		Use:           "birthday-api",
		Short:         "Birthday invitation and RSVP backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run migrations and start the HTTP server",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending database migrations and exit",
			RunE:  runMigrate,
		},
		&cobra.Command{
			Use:   "create-admin",
			Short: "Create the ADMIN_USERNAME account if it does not exist",
			RunE:  runCreateAdmin,
		},
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

// bootstrap loads config, installs the logger and error tracking, and opens the database.
func bootstrap() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	utils.InitLogger(cfg.LogLevel, cfg.IsProduction())

	if cfg.SentryDSN != "" {
		initSentry(cfg)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	slog.Info("database connected")

	return cfg, db, nil
}

func initSentry(cfg *config.Config) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          release,
		Debug:            cfg.Environment == "development",
		AttachStacktrace: true,
		SendDefaultPII:   false,
	})
	if err != nil {
		slog.Error("failed to init error tracking", "err", err)
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	return config.RunMigrations(db)
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set")
	}

	created, err := ensureAdmin(cmd.Context(), cfg, repositories.NewPostgresStore(db))
	if err != nil {
		return err
	}
	if !created {
		slog.Info("admin account already exists", "email", utils.MaskEmail(cfg.AdminUsername))
	}
	return nil
}

func ensureAdmin(ctx context.Context, cfg *config.Config, store repositories.Store) (bool, error) {
	auth := services.NewAuthService(store, nil, nil, false)
	return auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminCompanyName)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()
	defer sentry.Flush(5 * time.Second)

	if !cfg.DisableAutoMigrate {
		if err := config.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	cipher, err := utils.NewCipher(cfg.DataEncryptionKey)
	if err != nil {
		return err
	}
	if !cipher.Enabled() {
		slog.Warn("DATA_ENCRYPTION_KEY not set, 2FA setup is disabled")
	}

	store := repositories.NewPostgresStore(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := ensureAdmin(ctx, cfg, store); err != nil {
		slog.Error("admin bootstrap failed", "err", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app := routes.NewRouter(routes.Deps{
		Store:                    store,
		Tokens:                   utils.NewTokenManager(cfg.JWTSecret, cfg.JWTLifetime),
		Cipher:                   cipher,
		Email:                    services.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.FrontendURL),
		AllowRegister:            cfg.AllowRegister,
		RedactPublicContacts:     cfg.RedactPublicContacts,
		AllowedOrigins:           cfg.Origins(),
		TrustedProxies:           cfg.TrustedProxies,
		RateLimitPerMinute:       cfg.RateLimitPerMinute,
		PublicRateLimitPerMinute: cfg.PublicRateLimitPerMinute,
	})
	defer app.Close()
	app.RunCleanup(ctx)

	for _, origin := range cfg.Origins() {
		slog.Info("CORS origin allowed", "origin", origin)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", utils.GetEnvMode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
