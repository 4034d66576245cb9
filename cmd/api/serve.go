package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pet-adoption-hub/internal/adapters/auth/jwtauth"
	"pet-adoption-hub/internal/adapters/notify/logsink"
	"pet-adoption-hub/internal/adapters/notify/webhook"
	pg "pet-adoption-hub/internal/adapters/storage/postgres"
	"pet-adoption-hub/internal/platform/config"
	"pet-adoption-hub/internal/platform/logger"
	"pet-adoption-hub/internal/ports/auth"
	"pet-adoption-hub/internal/ports/notify"
	"pet-adoption-hub/internal/router"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Levanta el servidor HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	var verifier auth.AuthVerifier
	if cfg.DevMode() {
		log.Warn("jwt secret not set, running in dev mode (X-Debug-User-ID)", nil)
	} else {
		verifier = jwtauth.NewVerifier(jwtauth.Config{
			Secret: cfg.JWT.Secret,
			Issuer: cfg.JWT.Issuer,
			TTL:    cfg.JWT.TokenTTL,
		})
	}

	notifier, err := buildNotifier(cfg, log)
	if err != nil {
		return err
	}

	h := router.NewRouter(router.Options{
		AuthVerifier:      verifier,
		DB:                db,
		Logger:            log,
		Notifier:          notifier,
		HoldPetOnSubmit:   cfg.Adoptions.HoldPetOnSubmit,
		CompletionRetries: cfg.Adoptions.CompletionRetries,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "postgres": db != nil})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server", nil)
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", map[string]any{"error": err.Error()})
		return err
	}
	log.Info("server exited", nil)
	return nil
}

// openDB devuelve nil sin DSN: el router usa repos in-memory.
func openDB(ctx context.Context, cfg config.Config, log logger.Logger) (*sql.DB, error) {
	if cfg.DB.DSN == "" {
		log.Warn("db dsn not set, using in-memory storage", nil)
		return nil, nil
	}
	db, err := pg.Open(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		n, err := pg.Migrate(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("migrations applied", map[string]any{"count": n})
	}
	return db, nil
}

func buildNotifier(cfg config.Config, log logger.Logger) (notify.Notifier, error) {
	if cfg.Notify.WebhookURL == "" {
		return logsink.New(log), nil
	}
	n, err := webhook.New(cfg.Notify.WebhookURL, cfg.Notify.Timeout)
	if err != nil {
		return nil, err
	}
	log.Info("notifications via webhook", map[string]any{"url": cfg.Notify.WebhookURL})
	return n, nil
}
