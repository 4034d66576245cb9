package main

import (
	"errors"

	"github.com/spf13/cobra"

	pg "pet-adoption-hub/internal/adapters/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones SQL pendientes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DB.DSN == "" {
			return errors.New("migrate: db.dsn is required")
		}

		db, err := pg.Open(cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := pg.Migrate(cmd.Context(), db)
		if err != nil {
			return err
		}
		log.Info("migrations applied", map[string]any{"count": n})
		return nil
	},
}
