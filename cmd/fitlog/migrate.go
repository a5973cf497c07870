package main

import (
	"fmt"
	"os"

	"github.com/meltforce/fitlog/internal/config"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsPath, "migrations", "migrations", "directory of postgres migrations")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	log := newLogger(os.Stdout)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openStore(cmd.Context(), cfg.Database, migrationsPath, log)
	if err != nil {
		return err
	}
	log.Info("migrate: schema up to date", "driver", cfg.Database.Driver)
	return db.Close()
}
