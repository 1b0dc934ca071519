package cli

import (
	"fmt"
	"log"

	"github.com/VncsRaniery/habitask-sub001/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.Init(cfg.Database)
		if err != nil {
			return fmt.Errorf("init database: %w", err)
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		log.Printf("schema up to date: %s", cfg.Database.Path)
		return nil
	},
}
