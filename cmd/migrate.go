package cmd

import (
	"fmt"
	"os"

	"books/config"
	"books/db"

	"github.com/spf13/cobra"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the book schema (table or index) and exit",
	RunE:  migrate,
}

func migrate(cmd *cobra.Command, _ []string) error {
	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := config.NewLogger(conf, os.Stdout)

	library, closer, err := db.SetupLibrary(cmd.Context(), conf)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	migrator, ok := library.(db.Migrator)
	if !ok {
		logger.Info("store needs no schema", "store", conf.Store)
		return nil
	}

	if err := migrator.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migrate %s store: %w", conf.Store, err)
	}

	logger.Info("schema ready", "store", conf.Store)
	return nil
}
