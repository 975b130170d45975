package main

import (
	"fmt"

	"climateforum/internal/config"
	"climateforum/internal/database"
	"climateforum/internal/repository"
	"climateforum/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// openDB is replaced in tests.
var openDB = func() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return database.Connect(cfg)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "forumctl",
		Short:         "Administer the Climate Community forum",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			_ = godotenv.Load()
		},
	}

	root.AddCommand(
		migrateCommand(),
		seedCommand(),
		moderatorCommand(),
		reportsCommand(),
	)
	return root
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Connect runs the schema initializer.
			db, err := openDB()
			if err != nil {
				return err
			}
			users, err := service.NewUserService(repository.NewUserRepository(db)).CountUsers(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema is up to date (%d users)\n", users)
			return nil
		},
	}
}
