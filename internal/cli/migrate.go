package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/askesis/internal/db"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and list the applied versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runMigrate(cfg.DatabaseTarget(), cmd.OutOrStdout())
		},
	}
}

// runMigrate relies on db.Open applying every embedded migration.
func runMigrate(target string, out io.Writer) error {
	database, err := db.Open(target, nil)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	versions, err := db.AppliedMigrations(database)
	if err != nil {
		return err
	}
	for _, version := range versions {
		fmt.Fprintf(out, "applied %s\n", version)
	}
	fmt.Fprintf(out, "%d migration(s) applied\n", len(versions))
	return nil
}
