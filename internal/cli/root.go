package cli

import (
	"github.com/spf13/cobra"
	"github.com/terraincognita07/askesis/internal/config"
)

// NewRootCommand assembles the askesis command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "askesis",
		Short:         "Commitment tracking service for daily practices",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "Path to a TOML config file (defaults to $ASKESIS_CONFIG)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newProgressCommand())
	root.AddCommand(newPromoteCommand())
	root.AddCommand(newTokenCommand())
	root.AddCommand(newSecretCommand())
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}
