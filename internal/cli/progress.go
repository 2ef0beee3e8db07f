package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/askesis/internal/db"
	"github.com/terraincognita07/askesis/internal/services"
)

func newProgressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Print progress statistics for a user's active commitments as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString("user")
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			return runProgress(cmd.Context(), cfg.DatabaseTarget(), email, from, to, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("user", "", "Email of the user")
	cmd.Flags().String("from", "", "First day of the window (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Last day of the window (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func runProgress(ctx context.Context, target string, email string, from string, to string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(email) == "" {
		return errors.New("email is required")
	}

	database, err := db.Open(target, nil)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	repositories := db.NewRepositories(database)

	user, err := services.NewUserService(repositories.Users, nil).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fmt.Errorf("user %s not found", services.NormalizeEmail(email))
		}
		return err
	}

	progress, err := services.NewProgressService(repositories.Commitments).Progress(ctx, user.ID, from, to)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(progress)
}
