package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/askesis/internal/db"
	"github.com/terraincognita07/askesis/internal/models"
	"github.com/terraincognita07/askesis/internal/services"
)

func newPromoteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Grant the ADMIN role to an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString("email")
			return runPromote(cmd.Context(), cfg.DatabaseTarget(), email, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("email", "", "Email of the user to promote")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runPromote(ctx context.Context, target string, email string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	normalizedEmail := services.NormalizeEmail(email)
	if normalizedEmail == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	database, err := db.Open(target, nil)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	users := db.NewRepositories(database).Users

	user, found, err := users.FindByNormalizedEmail(ctx, normalizedEmail)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if !found {
		return fmt.Errorf("user %s not found", normalizedEmail)
	}
	if user.Role == models.RoleAdmin {
		fmt.Fprintf(out, "%s is already an admin\n", normalizedEmail)
		return nil
	}

	if err := users.UpdateByID(ctx, user.ID, map[string]any{"role": models.RoleAdmin}); err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	fmt.Fprintf(out, "%s promoted to admin\n", normalizedEmail)
	return nil
}
