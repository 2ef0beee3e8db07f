package cli

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/askesis/internal/security"
	"github.com/terraincognita07/askesis/internal/services"
)

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL.Duration
			}
			return runToken(cfg.Auth.Secret, email, name, ttl, time.Now(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("email", "", "Email carried by the token")
	cmd.Flags().String("name", "", "Display name carried by the token")
	cmd.Flags().Duration("ttl", 0, "Token lifetime (defaults to auth.token_ttl)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runToken(secret string, email string, name string, ttl time.Duration, now time.Time, out io.Writer) error {
	normalizedEmail := services.NormalizeEmail(email)
	if normalizedEmail == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	signingKey, err := security.DeriveSigningKey(secret)
	if err != nil {
		return fmt.Errorf("derive signing key: %w", err)
	}
	token, err := security.IssueToken(signingKey, normalizedEmail, name, now, ttl)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	fmt.Fprintln(out, token)
	return nil
}
