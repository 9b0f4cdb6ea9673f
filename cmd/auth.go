package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bookwise/calsync/internal/google"
	"github.com/bookwise/calsync/internal/store"
)

func newAuthCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Connect a user's Google Calendar",
		Long: `Print the Google consent URL, read the authorization code from stdin,
exchange it for tokens and store the credential for the user.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateDatabase(); err != nil {
				return err
			}

			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid user ID %q: %w", userID, err)
			}

			conf, err := google.OAuthConfig(cfg)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Go to the following link in your browser, then type the authorization code:\n%v\n",
				google.AuthURL(conf))

			var authCode string
			if _, err := fmt.Fscan(cmd.InOrStdin(), &authCode); err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}

			if err := google.Exchange(context.Background(), conf, st, id, authCode); err != nil {
				return err
			}

			logger.Info("credential stored", "user_id", id.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "ID of the user to connect")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
