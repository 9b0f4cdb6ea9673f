package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bookwise/calsync/internal/calendar"
	"github.com/bookwise/calsync/internal/google"
	"github.com/bookwise/calsync/internal/store"
	"github.com/bookwise/calsync/internal/sync"
)

func newPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push a booking's state to the calendar provider",
	}

	cmd.AddCommand(
		newPushOpCmd("create", "Create the calendar event for a booking",
			func(ctx context.Context, syncer *sync.Syncer, bookingID uuid.UUID) error {
				return syncer.CreateEvent(ctx, bookingID)
			}),
		newPushOpCmd("update", "Update the calendar event for a booking",
			func(ctx context.Context, syncer *sync.Syncer, bookingID uuid.UUID) error {
				return syncer.UpdateEvent(ctx, bookingID)
			}),
		newPushOpCmd("delete", "Delete the calendar event for a booking",
			func(ctx context.Context, syncer *sync.Syncer, bookingID uuid.UUID) error {
				return syncer.DeleteEvent(ctx, bookingID)
			}),
	)

	return cmd
}

func newPushOpCmd(op, short string, run func(ctx context.Context, syncer *sync.Syncer, bookingID uuid.UUID) error) *cobra.Command {
	var bookingID string

	cmd := &cobra.Command{
		Use:   op,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(bookingID)
			if err != nil {
				return fmt.Errorf("invalid booking ID %q: %w", bookingID, err)
			}

			syncer, err := buildSyncer()
			if err != nil {
				return err
			}

			return run(context.Background(), syncer, id)
		},
	}

	cmd.Flags().StringVar(&bookingID, "booking", "", "ID of the booking to sync")
	_ = cmd.MarkFlagRequired("booking")

	return cmd
}

// buildSyncer wires the store, the OAuth client source and the calendar
// factory into a Syncer from the runtime configuration.
func buildSyncer() (*sync.Syncer, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, err
	}

	conf, err := google.OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	factory := calendar.NewFactory(google.NewClientSource(conf, st))
	clients := sync.ProviderFactoryFunc(func(ctx context.Context, userID uuid.UUID) (sync.Provider, error) {
		return factory.ClientForUser(ctx, userID)
	})

	return sync.New(st, clients, logger), nil
}
