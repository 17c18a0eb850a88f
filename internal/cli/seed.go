package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rental-reconciliation/internal/domain"
	"rental-reconciliation/internal/gateway"
)

func newSeedCommand(a *app) *cobra.Command {
	var transactionsPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load rentals from a file into the SQLite store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.DBPath == "" {
				return &domain.ValidationError{Field: "db", Message: "required"}
			}

			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}
			rentals, err := gateway.LoadTransactions(transactionsPath, loc)
			if err != nil {
				return fmt.Errorf("could not get transactions: %w", err)
			}

			db, err := gateway.InitDB(a.cfg.DBPath)
			if err != nil {
				return fmt.Errorf("could not open database: %w", err)
			}
			defer db.Close()

			inserted, err := gateway.NewRentalRepo(db).BulkInsert(cmd.Context(), rentals)
			if err != nil {
				return fmt.Errorf("could not seed rentals: %w", err)
			}

			a.logger.Info().
				Str("db", a.cfg.DBPath).
				Int("read", len(rentals)).
				Int("inserted", inserted).
				Msg("rentals seeded")
			return nil
		},
	}

	cmd.Flags().StringVar(&transactionsPath, "transactions", "", "rentals file (.csv, .json, .yaml) (required)")
	_ = cmd.MarkFlagRequired("transactions")
	return cmd
}
