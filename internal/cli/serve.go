package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"rental-reconciliation/internal/api"
	"rental-reconciliation/internal/gateway"
	"rental-reconciliation/internal/usecase"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reconciliation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	mustBind(a.v, "listen_addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	engine, err := a.engine()
	if err != nil {
		return err
	}

	var opts []usecase.Option
	var runs api.RunStore
	if a.cfg.DBPath != "" {
		db, err := gateway.InitDB(a.cfg.DBPath)
		if err != nil {
			return fmt.Errorf("could not open database: %w", err)
		}
		defer db.Close()

		repo := gateway.NewRunRepo(db)
		runs = repo
		opts = append(opts, usecase.WithSinks(repo))
	}

	uc := usecase.NewReconciliationUseCase(nil, nil, engine, opts...)
	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           api.NewRouter(uc, runs, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", srv.Addr).Bool("archive", runs != nil).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
