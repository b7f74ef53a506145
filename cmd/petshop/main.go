// Command petshop serves the pet search API over a SQLite database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/apulbere/crop/internal/petshop"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   `petshop`,
		Short: `Pet search API`,
		Long:  `Searches pets by their fields, type, category and features, with ordering and paging.`,
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMigrateCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   `serve`,
		Short: `Migrate the database and serve the API`,
		Long: `Open the SQLite database, apply migrations, optionally seed demo data,
and serve GET /pets, GET /pets/count and GET /metrics.

Example:
  petshop serve --db ./petshop.db --seed
  PETSHOP_LOG_LEVEL=debug petshop serve --addr :9090`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	addConfigFlags(cmd)
	return cmd
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           `migrate`,
		Short:         `Apply migrations and exit`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := petshop.Open(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			if cfg.Seed {
				return petshop.Seed(ctx, db)
			}
			return nil
		},
	}

	addConfigFlags(cmd)
	return cmd
}

func serve(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf(`failed to create logger: %w`, err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info(`opening database`, zap.String(`path`, cfg.DB))
	db, err := petshop.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Seed {
		if err := petshop.Seed(ctx, db); err != nil {
			return err
		}
		log.Info(`seeded demo data`)
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: petshop.NewServer(db, petshop.WithLogger(log)).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(`listening`, zap.String(`addr`, cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(`shutting down`)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
