package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mohammadpnp/math-server/internal/bootstrap"
	"github.com/mohammadpnp/math-server/internal/config"
	"github.com/mohammadpnp/math-server/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "math-server",
		Short:        "Math model server with personnel feed import",
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCmd(), newImportCmd(), newUnlockImportCmd(), newUnlockJobsCmd())
	return cmd
}

// setup loads config and wires the app. The caller must Close the app.
func setup(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	app, err := bootstrap.NewApp(ctx, cfg, logrus.NewEntry(logger))
	if err != nil {
		logger.WithError(err).Error("startup failed")
		return nil, err
	}
	return app, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the calculation workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			recovered, err := app.RecoverInterrupted(cmd.Context())
			if err != nil {
				return err
			}
			if recovered > 0 {
				app.Logger.WithField("jobs", recovered).Warn("released calculations interrupted by the last shutdown")
			}

			workerCtx, stopWorkers := context.WithCancel(context.Background())
			defer stopWorkers()
			app.Runner.Start(workerCtx)

			serverErr := make(chan error, 1)
			go func() {
				app.Logger.WithField("port", app.Config.Port).Info("http server listening")
				if err := app.Server.Start(":" + app.Config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case <-quit:
			case err := <-serverErr:
				app.Logger.WithError(err).Error("http server failed")
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := app.Server.Shutdown(ctx); err != nil {
				app.Logger.WithError(err).Error("graceful shutdown failed")
			}
			app.Drain(stopWorkers)
			app.Logger.Info("server stopped")
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Run one feed import in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			out, err := app.Coordinator.RequestImport(cmd.Context(), user)
			if err != nil {
				return err
			}
			if !out.Accepted {
				return fmt.Errorf("import requested by %s at %s is still pending", out.PendingUser, out.PendingSince.Format(time.RFC3339))
			}

			app.Coordinator.Wait()
			fmt.Fprintf(cmd.OutOrStdout(), "import %s finished, see notifications for %s\n", out.ImportID, user)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "system", "user that receives the import notification")
	return cmd
}

func newUnlockImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock-import",
		Short: "Clear a pending import left behind by a crashed process",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			released, err := app.Coordinator.ReleasePending(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "released %d pending import(s)\n", released)
			return nil
		},
	}
}

func newUnlockJobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock-jobs",
		Short: "Fail calculations left processing by a stopped server; run only while no server is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			released, err := app.Runner.ReleaseInterrupted(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "released %d processing calculation(s)\n", released)
			return nil
		},
	}
}
