package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SANNNNN-123/threeDials/internal/config"
	"github.com/SANNNNN-123/threeDials/internal/server"
	"github.com/SANNNNN-123/threeDials/internal/service"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Config string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the game API server.

Configuration comes from built-in defaults, an optional YAML file, and
THREEDIALS_* environment variables, in that order.

Example:
  threedials serve
  threedials serve --config ./threedials.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to YAML config file")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	slog.Info("opening store", "backend", cfg.Store)
	sessions, board, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer closeStores()

	games := service.NewGames(sessions)
	leaderboard := service.NewLeaderboard(board, games)
	api := server.New(games, leaderboard)

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to listen", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := &http.Server{Handler: api}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	slog.Info("server listening", "addr", ln.Addr().String(), "store", cfg.Store)
	fmt.Fprintf(cmd.OutOrStdout(), "Server listening on %s\n", ln.Addr().String())

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitFailure, "server error", err)
		}

	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return WrapExitError(ExitFailure, "shutdown error", err)
		}
		<-errCh
	}

	slog.Info("server stopped gracefully")
	return nil
}
