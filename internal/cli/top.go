package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SANNNNN-123/threeDials/internal/config"
	"github.com/SANNNNN-123/threeDials/internal/service"
)

// TopOptions holds flags for the top command.
type TopOptions struct {
	*RootOptions
	Config string
	Limit  int
}

// NewTopCommand creates the top command.
func NewTopCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TopOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the leaderboard",
		Long: `Print the best completion times, fastest first.

Example:
  threedials top
  threedials top --limit 25 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to YAML config file")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum entries to print (default from config)")

	return cmd
}

func runTop(opts *TopOptions, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sessions, board, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer closeStores()

	games := service.NewGames(sessions)
	leaderboard := service.NewLeaderboard(board, games)

	limit := opts.Limit
	if limit <= 0 {
		limit = cfg.LeaderboardSize
	}
	entries, err := leaderboard.Top(ctx, limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read leaderboard", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: out, Verbose: opts.Verbose}
		return formatter.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "Leaderboard is empty.")
		return nil
	}
	fmt.Fprintf(out, "%-5s %-20s %8s  %s\n", "RANK", "NAME", "TIME", "COUNTRY")
	for i, e := range entries {
		fmt.Fprintf(out, "%-5d %-20s %7ds  %s\n", i+1, e.Name, e.Time, e.Country)
	}
	return nil
}
