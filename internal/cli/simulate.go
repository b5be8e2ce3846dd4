package cli

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/SANNNNN-123/threeDials/internal/config"
	"github.com/SANNNNN-123/threeDials/internal/dial"
	"github.com/SANNNNN-123/threeDials/internal/game"
	"github.com/SANNNNN-123/threeDials/internal/service"
	"github.com/SANNNNN-123/threeDials/internal/store"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Config string
	Name   string
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play one game headlessly",
		Long: `Create a game against an in-memory store, drive the dial through the
full pipeline (drag, snap, stillness commit) until the combination opens,
and submit the result to the leaderboard.

The stillness window and reset delay come from the standard configuration,
so a short THREEDIALS_QUIET_WINDOW makes the run near-instant.

Example:
  threedials simulate
  threedials simulate --name robot --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&opts.Name, "name", "simulator", "player name for the submission")

	return cmd
}

var simGeo = dial.Geometry{Center: dial.Point{X: 150, Y: 150}, Radius: 150}

func simPoint(deg float64) dial.Point {
	rad := deg * math.Pi / 180
	return dial.Point{
		X: simGeo.Center.X + simGeo.Radius*math.Cos(rad),
		Y: simGeo.Center.Y + simGeo.Radius*math.Sin(rad),
	}
}

func runSimulate(opts *SimulateOptions, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mem := store.NewMemory(cfg.SessionTTL)
	defer mem.Close()
	games := service.NewGames(mem)
	leaderboard := service.NewLeaderboard(mem, games)

	g, err := games.Create(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to create game", err)
	}

	commits := make(chan game.Outcome, 8)
	w := game.NewWriter(mem)
	eng := game.New(simGeo, w,
		game.WithQuietWindow(cfg.QuietWindow),
		game.WithResetDelay(cfg.ResetDelay),
		game.WithOnCommit(func(o game.Outcome) { commits <- o }),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- eng.Run(runCtx) }()

	eng.StartSession(game.Session{ID: g.SessionID, Targets: g.Targets, StartedAt: time.Now()})

	rotation := 0.0
	var last game.Outcome
	for _, target := range g.Targets {
		rotation = enqueueSpin(eng, rotation, target)
		select {
		case last = <-commits:
		case <-time.After(cfg.QuietWindow + 5*time.Second):
			eng.Stop()
			<-runErr
			w.Close()
			return WrapExitError(ExitFailure, "dial never settled", nil)
		}
	}

	eng.Stop()
	<-runErr
	// Flush pending attempt writes before verifying the log.
	w.Close()

	if !last.Completed {
		return WrapExitError(ExitFailure, "combination did not complete", nil)
	}

	seconds := int(math.Ceil(last.Elapsed.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	if err := leaderboard.Submit(ctx, g.SessionID, opts.Name, seconds, ""); err != nil {
		return WrapExitError(ExitFailure, "failed to submit score", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return formatter.Success(struct {
			SessionID string `json:"sessionId"`
			Targets   [3]int `json:"targets"`
			Name      string `json:"name"`
			Time      int    `json:"time"`
		}{g.SessionID, g.Targets, opts.Name, seconds})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cracked %v as %s in %ds\n", g.Targets, opts.Name, seconds)
	return nil
}

// enqueueSpin feeds a drag that leaves the dial reading value and returns the
// rotation the dial snaps to. The drag always covers at least one full turn
// when the dial already shows the value, so the stillness window arms.
func enqueueSpin(eng *game.Engine, rotation float64, value int) float64 {
	target := float64((dial.Markers-value)%dial.Markers) * dial.MarkerAngle
	cur := math.Mod(math.Mod(rotation, 360)+360, 360)
	delta := target - cur
	if delta > 180 {
		delta -= 360
	} else if delta < -180 {
		delta += 360
	}
	if delta == 0 {
		delta = 360
	}

	eng.Enqueue(game.Event{Type: game.EventPointerDown, Point: simPoint(0)})
	const steps = 8
	for i := 1; i <= steps; i++ {
		eng.Enqueue(game.Event{Type: game.EventPointerMove, Point: simPoint(delta * float64(i) / steps)})
	}
	eng.Enqueue(game.Event{Type: game.EventPointerUp})
	return rotation + delta
}
