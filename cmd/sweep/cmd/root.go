package cmd

import (
	"context"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/buscaminas/internal/mines"
	"github.com/vancomm/buscaminas/internal/snapshot"
	"github.com/vancomm/buscaminas/internal/terminal"
)

type options struct {
	difficulty   string
	config       mines.GameConfig
	seed         uint64
	load         string
	fresh        bool
	snapshotsDir string
	verbose      bool
}

const long = `sweep is a Minesweeper game for the terminal.

Play a beginner game
	sweep

Pick a difficulty or a custom board
	sweep --difficulty expert
	sweep --difficulty 9:9:10
	sweep --rows 10 --cols 20 --mines 30

Replay a saved board from the start
	sweep --load snapshots/20240101_120000_loss.yaml --fresh
`

// NewRootCmd builds the sweep command with its own set of flags.
func NewRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:          "sweep",
		Short:        "Play Minesweeper in the terminal",
		Long:         long,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.difficulty, "difficulty", "d", "beginner", "beginner, intermediate, expert or rows:cols:mines")
	flags.IntVar(&o.config.Rows, "rows", 0, "number of rows of a custom board")
	flags.IntVar(&o.config.Cols, "cols", 0, "number of columns of a custom board")
	flags.IntVarP(&o.config.MineCount, "mines", "m", 0, "number of mines on a custom board")
	flags.Uint64Var(&o.seed, "seed", 0, "seed for mine placement (random when 0)")
	flags.StringVarP(&o.load, "load", "l", "", "snapshot file to load")
	flags.BoolVar(&o.fresh, "fresh", false, "hide every cell of the loaded snapshot")
	flags.StringVar(&o.snapshotsDir, "snapshots-dir", "", "directory to save a snapshot of each finished game")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "report every opened cell and log to stderr")
	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(
			new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
		))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// gameConfig prefers explicit dimensions over the difficulty.
func (o options) gameConfig(cmd *cobra.Command) (mines.GameConfig, error) {
	flags := cmd.Flags()
	if flags.Changed("rows") || flags.Changed("cols") || flags.Changed("mines") {
		return o.config, o.config.Validate()
	}
	config, err := mines.ParseConfig(o.difficulty)
	if err != nil {
		return mines.GameConfig{}, err
	}
	return *config, nil
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func run(cmd *cobra.Command, o options) error {
	log := newLogger(o.verbose)
	term := terminal.New(
		cmd.InOrStdin(), cmd.OutOrStdout(), newRand(o.seed),
		terminal.WithLogger(log),
		terminal.WithSnapshots(o.snapshotsDir),
		terminal.WithVerbose(o.verbose),
	)

	if o.load != "" {
		snap, err := snapshot.LoadFile(o.load)
		if err != nil {
			return err
		}
		if o.fresh {
			snap = snap.Fresh()
		}
		s, err := snap.Restore()
		if err != nil {
			return fmt.Errorf("unable to restore %s: %w", o.load, err)
		}
		log.WithField("path", o.load).Debug("loaded snapshot")
		term.Resume(s)
	} else {
		config, err := o.gameConfig(cmd)
		if err != nil {
			return err
		}
		if err := term.NewGame(config); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return term.Run(ctx)
}
