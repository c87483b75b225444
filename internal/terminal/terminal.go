// Package terminal plays a game on a text console using the same command
// lines the server understands.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/buscaminas/internal/command"
	"github.com/vancomm/buscaminas/internal/mines"
	"github.com/vancomm/buscaminas/internal/snapshot"
)

const help = `commands:
  o row col   open a cell
  f row col   toggle a flag
  c row col   chord around an open number
  r           give up
  g           show the board
  n           new game
  q           quit
`

type Terminal struct {
	in           *bufio.Scanner
	out          io.Writer
	log          logrus.FieldLogger
	rnd          *rand.Rand
	snapshotsDir string
	verbose      bool
	now          func() time.Time

	session *mines.GameSession
}

type Option func(*Terminal)

func WithLogger(log logrus.FieldLogger) Option {
	return func(t *Terminal) {
		t.log = log
	}
}

// WithSnapshots saves every finished game into dir.
func WithSnapshots(dir string) Option {
	return func(t *Terminal) {
		t.snapshotsDir = dir
	}
}

// WithVerbose prints every opened cell instead of a summary.
func WithVerbose(verbose bool) Option {
	return func(t *Terminal) {
		t.verbose = verbose
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Terminal) {
		t.now = now
	}
}

func New(in io.Reader, out io.Writer, rnd *rand.Rand, opts ...Option) *Terminal {
	log := logrus.New()
	log.SetOutput(io.Discard)
	t := &Terminal{
		in:  bufio.NewScanner(in),
		out: out,
		log: log,
		rnd: rnd,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Terminal) printf(format string, a ...any) {
	fmt.Fprintf(t.out, format, a...)
}

func (t *Terminal) attach(s *mines.GameSession) {
	s.SetNotifier(&printer{t: t})
	t.session = s
}

// NewGame deals a fresh board.
func (t *Terminal) NewGame(config mines.GameConfig) error {
	s, err := mines.NewSession(config, t.rnd, mines.WithClock(t.now))
	if err != nil {
		return err
	}
	t.attach(s)
	return nil
}

// Resume continues an existing session, e.g. one restored from a snapshot.
func (t *Terminal) Resume(s *mines.GameSession) {
	t.attach(s)
}

func (t *Terminal) Session() *mines.GameSession {
	return t.session
}

func (t *Terminal) render() {
	s := t.session
	cols := s.Board.Cols
	var b strings.Builder
	b.WriteString("    ")
	for col := range cols {
		fmt.Fprintf(&b, "%d ", col%10)
	}
	b.WriteString("\n")
	for row, line := range strings.Split(strings.TrimRight(s.Grid().ToString(cols), "\n"), "\n") {
		fmt.Fprintf(&b, "%3d %s\n", row, line)
	}
	fmt.Fprintf(&b, "mines: %d  time: %ds  %s\n", s.FlagsRemaining(), s.ElapsedSeconds(), s.Status)
	t.printf("%s", b.String())
}

func (t *Terminal) saveSnapshot() {
	if t.snapshotsDir == "" {
		return
	}
	path, err := snapshot.Take(t.session).Save(t.snapshotsDir)
	if err != nil {
		t.log.WithError(err).Error("unable to save snapshot")
		t.printf("could not save snapshot: %s\n", err)
		return
	}
	t.log.WithField("path", path).Info("saved snapshot")
	t.printf("saved %s\n", path)
}

// readLines feeds scanned lines into a channel until the input ends or
// done is closed. The scan error, if any, is sent on errc before lines is
// closed.
func (t *Terminal) readLines(done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		for t.in.Scan() {
			select {
			case lines <- t.in.Text():
			case <-done:
				return
			}
		}
		errc <- t.in.Err()
	}()
	return lines, errc
}

// Run reads commands until q, end of input or ctx is done. A game must have
// been started with NewGame or Resume.
func (t *Terminal) Run(ctx context.Context) error {
	if t.session == nil {
		return fmt.Errorf("no game to play")
	}
	done := make(chan struct{})
	defer close(done)
	lines, errc := t.readLines(done)

	t.render()
	t.printf("> ")
	for {
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return <-errc
			}
			line = strings.TrimSpace(l)
		}

		switch line {
		case "":
		case "q":
			return nil
		case "h", "?":
			t.printf("%s", help)
		case "n":
			if err := t.session.Reset(t.rnd); err != nil {
				return err
			}
			t.log.WithField("config", t.session.Config().String()).Debug("new game")
			t.render()
		default:
			wasOver := t.session.Over()
			if err := command.Execute(t.session, line); err != nil {
				t.printf("%s (h for help)\n", err)
				break
			}
			t.render()
			if !wasOver && t.session.Over() {
				t.saveSnapshot()
				t.printf("n for a new game, q to quit\n")
			}
		}
		t.printf("> ")
	}
}
