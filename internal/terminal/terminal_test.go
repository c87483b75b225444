package terminal

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/buscaminas/internal/mines"
	"github.com/vancomm/buscaminas/internal/snapshot"
)

var start = time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)

func smallSession(t *testing.T) *mines.GameSession {
	t.Helper()
	board, err := mines.NewBoard(mines.GameConfig{Rows: 3, Cols: 3, MineCount: 1})
	require.NoError(t, err)
	require.NoError(t, board.LayMines(mines.Point{Row: 0, Col: 0}))
	return mines.NewSessionFromBoard(board, mines.WithClock(func() time.Time { return start }))
}

func run(t *testing.T, input string, opts ...Option) (*Terminal, string) {
	t.Helper()
	var out bytes.Buffer
	term := New(strings.NewReader(input), &out, rand.New(rand.NewPCG(1, 2)), opts...)
	term.Resume(smallSession(t))
	require.NoError(t, term.Run(context.Background()))
	return term, out.String()
}

func TestRunWin(t *testing.T) {
	term, out := run(t, "f 0 0\no 1 1\nc 1 1\nq\no 2 2\n")
	assert.Equal(t, mines.Won, term.Session().Status)
	assert.Contains(t, out, "you won in 0s!")
	assert.Contains(t, out, "  0 F 1 . \n")
	assert.Contains(t, out, "mines: 0  time: 0s  won\n")
}

func TestRunLose(t *testing.T) {
	term, out := run(t, "o 0 0\n")
	assert.Equal(t, mines.Lost, term.Session().Status)
	assert.Contains(t, out, "boom at 0:0")
	assert.Contains(t, out, "game over after 0s")
}

func TestRunReportsBadCommands(t *testing.T) {
	term, out := run(t, "x\no 5 5\no 1\nh\n")
	assert.Equal(t, mines.Playing, term.Session().Status)
	assert.Contains(t, out, "unknown command")
	assert.Contains(t, out, "invalid cell coordinates")
	assert.Contains(t, out, "invalid number of arguments")
	assert.Contains(t, out, "commands:")
}

func TestRunVerbose(t *testing.T) {
	_, out := run(t, "f 2 2\nf 2 2\no 1 1\n", WithVerbose(true))
	assert.Contains(t, out, "flagged 2:2, 0 left")
	assert.Contains(t, out, "unflagged 2:2, 1 left")
	assert.Contains(t, out, "opened 1:1 (1)")
}

func TestRunNewGame(t *testing.T) {
	term, _ := run(t, "o 0 0\nn\n")
	assert.Equal(t, mines.Playing, term.Session().Status)
	assert.Equal(t, 1, term.Session().FlagsRemaining())
}

func TestRunSavesSnapshot(t *testing.T) {
	dir := t.TempDir()
	_, out := run(t, "r\n", WithSnapshots(dir))
	assert.Contains(t, out, "saved ")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "20240701_093000_loss.yaml", entries[0].Name())

	snap, err := snapshot.LoadFile(dir + "/" + entries[0].Name())
	require.NoError(t, err)
	assert.Equal(t, "lost", snap.Status)
}

func TestRunWithoutGame(t *testing.T) {
	term := New(strings.NewReader(""), &bytes.Buffer{}, rand.New(rand.NewPCG(1, 2)))
	assert.Error(t, term.Run(context.Background()))

	require.NoError(t, term.NewGame(mines.Beginner))
	assert.NoError(t, term.Run(context.Background()))
	assert.Equal(t, 10, term.Session().FlagsRemaining())

	assert.Error(t, term.NewGame(mines.GameConfig{Rows: 1, Cols: 1, MineCount: 1}))
}

func TestRunStopsWhileWaitingForInput(t *testing.T) {
	in, feed := io.Pipe()
	defer feed.Close()

	var out bytes.Buffer
	term := New(in, &out, rand.New(rand.NewPCG(1, 2)))
	term.Resume(smallSession(t))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- term.Run(ctx)
	}()

	_, err := feed.Write([]byte("f 2 2\n"))
	require.NoError(t, err)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the context was cancelled")
	}
}
