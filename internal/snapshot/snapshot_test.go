package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/buscaminas/internal/mines"
)

var start = time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)

func newSession(t *testing.T) *mines.GameSession {
	t.Helper()
	board, err := mines.NewBoard(mines.GameConfig{Rows: 3, Cols: 4, MineCount: 2})
	require.NoError(t, err)
	require.NoError(t, board.LayMines(mines.Point{Row: 0, Col: 0}, mines.Point{Row: 2, Col: 3}))
	return mines.NewSessionFromBoard(board, mines.WithClock(func() time.Time { return start }))
}

func TestTake(t *testing.T) {
	s := newSession(t)
	s.ToggleFlag(0, 0)
	s.ToggleFlag(0, 3)
	s.Reveal(1, 1)

	snap := Take(s)
	assert.Equal(t, "playing", snap.Status)
	assert.Nil(t, snap.EndedAt)
	assert.Equal(t, "F##f\n#.##\n###O\n", snap.Board)

	s.Reveal(2, 3)
	snap = Take(s)
	assert.Equal(t, "lost", snap.Status)
	require.NotNil(t, snap.EndedAt)
	assert.Equal(t, "F##f\n#.##\n###*\n", snap.Board)
}

func TestRoundTrip(t *testing.T) {
	s := newSession(t)
	s.ToggleFlag(0, 0)
	s.Reveal(0, 3)

	out, err := Take(s).Serialize()
	require.NoError(t, err)

	snap, err := Load(out)
	require.NoError(t, err)
	restored, err := snap.Restore()
	require.NoError(t, err)

	assert.Equal(t, s.Board, restored.Board)
	assert.Equal(t, s.Status, restored.Status)
	assert.True(t, start.Equal(restored.StartedAt))
	assert.True(t, restored.EndedAt.IsZero())
}

func TestRestoreForfeitedGame(t *testing.T) {
	s := newSession(t)
	s.Forfeit()

	restored, err := Take(s).Restore()
	require.NoError(t, err)
	assert.Equal(t, mines.Lost, restored.Status)
	assert.Equal(t, -1, restored.Board.Exploded)
	assert.True(t, restored.EndedAt.Equal(s.EndedAt))
}

func TestLoad(t *testing.T) {
	in := `
config:
  rows: 2
  cols: 3
  mine_count: 1
status: playing
started_at: 2024-03-01T15:04:05Z
board: |
  ..#
  #O#
`
	snap, err := Load([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, mines.GameConfig{Rows: 2, Cols: 3, MineCount: 1}, snap.Config)

	s, err := snap.Restore()
	require.NoError(t, err)
	assert.Equal(t, mines.Playing, s.Status)
	assert.True(t, start.Equal(s.StartedAt))
	c, _ := s.Board.Cell(0, 1)
	assert.True(t, c.Revealed)
	assert.Equal(t, 1, c.AdjacentMines)
}

func TestRestoreRejectsMismatch(t *testing.T) {
	testCases := []struct {
		name  string
		board string
	}{
		{"rows", "...\n"},
		{"cols", "....\n#O##\n"},
		{"mines", "...\n###\n"},
		{"cell", "..?\n#O#\n"},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			snap := &Snapshot{
				Config: mines.GameConfig{Rows: 2, Cols: 3, MineCount: 1},
				Board:  test.board,
			}
			_, err := snap.Restore()
			assert.Error(t, err)
		})
	}
}

func TestRestoreStatusMustMatchBoard(t *testing.T) {
	snap := &Snapshot{
		Config: mines.GameConfig{Rows: 2, Cols: 2, MineCount: 1},
		Status: "won",
		Board:  "O#\n##\n",
	}
	_, err := snap.Restore()
	assert.Error(t, err)

	snap.Status = "playing"
	s, err := snap.Restore()
	require.NoError(t, err)
	assert.Equal(t, mines.Playing, s.Status)
	assert.True(t, s.EndedAt.IsZero())

	snap.Status = "lost"
	s, err = snap.Restore()
	require.NoError(t, err)
	assert.Equal(t, mines.Lost, s.Status)
	assert.False(t, s.CheckWin())

	snap.Status = "won"
	snap.Board = "F.\n..\n"
	s, err = snap.Restore()
	require.NoError(t, err)
	assert.Equal(t, mines.Won, s.Status)
	assert.True(t, s.CheckWin())
}

func TestFresh(t *testing.T) {
	s := newSession(t)
	s.ToggleFlag(0, 0)
	s.ToggleFlag(0, 3)
	s.Reveal(2, 3)

	fresh := Take(s).Fresh()
	assert.Equal(t, "O###\n####\n###O\n", fresh.Board)

	restored, err := fresh.Restore()
	require.NoError(t, err)
	assert.Equal(t, mines.Playing, restored.Status)
	assert.Equal(t, 2, restored.FlagsRemaining())
	assert.True(t, restored.Board.Cells[0].IsMine)
}

func TestFilename(t *testing.T) {
	snap := &Snapshot{StartedAt: start}
	for status, want := range map[string]string{
		"won":     "20240301_150405_win.yaml",
		"lost":    "20240301_150405_loss.yaml",
		"playing": "20240301_150405_other.yaml",
	} {
		snap.Status = status
		assert.Equal(t, want, snap.Filename())
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	s := newSession(t)
	s.Reveal(0, 0)

	path, err := Take(s).Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20240301_150405_loss.yaml"), path)

	_, err = os.Stat(path)
	require.NoError(t, err)

	snap, err := LoadFile(path)
	require.NoError(t, err)
	restored, err := snap.Restore()
	require.NoError(t, err)
	assert.Equal(t, mines.Lost, restored.Status)
	assert.Equal(t, 0, restored.Board.Exploded)
}
