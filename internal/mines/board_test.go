package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T, config GameConfig, mines ...Point) *Board {
	t.Helper()
	board, err := NewBoard(config)
	require.NoError(t, err)
	require.NoError(t, board.LayMines(mines...))
	board.ComputeAdjacency()
	return board
}

func naiveAdjacency(b *Board, row, col int) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			r, c := row+dr, col+dc
			if (dr == 0 && dc == 0) || r < 0 || r >= b.Rows || c < 0 || c >= b.Cols {
				continue
			}
			if b.Cells[r*b.Cols+c].IsMine {
				count++
			}
		}
	}
	return count
}

func TestNewBoardIsEmpty(t *testing.T) {
	board, err := NewBoard(Beginner)
	require.NoError(t, err)
	assert.Len(t, board.Cells, 64)
	assert.Equal(t, -1, board.Exploded)
	assert.Equal(t, 10, board.FlagsRemaining())
	for _, c := range board.Cells {
		assert.Equal(t, Cell{}, c)
	}
}

func TestPlaceMines(t *testing.T) {
	tests := []GameConfig{
		Beginner,
		Intermediate,
		Expert,
		{Rows: 1, Cols: 1, MineCount: 0},
		{Rows: 1, Cols: 10, MineCount: 9},
		{Rows: 5, Cols: 5, MineCount: 24},
		{Rows: 16, Cols: 30, MineCount: 479},
	}

	r := rand.New(rand.NewPCG(1, 2))
	for _, config := range tests {
		t.Run(config.String(), func(t *testing.T) {
			for range 20 {
				board, err := NewBoard(config)
				require.NoError(t, err)
				board.PlaceMines(r)

				count := 0
				for _, c := range board.Cells {
					if c.IsMine {
						count++
					}
				}
				assert.Equal(t, config.MineCount, count)
			}
		})
	}
}

func TestPlaceMinesIsSeeded(t *testing.T) {
	a, _ := NewBoard(Expert)
	b, _ := NewBoard(Expert)
	a.PlaceMines(rand.New(rand.NewPCG(7, 7)))
	b.PlaceMines(rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, a.Cells, b.Cells)
}

func TestComputeAdjacency(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for _, config := range []GameConfig{Beginner, Intermediate, Expert, {Rows: 2, Cols: 7, MineCount: 5}} {
		board, err := NewBoard(config)
		require.NoError(t, err)
		board.PlaceMines(r)
		board.ComputeAdjacency()

		for row := range board.Rows {
			for col := range board.Cols {
				c, ok := board.Cell(row, col)
				require.True(t, ok)
				if c.IsMine {
					assert.Zero(t, c.AdjacentMines)
					continue
				}
				assert.Equal(t, naiveAdjacency(board, row, col), c.AdjacentMines, "%d:%d", row, col)
			}
		}
	}
}

func TestComputeAdjacencyClipsEdges(t *testing.T) {
	// 3x3 with mines on every cell but the centre and one corner.
	board := newTestBoard(t, GameConfig{Rows: 3, Cols: 3, MineCount: 7},
		Point{0, 1}, Point{0, 2},
		Point{1, 0}, Point{1, 2},
		Point{2, 0}, Point{2, 1}, Point{2, 2},
	)

	corner, _ := board.Cell(0, 0)
	assert.Equal(t, 2, corner.AdjacentMines)
	centre, _ := board.Cell(1, 1)
	assert.Equal(t, 7, centre.AdjacentMines)
}

func TestLayMines(t *testing.T) {
	board, err := NewBoard(GameConfig{Rows: 2, Cols: 2, MineCount: 2})
	require.NoError(t, err)

	assert.Error(t, board.LayMines(Point{0, 0}))
	assert.Error(t, board.LayMines(Point{0, 0}, Point{2, 0}))

	board, _ = NewBoard(GameConfig{Rows: 2, Cols: 2, MineCount: 2})
	assert.Error(t, board.LayMines(Point{0, 0}, Point{0, 0}))
}

func TestCellOutOfBounds(t *testing.T) {
	board, _ := NewBoard(Beginner)
	for _, p := range []Point{{-1, 0}, {0, -1}, {8, 0}, {0, 8}} {
		_, ok := board.Cell(p.Row, p.Col)
		assert.False(t, ok, p)
	}
}

func TestBoardString(t *testing.T) {
	board := newTestBoard(t, GameConfig{Rows: 2, Cols: 3, MineCount: 1}, Point{0, 2})
	board.Reveal(1, 0)
	board.ToggleFlag(0, 2)
	assert.Equal(t, ". 1 F \n. 1 # \n", board.String())
}

func TestCheckWin(t *testing.T) {
	config := GameConfig{Rows: 2, Cols: 2, MineCount: 1}
	testCases := []struct {
		name     string
		revealed []int
		flagged  []int
		want     bool
	}{
		{"nothing done", nil, nil, false},
		{"safe cells open, mine unflagged", []int{1, 2, 3}, nil, false},
		{"mine flagged, a safe cell hidden", []int{1, 2}, []int{0}, false},
		{"wrong flag", []int{1, 2}, []int{3}, false},
		{"all open and flagged", []int{1, 2, 3}, []int{0}, true},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			b := newTestBoard(t, config, Point{0, 0})
			for _, i := range test.revealed {
				b.Cells[i].Revealed = true
			}
			for _, i := range test.flagged {
				b.Cells[i].Flagged = true
			}
			assert.Equal(t, test.want, b.CheckWin())
		})
	}
}
