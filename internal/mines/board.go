package mines

import (
	"fmt"
	"iter"
	"math/rand/v2"
)

type Point struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

type Cell struct {
	IsMine, Revealed, Flagged bool
	AdjacentMines             int
}

type Board struct {
	GameConfig
	Cells    []Cell /* row-major, Rows*Cols long */
	Flags    int    /* cells currently flagged */
	Exploded int    /* index of the opened mine or -1 */
}

// NewBoard allocates an empty board. Mines are placed separately with
// [Board.PlaceMines] or [Board.LayMines].
func NewBoard(config GameConfig) (*Board, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Board{
		GameConfig: config,
		Cells:      make([]Cell, config.CellCount()),
		Exploded:   -1,
	}, nil
}

// check verifies that a board read back from storage is consistent with
// its config.
func (b *Board) check() error {
	if err := b.Validate(); err != nil {
		return err
	}
	if len(b.Cells) != b.CellCount() {
		return fmt.Errorf("board has %d cells, want %d", len(b.Cells), b.CellCount())
	}
	if b.Exploded < -1 || b.Exploded >= len(b.Cells) {
		return fmt.Errorf("exploded index %d is outside the board", b.Exploded)
	}
	if b.Flags < 0 || b.Flags > b.MineCount {
		return fmt.Errorf("board has %d flags for %d mines", b.Flags, b.MineCount)
	}
	return nil
}

func (b *Board) index(row, col int) int {
	return row*b.Cols + col
}

func (b *Board) point(i int) Point {
	return Point{Row: i / b.Cols, Col: i % b.Cols}
}

// Cell returns a copy of the cell at row, col. ok is false when the
// point is outside the board.
func (b *Board) Cell(row, col int) (c Cell, ok bool) {
	if !b.PointInBounds(row, col) {
		return Cell{}, false
	}
	return b.Cells[b.index(row, col)], true
}

// neighbors yields the indexes of the up to 8 cells around i, clipped at
// the board edges.
func (b *Board) neighbors(i int) iter.Seq[int] {
	return func(yield func(int) bool) {
		p := b.point(i)
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				r, c := p.Row+dr, p.Col+dc
				if !b.PointInBounds(r, c) {
					continue
				}
				if !yield(b.index(r, c)) {
					return
				}
			}
		}
	}
}

// PlaceMines puts MineCount mines on distinct cells by rejection
// sampling. Cells already holding a mine are left alone, so it is meant
// to be called once on a fresh board.
func (b *Board) PlaceMines(r *rand.Rand) {
	placed := 0
	for _, c := range b.Cells {
		if c.IsMine {
			placed++
		}
	}
	for placed < b.MineCount {
		i := b.index(r.IntN(b.Rows), r.IntN(b.Cols))
		if !b.Cells[i].IsMine {
			b.Cells[i].IsMine = true
			placed++
		}
	}
}

// LayMines puts mines exactly on the given points. The number of points
// must match MineCount.
func (b *Board) LayMines(points ...Point) error {
	if len(points) != b.MineCount {
		return fmt.Errorf("expected %d mines, got %d", b.MineCount, len(points))
	}
	for _, p := range points {
		if !b.PointInBounds(p.Row, p.Col) {
			return fmt.Errorf("mine %d:%d is outside the board", p.Row, p.Col)
		}
		i := b.index(p.Row, p.Col)
		if b.Cells[i].IsMine {
			return fmt.Errorf("duplicate mine at %d:%d", p.Row, p.Col)
		}
		b.Cells[i].IsMine = true
	}
	return nil
}

func (b *Board) ComputeAdjacency() {
	for i := range b.Cells {
		if b.Cells[i].IsMine {
			b.Cells[i].AdjacentMines = 0
			continue
		}
		v := 0
		for j := range b.neighbors(i) {
			if b.Cells[j].IsMine {
				v++
			}
		}
		b.Cells[i].AdjacentMines = v
	}
}

func (b *Board) FlagsRemaining() int {
	return b.MineCount - b.Flags
}

// CheckWin holds when every safe cell is open and every mine carries a
// flag.
func (b *Board) CheckWin() bool {
	var revealedSafe, correctlyFlagged int
	for _, c := range b.Cells {
		if c.Revealed && !c.IsMine {
			revealedSafe++
		}
		if c.Flagged && c.IsMine {
			correctlyFlagged++
		}
	}
	return revealedSafe == b.SafeCount() && correctlyFlagged == b.MineCount
}

func (b *Board) String() string {
	return b.PlayerGrid().ToString(b.Cols)
}
