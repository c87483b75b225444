package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Unknown          CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * 0 to 8 mean the cell is open and has that many mined neighbours.
	 *
	 * The values from 64 up only show once the game is over:
	 *
	 * 	- 64 is a mine the player had flagged.
	 *
	 * 	- 65 is the mine the player opened.
	 *
	 * 	- 66 is a flag over a safe cell.
	 *
	 * 	- 67 is a mine the player never flagged.
	 */
)

func (s CellState) String() string {
	switch s {
	case Unknown:
		return "#"
	case Flagged, CorrectlyFlagged:
		return "F"
	case ExplodedMine:
		return "*"
	case FalselyFlagged:
		return "x"
	case UnflaggedMine:
		return "O"
	case 0:
		return "."
	case 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// Grid is the row-major player view of a board.
type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// PlayerGrid is what the player is allowed to see while playing: flags,
// opened numbers and nothing else.
func (b *Board) PlayerGrid() Grid {
	grid := make(Grid, len(b.Cells))
	for i, c := range b.Cells {
		switch {
		case c.Revealed && c.IsMine:
			grid[i] = ExplodedMine
		case c.Revealed:
			grid[i] = CellState(c.AdjacentMines)
		case c.Flagged:
			grid[i] = Flagged
		default:
			grid[i] = Unknown
		}
	}
	return grid
}

// FinalGrid discloses the whole board, marking correct and wrong flags.
func (b *Board) FinalGrid() Grid {
	grid := make(Grid, len(b.Cells))
	for i, c := range b.Cells {
		switch {
		case c.Flagged && c.IsMine:
			grid[i] = CorrectlyFlagged
		case c.Flagged:
			grid[i] = FalselyFlagged
		case c.IsMine && i == b.Exploded:
			grid[i] = ExplodedMine
		case c.IsMine:
			grid[i] = UnflaggedMine
		default:
			grid[i] = CellState(c.AdjacentMines)
		}
	}
	return grid
}
