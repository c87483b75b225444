package mines

import "github.com/gammazero/deque"

type Outcome int8

const (
	OutcomeContinue Outcome = iota
	OutcomeLost
)

func (o Outcome) String() string {
	if o == OutcomeLost {
		return "lost"
	}
	return "continue"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

type RevealedCell struct {
	Point
	AdjacentMines int  `json:"adjacent_mines"`
	IsMine        bool `json:"is_mine"`
}

type RevealResult struct {
	Outcome  Outcome        `json:"outcome"`
	Revealed []RevealedCell `json:"revealed"`
}

func (b *Board) open(i int, res *RevealResult) {
	c := &b.Cells[i]
	c.Revealed = true
	res.Revealed = append(res.Revealed, RevealedCell{
		Point:         b.point(i),
		AdjacentMines: c.AdjacentMines,
		IsMine:        c.IsMine,
	})
}

// Reveal opens the cell at row, col. Opening a zero cell floods over its
// zero neighbours and their numbered border. Mines are only ever opened
// directly. Out-of-bounds, open and flagged cells are ignored.
func (b *Board) Reveal(row, col int) RevealResult {
	var res RevealResult
	b.reveal(row, col, &res)
	return res
}

func (b *Board) reveal(row, col int, res *RevealResult) {
	if !b.PointInBounds(row, col) {
		return
	}
	i := b.index(row, col)
	c := &b.Cells[i]
	if c.Revealed || c.Flagged {
		return
	}

	b.open(i, res)
	if c.IsMine {
		b.Exploded = i
		res.Outcome = OutcomeLost
		return
	}
	if c.AdjacentMines > 0 {
		return
	}

	/*
	 * Depth-first over zero cells. A cell is marked revealed before it is
	 * pushed, so nothing enters the stack twice.
	 */
	var stack deque.Deque[int]
	stack.PushBack(i)
	for stack.Len() > 0 {
		j := stack.PopBack()
		for k := range b.neighbors(j) {
			n := &b.Cells[k]
			if n.Revealed || n.Flagged || n.IsMine {
				continue
			}
			b.open(k, res)
			if n.AdjacentMines == 0 {
				stack.PushBack(k)
			}
		}
	}
}

// Chord opens every hidden, unflagged neighbour of an open number once
// the player has placed as many flags around it as the number says.
func (b *Board) Chord(row, col int) RevealResult {
	var res RevealResult
	if !b.PointInBounds(row, col) {
		return res
	}
	i := b.index(row, col)
	c := b.Cells[i]
	if !c.Revealed || c.IsMine || c.AdjacentMines == 0 {
		return res
	}

	flags := 0
	hidden := make([]int, 0, 8)
	for j := range b.neighbors(i) {
		switch n := b.Cells[j]; {
		case n.Flagged:
			flags++
		case !n.Revealed:
			hidden = append(hidden, j)
		}
	}
	if flags != c.AdjacentMines {
		return res
	}

	for _, j := range hidden {
		p := b.point(j)
		b.reveal(p.Row, p.Col, &res)
		if res.Outcome == OutcomeLost {
			break
		}
	}
	return res
}
