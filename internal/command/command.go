// Package command parses the line protocol players use to drive a game:
//
//	g          no-op, just fetch the game
//	o row col  open a cell
//	f row col  toggle a flag
//	c row col  chord around an open number
//	r          forfeit
package command

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/buscaminas/internal/mines"
)

type Op string

const (
	Noop    Op = "g"
	Open    Op = "o"
	Flag    Op = "f"
	Chord   Op = "c"
	Forfeit Op = "r"
)

// Maps known commands to number of arguments
var commandNargs = map[Op]int{
	Noop:    0,
	Open:    2,
	Flag:    2,
	Chord:   2,
	Forfeit: 0,
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNargs          = errors.New("invalid number of arguments")
	ErrOutOfBounds    = errors.New("invalid cell coordinates")
)

type Command struct {
	Op       Op
	Row, Col int
}

func (c Command) String() string {
	if commandNargs[c.Op] == 0 {
		return string(c.Op)
	}
	return fmt.Sprintf("%s %d %d", c.Op, c.Row, c.Col)
}

func parseRowCol(twoStrings []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if col, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrUnknownCommand
	}
	op := Op(parts[0])
	nargs, ok := commandNargs[op]
	if !ok {
		return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return Command{}, ErrNargs
	}
	cmd := Command{Op: op}
	if nargs == 2 {
		row, col, err := parseRowCol(parts[1:])
		if err != nil {
			return Command{}, err
		}
		cmd.Row, cmd.Col = row, col
	}
	return cmd, nil
}

// Apply runs the command against the session. The engine ignores moves
// outside the board; Apply reports them so a client learns about its
// mistake.
func (c Command) Apply(s *mines.GameSession) error {
	if commandNargs[c.Op] == 2 && !s.Config().PointInBounds(c.Row, c.Col) {
		return ErrOutOfBounds
	}
	switch c.Op {
	case Noop:
	case Open:
		s.Reveal(c.Row, c.Col)
	case Flag:
		s.ToggleFlag(c.Row, c.Col)
	case Chord:
		s.Chord(c.Row, c.Col)
	case Forfeit:
		s.Forfeit()
	default:
		return ErrUnknownCommand
	}
	return nil
}

// Execute parses and applies a single line.
func Execute(s *mines.GameSession, line string) error {
	c, err := Parse(line)
	if err != nil {
		return err
	}
	return c.Apply(s)
}

// Lines splits a message into its trimmed, non-empty lines.
func Lines(s string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, "\n")
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}
