package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"
	"time"
)

type Status int8

const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", int8(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	status, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case "playing":
		return Playing, nil
	case "won":
		return Won, nil
	case "lost":
		return Lost, nil
	default:
		return Playing, fmt.Errorf("unknown game status %q", s)
	}
}

// GameSession is one game from start to a terminal status. It is not safe
// for concurrent use.
type GameSession struct {
	Board     *Board
	Status    Status
	StartedAt time.Time
	EndedAt   time.Time

	notifier Notifier
	now      func() time.Time
}

type SessionOption func(*GameSession)

func WithNotifier(n Notifier) SessionOption {
	return func(s *GameSession) {
		s.SetNotifier(n)
	}
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *GameSession) {
		s.now = now
	}
}

func newSession(board *Board, opts []SessionOption) *GameSession {
	s := &GameSession{
		Board:    board,
		notifier: nopNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.StartedAt = s.now()
	return s
}

// NewSession starts a game: allocates the board, places the mines and
// counts neighbours.
func NewSession(config GameConfig, r *rand.Rand, opts ...SessionOption) (*GameSession, error) {
	board, err := NewBoard(config)
	if err != nil {
		return nil, err
	}
	board.PlaceMines(r)
	board.ComputeAdjacency()
	return newSession(board, opts), nil
}

// NewSessionFromBoard wraps a board whose mines are already laid out.
// Adjacency and flag counts are recomputed and the status is derived from
// the cells.
func NewSessionFromBoard(board *Board, opts ...SessionOption) *GameSession {
	board.ComputeAdjacency()
	board.Flags = 0
	board.Exploded = -1
	for i, c := range board.Cells {
		if c.Flagged {
			board.Flags++
		}
		if c.Revealed && c.IsMine {
			board.Exploded = i
		}
	}

	s := newSession(board, opts)
	switch {
	case board.Exploded >= 0:
		s.Status = Lost
		s.EndedAt = s.StartedAt
	case board.CheckWin():
		s.Status = Won
		s.EndedAt = s.StartedAt
	}
	return s
}

func DecodeSession(buf []byte, opts ...SessionOption) (*GameSession, error) {
	var s GameSession
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&s); err != nil {
		return nil, err
	}
	if s.Board == nil {
		return nil, fmt.Errorf("game session has no board")
	}
	if err := s.Board.check(); err != nil {
		return nil, fmt.Errorf("corrupt game session: %w", err)
	}
	s.notifier = nopNotifier{}
	s.now = time.Now
	for _, opt := range opts {
		opt(&s)
	}
	return &s, nil
}

func (s *GameSession) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *GameSession) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	s.notifier = n
}

func (s *GameSession) Config() GameConfig {
	return s.Board.GameConfig
}

func (s *GameSession) Over() bool {
	return s.Status != Playing
}

func (s *GameSession) FlagsRemaining() int {
	return s.Board.FlagsRemaining()
}

func (s *GameSession) CheckWin() bool {
	return s.Board.CheckWin()
}

// Elapsed is the play time so far, frozen once the game ends.
func (s *GameSession) Elapsed() time.Duration {
	end := s.EndedAt
	if !s.Over() {
		end = s.now()
	}
	if end.Before(s.StartedAt) {
		return 0
	}
	return end.Sub(s.StartedAt)
}

func (s *GameSession) ElapsedSeconds() int {
	return int(s.Elapsed() / time.Second)
}

// Grid is the player view while playing and the full board afterwards.
func (s *GameSession) Grid() Grid {
	if s.Over() {
		return s.Board.FinalGrid()
	}
	return s.Board.PlayerGrid()
}

func (s *GameSession) end(status Status) {
	s.Status = status
	s.EndedAt = s.now()
	s.notifier.OnGameEnded(status, s.Elapsed())
}

func (s *GameSession) settle(res RevealResult) {
	for _, c := range res.Revealed {
		s.notifier.OnCellRevealed(c)
	}
	if res.Outcome == OutcomeLost {
		s.end(Lost)
		return
	}
	if len(res.Revealed) > 0 && s.Board.CheckWin() {
		s.end(Won)
	}
}

func (s *GameSession) Reveal(row, col int) RevealResult {
	if s.Over() {
		return RevealResult{}
	}
	res := s.Board.Reveal(row, col)
	s.settle(res)
	return res
}

func (s *GameSession) Chord(row, col int) RevealResult {
	if s.Over() {
		return RevealResult{}
	}
	res := s.Board.Chord(row, col)
	s.settle(res)
	return res
}

func (s *GameSession) ToggleFlag(row, col int) FlagResult {
	if s.Over() {
		return FlagResult{FlagsRemaining: s.FlagsRemaining()}
	}
	res := s.Board.ToggleFlag(row, col)
	if !res.Changed {
		return res
	}
	s.notifier.OnFlagToggled(Point{Row: row, Col: col}, res)
	if s.Board.CheckWin() {
		s.end(Won)
	}
	return res
}

// Forfeit gives up a running game.
func (s *GameSession) Forfeit() {
	if !s.Over() {
		s.end(Lost)
	}
}

// Reset deals a new board with the same config and restarts the clock.
func (s *GameSession) Reset(r *rand.Rand) error {
	board, err := NewBoard(s.Config())
	if err != nil {
		return err
	}
	board.PlaceMines(r)
	board.ComputeAdjacency()
	s.Board = board
	s.Status = Playing
	s.StartedAt = s.now()
	s.EndedAt = time.Time{}
	return nil
}
