// Package snapshot stores games as small YAML documents so a position can
// be saved at the end of a game and loaded again later.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vancomm/buscaminas/internal/mines"
)

// Cell characters used in the board string.
const (
	exploded    = '*'
	flaggedMine = 'F'
	hiddenMine  = 'O'
	wrongFlag   = 'f'
	revealed    = '.'
	hidden      = '#'
)

type Snapshot struct {
	Config    mines.GameConfig `yaml:"config"`
	Status    string           `yaml:"status"`
	StartedAt time.Time        `yaml:"started_at"`
	EndedAt   *time.Time       `yaml:"ended_at,omitempty"`
	Board     string           `yaml:"board"`
}

func encodeCell(c mines.Cell) byte {
	switch {
	case c.IsMine && c.Revealed:
		return exploded
	case c.IsMine && c.Flagged:
		return flaggedMine
	case c.IsMine:
		return hiddenMine
	case c.Flagged:
		return wrongFlag
	case c.Revealed:
		return revealed
	default:
		return hidden
	}
}

func decodeCell(ch rune) (mines.Cell, error) {
	switch ch {
	case exploded:
		return mines.Cell{IsMine: true, Revealed: true}, nil
	case flaggedMine:
		return mines.Cell{IsMine: true, Flagged: true}, nil
	case hiddenMine:
		return mines.Cell{IsMine: true}, nil
	case wrongFlag:
		return mines.Cell{Flagged: true}, nil
	case revealed:
		return mines.Cell{Revealed: true}, nil
	case hidden:
		return mines.Cell{}, nil
	}
	return mines.Cell{}, fmt.Errorf("unknown cell %q", ch)
}

// Take captures the session's board, status and timestamps.
func Take(s *mines.GameSession) *Snapshot {
	b := s.Board
	var sb strings.Builder
	sb.Grow(b.CellCount() + b.Rows)
	for i, c := range b.Cells {
		sb.WriteByte(encodeCell(c))
		if (i+1)%b.Cols == 0 {
			sb.WriteByte('\n')
		}
	}
	snap := &Snapshot{
		Config:    s.Config(),
		Status:    s.Status.String(),
		StartedAt: s.StartedAt,
		Board:     sb.String(),
	}
	if !s.EndedAt.IsZero() {
		ended := s.EndedAt
		snap.EndedAt = &ended
	}
	return snap
}

func (snap *Snapshot) Serialize() ([]byte, error) {
	return yaml.Marshal(snap)
}

func Load(in []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(in, &snap); err != nil {
		return nil, fmt.Errorf("could not parse snapshot: %w", err)
	}
	return &snap, nil
}

func LoadFile(path string) (*Snapshot, error) {
	in, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(in)
}

// Restore rebuilds a session from the snapshot. The board string must
// match the config and hold exactly MineCount mines.
func (snap *Snapshot) Restore(opts ...mines.SessionOption) (*mines.GameSession, error) {
	board, err := mines.NewBoard(snap.Config)
	if err != nil {
		return nil, err
	}

	rows := strings.Split(strings.TrimRight(snap.Board, "\n"), "\n")
	if len(rows) != board.Rows {
		return nil, fmt.Errorf("snapshot has %d rows, config says %d", len(rows), board.Rows)
	}
	mineCount := 0
	for row, line := range rows {
		line = strings.TrimSpace(line)
		if len(line) != board.Cols {
			return nil, fmt.Errorf("snapshot row %d has %d cells, config says %d", row, len(line), board.Cols)
		}
		for col, ch := range line {
			c, err := decodeCell(ch)
			if err != nil {
				return nil, fmt.Errorf("snapshot cell %d:%d: %w", row, col, err)
			}
			if c.IsMine {
				mineCount++
			}
			board.Cells[row*board.Cols+col] = c
		}
	}
	if mineCount != board.MineCount {
		return nil, fmt.Errorf("snapshot has %d mines, config says %d", mineCount, board.MineCount)
	}

	s := mines.NewSessionFromBoard(board, opts...)
	if snap.Status != "" {
		status, err := mines.ParseStatus(snap.Status)
		if err != nil {
			return nil, err
		}
		// The board decides wins and explosions. Only a forfeit, lost
		// without an exploded cell, has to come from the stored status.
		switch {
		case s.Over():
		case status == mines.Lost:
			s.Status = mines.Lost
		case status == mines.Won:
			return nil, fmt.Errorf("snapshot is marked won but the board is not")
		}
	}
	if !snap.StartedAt.IsZero() {
		s.StartedAt = snap.StartedAt
	}
	s.EndedAt = time.Time{}
	if s.Over() {
		s.EndedAt = s.StartedAt
		if snap.EndedAt != nil {
			s.EndedAt = *snap.EndedAt
		}
	}
	return s, nil
}

// Fresh keeps only the mine layout, so restoring it starts the same board
// over.
func (snap *Snapshot) Fresh() *Snapshot {
	board := strings.Map(func(ch rune) rune {
		switch ch {
		case exploded, flaggedMine, hiddenMine:
			return hiddenMine
		case wrongFlag, revealed:
			return hidden
		}
		return ch
	}, snap.Board)
	return &Snapshot{Config: snap.Config, Board: board}
}

// Filename names a snapshot after the moment the game started and how it
// ended, e.g. 20240101_150405_win.yaml.
func (snap *Snapshot) Filename() string {
	outcome := "other"
	switch snap.Status {
	case mines.Won.String():
		outcome = "win"
	case mines.Lost.String():
		outcome = "loss"
	}
	return fmt.Sprintf("%s_%s.yaml", snap.StartedAt.Format("20060102_150405"), outcome)
}

// Save writes the snapshot into dir and returns the file path.
func (snap *Snapshot) Save(dir string) (string, error) {
	out, err := snap.Serialize()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, snap.Filename())
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
