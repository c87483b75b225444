// Package repository persists game sessions and the record table.
package repository

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/buscaminas/internal/mines"
)

var (
	ErrNotFound       = errors.New("game session not found")
	ErrAlreadyClaimed = errors.New("game session is already claimed")
	ErrNotWon         = errors.New("game session is not won")
	ErrNickname       = errors.New("nickname must be 1 to 32 characters")
)

type Store interface {
	CreateSession(ctx context.Context, s *mines.GameSession) (sessionId string, err error)
	FetchSession(ctx context.Context, sessionId string, opts ...mines.SessionOption) (*mines.GameSession, error)
	UpdateSession(ctx context.Context, sessionId string, s *mines.GameSession) error
	Records(ctx context.Context, opts ...RecordsOption) ([]Record, error)
	ClaimRecord(ctx context.Context, sessionId, nickname string) (*Record, error)
}

// NewSessionId returns a random UUID encoded as unpadded URL-safe base64.
func NewSessionId() string {
	u := [16]byte(uuid.New())
	return base64.RawURLEncoding.EncodeToString(u[:])
}

type Record struct {
	SessionId string    `json:"session_id" db:"game_session_id"`
	Nickname  string    `json:"nickname" db:"nickname"`
	Rows      int       `json:"rows" db:"rows"`
	Cols      int       `json:"cols" db:"cols"`
	MineCount int       `json:"mine_count" db:"mine_count"`
	Playtime  float64   `json:"playtime" db:"playtime"` // seconds
	EndedAt   time.Time `json:"ended_at" db:"ended_at"`
}

func (r Record) Config() mines.GameConfig {
	return mines.GameConfig{Rows: r.Rows, Cols: r.Cols, MineCount: r.MineCount}
}

func validNickname(nickname string) bool {
	n := len([]rune(nickname))
	return 0 < n && n <= 32
}

func endedAt(s *mines.GameSession) *time.Time {
	if s.EndedAt.IsZero() {
		return nil
	}
	t := s.EndedAt
	return &t
}

var (
	_ Store = (*Postgres)(nil)
	_ Store = (*Memory)(nil)
)
