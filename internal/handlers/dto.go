package handlers

import (
	"errors"

	"github.com/vancomm/buscaminas/internal/mines"
)

type NewGameParams struct {
	Difficulty string `schema:"difficulty"`
	Rows       int    `schema:"rows"`
	Cols       int    `schema:"cols"`
	MineCount  int    `schema:"mine_count"`
}

// Config resolves either a named difficulty or explicit dimensions.
func (p NewGameParams) Config() (mines.GameConfig, error) {
	if p.Difficulty != "" {
		c, ok := mines.Preset(p.Difficulty)
		if !ok {
			return c, errors.New("unknown difficulty " + p.Difficulty)
		}
		return c, nil
	}
	c := mines.GameConfig{Rows: p.Rows, Cols: p.Cols, MineCount: p.MineCount}
	return c, c.Validate()
}

type PosParams struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

type ClaimParams struct {
	Nickname string `schema:"nickname,required"`
}

type RecordsParams struct {
	NewGameParams
	Nickname string `schema:"nickname"`
	Limit    int    `schema:"limit"`
}

type GameSessionDTO struct {
	SessionId      string       `json:"session_id"`
	Grid           mines.Grid   `json:"grid"`
	Rows           int          `json:"rows"`
	Cols           int          `json:"cols"`
	MineCount      int          `json:"mine_count"`
	FlagsRemaining int          `json:"flags_remaining"`
	Status         mines.Status `json:"status"`
	Elapsed        int          `json:"elapsed"`
	StartedAt      int64        `json:"started_at"`
	EndedAt        *int64       `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(sessionId string, s *mines.GameSession) *GameSessionDTO {
	var endedAt *int64
	if !s.EndedAt.IsZero() {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	return &GameSessionDTO{
		SessionId:      sessionId,
		Grid:           s.Grid(),
		Rows:           s.Board.Rows,
		Cols:           s.Board.Cols,
		MineCount:      s.Board.MineCount,
		FlagsRemaining: s.FlagsRemaining(),
		Status:         s.Status,
		Elapsed:        s.ElapsedSeconds(),
		StartedAt:      s.StartedAt.UnixMilli(),
		EndedAt:        endedAt,
	}
}

type MoveDTO struct {
	*GameSessionDTO
	Events []Event `json:"events"`
}
