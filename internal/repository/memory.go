package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/vancomm/buscaminas/internal/mines"
)

type memorySession struct {
	config    mines.GameConfig
	status    mines.Status
	startedAt time.Time
	endedAt   time.Time
	state     []byte
}

type memoryRecord struct {
	nickname  string
	claimedAt time.Time
}

// Memory keeps everything in process. Sessions are stored gob encoded so
// callers never share a board with the store.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	records  map[string]memoryRecord
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]memorySession),
		records:  make(map[string]memoryRecord),
	}
}

func newMemorySession(s *mines.GameSession) (memorySession, error) {
	state, err := s.Bytes()
	if err != nil {
		return memorySession{}, err
	}
	return memorySession{
		config:    s.Config(),
		status:    s.Status,
		startedAt: s.StartedAt,
		endedAt:   s.EndedAt,
		state:     state,
	}, nil
}

func (m *Memory) CreateSession(_ context.Context, s *mines.GameSession) (string, error) {
	ms, err := newMemorySession(s)
	if err != nil {
		return "", err
	}
	sessionId := NewSessionId()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionId] = ms
	return sessionId, nil
}

func (m *Memory) FetchSession(
	_ context.Context, sessionId string, opts ...mines.SessionOption,
) (*mines.GameSession, error) {
	m.mu.RLock()
	ms, ok := m.sessions[sessionId]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return mines.DecodeSession(ms.state, opts...)
}

func (m *Memory) UpdateSession(_ context.Context, sessionId string, s *mines.GameSession) error {
	ms, err := newMemorySession(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionId]; !ok {
		return ErrNotFound
	}
	m.sessions[sessionId] = ms
	return nil
}

func (m *Memory) record(sessionId string) (Record, bool) {
	ms, ok := m.sessions[sessionId]
	if !ok || ms.status != mines.Won || ms.endedAt.IsZero() {
		return Record{}, false
	}
	mr, ok := m.records[sessionId]
	if !ok {
		return Record{}, false
	}
	return Record{
		SessionId: sessionId,
		Nickname:  mr.nickname,
		Rows:      ms.config.Rows,
		Cols:      ms.config.Cols,
		MineCount: ms.config.MineCount,
		Playtime:  ms.endedAt.Sub(ms.startedAt).Seconds(),
		EndedAt:   ms.endedAt,
	}, true
}

func (m *Memory) Records(_ context.Context, opts ...RecordsOption) ([]Record, error) {
	filters, err := newRecordFilters(opts)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	records := make([]Record, 0, len(m.records))
	for sessionId := range m.records {
		if r, ok := m.record(sessionId); ok && filters.match(r) {
			records = append(records, r)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(records, func(a, b Record) int {
		return cmp.Or(
			cmp.Compare(a.Playtime, b.Playtime),
			a.EndedAt.Compare(b.EndedAt),
			cmp.Compare(a.SessionId, b.SessionId),
		)
	})
	if filters.limit > 0 && len(records) > filters.limit {
		records = records[:filters.limit]
	}
	return records, nil
}

func (m *Memory) ClaimRecord(_ context.Context, sessionId, nickname string) (*Record, error) {
	if !validNickname(nickname) {
		return nil, ErrNickname
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.sessions[sessionId]
	if !ok {
		return nil, ErrNotFound
	}
	if ms.status != mines.Won {
		return nil, ErrNotWon
	}
	if _, ok := m.records[sessionId]; ok {
		return nil, ErrAlreadyClaimed
	}
	m.records[sessionId] = memoryRecord{nickname: nickname, claimedAt: time.Now()}

	r, _ := m.record(sessionId)
	return &r, nil
}
