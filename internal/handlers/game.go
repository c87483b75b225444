package handlers

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/buscaminas/internal/command"
	"github.com/vancomm/buscaminas/internal/mines"
	"github.com/vancomm/buscaminas/internal/repository"
)

type GameHandler struct {
	log      logrus.FieldLogger
	store    repository.Store
	upgrader *websocket.Upgrader
	locks    *sessionLocks
	now      func() time.Time

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

type Option func(*GameHandler)

func WithClock(now func() time.Time) Option {
	return func(g *GameHandler) {
		g.now = now
	}
}

func NewGameHandler(
	log logrus.FieldLogger,
	store repository.Store,
	upgrader *websocket.Upgrader,
	rnd *rand.Rand,
	opts ...Option,
) *GameHandler {
	g := &GameHandler{
		log:      log,
		store:    store,
		upgrader: upgrader,
		locks:    newSessionLocks(),
		now:      func() time.Time { return time.Now().UTC() },
		rnd:      rnd,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GameHandler) newSession(config mines.GameConfig) (*mines.GameSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return mines.NewSession(config, g.rnd, mines.WithClock(g.now))
}

// fetch loads a session and reports failures to the client.
func (g *GameHandler) fetch(
	ctx context.Context, w http.ResponseWriter, sessionId string,
) (*mines.GameSession, bool) {
	s, err := g.store.FetchSession(ctx, sessionId, mines.WithClock(g.now))
	if errors.Is(err, repository.ErrNotFound) {
		sendError(w, g.log, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		g.log.WithError(err).WithField("session_id", sessionId).Error("unable to fetch session")
		w.WriteHeader(http.StatusInternalServerError)
		return nil, false
	}
	return s, true
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	var params NewGameParams
	if err := decodeQuery(&params, r); err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	config, err := params.Config()
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}

	s, err := g.newSession(config)
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	sessionId, err := g.store.CreateSession(r.Context(), s)
	if err != nil {
		g.log.WithError(err).Error("unable to create game session")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	g.log.WithFields(logrus.Fields{
		"session_id": sessionId,
		"config":     config.String(),
	}).Debug("created game session")

	sendJSONOrLog(w, g.log, http.StatusCreated, NewGameSessionDTO(sessionId, s))
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	sessionId := r.PathValue("id")
	s, ok := g.fetch(r.Context(), w, sessionId)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameSessionDTO(sessionId, s))
}

var errInternal = errors.New("internal error")

// apply runs commands on one session under its lock and stores the result
// when anything changed.
func (g *GameHandler) apply(
	ctx context.Context, sessionId string, cmds ...command.Command,
) (*MoveDTO, error) {
	unlock := g.locks.lock(sessionId)
	defer unlock()

	log := g.log.WithField("session_id", sessionId)
	rec := &eventRecorder{}
	s, err := g.store.FetchSession(ctx, sessionId,
		mines.WithClock(g.now), mines.WithNotifier(rec),
	)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		log.WithError(err).Error("unable to fetch session")
		return nil, errInternal
	}
	for _, c := range cmds {
		if err := c.Apply(s); err != nil {
			return nil, err
		}
	}

	events := rec.take()
	if len(events) == 0 {
		return &MoveDTO{NewGameSessionDTO(sessionId, s), events}, nil
	}
	if err := g.store.UpdateSession(ctx, sessionId, s); err != nil {
		log.WithError(err).Error("unable to update session")
		return nil, errInternal
	}
	if s.Over() {
		log.WithFields(logrus.Fields{
			"status":  s.Status.String(),
			"elapsed": s.ElapsedSeconds(),
		}).Info("game over")
	}
	return &MoveDTO{NewGameSessionDTO(sessionId, s), events}, nil
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errInternal):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (g *GameHandler) applyAndSend(w http.ResponseWriter, r *http.Request, cmds ...command.Command) {
	dto, err := g.apply(r.Context(), r.PathValue("id"), cmds...)
	if err != nil {
		sendError(w, g.log, statusCode(err), err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, dto)
}

func (g *GameHandler) move(op command.Op) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pos PosParams
		if err := decodeQuery(&pos, r); err != nil {
			sendError(w, g.log, http.StatusBadRequest, err)
			return
		}
		g.applyAndSend(w, r, command.Command{Op: op, Row: pos.Row, Col: pos.Col})
	}
}

func (g *GameHandler) Open() http.HandlerFunc  { return g.move(command.Open) }
func (g *GameHandler) Flag() http.HandlerFunc  { return g.move(command.Flag) }
func (g *GameHandler) Chord() http.HandlerFunc { return g.move(command.Chord) }

func (g *GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	g.applyAndSend(w, r, command.Command{Op: command.Forfeit})
}

// Batch accepts newline-separated commands in the request body:
//
//	o row col // open a cell
//	c row col // chord a cell
//	f row col // flag a cell
//
// Nothing is applied if any line fails to parse.
func (g *GameHandler) Batch(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	var cmds []command.Command
	for i, line := range command.Lines(body) {
		c, err := command.Parse(line)
		if err != nil {
			sendError(w, g.log, http.StatusBadRequest, lineError{i, err})
			return
		}
		cmds = append(cmds, c)
	}
	g.applyAndSend(w, r, cmds...)
}

func (g *GameHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var params ClaimParams
	if err := decodeQuery(&params, r); err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	record, err := g.store.ClaimRecord(r.Context(), r.PathValue("id"), params.Nickname)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		sendError(w, g.log, http.StatusNotFound, err)
	case errors.Is(err, repository.ErrNickname):
		sendError(w, g.log, http.StatusBadRequest, err)
	case errors.Is(err, repository.ErrNotWon), errors.Is(err, repository.ErrAlreadyClaimed):
		sendError(w, g.log, http.StatusConflict, err)
	case err != nil:
		g.log.WithError(err).Error("unable to claim record")
		w.WriteHeader(http.StatusInternalServerError)
	default:
		sendJSONOrLog(w, g.log, http.StatusCreated, record)
	}
}
