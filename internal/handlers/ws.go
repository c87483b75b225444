package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/buscaminas/internal/command"
	"github.com/vancomm/buscaminas/internal/repository"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsMaxMessage = 4 << 10
)

// ConnectWS runs the command protocol over a WebSocket. Every text message
// holds one or more command lines; the reply is the session with the
// events the commands produced, or an error object.
func (g *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	sessionId := r.PathValue("id")
	s, ok := g.fetch(r.Context(), w, sessionId)
	if !ok {
		return
	}

	c, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Warn("upgrade")
		return
	}
	defer c.Close()

	log := g.log.WithField("session_id", sessionId)
	log.Debug("ws connected")

	c.SetReadLimit(wsMaxMessage)
	c.SetReadDeadline(time.Now().Add(wsPongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return
				}
			}
		}
	}()

	write := func(v any) bool {
		c.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := c.WriteJSON(v); err != nil {
			log.WithError(err).Warn("write")
			return false
		}
		return true
	}

	if !write(NewGameSessionDTO(sessionId, s)) {
		return
	}

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("read")
			}
			return
		}
		if mt != websocket.TextMessage {
			c.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "text messages only"),
				time.Now().Add(wsWriteWait),
			)
			return
		}

		var cmds []command.Command
		var parseErr error
		for i, line := range command.Lines(string(message)) {
			cmd, err := command.Parse(line)
			if err != nil {
				parseErr = lineError{i, err}
				break
			}
			cmds = append(cmds, cmd)
		}
		if parseErr != nil {
			if !write(wrapError(parseErr)) {
				return
			}
			continue
		}
		log.Debugf("ws > %d command(s)", len(cmds))

		dto, err := g.apply(r.Context(), sessionId, cmds...)
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, errInternal) {
			write(wrapError(err))
			return
		}
		if err != nil {
			if !write(wrapError(err)) {
				return
			}
			continue
		}
		if !write(dto) {
			return
		}
	}
}
