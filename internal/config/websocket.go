package config

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

// Upgrader accepts any origin in development and the allowed origins
// otherwise. With no allowed origins every origin is accepted.
func (c Config) Upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if c.Development() || len(c.AllowedOrigins) == 0 {
				return true
			}
			return slices.Contains(c.AllowedOrigins, r.Header.Get("Origin"))
		},
	}
}
