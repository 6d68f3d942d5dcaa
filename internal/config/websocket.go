package config

import (
	"net/http"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

func NewWebSocket() *WebSocket {
	return &WebSocket{
		Upgrader: websocket.Upgrader{
			// cross-origin is handled by the CORS middleware before
			// the upgrade ever happens
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}
