package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/azizrestaurant/restaurant-platform/internal/realtime"
)

// websocketHandler upgrades the connection and hands it to the hub. Room
// membership is driven by join messages sent over the socket.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			allowed := s.config.Realtime.AllowedOrigin
			return allowed == "" || r.Header.Get("Origin") == allowed
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", "error", err, "remoteAddr", r.RemoteAddr)
		return
	}

	client := realtime.NewClient(s.hub, conn)
	go client.Run()
}
