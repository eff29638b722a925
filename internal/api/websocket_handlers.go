package api

import (
	"file-panel/internal/websocket"
	"net/http"

	"go.uber.org/zap"
)

// @Summary      Live file events
// @Description  Upgrades to a websocket that receives every journaled file event.
// @Tags         events
// @Security     BearerAuth
// @Success      101  {string}  string "Switching Protocols"
// @Router       /admin/ws [get]
func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipalFromContext(r.Context())

	upgrader := websocket.Upgrader
	upgrader.CheckOrigin = websocket.SameOrigin(s.config.CORS.AllowedOrigins)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := websocket.NewClient(s.wsHub, conn, principal.User.ID)
	select {
	case s.wsHub.Register <- client:
	case <-s.wsHub.Done():
		conn.Close()
		return
	}

	go client.ReadPump()
	go client.WritePump()
}
