package handlers

import (
	"net/http"
	"strings"

	ws "github.com/gorilla/websocket"

	"github.com/dom/user-directory/internal/api/middleware"
	"github.com/dom/user-directory/internal/domain"
	"github.com/dom/user-directory/internal/logger"
	"github.com/dom/user-directory/internal/websocket"
)

type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader ws.Upgrader
	log      *logger.Logger
}

// NewWebSocketHandler accepts upgrades from the allowed origins and from
// non-browser clients that send no Origin at all.
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string, log *logger.Logger) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimSuffix(strings.ToLower(origin), "/")] = true
	}

	return &WebSocketHandler{
		hub: hub,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[strings.TrimSuffix(strings.ToLower(origin), "/")]
			},
		},
		log: log,
	}
}

// Handle runs behind middleware.Auth.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	sub, ok := middleware.GetSubject(r.Context())
	if !ok {
		writeError(w, r, h.log, domain.ErrUnauthenticated)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, sub)
	if err := h.hub.Register(client); err != nil {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
