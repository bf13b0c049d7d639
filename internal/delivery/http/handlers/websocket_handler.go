package handlers

import (
	"log/slog"

	"github.com/LavaJover/shvark-vip-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-vip-service/internal/delivery/ws"
	"github.com/gin-gonic/gin"
)

type WebSocketHandler struct {
	hub *ws.Hub
}

func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	if err := h.hub.Serve(c.Writer, c.Request, middleware.UserID(c)); err != nil {
		slog.Warn("failed to upgrade websocket connection", "error", err.Error())
	}
}
