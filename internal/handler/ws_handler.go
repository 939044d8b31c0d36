package handler

import (
	"net/http"

	"storefront-admin-server/internal/middleware"
	"storefront-admin-server/internal/websocket"
	"storefront-admin-server/pkg/response"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	hub      *websocket.Hub
	tokens   middleware.TokenValidator
	upgrader ws.Upgrader
	logger   *zap.Logger
}

func NewWebSocketHandler(hub *websocket.Hub, tokens middleware.TokenValidator, readBuffer, writeBuffer int, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: ws.Upgrader{
			ReadBufferSize:  readBuffer,
			WriteBufferSize: writeBuffer,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// HandleConnection authenticates with ?token= or an Authorization header,
// since browsers cannot set headers on websocket handshakes.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token, _ = middleware.BearerToken(r.Header.Get("Authorization"))
	}

	if token == "" {
		response.Unauthorized(w, "Missing authorization token")
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		h.logger.Debug("websocket token rejected", zap.Error(err))
		response.Unauthorized(w, "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := websocket.NewClient(uuid.New().String(), claims.UserID, conn, h.hub)
	if !h.hub.Join(client) {
		h.logger.Debug("websocket hub stopped, closing connection")
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
