package service

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tawjihai/tawjih-be/types"
)

// WebSocketService serves the interactive chat connection. Each incoming
// chat frame runs the full assistant pipeline and the answer is written
// back on the same connection.
type WebSocketService struct {
	assistant *AssistantService
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

func NewWebSocketService(assistant *AssistantService, log *zap.Logger) *WebSocketService {
	return &WebSocketService{
		assistant: assistant,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
		logger: log,
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		messageType, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			s.writeError(conn, messageType, "invalid message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(conn, messageType, "invalid payload")
				continue
			}
			var payload types.ChatRequest
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				s.writeError(conn, messageType, "invalid payload")
				continue
			}

			response := s.assistant.Respond(r.Context(), payload.Query, payload.Language, payload.SessionID)
			if err := conn.WriteJSON(types.WebSocketResponse{
				Type:    types.TypeWebsocketChat,
				Payload: response,
			}); err != nil {
				s.logger.Warn("websocket write error", zap.Error(err))
			}

		case types.TypeWebsocketPing:
			if err := conn.WriteJSON(types.WebSocketResponse{Type: types.TypeWebsocketPong}); err != nil {
				s.logger.Warn("websocket write error", zap.Error(err))
			}

		default:
			s.writeError(conn, messageType, "invalid message type")
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, messageType int, msg string) {
	res := types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: msg,
	}
	data, _ := json.Marshal(res)
	if err := conn.WriteMessage(messageType, data); err != nil {
		s.logger.Warn("websocket write error", zap.Error(err))
	}
}
