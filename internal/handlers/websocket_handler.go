package handlers

import (
	"log"
	"os"

	"github.com/gofiber/websocket/v2"
	"github.com/DevKor-github/onboarding-team2-be/internal/handlers/ws"
	"github.com/DevKor-github/onboarding-team2-be/internal/service"
)

type WebSocketHandler struct {
	chatService   *service.ChatService
	roomService   *service.RoomService
	unreadService *service.UnreadService
	hub           *ws.Hub
}

func NewWebSocketHandler(chatService *service.ChatService, roomService *service.RoomService, unreadService *service.UnreadService) *WebSocketHandler {
	return &WebSocketHandler{
		chatService:   chatService,
		roomService:   roomService,
		unreadService: unreadService,
		hub:           ws.NewHub(),
	}
}

// GetHub returns the hub instance (useful for sending messages from other handlers)
func (h *WebSocketHandler) GetHub() *ws.Hub {
	return h.hub
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID := c.Locals("userID").(uint)
	wsDebug := os.Getenv("WS_DEBUG") == "true"

	client := h.hub.Register(userID, c)
	defer h.hub.Unregister(client)

	ctx := &ws.MessageContext{
		UserID:        userID,
		Client:        client,
		Hub:           h.hub,
		ChatService:   h.chatService,
		RoomService:   h.roomService,
		UnreadService: h.unreadService,
	}

	for {
		messageType, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from user %d: %v", userID, err)
			break
		}

		if wsDebug {
			log.Printf("ws_recv user_id=%d frame_type=%d size=%d", userID, messageType, len(messageBytes))
		}

		// Binary frames are gzip-compressed wrappers
		if messageType == websocket.BinaryMessage {
			decompressed, err := ws.DecompressMessage(messageBytes)
			if err != nil {
				log.Printf("Error decompressing message from user %d: %v", userID, err)
				ws.SendError(c, "decompression_failed", "Failed to decompress message", err.Error())
				continue
			}
			messageBytes = decompressed
		}

		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("Error deserializing message from user %d: %v", userID, err)
			ws.SendError(c, "invalid_message", "Invalid message format", err.Error())
			continue
		}

		if err := msg.Process(ctx); err != nil {
			log.Printf("Error processing message %s from user %d: %v", msg.GetType(), userID, err)
			ws.SendError(c, "processing_failed", "Failed to process message", err.Error())
		}
	}
}
