package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/DevKor-github/onboarding-team2-be/internal/handlers/ws"
	"github.com/DevKor-github/onboarding-team2-be/internal/httpx"
	"github.com/DevKor-github/onboarding-team2-be/internal/models"
	"github.com/DevKor-github/onboarding-team2-be/internal/service"
)

type MessageHandler struct {
	chatService   *service.ChatService
	unreadService *service.UnreadService
	hub           roomBroadcaster
}

func NewMessageHandler(chatService *service.ChatService, unreadService *service.UnreadService, hub roomBroadcaster) *MessageHandler {
	return &MessageHandler{chatService: chatService, unreadService: unreadService, hub: hub}
}

// GetMessages returns a room's history newest first. cursor pages backward:
// pass the lowest message id from the previous page.
func (h *MessageHandler) GetMessages(c *fiber.Ctx) error {
	roomID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_room_id", "Invalid room ID")
	}

	cursor := queryUint(c, "cursor")
	limit := queryInt(c, "limit", 50)

	messages, err := h.chatService.GetMessages(roomID, cursor, limit)
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]models.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, messages[i].ToResponse())
	}
	return c.JSON(responses)
}

// SendMessage is the REST path for posting a message; connected sockets still
// receive the fan-out through the shared hub.
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	roomID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_room_id", "Invalid room ID")
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	var input service.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	input.RoomID = roomID

	message, err := h.chatService.SendMessage(userID, input)
	if err != nil {
		return respondError(c, err)
	}

	resp := message.ToResponse()
	h.broadcast(roomID, resp)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

type MarkReadRequest struct {
	LastMessageID uint `json:"last_message_id"`
}

// MarkRead advances the caller's read pointer in the room
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	roomID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_room_id", "Invalid room ID")
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	var req MarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	room, err := h.chatService.MarkAsRead(roomID, userID, req.LastMessageID)
	if err != nil {
		return respondError(c, err)
	}

	h.broadcastUnread(roomID)
	return c.JSON(room.ToResponse())
}

func (h *MessageHandler) broadcast(roomID uint, message models.MessageResponse) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastToRoom(roomID, ws.MessageEvent{Type: "message", Message: message})
	h.broadcastUnread(roomID)
}

func (h *MessageHandler) broadcastUnread(roomID uint) {
	if h.hub == nil {
		return
	}
	counts, err := h.unreadService.CountUnreadPerMessage(roomID, 0, 0)
	if err != nil {
		return
	}
	h.hub.BroadcastToRoom(roomID, ws.UnreadCountsEvent{Type: "unreadCounts", RoomID: roomID, Counts: counts})
}
