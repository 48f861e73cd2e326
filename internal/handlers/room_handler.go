package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/DevKor-github/onboarding-team2-be/internal/handlers/ws"
	"github.com/DevKor-github/onboarding-team2-be/internal/httpx"
	"github.com/DevKor-github/onboarding-team2-be/internal/service"
)

type RoomHandler struct {
	roomService   *service.RoomService
	unreadService *service.UnreadService
	hub           roomBroadcaster
}

func NewRoomHandler(roomService *service.RoomService, unreadService *service.UnreadService, hub roomBroadcaster) *RoomHandler {
	return &RoomHandler{roomService: roomService, unreadService: unreadService, hub: hub}
}

func (h *RoomHandler) CreateRoom(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	var input service.CreateRoomInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if input.Name == "" {
		return httpx.BadRequest(c, "missing_name", "Room name is required")
	}

	room, err := h.roomService.CreateRoom(userID, input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(room.ToResponse())
}

// ListRooms returns the paginated room directory
func (h *RoomHandler) ListRooms(c *fiber.Ctx) error {
	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", 20)

	rooms, err := h.roomService.ListRooms(offset, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(rooms)
}

// ListJoinedRooms returns the rooms the caller participates in
func (h *RoomHandler) ListJoinedRooms(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", 20)

	rooms, err := h.roomService.ListJoinedRooms(userID, offset, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(rooms)
}

func (h *RoomHandler) GetRoom(c *fiber.Ctx) error {
	roomID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_room_id", "Invalid room ID")
	}

	room, err := h.roomService.GetRoom(roomID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(room.ToResponse())
}

func (h *RoomHandler) JoinRoom(c *fiber.Ctx) error {
	roomID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_room_id", "Invalid room ID")
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	room, err := h.roomService.Join(roomID, userID)
	if err != nil {
		return respondError(c, err)
	}

	h.broadcastMembership(roomID, userID, "userJoined")
	return c.JSON(room.ToResponse())
}

func (h *RoomHandler) LeaveRoom(c *fiber.Ctx) error {
	roomID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_room_id", "Invalid room ID")
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	room, err := h.roomService.Leave(roomID, userID)
	if err != nil {
		return respondError(c, err)
	}

	h.broadcastMembership(roomID, userID, "userLeft")
	return c.JSON(room.ToResponse())
}

// broadcastMembership fans out a membership change: the presence event plus
// the recomputed per-message unread map, since joining or leaving changes
// every message's unread denominator. Failure only degrades freshness.
func (h *RoomHandler) broadcastMembership(roomID, userID uint, event string) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastToRoom(roomID, ws.PresenceEvent{Type: event, RoomID: roomID, UserID: userID})

	counts, err := h.unreadService.CountUnreadPerMessage(roomID, 0, 0)
	if err != nil {
		return
	}
	h.hub.BroadcastToRoom(roomID, ws.UnreadCountsEvent{Type: "unreadCounts", RoomID: roomID, Counts: counts})
}

// GetUnreadCount returns the caller's unread count for one room
func (h *RoomHandler) GetUnreadCount(c *fiber.Ctx) error {
	roomID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_room_id", "Invalid room ID")
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	count, err := h.unreadService.CountUnreadForUser(roomID, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"room_id": roomID, "count": count})
}

// GetUnreadPerMessage returns how many participants have not read each message
func (h *RoomHandler) GetUnreadPerMessage(c *fiber.Ctx) error {
	roomID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_room_id", "Invalid room ID")
	}

	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	counts, err := h.unreadService.CountUnreadPerMessage(roomID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"room_id": roomID, "counts": counts})
}

type UnreadBatchRequest struct {
	RoomIDs []uint `json:"room_ids"`
}

// GetUnreadBatch answers the inbox-badge query across many rooms at once
func (h *RoomHandler) GetUnreadBatch(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	var req UnreadBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if len(req.RoomIDs) == 0 {
		return httpx.BadRequest(c, "missing_room_ids", "room_ids is required")
	}

	counts, err := h.unreadService.CountUnreadForRooms(userID, req.RoomIDs)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(counts)
}
