package ws

import (
	"github.com/DevKor-github/onboarding-team2-be/internal/models"
	"github.com/DevKor-github/onboarding-team2-be/internal/service"
)

// Outbound event payloads. These carry their type inline rather than going
// through the SerializedMessage wrapper; clients switch on the "type" field
// either way.

// MessageEvent announces a newly stored message to room subscribers
type MessageEvent struct {
	Type    string                 `json:"type"`
	Message models.MessageResponse `json:"message"`
}

// UnreadCountsEvent carries the per-message unread map for a room. Sent after
// any mutation that can change read state so all subscribers converge.
type UnreadCountsEvent struct {
	Type   string       `json:"type"`
	RoomID uint         `json:"room_id"`
	Counts map[uint]int `json:"counts"`
}

// PresenceEvent announces a user joining or leaving a room
type PresenceEvent struct {
	Type   string `json:"type"`
	RoomID uint   `json:"room_id"`
	UserID uint   `json:"user_id"`
}

// broadcastUnreadCounts recomputes the room's per-message unread map and fans
// it out. Failure here only degrades freshness, never the triggering call.
func broadcastUnreadCounts(ctx *MessageContext, roomID uint) {
	counts, err := ctx.UnreadService.CountUnreadPerMessage(roomID, 0, 0)
	if err != nil {
		return
	}
	ctx.Hub.BroadcastToRoom(roomID, UnreadCountsEvent{
		Type:   "unreadCounts",
		RoomID: roomID,
		Counts: counts,
	})
}

// MessageJoinRoom subscribes the connection to a room, joining it first if
// the user is not yet a participant.
type MessageJoinRoom struct {
	RoomID uint `json:"room_id"`
}

func (msg *MessageJoinRoom) GetType() string {
	return "joinRoom"
}

func (msg *MessageJoinRoom) Process(ctx *MessageContext) error {
	if _, err := ctx.RoomService.Join(msg.RoomID, ctx.UserID); err != nil {
		return err
	}

	ctx.Hub.JoinRoom(ctx.Client, msg.RoomID)

	ctx.Hub.BroadcastToRoom(msg.RoomID, PresenceEvent{
		Type:   "userJoined",
		RoomID: msg.RoomID,
		UserID: ctx.UserID,
	})
	// A first-time join adds a never-read participant to every message's
	// unread denominator.
	broadcastUnreadCounts(ctx, msg.RoomID)
	return nil
}

// MessageLeaveRoom unsubscribes the connection from a room's broadcasts.
// Room membership itself is dropped over REST; closing a tab should not
// discard the user's read pointer.
type MessageLeaveRoom struct {
	RoomID uint `json:"room_id"`
}

func (msg *MessageLeaveRoom) GetType() string {
	return "leaveRoom"
}

func (msg *MessageLeaveRoom) Process(ctx *MessageContext) error {
	ctx.Hub.LeaveRoom(ctx.Client, msg.RoomID)

	ctx.Hub.BroadcastToRoom(msg.RoomID, PresenceEvent{
		Type:   "userLeft",
		RoomID: msg.RoomID,
		UserID: ctx.UserID,
	})
	return nil
}

// MessageSend stores a chat message and fans it out to the room
type MessageSend struct {
	RoomID   uint   `json:"room_id"`
	ClientID string `json:"client_id,omitempty"`
	Content  string `json:"content"`
}

func (msg *MessageSend) GetType() string {
	return "sendMessage"
}

func (msg *MessageSend) Process(ctx *MessageContext) error {
	stored, err := ctx.ChatService.SendMessage(ctx.UserID, service.SendMessageInput{
		RoomID:   msg.RoomID,
		ClientID: msg.ClientID,
		Content:  msg.Content,
	})
	if err != nil {
		return err
	}

	ctx.Hub.BroadcastToRoom(msg.RoomID, MessageEvent{
		Type:    "message",
		Message: stored.ToResponse(),
	})
	broadcastUnreadCounts(ctx, msg.RoomID)
	return nil
}

// MessageRead advances the sender's read pointer in a room
type MessageRead struct {
	RoomID        uint `json:"room_id"`
	LastMessageID uint `json:"last_message_id"`
}

func (msg *MessageRead) GetType() string {
	return "readMessage"
}

func (msg *MessageRead) Process(ctx *MessageContext) error {
	if _, err := ctx.ChatService.MarkAsRead(msg.RoomID, ctx.UserID, msg.LastMessageID); err != nil {
		return err
	}

	broadcastUnreadCounts(ctx, msg.RoomID)
	return nil
}
