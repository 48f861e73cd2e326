package models

import (
	"time"
)

// Message is an immutable, append-only chat message. The auto-increment ID is
// the ordering authority for all read/unread comparisons: within a room,
// id(a) < id(b) means a was sent before b. No separate sequence column exists.
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Client-side tracking
	ClientID string `gorm:"type:varchar(36);uniqueIndex:idx_client_sender" json:"client_id"` // UUID for deduplication

	RoomID   uint `gorm:"not null;index" json:"room_id"`
	SenderID uint `gorm:"not null;uniqueIndex:idx_client_sender;index" json:"sender_id"`

	Content string `gorm:"type:text;not null" json:"content"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender"`
	Room   Room `gorm:"foreignKey:RoomID" json:"-"`
}

type MessageResponse struct {
	ID         uint      `json:"id"`
	ClientID   string    `json:"client_id"`
	RoomID     uint      `json:"room_id"`
	SenderID   uint      `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		ClientID:   m.ClientID,
		RoomID:     m.RoomID,
		SenderID:   m.SenderID,
		SenderName: m.Sender.Username,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}
