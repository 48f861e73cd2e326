package models

import (
	"time"

	"gorm.io/gorm"
)

type Room struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string `gorm:"size:100" json:"name"`
	IsGroup   bool   `gorm:"default:false" json:"is_group"`
	Tags      string `gorm:"size:255" json:"tags"` // comma-separated
	CreatorID uint   `gorm:"not null" json:"creator_id"`

	Creator      User              `gorm:"foreignKey:CreatorID" json:"creator"`
	Participants []RoomParticipant `gorm:"foreignKey:RoomID" json:"participants"`
}

// RoomParticipant is one row per (room, user). The row doubles as the user's
// read pointer: LastReadMessageID is nil until the user has confirmed reading
// something, so every participant always has exactly one pointer entry.
type RoomParticipant struct {
	RoomID            uint      `gorm:"primaryKey" json:"room_id"`
	UserID            uint      `gorm:"primaryKey" json:"user_id"`
	LastReadMessageID *uint     `json:"last_read_message_id"`
	JoinedAt          time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
	Room Room `gorm:"foreignKey:RoomID" json:"-"`
}

// HasRead reports whether the participant has read the given message.
// A nil pointer means nothing has been confirmed read.
func (p *RoomParticipant) HasRead(messageID uint) bool {
	return p.LastReadMessageID != nil && *p.LastReadMessageID >= messageID
}

type RoomResponse struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	IsGroup      bool       `json:"is_group"`
	Tags         string     `json:"tags"`
	CreatorID    uint       `json:"creator_id"`
	Participants []uint     `json:"participants"`
	LastRead     map[uint]*uint `json:"last_read"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (r *Room) ToResponse() RoomResponse {
	participants := make([]uint, 0, len(r.Participants))
	lastRead := make(map[uint]*uint, len(r.Participants))
	for _, p := range r.Participants {
		participants = append(participants, p.UserID)
		lastRead[p.UserID] = p.LastReadMessageID
	}
	return RoomResponse{
		ID:           r.ID,
		Name:         r.Name,
		IsGroup:      r.IsGroup,
		Tags:         r.Tags,
		CreatorID:    r.CreatorID,
		Participants: participants,
		LastRead:     lastRead,
		CreatedAt:    r.CreatedAt,
	}
}

// RoomSummary is the directory listing shape: room metadata plus the
// participant count and the timestamp of the most recent message.
type RoomSummary struct {
	RoomID      uint       `json:"room_id"`
	Name        string     `json:"name"`
	Tags        string     `json:"tags"`
	Size        int        `json:"size"`
	LastMsgSent *time.Time `json:"last_msg_sent"`
}
