package repository

import (
	"time"

	"github.com/DevKor-github/onboarding-team2-be/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Update(user *models.User) error
	SearchUsers(query string, limit int) ([]models.User, error)
}

// RoomRepositoryInterface defines the contract for room repository operations.
// The participant row is the read pointer: anything touching membership also
// touches unread bookkeeping.
type RoomRepositoryInterface interface {
	Create(room *models.Room) error
	FindByID(id uint) (*models.Room, error)
	Exists(id uint) (bool, error)
	ListRooms(offset, limit int) ([]models.Room, error)
	ListRoomsByUser(userID uint, offset, limit int) ([]models.Room, error)
	AddParticipant(roomID, userID uint) error
	RemoveParticipant(roomID, userID uint) error
	ResetPointer(roomID, userID uint) error
	AdvancePointer(roomID, userID, messageID uint) error
	GetParticipant(roomID, userID uint) (*models.RoomParticipant, error)
	ListParticipants(roomID uint) ([]models.RoomParticipant, error)
	IsParticipant(roomID, userID uint) (bool, error)
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	// CreateWithPointerAdvance appends the message and advances the sender's
	// read pointer to the new id in one transaction.
	CreateWithPointerAdvance(message *models.Message) error
	FindByID(id uint) (*models.Message, error)
	FindByClientID(clientID string, senderID uint) (*models.Message, error)
	FindRoomMessages(roomID uint, limit int) ([]models.Message, error)
	FindRoomMessagesCursor(roomID uint, cursor uint, limit int) ([]models.Message, error)
	CountByRoom(roomID uint) (int64, error)
	CountAfter(roomID, messageID uint) (int64, error)
	LatestMessageID(roomID uint) (uint, error)
	LastMessageTime(roomID uint) (*time.Time, error)
	IsMessageInRoom(messageID, roomID uint) (bool, error)
}
