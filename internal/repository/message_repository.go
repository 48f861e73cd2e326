package repository

import (
	"time"

	"github.com/DevKor-github/onboarding-team2-be/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// CreateWithPointerAdvance appends the message and advances the sender's read
// pointer to the fresh id inside one transaction. Either both land or neither
// does; a room must never hold a message whose sender still counts it unread.
func (r *MessageRepository) CreateWithPointerAdvance(message *models.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Exec(`
			UPDATE room_participants
			SET last_read_message_id = GREATEST(COALESCE(last_read_message_id, 0), ?)
			WHERE room_id = ? AND user_id = ?
		`, message.ID, message.RoomID, message.SenderID).Error
	})
}

func (r *MessageRepository) FindByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepository) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").
		Where("client_id = ? AND sender_id = ?", clientID, senderID).
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepository) FindRoomMessages(roomID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").
		Where("room_id = ?", roomID).
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) FindRoomMessagesCursor(roomID uint, cursor uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").
		Where("room_id = ? AND id < ?", roomID, cursor).
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) CountByRoom(roomID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).Where("room_id = ?", roomID).Count(&count).Error
	return count, err
}

func (r *MessageRepository) CountAfter(roomID, messageID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("room_id = ? AND id > ?", roomID, messageID).
		Count(&count).Error
	return count, err
}

func (r *MessageRepository) LatestMessageID(roomID uint) (uint, error) {
	var id *uint
	err := r.db.Model(&models.Message{}).
		Where("room_id = ?", roomID).
		Select("MAX(id)").
		Scan(&id).Error
	if err != nil || id == nil {
		return 0, err
	}
	return *id, nil
}

func (r *MessageRepository) LastMessageTime(roomID uint) (*time.Time, error) {
	var t *time.Time
	err := r.db.Model(&models.Message{}).
		Where("room_id = ?", roomID).
		Select("MAX(created_at)").
		Scan(&t).Error
	return t, err
}

func (r *MessageRepository) IsMessageInRoom(messageID, roomID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("id = ? AND room_id = ?", messageID, roomID).
		Count(&count).Error
	return count > 0, err
}
