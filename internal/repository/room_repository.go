package repository

import (
	"errors"

	"github.com/DevKor-github/onboarding-team2-be/internal/models"
	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(room *models.Room) error {
	return r.db.Create(room).Error
}

func (r *RoomRepository) FindByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.Preload("Participants").Preload("Creator").First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Room{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *RoomRepository) ListRooms(offset, limit int) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.Preload("Participants").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rooms).Error
	return rooms, err
}

func (r *RoomRepository) ListRoomsByUser(userID uint, offset, limit int) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.Joins("JOIN room_participants ON room_participants.room_id = rooms.id").
		Where("room_participants.user_id = ?", userID).
		Preload("Participants").
		Order("rooms.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rooms).Error
	return rooms, err
}

// AddParticipant inserts the participant row with an unset read pointer. A
// rejoin hits the conflict path and the existing pointer survives untouched.
func (r *RoomRepository) AddParticipant(roomID, userID uint) error {
	return r.db.Exec(`
		INSERT INTO room_participants (room_id, user_id, last_read_message_id, joined_at)
		VALUES (?, ?, NULL, NOW())
		ON CONFLICT (room_id, user_id) DO NOTHING
	`, roomID, userID).Error
}

func (r *RoomRepository) RemoveParticipant(roomID, userID uint) error {
	return r.db.Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&models.RoomParticipant{}).Error
}

// ResetPointer clears the read pointer, marking all room history unread again.
func (r *RoomRepository) ResetPointer(roomID, userID uint) error {
	return r.db.Model(&models.RoomParticipant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Update("last_read_message_id", nil).Error
}

// AdvancePointer moves the read pointer forward, never backward. A regressing
// id leaves the stored pointer as-is.
func (r *RoomRepository) AdvancePointer(roomID, userID, messageID uint) error {
	return r.db.Exec(`
		UPDATE room_participants
		SET last_read_message_id = GREATEST(COALESCE(last_read_message_id, 0), ?)
		WHERE room_id = ? AND user_id = ?
	`, messageID, roomID, userID).Error
}

func (r *RoomRepository) GetParticipant(roomID, userID uint) (*models.RoomParticipant, error) {
	var p models.RoomParticipant
	err := r.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RoomRepository) ListParticipants(roomID uint) ([]models.RoomParticipant, error) {
	var participants []models.RoomParticipant
	err := r.db.Where("room_id = ?", roomID).Find(&participants).Error
	return participants, err
}

func (r *RoomRepository) IsParticipant(roomID, userID uint) (bool, error) {
	_, err := r.GetParticipant(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
