package service

import (
	"time"

	"github.com/DevKor-github/onboarding-team2-be/internal/models"
	"gorm.io/gorm"
)

// MockMessageRepository is an in-memory implementation of
// MessageRepositoryInterface. IDs are assigned in insertion order, which is
// exactly the ordering contract the unread accounting relies on.
type MockMessageRepository struct {
	messages []*models.Message
	nextID   uint
	rooms    *MockRoomRepository

	// findByClientIDErr, when set, simulates a store failure during
	// duplicate detection.
	findByClientIDErr error
}

func NewMockMessageRepository(rooms *MockRoomRepository) *MockMessageRepository {
	return &MockMessageRepository{nextID: 1, rooms: rooms}
}

func (m *MockMessageRepository) Create(message *models.Message) error {
	if message.ID == 0 {
		message.ID = m.nextID
		m.nextID++
	}
	message.CreatedAt = time.Now()
	m.messages = append(m.messages, message)
	return nil
}

func (m *MockMessageRepository) CreateWithPointerAdvance(message *models.Message) error {
	if err := m.Create(message); err != nil {
		return err
	}
	return m.rooms.AdvancePointer(message.RoomID, message.SenderID, message.ID)
}

func (m *MockMessageRepository) FindByID(id uint) (*models.Message, error) {
	for _, message := range m.messages {
		if message.ID == id {
			copied := *message
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMessageRepository) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	if m.findByClientIDErr != nil {
		return nil, m.findByClientIDErr
	}
	for _, message := range m.messages {
		if message.ClientID == clientID && message.SenderID == senderID {
			copied := *message
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMessageRepository) FindRoomMessages(roomID uint, limit int) ([]models.Message, error) {
	var out []models.Message
	for i := len(m.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if m.messages[i].RoomID == roomID {
			out = append(out, *m.messages[i])
		}
	}
	return out, nil
}

func (m *MockMessageRepository) FindRoomMessagesCursor(roomID uint, cursor uint, limit int) ([]models.Message, error) {
	var out []models.Message
	for i := len(m.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if m.messages[i].RoomID == roomID && m.messages[i].ID < cursor {
			out = append(out, *m.messages[i])
		}
	}
	return out, nil
}

func (m *MockMessageRepository) CountByRoom(roomID uint) (int64, error) {
	var count int64
	for _, message := range m.messages {
		if message.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

func (m *MockMessageRepository) CountAfter(roomID, messageID uint) (int64, error) {
	var count int64
	for _, message := range m.messages {
		if message.RoomID == roomID && message.ID > messageID {
			count++
		}
	}
	return count, nil
}

func (m *MockMessageRepository) LatestMessageID(roomID uint) (uint, error) {
	var latest uint
	for _, message := range m.messages {
		if message.RoomID == roomID && message.ID > latest {
			latest = message.ID
		}
	}
	return latest, nil
}

func (m *MockMessageRepository) LastMessageTime(roomID uint) (*time.Time, error) {
	var last *time.Time
	for _, message := range m.messages {
		if message.RoomID == roomID {
			t := message.CreatedAt
			last = &t
		}
	}
	return last, nil
}

func (m *MockMessageRepository) IsMessageInRoom(messageID, roomID uint) (bool, error) {
	for _, message := range m.messages {
		if message.ID == messageID {
			return message.RoomID == roomID, nil
		}
	}
	return false, nil
}
