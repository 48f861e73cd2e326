package service

import (
	"sort"
	"time"

	"github.com/DevKor-github/onboarding-team2-be/internal/models"
	"gorm.io/gorm"
)

type participantKey struct {
	roomID uint
	userID uint
}

// MockRoomRepository is an in-memory implementation of RoomRepositoryInterface.
// Participant rows follow the real table's semantics: one row per (room, user),
// inserted with a nil pointer, advance is monotonic, duplicate adds are no-ops.
type MockRoomRepository struct {
	rooms        map[uint]*models.Room
	participants map[participantKey]*models.RoomParticipant
	nextID       uint
}

func NewMockRoomRepository() *MockRoomRepository {
	return &MockRoomRepository{
		rooms:        make(map[uint]*models.Room),
		participants: make(map[participantKey]*models.RoomParticipant),
		nextID:       1,
	}
}

func (m *MockRoomRepository) Create(room *models.Room) error {
	if room.ID == 0 {
		room.ID = m.nextID
		m.nextID++
	}
	room.CreatedAt = time.Now()
	m.rooms[room.ID] = room
	return nil
}

func (m *MockRoomRepository) FindByID(id uint) (*models.Room, error) {
	room, ok := m.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	loaded := *room
	participants, _ := m.ListParticipants(id)
	loaded.Participants = participants
	return &loaded, nil
}

func (m *MockRoomRepository) Exists(id uint) (bool, error) {
	_, ok := m.rooms[id]
	return ok, nil
}

func (m *MockRoomRepository) ListRooms(offset, limit int) ([]models.Room, error) {
	ids := make([]uint, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []models.Room
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		room, _ := m.FindByID(id)
		out = append(out, *room)
	}
	return out, nil
}

func (m *MockRoomRepository) ListRoomsByUser(userID uint, offset, limit int) ([]models.Room, error) {
	all, err := m.ListRooms(0, len(m.rooms))
	if err != nil {
		return nil, err
	}
	var joined []models.Room
	for _, room := range all {
		if _, ok := m.participants[participantKey{room.ID, userID}]; ok {
			joined = append(joined, room)
		}
	}
	if offset >= len(joined) {
		return nil, nil
	}
	joined = joined[offset:]
	if len(joined) > limit {
		joined = joined[:limit]
	}
	return joined, nil
}

func (m *MockRoomRepository) AddParticipant(roomID, userID uint) error {
	key := participantKey{roomID, userID}
	if _, ok := m.participants[key]; ok {
		// ON CONFLICT DO NOTHING
		return nil
	}
	m.participants[key] = &models.RoomParticipant{
		RoomID:   roomID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	return nil
}

func (m *MockRoomRepository) RemoveParticipant(roomID, userID uint) error {
	delete(m.participants, participantKey{roomID, userID})
	return nil
}

func (m *MockRoomRepository) ResetPointer(roomID, userID uint) error {
	if p, ok := m.participants[participantKey{roomID, userID}]; ok {
		p.LastReadMessageID = nil
	}
	return nil
}

func (m *MockRoomRepository) AdvancePointer(roomID, userID, messageID uint) error {
	p, ok := m.participants[participantKey{roomID, userID}]
	if !ok {
		return nil
	}
	if p.LastReadMessageID == nil || *p.LastReadMessageID < messageID {
		id := messageID
		p.LastReadMessageID = &id
	}
	return nil
}

func (m *MockRoomRepository) GetParticipant(roomID, userID uint) (*models.RoomParticipant, error) {
	p, ok := m.participants[participantKey{roomID, userID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *MockRoomRepository) ListParticipants(roomID uint) ([]models.RoomParticipant, error) {
	var out []models.RoomParticipant
	for key, p := range m.participants {
		if key.roomID == roomID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *MockRoomRepository) IsParticipant(roomID, userID uint) (bool, error) {
	_, ok := m.participants[participantKey{roomID, userID}]
	return ok, nil
}
