package service

import (
	"errors"
	"os"

	"github.com/DevKor-github/onboarding-team2-be/internal/models"
	"github.com/DevKor-github/onboarding-team2-be/internal/repository"
	"github.com/DevKor-github/onboarding-team2-be/internal/validation"
	"gorm.io/gorm"
)

type RoomService struct {
	roomRepo    repository.RoomRepositoryInterface
	messageRepo repository.MessageRepositoryInterface
	unread      *UnreadService
	locks       *roomLocker

	// The upstream app reset a rejoining user's pointer to null, silently
	// marking all prior history unread. Off unless explicitly requested.
	resetPointerOnRejoin bool
}

func NewRoomService(
	roomRepo repository.RoomRepositoryInterface,
	messageRepo repository.MessageRepositoryInterface,
	unread *UnreadService,
) *RoomService {
	return &RoomService{
		roomRepo:             roomRepo,
		messageRepo:          messageRepo,
		unread:               unread,
		locks:                newRoomLocker(),
		resetPointerOnRejoin: os.Getenv("RESET_READ_POINTER_ON_REJOIN") == "true",
	}
}

// lockRoom serializes mutations against one room. Shared with ChatService.
func (s *RoomService) lockRoom(roomID uint) func() {
	return s.locks.Lock(roomID)
}

type CreateRoomInput struct {
	Name    string `json:"name"`
	IsGroup bool   `json:"is_group"`
	Tags    string `json:"tags"`
}

func (s *RoomService) CreateRoom(creatorID uint, input CreateRoomInput) (*models.Room, error) {
	room := &models.Room{
		Name:      input.Name,
		IsGroup:   input.IsGroup,
		Tags:      validation.NormalizeTags(input.Tags),
		CreatorID: creatorID,
	}
	if err := s.roomRepo.Create(room); err != nil {
		return nil, err
	}

	// The creator is the first participant, with nothing read yet.
	if err := s.roomRepo.AddParticipant(room.ID, creatorID); err != nil {
		return nil, err
	}

	return s.roomRepo.FindByID(room.ID)
}

// Join adds the user to the room. Idempotent: a second join keeps the
// participant set unchanged and, unless configured otherwise, never disturbs
// an existing read pointer.
func (s *RoomService) Join(roomID, userID uint) (*models.Room, error) {
	unlock := s.lockRoom(roomID)
	defer unlock()

	if _, err := s.getRoom(roomID); err != nil {
		return nil, err
	}

	wasParticipant, err := s.roomRepo.IsParticipant(roomID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.roomRepo.AddParticipant(roomID, userID); err != nil {
		return nil, err
	}
	if wasParticipant && s.resetPointerOnRejoin {
		if err := s.roomRepo.ResetPointer(roomID, userID); err != nil {
			return nil, err
		}
	}

	s.unread.InvalidateRoom(roomID)
	return s.roomRepo.FindByID(roomID)
}

// Leave removes the user and their read pointer. Remaining participants keep
// their pointers; the leaver simply drops out of per-message denominators.
func (s *RoomService) Leave(roomID, userID uint) (*models.Room, error) {
	unlock := s.lockRoom(roomID)
	defer unlock()

	if _, err := s.getRoom(roomID); err != nil {
		return nil, err
	}

	if err := s.roomRepo.RemoveParticipant(roomID, userID); err != nil {
		return nil, err
	}

	s.unread.InvalidateRoom(roomID)
	return s.roomRepo.FindByID(roomID)
}

func (s *RoomService) GetRoom(roomID uint) (*models.Room, error) {
	return s.getRoom(roomID)
}

func (s *RoomService) IsParticipant(roomID, userID uint) (bool, error) {
	return s.roomRepo.IsParticipant(roomID, userID)
}

// ListRooms returns the room directory with participant counts and the
// timestamp of each room's latest message.
func (s *RoomService) ListRooms(offset, limit int) ([]models.RoomSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rooms, err := s.roomRepo.ListRooms(offset, limit)
	if err != nil {
		return nil, err
	}
	return s.summarize(rooms)
}

// ListJoinedRooms returns the directory filtered to rooms the user is in.
func (s *RoomService) ListJoinedRooms(userID uint, offset, limit int) ([]models.RoomSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rooms, err := s.roomRepo.ListRoomsByUser(userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.summarize(rooms)
}

func (s *RoomService) summarize(rooms []models.Room) ([]models.RoomSummary, error) {
	out := make([]models.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		last, err := s.messageRepo.LastMessageTime(room.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.RoomSummary{
			RoomID:      room.ID,
			Name:        room.Name,
			Tags:        room.Tags,
			Size:        len(room.Participants),
			LastMsgSent: last,
		})
	}
	return out, nil
}

func (s *RoomService) getRoom(roomID uint) (*models.Room, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("room_not_found", "Room does not exist")
		}
		return nil, err
	}
	return room, nil
}
