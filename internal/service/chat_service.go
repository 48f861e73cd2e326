package service

import (
	"errors"

	"github.com/DevKor-github/onboarding-team2-be/internal/cache"
	"github.com/DevKor-github/onboarding-team2-be/internal/models"
	"github.com/DevKor-github/onboarding-team2-be/internal/repository"
	"github.com/DevKor-github/onboarding-team2-be/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatService owns the send and mark-as-read paths. Both mutate the room's
// read pointers, so both run under the per-room lock shared with RoomService.
type ChatService struct {
	roomRepo     repository.RoomRepositoryInterface
	messageRepo  repository.MessageRepositoryInterface
	rooms        *RoomService
	unread       *UnreadService
	messageCache *cache.MessageCache
}

func NewChatService(
	roomRepo repository.RoomRepositoryInterface,
	messageRepo repository.MessageRepositoryInterface,
	rooms *RoomService,
	unread *UnreadService,
	messageCache *cache.MessageCache,
) *ChatService {
	return &ChatService{
		roomRepo:     roomRepo,
		messageRepo:  messageRepo,
		rooms:        rooms,
		unread:       unread,
		messageCache: messageCache,
	}
}

type SendMessageInput struct {
	RoomID   uint   `json:"room_id"`
	ClientID string `json:"client_id"`
	Content  string `json:"content"`
}

// SendMessage appends a message and advances the sender's read pointer to it
// in one transaction: sending implies having read up to your own message, so
// the sender's unread count stays at zero.
func (s *ChatService) SendMessage(senderID uint, input SendMessageInput) (*models.Message, error) {
	input.Content = validation.TrimAndLimit(input.Content, validation.MaxMessageLength())
	if input.Content == "" {
		return nil, NewValidationError("empty_message", "Message content cannot be empty")
	}

	unlock := s.rooms.lockRoom(input.RoomID)
	defer unlock()

	if _, err := s.rooms.getRoom(input.RoomID); err != nil {
		return nil, err
	}

	isParticipant, err := s.roomRepo.IsParticipant(input.RoomID, senderID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		return nil, NewValidationError("not_a_participant", "Sender is not a participant of this room")
	}

	clientID := input.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	} else {
		existing, err := s.messageRepo.FindByClientID(clientID, senderID)
		if err == nil {
			// Duplicate delivery of the same client message; return the original.
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	message := &models.Message{
		ClientID: clientID,
		RoomID:   input.RoomID,
		SenderID: senderID,
		Content:  input.Content,
	}
	if err := s.messageRepo.CreateWithPointerAdvance(message); err != nil {
		return nil, err
	}

	s.unread.InvalidateRoom(input.RoomID)
	s.messageCache.InvalidateRoom(input.RoomID)

	// Load sender info
	return s.messageRepo.FindByID(message.ID)
}

// MarkAsRead moves the user's read pointer to lastMessageID. The pointer is
// monotonic: marking an older message than the current pointer is a no-op
// rather than a regression, so repeated acks are idempotent.
func (s *ChatService) MarkAsRead(roomID, userID, lastMessageID uint) (*models.Room, error) {
	unlock := s.rooms.lockRoom(roomID)
	defer unlock()

	if _, err := s.rooms.getRoom(roomID); err != nil {
		return nil, err
	}

	inRoom, err := s.messageRepo.IsMessageInRoom(lastMessageID, roomID)
	if err != nil {
		return nil, err
	}
	if !inRoom {
		return nil, NewValidationError("message_not_in_room", "Message does not belong to this room")
	}

	if _, err := s.roomRepo.GetParticipant(roomID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("not_a_participant", "User is not a participant of this room")
		}
		return nil, err
	}

	if err := s.roomRepo.AdvancePointer(roomID, userID, lastMessageID); err != nil {
		return nil, err
	}

	s.unread.InvalidateRoom(roomID)
	return s.roomRepo.FindByID(roomID)
}

// GetMessages returns the room's messages newest first. A non-zero cursor
// pages backward through history.
func (s *ChatService) GetMessages(roomID uint, cursor uint, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	if _, err := s.rooms.getRoom(roomID); err != nil {
		return nil, err
	}

	if cursor > 0 {
		return s.messageRepo.FindRoomMessagesCursor(roomID, cursor, limit)
	}

	// Only the newest page is cached; it is what every room open fetches.
	if cached, ok := s.messageCache.GetRoomMessages(roomID); ok && len(cached) >= limit {
		return cached[:limit], nil
	}

	messages, err := s.messageRepo.FindRoomMessages(roomID, limit)
	if err != nil {
		return nil, err
	}
	s.messageCache.SetRoomMessages(roomID, messages)
	return messages, nil
}
