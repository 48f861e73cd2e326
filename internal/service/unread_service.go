package service

import (
	"errors"

	"github.com/DevKor-github/onboarding-team2-be/internal/cache"
	"github.com/DevKor-github/onboarding-team2-be/internal/repository"
	"gorm.io/gorm"
)

// UnreadService derives unread counts from message ordering and read pointers.
// No counter is stored anywhere: the message table and the participant rows
// are the only inputs, so REST and WebSocket paths cannot disagree.
type UnreadService struct {
	roomRepo    repository.RoomRepositoryInterface
	messageRepo repository.MessageRepositoryInterface
	unreadCache *cache.UnreadCache
}

func NewUnreadService(
	roomRepo repository.RoomRepositoryInterface,
	messageRepo repository.MessageRepositoryInterface,
	unreadCache *cache.UnreadCache,
) *UnreadService {
	return &UnreadService{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		unreadCache: unreadCache,
	}
}

// CountUnreadForUser returns how many messages in the room order strictly
// after the user's read pointer. An unset pointer means every message in the
// room is unread.
func (s *UnreadService) CountUnreadForUser(roomID, userID uint) (int64, error) {
	if count, ok := s.unreadCache.GetUserCount(roomID, userID); ok {
		return count, nil
	}

	if err := s.requireRoom(roomID); err != nil {
		return 0, err
	}

	participant, err := s.roomRepo.GetParticipant(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Non-participants have read nothing; count the whole room.
			participant = nil
		} else {
			return 0, err
		}
	}

	var count int64
	if participant == nil || participant.LastReadMessageID == nil {
		count, err = s.messageRepo.CountByRoom(roomID)
	} else {
		count, err = s.messageRepo.CountAfter(roomID, *participant.LastReadMessageID)
	}
	if err != nil {
		return 0, err
	}

	_ = s.unreadCache.SetUserCount(roomID, userID, count)
	return count, nil
}

// CountUnreadPerMessage returns, for each of the room's most recent messages
// (newest first, bounded by limit/offset), the number of current participants
// who have not read it. A participant with an unset pointer has read nothing,
// regardless of when they joined relative to the message.
func (s *UnreadService) CountUnreadPerMessage(roomID uint, limit, offset int) (map[uint]int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	if counts, ok := s.unreadCache.GetPerMessage(roomID, limit, offset); ok {
		return counts, nil
	}

	if err := s.requireRoom(roomID); err != nil {
		return nil, err
	}

	participants, err := s.roomRepo.ListParticipants(roomID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindRoomMessages(roomID, offset+limit)
	if err != nil {
		return nil, err
	}
	if offset > 0 {
		if offset >= len(messages) {
			messages = nil
		} else {
			messages = messages[offset:]
		}
	}

	// O(messages × participants); fine at chat-room scale. Pointer values
	// could be kept sorted and binary-searched if rooms ever grow huge.
	counts := make(map[uint]int, len(messages))
	for _, message := range messages {
		unread := 0
		for _, p := range participants {
			if !p.HasRead(message.ID) {
				unread++
			}
		}
		counts[message.ID] = unread
	}

	_ = s.unreadCache.SetPerMessage(roomID, limit, offset, counts)
	return counts, nil
}

// RoomUnread pairs a room with the calling user's unread count there.
type RoomUnread struct {
	RoomID uint  `json:"room_id"`
	Counts int64 `json:"counts"`
}

// CountUnreadForRooms answers the inbox-badge query: the caller's unread
// count across each of the given rooms.
func (s *UnreadService) CountUnreadForRooms(userID uint, roomIDs []uint) ([]RoomUnread, error) {
	out := make([]RoomUnread, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		count, err := s.CountUnreadForUser(roomID, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, RoomUnread{RoomID: roomID, Counts: count})
	}
	return out, nil
}

// InvalidateRoom drops every cached count for the room. Called after any
// mutation that changes unread semantics: send, mark-as-read, join, leave.
func (s *UnreadService) InvalidateRoom(roomID uint) {
	_ = s.unreadCache.InvalidateRoom(roomID)
}

func (s *UnreadService) requireRoom(roomID uint) error {
	exists, err := s.roomRepo.Exists(roomID)
	if err != nil {
		return err
	}
	if !exists {
		return NewNotFoundError("room_not_found", "Room does not exist")
	}
	return nil
}
