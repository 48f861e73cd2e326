package cache

import (
	"fmt"
	"time"

	"github.com/DevKor-github/onboarding-team2-be/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// RoomHistoryTTL keeps message pages fresh enough for chat history views.
const RoomHistoryTTL = 5 * time.Minute

// MessageCache caches the newest page of a room's message history. Only the
// first (cursor-less) page is cached; cursor pages are rare and cheap.
type MessageCache struct {
	redis *RedisCache
}

func NewMessageCache(redis *RedisCache) *MessageCache {
	return &MessageCache{redis: redis}
}

func roomHistoryKey(roomID uint) string {
	return fmt.Sprintf("history:room:%d", roomID)
}

// GetRoomMessages retrieves the cached newest-first message page for a room.
func (mc *MessageCache) GetRoomMessages(roomID uint) ([]models.Message, bool) {
	if mc == nil || mc.redis == nil {
		return nil, false
	}
	data, err := mc.redis.Get(roomHistoryKey(roomID))
	if err != nil || data == nil {
		return nil, false
	}

	var messages []models.Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

// SetRoomMessages caches the newest-first message page for a room.
func (mc *MessageCache) SetRoomMessages(roomID uint, messages []models.Message) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}
	return mc.redis.Set(roomHistoryKey(roomID), data, RoomHistoryTTL)
}

// InvalidateRoom removes the cached page after a new message lands.
func (mc *MessageCache) InvalidateRoom(roomID uint) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	return mc.redis.Delete(roomHistoryKey(roomID))
}
