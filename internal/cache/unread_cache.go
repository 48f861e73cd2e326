package cache

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// UnreadCountTTL bounds the staleness window for derived counts. Mutations
// invalidate eagerly, so the TTL only matters for writes from other processes.
const UnreadCountTTL = 1 * time.Minute

// UnreadCache holds derived unread counts. All methods are nil-safe: with no
// Redis configured every lookup is a miss and every store is a no-op.
type UnreadCache struct {
	redis *RedisCache
}

func NewUnreadCache(redis *RedisCache) *UnreadCache {
	return &UnreadCache{redis: redis}
}

func userCountKey(roomID, userID uint) string {
	return fmt.Sprintf("unread:room:%d:user:%d", roomID, userID)
}

func perMessageKey(roomID uint, limit, offset int) string {
	return fmt.Sprintf("unread:room:%d:msgs:%d:%d", roomID, limit, offset)
}

// GetUserCount retrieves a cached unread count for one user in one room.
func (uc *UnreadCache) GetUserCount(roomID, userID uint) (int64, bool) {
	if uc == nil || uc.redis == nil {
		return 0, false
	}
	data, err := uc.redis.Get(userCountKey(roomID, userID))
	if err != nil || data == nil {
		return 0, false
	}

	var count int64
	if err := msgpack.Unmarshal(data, &count); err != nil {
		return 0, false
	}
	return count, true
}

// SetUserCount caches an unread count for one user in one room.
func (uc *UnreadCache) SetUserCount(roomID, userID uint, count int64) error {
	if uc == nil || uc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(count)
	if err != nil {
		return err
	}
	return uc.redis.Set(userCountKey(roomID, userID), data, UnreadCountTTL)
}

// GetPerMessage retrieves a cached per-message unread map for a room page.
func (uc *UnreadCache) GetPerMessage(roomID uint, limit, offset int) (map[uint]int, bool) {
	if uc == nil || uc.redis == nil {
		return nil, false
	}
	data, err := uc.redis.Get(perMessageKey(roomID, limit, offset))
	if err != nil || data == nil {
		return nil, false
	}

	var counts map[uint]int
	if err := msgpack.Unmarshal(data, &counts); err != nil {
		return nil, false
	}
	return counts, true
}

// SetPerMessage caches a per-message unread map for a room page.
func (uc *UnreadCache) SetPerMessage(roomID uint, limit, offset int, counts map[uint]int) error {
	if uc == nil || uc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(counts)
	if err != nil {
		return err
	}
	return uc.redis.Set(perMessageKey(roomID, limit, offset), data, UnreadCountTTL)
}

// InvalidateRoom removes every cached count for the room.
func (uc *UnreadCache) InvalidateRoom(roomID uint) error {
	if uc == nil || uc.redis == nil {
		return nil
	}
	return uc.redis.DeletePattern(fmt.Sprintf("unread:room:%d:*", roomID))
}
