package handlers

// roomBroadcaster is the slice of the ws hub the REST handlers need. REST
// mutations change the same unread state as their socket counterparts, so
// they fan out through the same hub.
type roomBroadcaster interface {
	BroadcastToRoom(roomID uint, data interface{})
}
