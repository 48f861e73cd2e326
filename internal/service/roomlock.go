package service

import "sync"

// roomLocker serializes mutations per room. Send, mark-as-read, join and leave
// against the same room interleave reads and writes of the participant rows,
// so each room gets a single logical owner; different rooms proceed in
// parallel. Locks are never evicted; the map grows with the number of rooms
// touched by this process, which stays small at chat-room scale.
type roomLocker struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newRoomLocker() *roomLocker {
	return &roomLocker{locks: make(map[uint]*sync.Mutex)}
}

func (l *roomLocker) Lock(roomID uint) func() {
	l.mu.Lock()
	m, ok := l.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[roomID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
