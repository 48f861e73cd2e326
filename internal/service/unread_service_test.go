package service

import (
	"testing"

	"github.com/DevKor-github/onboarding-team2-be/internal/models"
)

// newTestServices wires the service stack against in-memory repositories,
// with caching disabled (nil-safe cache wrappers).
func newTestServices() (*MockRoomRepository, *MockMessageRepository, *UnreadService, *RoomService, *ChatService) {
	roomRepo := NewMockRoomRepository()
	messageRepo := NewMockMessageRepository(roomRepo)
	unread := NewUnreadService(roomRepo, messageRepo, nil)
	rooms := NewRoomService(roomRepo, messageRepo, unread)
	chat := NewChatService(roomRepo, messageRepo, rooms, unread, nil)
	return roomRepo, messageRepo, unread, rooms, chat
}

// makeRoom creates a room with the given participants; the first is creator.
func makeRoom(t *testing.T, rooms *RoomService, userIDs ...uint) *models.Room {
	t.Helper()
	room, err := rooms.CreateRoom(userIDs[0], CreateRoomInput{Name: "general", IsGroup: true})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	for _, id := range userIDs[1:] {
		if _, err := rooms.Join(room.ID, id); err != nil {
			t.Fatalf("Join(%d): %v", id, err)
		}
	}
	return room
}

func send(t *testing.T, chat *ChatService, roomID, senderID uint, content string) *models.Message {
	t.Helper()
	msg, err := chat.SendMessage(senderID, SendMessageInput{RoomID: roomID, Content: content})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	return msg
}

func assertUnread(t *testing.T, unread *UnreadService, roomID, userID uint, want int64) {
	t.Helper()
	got, err := unread.CountUnreadForUser(roomID, userID)
	if err != nil {
		t.Fatalf("CountUnreadForUser(room=%d, user=%d): %v", roomID, userID, err)
	}
	if got != want {
		t.Errorf("CountUnreadForUser(room=%d, user=%d) = %d, want %d", roomID, userID, got, want)
	}
}

const (
	alice = uint(1)
	bob   = uint(2)
	carol = uint(3)
)

func TestCountUnreadForUser_SenderStaysAtZero(t *testing.T) {
	_, _, unread, rooms, chat := newTestServices()
	room := makeRoom(t, rooms, alice, bob)

	send(t, chat, room.ID, alice, "hello")
	send(t, chat, room.ID, alice, "anyone there?")

	// Sending advances the sender's own pointer, so alice sees nothing unread.
	assertUnread(t, unread, room.ID, alice, 0)
	assertUnread(t, unread, room.ID, bob, 2)
}

func TestCountUnreadForUser_MarkAsReadCatchesUp(t *testing.T) {
	_, _, unread, rooms, chat := newTestServices()
	room := makeRoom(t, rooms, alice, bob)

	m1 := send(t, chat, room.ID, alice, "one")
	m2 := send(t, chat, room.ID, alice, "two")

	if _, err := chat.MarkAsRead(room.ID, bob, m1.ID); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	assertUnread(t, unread, room.ID, bob, 1)

	if _, err := chat.MarkAsRead(room.ID, bob, m2.ID); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	assertUnread(t, unread, room.ID, bob, 0)
}

func TestCountUnreadForUser_NilPointerCountsEverything(t *testing.T) {
	_, _, unread, rooms, chat := newTestServices()
	room := makeRoom(t, rooms, alice, bob)

	for i := 0; i < 5; i++ {
		send(t, chat, room.ID, alice, "msg")
	}

	// Bob joined before any message existed and never read: all 5 unread.
	assertUnread(t, unread, room.ID, bob, 5)
}

func TestCountUnreadForUser_RoomNotFound(t *testing.T) {
	_, _, unread, _, _ := newTestServices()

	_, err := unread.CountUnreadForUser(42, alice)
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestCountUnreadPerMessage(t *testing.T) {
	_, _, unread, rooms, chat := newTestServices()
	room := makeRoom(t, rooms, alice, bob, carol)

	m1 := send(t, chat, room.ID, alice, "one")
	m2 := send(t, chat, room.ID, alice, "two")
	m3 := send(t, chat, room.ID, bob, "three")

	// bob has read up to m3 (his own send); carol has read nothing;
	// alice has read up to m2.
	counts, err := unread.CountUnreadPerMessage(room.ID, 0, 0)
	if err != nil {
		t.Fatalf("CountUnreadPerMessage: %v", err)
	}

	want := map[uint]int{
		m1.ID: 1, // carol
		m2.ID: 1, // carol
		m3.ID: 2, // alice and carol
	}
	for id, wantCount := range want {
		if counts[id] != wantCount {
			t.Errorf("counts[%d] = %d, want %d", id, counts[id], wantCount)
		}
	}
	if len(counts) != len(want) {
		t.Errorf("len(counts) = %d, want %d", len(counts), len(want))
	}
}

func TestCountUnreadPerMessage_NeverReadParticipant(t *testing.T) {
	_, _, unread, rooms, chat := newTestServices()
	room := makeRoom(t, rooms, alice, carol)

	m1 := send(t, chat, room.ID, alice, "one")
	m2 := send(t, chat, room.ID, alice, "two")

	counts, err := unread.CountUnreadPerMessage(room.ID, 0, 0)
	if err != nil {
		t.Fatalf("CountUnreadPerMessage: %v", err)
	}

	// Carol's pointer is nil: she counts as unread for every message,
	// including ones sent before she could have seen the room.
	if counts[m1.ID] != 1 || counts[m2.ID] != 1 {
		t.Errorf("counts = %v, want 1 for both messages", counts)
	}
}

func TestCountUnreadPerMessage_LeaverDropsFromDenominator(t *testing.T) {
	_, _, unread, rooms, chat := newTestServices()
	room := makeRoom(t, rooms, alice, bob, carol)

	m1 := send(t, chat, room.ID, alice, "one")

	if _, err := rooms.Leave(room.ID, carol); err != nil {
		t.Fatalf("Leave: %v", err)
	}

	counts, err := unread.CountUnreadPerMessage(room.ID, 0, 0)
	if err != nil {
		t.Fatalf("CountUnreadPerMessage: %v", err)
	}
	if counts[m1.ID] != 1 {
		t.Errorf("counts[%d] = %d, want 1 (only bob remains unread)", m1.ID, counts[m1.ID])
	}
}

func TestCountUnreadPerMessage_RoomNotFound(t *testing.T) {
	_, _, unread, _, _ := newTestServices()

	_, err := unread.CountUnreadPerMessage(42, 0, 0)
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestCountUnreadPerMessage_LimitOffset(t *testing.T) {
	_, _, unread, rooms, chat := newTestServices()
	room := makeRoom(t, rooms, alice, bob)

	var ids []uint
	for i := 0; i < 5; i++ {
		ids = append(ids, send(t, chat, room.ID, alice, "msg").ID)
	}

	// Newest first: limit 2 offset 0 covers the last two sends.
	counts, err := unread.CountUnreadPerMessage(room.ID, 2, 0)
	if err != nil {
		t.Fatalf("CountUnreadPerMessage: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("len(counts) = %d, want 2", len(counts))
	}
	for _, id := range ids[3:] {
		if _, ok := counts[id]; !ok {
			t.Errorf("counts missing newest message %d", id)
		}
	}

	counts, err = unread.CountUnreadPerMessage(room.ID, 2, 4)
	if err != nil {
		t.Fatalf("CountUnreadPerMessage offset: %v", err)
	}
	if len(counts) != 1 {
		t.Fatalf("len(counts) = %d, want 1 (only one message beyond offset 4)", len(counts))
	}
	if _, ok := counts[ids[0]]; !ok {
		t.Errorf("counts missing oldest message %d", ids[0])
	}
}

func TestUnreadLifecycle(t *testing.T) {
	_, _, unread, rooms, chat := newTestServices()

	room, err := rooms.CreateRoom(alice, CreateRoomInput{Name: "general", IsGroup: true})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	m1 := send(t, chat, room.ID, alice, "hi")

	// Bob joins after m1 was sent; his pointer is unset, so m1 is unread.
	if _, err := rooms.Join(room.ID, bob); err != nil {
		t.Fatalf("Join: %v", err)
	}
	assertUnread(t, unread, room.ID, bob, 1)

	if _, err := chat.MarkAsRead(room.ID, bob, m1.ID); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	assertUnread(t, unread, room.ID, bob, 0)

	send(t, chat, room.ID, alice, "there")
	assertUnread(t, unread, room.ID, bob, 1)
	assertUnread(t, unread, room.ID, alice, 0)
}

func TestCountUnreadForUser_ZeroExactlyAtLatestMessage(t *testing.T) {
	roomRepo, messageRepo, unread, rooms, chat := newTestServices()
	room := makeRoom(t, rooms, alice, bob)

	send(t, chat, room.ID, alice, "one")
	m2 := send(t, chat, room.ID, alice, "two")

	latest, err := messageRepo.LatestMessageID(room.ID)
	if err != nil {
		t.Fatalf("LatestMessageID: %v", err)
	}
	if latest != m2.ID {
		t.Fatalf("latest = %d, want %d", latest, m2.ID)
	}

	// Pointer behind the latest message: unread stays positive.
	if _, err := chat.MarkAsRead(room.ID, bob, latest-1); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	assertUnread(t, unread, room.ID, bob, 1)

	// Pointer at the latest message: unread is exactly zero.
	if _, err := chat.MarkAsRead(room.ID, bob, latest); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	assertUnread(t, unread, room.ID, bob, 0)

	p, err := roomRepo.GetParticipant(room.ID, bob)
	if err != nil {
		t.Fatalf("GetParticipant: %v", err)
	}
	if p.LastReadMessageID == nil || *p.LastReadMessageID != latest {
		t.Errorf("pointer = %v, want latest message %d", p.LastReadMessageID, latest)
	}
}

func TestCountUnreadForRooms(t *testing.T) {
	_, _, unread, rooms, chat := newTestServices()
	roomA := makeRoom(t, rooms, alice, bob)
	roomB := makeRoom(t, rooms, alice, bob)

	send(t, chat, roomA.ID, alice, "one")
	send(t, chat, roomB.ID, alice, "two")
	send(t, chat, roomB.ID, alice, "three")

	got, err := unread.CountUnreadForRooms(bob, []uint{roomA.ID, roomB.ID})
	if err != nil {
		t.Fatalf("CountUnreadForRooms: %v", err)
	}

	want := []RoomUnread{
		{RoomID: roomA.ID, Counts: 1},
		{RoomID: roomB.ID, Counts: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCountUnreadForRooms_MissingRoomFailsWhole(t *testing.T) {
	_, _, unread, rooms, chat := newTestServices()
	room := makeRoom(t, rooms, alice, bob)
	send(t, chat, room.ID, alice, "one")

	_, err := unread.CountUnreadForRooms(bob, []uint{room.ID, 99})
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}
