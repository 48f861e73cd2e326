package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/DevKor-github/onboarding-team2-be/internal/models"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser creates a test user with default values
func (h *TestHelper) CreateTestUser(id uint, username, email string) *models.User {
	if id == 0 {
		id = 1
	}
	if username == "" {
		username = "testuser"
	}
	if email == "" {
		email = "test@example.com"
	}

	return &models.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "hashed_password_123",
		FullName:     "Test User",
		Role:         "user",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// CreateTestRoom creates a test room owned by creatorID
func (h *TestHelper) CreateTestRoom(id uint, name string, creatorID uint) *models.Room {
	if id == 0 {
		id = 1
	}
	if name == "" {
		name = "Test Room"
	}
	if creatorID == 0 {
		creatorID = 1
	}

	return &models.Room{
		ID:        id,
		Name:      name,
		IsGroup:   true,
		CreatorID: creatorID,
		CreatedAt: time.Now(),
	}
}

// CreateTestMessage creates a test message with default values
func (h *TestHelper) CreateTestMessage(id, roomID, senderID uint, content string) *models.Message {
	if id == 0 {
		id = 1
	}
	if roomID == 0 {
		roomID = 1
	}
	if senderID == 0 {
		senderID = 1
	}
	if content == "" {
		content = "Test message"
	}

	return &models.Message{
		ID:        id,
		ClientID:  fmt.Sprintf("client-%d", id),
		RoomID:    roomID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
		Sender: models.User{
			ID:       senderID,
			Username: "sender",
			Email:    "sender@example.com",
		},
	}
}

// Participant builds a RoomParticipant row with the given read pointer;
// pass nil for a participant who has read nothing.
func (h *TestHelper) Participant(roomID, userID uint, lastRead *uint) models.RoomParticipant {
	return models.RoomParticipant{
		RoomID:            roomID,
		UserID:            userID,
		LastReadMessageID: lastRead,
		JoinedAt:          time.Now(),
	}
}

// Ptr returns a pointer to the given message id
func Ptr(id uint) *uint {
	return &id
}

// SetupTestEnv sets up required environment variables for testing
func (h *TestHelper) SetupTestEnv() {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	os.Setenv("DATABASE_URL", "")
}

// TeardownTestEnv cleans up environment variables after testing
func (h *TestHelper) TeardownTestEnv() {
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("DATABASE_URL")
}

// AssertError checks if an error occurred when it should (or shouldn't)
func (h *TestHelper) AssertError(err error, shouldErr bool, testName string) {
	if (err != nil) != shouldErr {
		if shouldErr {
			h.t.Errorf("%s: expected error but got nil", testName)
		} else {
			h.t.Errorf("%s: unexpected error: %v", testName, err)
		}
	}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(got, want interface{}, testName string) {
	if got != want {
		h.t.Errorf("%s: got %v, want %v", testName, got, want)
	}
}
