package service

import (
	"testing"

	"github.com/DevKor-github/onboarding-team2-be/internal/models"
)

func TestIsUsernameAvailable(t *testing.T) {
	mockRepo := NewMockUserRepository()
	userService := NewUserService(mockRepo)

	mockRepo.Create(&models.User{
		Username: "existinguser",
		Email:    "test@example.com",
	})

	tests := []struct {
		name      string
		username  string
		expected  bool
		shouldErr bool
	}{
		{"Available username", "newuser", true, false},
		{"Existing username", "existinguser", false, false},
		{"Empty username", "", false, true},
		{"Username with spaces", "  ", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := userService.IsUsernameAvailable(tt.username)
			if (err != nil) != tt.shouldErr {
				t.Errorf("IsUsernameAvailable(%q) error = %v, wantErr %v", tt.username, err, tt.shouldErr)
			}
			if result != tt.expected {
				t.Errorf("IsUsernameAvailable(%q) = %v, want %v", tt.username, result, tt.expected)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	mockRepo := NewMockUserRepository()
	userService := NewUserService(mockRepo)

	mockRepo.Create(&models.User{Username: "original", Email: "one@example.com", FullName: "One"})
	mockRepo.Create(&models.User{Username: "occupied", Email: "two@example.com"})

	t.Run("Update full name and tags", func(t *testing.T) {
		user, err := userService.UpdateProfile(1, UpdateProfileInput{FullName: "  New Name ", Tags: "go,backend"})
		if err != nil {
			t.Fatalf("UpdateProfile: %v", err)
		}
		if user.FullName != "New Name" {
			t.Errorf("FullName = %q, want %q", user.FullName, "New Name")
		}
		if user.Tags != "go,backend" {
			t.Errorf("Tags = %q", user.Tags)
		}
	})

	t.Run("Rename to free username", func(t *testing.T) {
		user, err := userService.UpdateProfile(1, UpdateProfileInput{Username: "renamed"})
		if err != nil {
			t.Fatalf("UpdateProfile: %v", err)
		}
		if user.Username != "renamed" {
			t.Errorf("Username = %q, want renamed", user.Username)
		}
	})

	t.Run("Rename to taken username", func(t *testing.T) {
		_, err := userService.UpdateProfile(1, UpdateProfileInput{Username: "occupied"})
		if KindOf(err) != KindConflict {
			t.Errorf("error kind = %v, want conflict", KindOf(err))
		}
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := userService.UpdateProfile(99, UpdateProfileInput{FullName: "X"})
		if !IsNotFound(err) {
			t.Errorf("err = %v, want NotFound", err)
		}
	})
}

func TestGetUserByID(t *testing.T) {
	mockRepo := NewMockUserRepository()
	userService := NewUserService(mockRepo)

	mockRepo.Create(&models.User{Username: "someone", Email: "someone@example.com"})

	if _, err := userService.GetUserByID(1); err != nil {
		t.Errorf("GetUserByID(1): %v", err)
	}
	if _, err := userService.GetUserByID(42); !IsNotFound(err) {
		t.Errorf("GetUserByID(42) err = %v, want NotFound", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	mockRepo := NewMockUserRepository()
	userService := NewUserService(mockRepo)

	mockRepo.Create(&models.User{Username: "someone", Email: "someone@example.com"})

	user, err := userService.GetUserByUsername("  someone ")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user.Username != "someone" {
		t.Errorf("Username = %q, want %q", user.Username, "someone")
	}
	if _, err := userService.GetUserByUsername("nobody"); !IsNotFound(err) {
		t.Errorf("GetUserByUsername(nobody) err = %v, want NotFound", err)
	}
	if _, err := userService.GetUserByUsername("   "); !IsValidation(err) {
		t.Errorf("GetUserByUsername(blank) err = %v, want Validation", err)
	}
}

func TestSearchUsers(t *testing.T) {
	mockRepo := NewMockUserRepository()
	userService := NewUserService(mockRepo)

	mockRepo.Create(&models.User{Username: "alice_dev", Email: "a@example.com"})
	mockRepo.Create(&models.User{Username: "bob", FullName: "Bob Alice", Email: "b@example.com"})
	mockRepo.Create(&models.User{Username: "carol", Email: "c@example.com"})

	results, err := userService.SearchUsers("alice", 10)
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("len = %d, want 2 (username and full-name matches)", len(results))
	}

	results, err = userService.SearchUsers("   ", 10)
	if err != nil {
		t.Fatalf("SearchUsers blank: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("blank query returned %d users, want 0", len(results))
	}
}
