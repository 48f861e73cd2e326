package validation

import (
	"os"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected bool
	}{
		{"Valid email", "user@example.com", true},
		{"Valid email with subdomain", "user@mail.example.com", true},
		{"Empty email", "", false},
		{"Email without @", "userexample.com", false},
		{"Email without domain", "user@", false},
		{"Email with spaces", "user @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateEmail(tt.email)
			if result != tt.expected {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, result, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@EXAMPLE.COM "); got != "user@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		expected bool
	}{
		{"Valid username", "john_doe", true},
		{"Valid with digits", "user123", true},
		{"Too short", "ab", false},
		{"Spaces", "john doe", false},
		{"Special characters", "john!", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateUsername(tt.username)
			if result != tt.expected {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, result, tt.expected)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	os.Unsetenv("PASSWORD_MIN_LENGTH")

	if ValidatePassword("short") {
		t.Error("short password accepted")
	}
	if !ValidatePassword("longenoughpassword") {
		t.Error("valid password rejected")
	}

	os.Setenv("PASSWORD_MIN_LENGTH", "12")
	defer os.Unsetenv("PASSWORD_MIN_LENGTH")
	if ValidatePassword("elevenchars") {
		t.Error("11-char password accepted with min 12")
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		tags     string
		expected string
	}{
		{"Plain", "go,backend", "go,backend"},
		{"Spaces and case", " Go , Backend ", "go,backend"},
		{"Empty segments", "go,,backend,", "go,backend"},
		{"All empty", " , ,", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTags(tt.tags); got != tt.expected {
				t.Errorf("NormalizeTags(%q) = %q, want %q", tt.tags, got, tt.expected)
			}
		})
	}
}

func TestTrimAndLimit(t *testing.T) {
	if got := TrimAndLimit("  hello  ", 3); got != "hel" {
		t.Errorf("TrimAndLimit = %q, want %q", got, "hel")
	}
	if got := TrimAndLimit("  hello  ", 0); got != "hello" {
		t.Errorf("TrimAndLimit no limit = %q, want %q", got, "hello")
	}
}
