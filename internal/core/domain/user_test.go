package domain

import (
	"testing"
	"time"
)

func TestNewParent(t *testing.T) {
	t.Parallel()

	t.Run("Should create parent with normalized email", func(t *testing.T) {
		t.Parallel()

		dirtyEmail := "  Mom.Smith@Gmail.COM  "

		user, err := NewParent("123", "fam1", dirtyEmail, "Mom")

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		expectedEmail := "mom.smith@gmail.com"
		if user.Email != expectedEmail {
			t.Errorf("Expected email %s, got %s", expectedEmail, user.Email)
		}

		if user.Role != RoleParent {
			t.Errorf("Expected role %s, got %s", RoleParent, user.Role)
		}

		if user.FamilyID != "fam1" {
			t.Errorf("Expected family id fam1, got %s", user.FamilyID)
		}

		if user.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("Should fail with invalid email", func(t *testing.T) {
		t.Parallel()
		_, err := NewParent("123", "fam1", "invalid-email-format", "Mom")

		if err != ErrInvalidEmail {
			t.Errorf("Expected ErrInvalidEmail, got %v", err)
		}
	})

	t.Run("Should fail with short display name", func(t *testing.T) {
		t.Parallel()
		_, err := NewParent("123", "fam1", "mom@test.com", "M")

		if err != ErrInvalidDisplayName {
			t.Errorf("Expected ErrInvalidDisplayName, got %v", err)
		}
	})
}

func TestNewChild(t *testing.T) {
	t.Parallel()

	user, err := NewChild("456", "fam1", "  Leo  ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.Role != RoleChild {
		t.Errorf("Expected role %s, got %s", RoleChild, user.Role)
	}
	if user.DisplayName != "Leo" {
		t.Errorf("Expected trimmed display name, got %q", user.DisplayName)
	}
	if user.Email != "" {
		t.Errorf("Children must not carry an email, got %q", user.Email)
	}
}

func TestUserPassword(t *testing.T) {
	t.Parallel()

	t.Run("Should hash password correctly and update timestamp", func(t *testing.T) {
		t.Parallel()
		user, _ := NewParent("123", "fam1", "test@test.com", "Mom")
		plainPass := "superSecret123"

		oldUpdatedAt := user.UpdatedAt

		time.Sleep(1 * time.Millisecond)

		err := user.SetPassword(plainPass)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if user.PasswordHash == plainPass {
			t.Error("Password must not be stored in plain text")
		}

		if !user.UpdatedAt.After(oldUpdatedAt) {
			t.Error("Expected UpdatedAt to move forward")
		}

		if err := user.CheckPassword(plainPass); err != nil {
			t.Errorf("Expected password check to pass, got %v", err)
		}

		if err := user.CheckPassword("wrongPassword"); err == nil {
			t.Error("Expected wrong password to fail")
		}
	})

	t.Run("Should reject short passwords", func(t *testing.T) {
		t.Parallel()
		user, _ := NewParent("123", "fam1", "test@test.com", "Mom")

		if err := user.SetPassword("short"); err != ErrPasswordTooShort {
			t.Errorf("Expected ErrPasswordTooShort, got %v", err)
		}
	})
}

func TestUserPIN(t *testing.T) {
	t.Parallel()

	t.Run("Should hash a valid 4-digit pin", func(t *testing.T) {
		t.Parallel()
		user, _ := NewChild("456", "fam1", "Leo")

		if err := user.SetPIN("1234"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if user.PinHash == "1234" {
			t.Error("PIN must not be stored in plain text")
		}

		if err := user.CheckPIN("1234"); err != nil {
			t.Errorf("Expected pin check to pass, got %v", err)
		}

		if err := user.CheckPIN("4321"); err == nil {
			t.Error("Expected wrong pin to fail")
		}
	})

	t.Run("Should reject malformed pins", func(t *testing.T) {
		t.Parallel()
		user, _ := NewChild("456", "fam1", "Leo")

		for _, pin := range []string{"123", "12345", "abcd", "12a4", ""} {
			if err := user.SetPIN(pin); err != ErrInvalidPIN {
				t.Errorf("Expected ErrInvalidPIN for %q, got %v", pin, err)
			}
		}
	})
}
