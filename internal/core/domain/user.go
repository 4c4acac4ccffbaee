package domain

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrInvalidPIN         = errors.New("pin must be exactly 4 digits")
	ErrInvalidDisplayName = errors.New("display name must be 2-50 characters")
	ErrUnauthorized       = errors.New("unauthorized access")
)

var pinRegex = regexp.MustCompile(`^\d{4}$`)

const (
	RoleParent = "parent"
	RoleChild  = "child"
)

// User is a family member. Parents log in with email and password;
// children log in with a display name and a 4-digit PIN scoped to
// their family.
type User struct {
	ID           string    `json:"id" db:"id"`
	FamilyID     string    `json:"family_id" db:"family_id"`
	Role         string    `json:"role" db:"role"`
	Email        string    `json:"email,omitempty" db:"email"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	PinHash      string    `json:"-" db:"pin_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func NewParent(id, familyID, email, displayName string) (*User, error) {
	email = strings.TrimSpace(email)

	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		ID:          id,
		FamilyID:    familyID,
		Role:        RoleParent,
		Email:       strings.ToLower(email),
		DisplayName: strings.TrimSpace(displayName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func NewChild(id, familyID, displayName string) (*User, error) {
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		ID:          id,
		FamilyID:    familyID,
		Role:        RoleChild,
		DisplayName: strings.TrimSpace(displayName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (u *User) SetPassword(plainPassword string) error {
	if utf8.RuneCountInString(plainPassword) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), 12)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) CheckPassword(plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plainPassword))
}

func (u *User) SetPIN(pin string) error {
	if !pinRegex.MatchString(pin) {
		return ErrInvalidPIN
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), 12)
	if err != nil {
		return err
	}

	u.PinHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) CheckPIN(pin string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PinHash), []byte(pin))
}

func validateDisplayName(name string) error {
	trimmed := strings.TrimSpace(name)
	if utf8.RuneCountInString(trimmed) < 2 || utf8.RuneCountInString(trimmed) > 50 {
		return ErrInvalidDisplayName
	}
	return nil
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
