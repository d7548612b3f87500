package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrEmailTaken is returned by the store when the unique email constraint rejects a write.
var ErrEmailTaken = errors.New("email already registered")

// User is the core user entity. PasswordHash never leaves the service layer; use Profile for responses.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Phone        string // optional
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the sanitized projection of a User returned to clients.
type Profile struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// Profile returns the sanitized projection of u.
func (u *User) Profile() Profile {
	return Profile{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
}

// NormalizeEmail trims and lower-cases an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("id is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if strings.TrimSpace(u.FirstName) == "" || strings.TrimSpace(u.LastName) == "" {
		return errors.New("first and last name are required")
	}
	return nil
}
