package domain

import (
	"time"

	userdomain "org-membership-service/internal/user/domain"
)

// Registration is the sign-up payload.
type Registration struct {
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email,max=254"`
	Password  string  `json:"password" validate:"required,password"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is the outcome of a successful Register or Login.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *userdomain.User
}
