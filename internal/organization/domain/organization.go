package domain

import (
	"errors"
	"strings"
	"time"
)

// Org represents an organisation (tenant).
type Org struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
}

// View is the public projection of an Org.
type View struct {
	OrgID       string  `json:"orgId"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// View returns the public projection of o.
func (o *Org) View() View {
	return View{OrgID: o.ID, Name: o.Name, Description: o.Description}
}

// DefaultName is the name of the organisation created at registration.
func DefaultName(firstName string) string {
	return strings.TrimSpace(firstName) + "'s Organisation"
}

// Validate validates the organisation for persistence. Returns an error describing the first validation failure.
func (o *Org) Validate() error {
	if o.ID == "" {
		return errors.New("id is required")
	}
	if strings.TrimSpace(o.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}
