// Package entities provides core data structures for trainer-api.
package entities

import (
	"strings"
	"time"
)

// Client is a person a trainer coaches. Every client belongs to exactly one
// trainer and its email is unique within that trainer's roster.
type Client struct {
	ID        string    `json:"id"`
	TrainerID string    `json:"trainer_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Goal      string    `json:"goal,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizedEmail is the form used for uniqueness checks
func (c *Client) NormalizedEmail() string {
	return NormalizeEmail(c.Email)
}

// NormalizeEmail lowercases and trims an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Trainer is the authenticated caller as described by its bearer token
type Trainer struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}
