package models

import "github.com/google/uuid"

// OnlineStatus is a user's informational presence state.
type OnlineStatus string

const (
	StatusOnline  OnlineStatus = "online"
	StatusAway    OnlineStatus = "away"
	StatusOffline OnlineStatus = "offline"
)

type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Name     string    `json:"name"`
	Username string    `json:"username,omitempty"`

	// Role is either 'user' or 'restaurant'.
	Role string `json:"role"`

	// SpinsRemaining is the user's remaining spin credit balance. Never negative.
	SpinsRemaining int `json:"spins_remaining"`

	OnlineStatus OnlineStatus `json:"online_status,omitempty"`
	LastSeen     string       `json:"last_seen,omitempty"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
}
