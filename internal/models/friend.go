package models

import (
	"time"

	"github.com/google/uuid"
)

// Friend is one direction of an established friendship, joined against the
// friend's profile for display.
type Friend struct {
	UserID         uuid.UUID    `json:"user_id"`
	FriendID       uuid.UUID    `json:"friend_id"`
	FriendName     string       `json:"friend_name"`
	FriendEmail    string       `json:"friend_email"`
	FriendUsername string       `json:"friend_username,omitempty"`
	FriendAvatar   string       `json:"friend_avatar,omitempty"`
	OnlineStatus   OnlineStatus `json:"online_status"`
	LastSeen       string       `json:"last_seen"`
	CreatedAt      time.Time    `json:"created_at"`
}

// FriendRequest is a directed pending/accepted/declined relationship record,
// carrying both parties' profiles so either side of a listing can show its
// counterpart.
type FriendRequest struct {
	SenderID         uuid.UUID `json:"sender_id"`
	SenderName       string    `json:"sender_name"`
	SenderEmail      string    `json:"sender_email"`
	SenderUsername   string    `json:"sender_username,omitempty"`
	ReceiverID       uuid.UUID `json:"receiver_id"`
	ReceiverName     string    `json:"receiver_name,omitempty"`
	ReceiverEmail    string    `json:"receiver_email,omitempty"`
	ReceiverUsername string    `json:"receiver_username,omitempty"`
	Status           string    `json:"status"` // 'pending', 'accepted', 'declined'
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
