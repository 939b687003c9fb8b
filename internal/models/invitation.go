package models

import (
	"time"

	"github.com/google/uuid"
)

// LobbyInvitation is a directed invitation to join a lobby, stored in the
// external directory so it survives across sessions.
type LobbyInvitation struct {
	ID           uuid.UUID `json:"id"`
	LobbyID      uuid.UUID `json:"lobby_id"`
	LobbyName    string    `json:"lobby_name"`
	SenderID     uuid.UUID `json:"sender_id"`
	SenderName   string    `json:"sender_name"`
	ReceiverID   uuid.UUID `json:"receiver_id"`
	ReceiverName string    `json:"receiver_name,omitempty"`
	Status       string    `json:"status"` // 'pending', 'accepted', 'declined'
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
