package models

import (
	"time"

	"github.com/google/uuid"
)

// LobbyStatus is the lobby lifecycle state.
type LobbyStatus string

const (
	LobbyPending   LobbyStatus = "pending"
	LobbySpinning  LobbyStatus = "spinning"
	LobbySelected  LobbyStatus = "selected"
	LobbyCompleted LobbyStatus = "completed"
)

// Valid reports whether s is one of the known lobby states.
func (s LobbyStatus) Valid() bool {
	switch s {
	case LobbyPending, LobbySpinning, LobbySelected, LobbyCompleted:
		return true
	}
	return false
}

// MemberStatus is a participant's ready flag.
type MemberStatus string

const (
	MemberReady    MemberStatus = "ready"
	MemberNotReady MemberStatus = "not-ready"
)

// LobbyMember is one participant's entry in a lobby. Exactly one entry exists
// per participant per lobby.
type LobbyMember struct {
	UserID   uuid.UUID    `json:"user_id"`
	Name     string       `json:"name"`
	JoinedAt time.Time    `json:"joined_at"`
	Status   MemberStatus `json:"status"`
}

// Lobby is a bounded, named group of users coordinating a single group
// restaurant selection. The host is always a participant; a host leaving
// dissolves the lobby entirely.
type Lobby struct {
	ID              uuid.UUID     `json:"id"`
	Name            string        `json:"name"`
	HostUserID      uuid.UUID     `json:"host_user_id"`
	HostName        string        `json:"host_name"`
	MaxParticipants int           `json:"max_participants"`
	Participants    []LobbyMember `json:"participants"`
	Status          LobbyStatus   `json:"status"`
	SelectedOffer   *Offer        `json:"selected_offer,omitempty"`
	MeetingTime     *time.Time    `json:"meeting_time,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// Member returns the member entry for userID, if present.
func (l *Lobby) Member(userID uuid.UUID) (*LobbyMember, bool) {
	for i := range l.Participants {
		if l.Participants[i].UserID == userID {
			return &l.Participants[i], true
		}
	}
	return nil, false
}

// IsFull reports whether the lobby has reached its participant bound.
func (l *Lobby) IsFull() bool {
	return len(l.Participants) >= l.MaxParticipants
}

// ParticipantIDs returns the ordered participant user ids.
func (l *Lobby) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(l.Participants))
	for i, p := range l.Participants {
		ids[i] = p.UserID
	}
	return ids
}
