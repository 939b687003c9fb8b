package lobby

import (
	"context"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// InvitationSender is the slice of the external invitation directory the
// lobby fan-out needs.
type InvitationSender interface {
	SendLobbyInvitation(ctx context.Context, lobbyID, senderID, receiverID uuid.UUID, lobbyName string) error
}

// InviteOutcome is the result of one invitation send.
type InviteOutcome struct {
	FriendID uuid.UUID `json:"friend_id"`
	Err      error     `json:"-"`
	Sent     bool      `json:"sent"`
}

// InviteReport collects per-target outcomes of an invitation fan-out.
type InviteReport struct {
	Outcomes []InviteOutcome `json:"outcomes"`
}

// AllSent reports whether every invitation went out. This is the aggregate
// boolean simple callers rely on.
func (r InviteReport) AllSent() bool {
	for _, o := range r.Outcomes {
		if !o.Sent {
			return false
		}
	}
	return true
}

// Failed returns the friend ids whose invitations did not go out, so a caller
// can retry just that subset.
func (r InviteReport) Failed() []uuid.UUID {
	var out []uuid.UUID
	for _, o := range r.Outcomes {
		if !o.Sent {
			out = append(out, o.FriendID)
		}
	}
	return out
}

// InviteFriends fans one invitation out per friend id, concurrently, through
// the directory. It fails fast when the lobby is unknown locally. Sends are
// at-least-once and non-atomic: invitations that went out before a failure
// stay sent, and the report says which targets need a retry.
func (s *Store) InviteFriends(ctx context.Context, sender InvitationSender, lobbyID, senderID uuid.UUID, friendIDs []uuid.UUID) (InviteReport, Result) {
	s.mu.Lock()
	l, ok := s.lobbies[lobbyID]
	if !ok {
		s.mu.Unlock()
		return InviteReport{}, ResultNotFound
	}
	lobbyName := l.Name
	s.mu.Unlock()

	report := InviteReport{Outcomes: make([]InviteOutcome, len(friendIDs))}
	var wg sync.WaitGroup
	for i, friendID := range friendIDs {
		wg.Add(1)
		go func(i int, friendID uuid.UUID) {
			defer wg.Done()
			err := sender.SendLobbyInvitation(ctx, lobbyID, senderID, friendID, lobbyName)
			if err != nil {
				log.WithFields(log.Fields{
					"lobby_id":  lobbyID,
					"friend_id": friendID,
				}).Warnf("lobby invitation failed: %v", err)
			}
			report.Outcomes[i] = InviteOutcome{FriendID: friendID, Err: err, Sent: err == nil}
		}(i, friendID)
	}
	wg.Wait()

	return report, ResultOK
}
