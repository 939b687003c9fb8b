// Package lobby owns the in-memory lobby registry and its lifecycle
// operations. The service process is the single authority for lobby state;
// clients observe changes through the event subscriptions in events.go.
package lobby

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eatup-app/eatup/internal/models"
)

// Result tags the outcome of a lobby mutation. The zero value is success so
// simple callers can keep treating results as booleans via OK().
type Result int

const (
	ResultOK Result = iota
	ResultNotFound
	ResultLobbyFull
	ResultAlreadyMember
	ResultNotMember
)

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r == ResultOK }

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultNotFound:
		return "not_found"
	case ResultLobbyFull:
		return "lobby_full"
	case ResultAlreadyMember:
		return "already_member"
	case ResultNotMember:
		return "not_member"
	}
	return "unknown"
}

// Store manages lobbies in memory, plus each user's "current lobby" view.
// The view is a pointer into the registry, never a copy: reads resolve it
// against the registry so it cannot go stale, and it is cleared when the
// lobby it points at is dissolved.
type Store struct {
	mu      sync.Mutex
	lobbies map[uuid.UUID]*models.Lobby
	order   []uuid.UUID // creation order, newest first
	current map[uuid.UUID]uuid.UUID
	subs    map[uuid.UUID]map[*Subscriber]struct{}
}

// NewStore returns an empty in-memory lobby registry.
func NewStore() *Store {
	return &Store{
		lobbies: make(map[uuid.UUID]*models.Lobby),
		current: make(map[uuid.UUID]uuid.UUID),
		subs:    make(map[uuid.UUID]map[*Subscriber]struct{}),
	}
}

// snapshotUnsafe deep-copies a lobby so callers can't mutate registry state.
// Assumes lock is held.
func snapshotUnsafe(l *models.Lobby) models.Lobby {
	out := *l
	out.Participants = make([]models.LobbyMember, len(l.Participants))
	copy(out.Participants, l.Participants)
	if l.SelectedOffer != nil {
		offer := *l.SelectedOffer
		out.SelectedOffer = &offer
	}
	if l.MeetingTime != nil {
		t := *l.MeetingTime
		out.MeetingTime = &t
	}
	return out
}

// Create builds a new lobby with the host as its sole, ready participant and
// makes it the host's current lobby. maxParticipants is clamped to at least 2.
// Lobby names are not unique; creation always succeeds.
func (s *Store) Create(name string, hostID uuid.UUID, hostName string, maxParticipants int) models.Lobby {
	if maxParticipants < 2 {
		maxParticipants = 2
	}
	now := time.Now()
	l := &models.Lobby{
		ID:              uuid.New(),
		Name:            name,
		HostUserID:      hostID,
		HostName:        hostName,
		MaxParticipants: maxParticipants,
		Participants: []models.LobbyMember{{
			UserID:   hostID,
			Name:     hostName,
			JoinedAt: now,
			Status:   models.MemberReady,
		}},
		Status:    models.LobbyPending,
		CreatedAt: now,
	}

	s.mu.Lock()
	s.lobbies[l.ID] = l
	s.order = append([]uuid.UUID{l.ID}, s.order...)
	s.current[hostID] = l.ID
	snap := snapshotUnsafe(l)
	s.mu.Unlock()

	return snap
}

// Join appends userID as a not-ready member. It fails without mutation when
// the lobby is unknown, at capacity, or the user is already a participant.
func (s *Store) Join(lobbyID, userID uuid.UUID, userName string) Result {
	s.mu.Lock()
	l, ok := s.lobbies[lobbyID]
	if !ok {
		s.mu.Unlock()
		return ResultNotFound
	}
	if l.IsFull() {
		s.mu.Unlock()
		return ResultLobbyFull
	}
	if _, present := l.Member(userID); present {
		s.mu.Unlock()
		return ResultAlreadyMember
	}
	l.Participants = append(l.Participants, models.LobbyMember{
		UserID:   userID,
		Name:     userName,
		JoinedAt: time.Now(),
		Status:   models.MemberNotReady,
	})
	snap := snapshotUnsafe(l)
	s.mu.Unlock()

	s.broadcast(lobbyID, map[string]interface{}{
		"type":      "lobby_update",
		"user_join": userID.String(),
		"username":  userName,
		"lobby":     snap,
	})
	return ResultOK
}

// Leave removes userID from the lobby. A leaving host dissolves the lobby
// entirely: the registry entry disappears and every current-lobby view that
// pointed at it is cleared. A non-host leave always succeeds once the lobby
// exists.
func (s *Store) Leave(lobbyID, userID uuid.UUID) Result {
	s.mu.Lock()
	l, ok := s.lobbies[lobbyID]
	if !ok {
		s.mu.Unlock()
		return ResultNotFound
	}

	if l.HostUserID == userID {
		s.deleteLobbyUnsafe(lobbyID)
		s.mu.Unlock()

		s.broadcast(lobbyID, map[string]interface{}{
			"type":     "lobby_closed",
			"lobby_id": lobbyID.String(),
		})
		s.dropSubscribers(lobbyID)
		return ResultOK
	}

	for i, p := range l.Participants {
		if p.UserID == userID {
			l.Participants = append(l.Participants[:i], l.Participants[i+1:]...)
			break
		}
	}
	if cur, ok := s.current[userID]; ok && cur == lobbyID {
		delete(s.current, userID)
	}
	snap := snapshotUnsafe(l)
	s.mu.Unlock()

	s.broadcast(lobbyID, map[string]interface{}{
		"type":      "lobby_update",
		"user_left": userID.String(),
		"lobby":     snap,
	})
	return ResultOK
}

// deleteLobbyUnsafe removes the lobby and clears any views pointing at it.
// Assumes lock is held.
func (s *Store) deleteLobbyUnsafe(lobbyID uuid.UUID) {
	delete(s.lobbies, lobbyID)
	for i, id := range s.order {
		if id == lobbyID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for userID, cur := range s.current {
		if cur == lobbyID {
			delete(s.current, userID)
		}
	}
}

// ToggleReady flips the member's ready flag. Applying it twice restores the
// original state. Unknown lobby or non-member is reported, not mutated.
func (s *Store) ToggleReady(lobbyID, userID uuid.UUID) Result {
	s.mu.Lock()
	l, ok := s.lobbies[lobbyID]
	if !ok {
		s.mu.Unlock()
		return ResultNotFound
	}
	m, present := l.Member(userID)
	if !present {
		s.mu.Unlock()
		return ResultNotMember
	}
	if m.Status == models.MemberReady {
		m.Status = models.MemberNotReady
	} else {
		m.Status = models.MemberReady
	}
	status := m.Status
	s.mu.Unlock()

	s.broadcast(lobbyID, map[string]interface{}{
		"type":     "ready_update",
		"user_id":  userID.String(),
		"is_ready": status == models.MemberReady,
	})
	return ResultOK
}

// SetStatus overwrites the lobby status unconditionally. Transition legality
// (host-only, all-ready before spinning) is the caller's precondition, as it
// was in the client this service replaced.
func (s *Store) SetStatus(lobbyID uuid.UUID, status models.LobbyStatus) Result {
	s.mu.Lock()
	l, ok := s.lobbies[lobbyID]
	if !ok {
		s.mu.Unlock()
		return ResultNotFound
	}
	l.Status = status
	s.mu.Unlock()

	s.broadcast(lobbyID, map[string]interface{}{
		"type":   "status_update",
		"status": string(status),
	})
	return ResultOK
}

// SetSelectedOffer records the group's offer and forces the lobby to
// 'selected' regardless of its prior state.
func (s *Store) SetSelectedOffer(lobbyID uuid.UUID, offer models.Offer) Result {
	s.mu.Lock()
	l, ok := s.lobbies[lobbyID]
	if !ok {
		s.mu.Unlock()
		return ResultNotFound
	}
	l.SelectedOffer = &offer
	l.Status = models.LobbySelected
	s.mu.Unlock()

	s.broadcast(lobbyID, map[string]interface{}{
		"type":  "offer_selected",
		"offer": offer,
	})
	return ResultOK
}

// SetMeetingTime schedules the group's meeting. No future-dated validation is
// performed; the caller only offers the form when no time is set.
func (s *Store) SetMeetingTime(lobbyID uuid.UUID, t time.Time) Result {
	s.mu.Lock()
	l, ok := s.lobbies[lobbyID]
	if !ok {
		s.mu.Unlock()
		return ResultNotFound
	}
	l.MeetingTime = &t
	s.mu.Unlock()

	s.broadcast(lobbyID, map[string]interface{}{
		"type":         "meeting_time",
		"meeting_time": t.Format(time.RFC3339),
	})
	return ResultOK
}

// SetCurrent points the user's current-lobby view at lobbyID, clearing it
// when the lobby is unknown.
func (s *Store) SetCurrent(userID, lobbyID uuid.UUID) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lobbies[lobbyID]; !ok {
		delete(s.current, userID)
		return ResultNotFound
	}
	s.current[userID] = lobbyID
	return ResultOK
}

// ClearCurrent drops the user's current-lobby view.
func (s *Store) ClearCurrent(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.current, userID)
}

// Current resolves the user's current-lobby view against the registry. A view
// pointing at a dissolved lobby is cleared and reported as absent.
func (s *Store) Current(userID uuid.UUID) (models.Lobby, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.current[userID]
	if !ok {
		return models.Lobby{}, false
	}
	l, ok := s.lobbies[id]
	if !ok {
		delete(s.current, userID)
		return models.Lobby{}, false
	}
	return snapshotUnsafe(l), true
}

// Get returns a snapshot of the lobby.
func (s *Store) Get(lobbyID uuid.UUID) (models.Lobby, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[lobbyID]
	if !ok {
		return models.Lobby{}, false
	}
	return snapshotUnsafe(l), true
}

// List returns snapshots of all lobbies, newest first.
func (s *Store) List() []models.Lobby {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Lobby, 0, len(s.order))
	for _, id := range s.order {
		if l, ok := s.lobbies[id]; ok {
			out = append(out, snapshotUnsafe(l))
		}
	}
	return out
}

// AllReady reports whether every participant of the lobby is ready.
func (s *Store) AllReady(lobbyID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[lobbyID]
	if !ok {
		return false
	}
	for _, p := range l.Participants {
		if p.Status != models.MemberReady {
			return false
		}
	}
	return true
}
