package lobby

import (
	log "github.com/sirupsen/logrus"

	"github.com/google/uuid"
)

// Subscriber is one client's live view into a lobby's event stream.
type Subscriber struct {
	UserID uuid.UUID
	Cancel func()

	// Out carries event payloads toward the client's write pump.
	Out chan map[string]interface{}
}

// Write pushes a payload onto the subscriber's channel without blocking.
// Dropped payloads are logged; the client resyncs from a full snapshot on
// its next read.
func (sub *Subscriber) Write(msg map[string]interface{}) {
	select {
	case sub.Out <- msg:
	default:
		msgType, _ := msg["type"].(string)
		log.WithFields(log.Fields{
			"user_id": sub.UserID,
			"event":   msgType,
		}).Warn("subscriber channel full, dropped lobby event")
	}
}

// Subscribe registers a subscriber for the lobby's events. It returns false
// when the lobby does not exist.
func (s *Store) Subscribe(lobbyID uuid.UUID, sub *Subscriber) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lobbies[lobbyID]; !ok {
		return false
	}
	if s.subs[lobbyID] == nil {
		s.subs[lobbyID] = make(map[*Subscriber]struct{})
	}
	s.subs[lobbyID][sub] = struct{}{}
	return true
}

// Unsubscribe removes the subscriber and closes its channel.
func (s *Store) Unsubscribe(lobbyID uuid.UUID, sub *Subscriber) {
	s.mu.Lock()
	set, ok := s.subs[lobbyID]
	if ok {
		if _, present := set[sub]; present {
			delete(set, sub)
			close(sub.Out)
		}
		if len(set) == 0 {
			delete(s.subs, lobbyID)
		}
	}
	s.mu.Unlock()
	if sub.Cancel != nil {
		sub.Cancel()
	}
}

// broadcast fans an event out to every subscriber of the lobby.
func (s *Store) broadcast(lobbyID uuid.UUID, msg map[string]interface{}) {
	s.mu.Lock()
	targets := make([]*Subscriber, 0, len(s.subs[lobbyID]))
	for sub := range s.subs[lobbyID] {
		targets = append(targets, sub)
	}
	s.mu.Unlock()

	for _, sub := range targets {
		sub.Write(msg)
	}
}

// dropSubscribers closes every subscription of a dissolved lobby.
func (s *Store) dropSubscribers(lobbyID uuid.UUID) {
	s.mu.Lock()
	set := s.subs[lobbyID]
	delete(s.subs, lobbyID)
	s.mu.Unlock()

	for sub := range set {
		close(sub.Out)
		if sub.Cancel != nil {
			sub.Cancel()
		}
	}
}
