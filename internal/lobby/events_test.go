// internal/lobby/events_test.go
package lobby

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriberReceivesJoinEvent(t *testing.T) {
	s := NewStore()
	host := uuid.New()
	l := s.Create("Dinner", host, "Alex", 4)

	sub := &Subscriber{UserID: host, Out: make(chan map[string]interface{}, 10)}
	require.True(t, s.Subscribe(l.ID, sub))

	friend := uuid.New()
	require.Equal(t, ResultOK, s.Join(l.ID, friend, "Blair"))

	select {
	case msg := <-sub.Out:
		assert.Equal(t, "lobby_update", msg["type"])
		assert.Equal(t, friend.String(), msg["user_join"])
	default:
		t.Fatal("expected a lobby_update event")
	}
}

func TestHostLeaveClosesSubscribers(t *testing.T) {
	s := NewStore()
	host := uuid.New()
	friend := uuid.New()
	l := s.Create("Dinner", host, "Alex", 4)
	require.Equal(t, ResultOK, s.Join(l.ID, friend, "Blair"))

	cancelled := false
	sub := &Subscriber{
		UserID: friend,
		Cancel: func() { cancelled = true },
		Out:    make(chan map[string]interface{}, 10),
	}
	require.True(t, s.Subscribe(l.ID, sub))

	require.Equal(t, ResultOK, s.Leave(l.ID, host))

	// Drain: the close notice arrives, then the channel closes.
	sawClosed := false
	for msg := range sub.Out {
		if msg["type"] == "lobby_closed" {
			sawClosed = true
		}
	}
	assert.True(t, sawClosed)
	assert.True(t, cancelled)
}

func TestSubscribeUnknownLobby(t *testing.T) {
	s := NewStore()
	sub := &Subscriber{UserID: uuid.New(), Out: make(chan map[string]interface{}, 1)}
	assert.False(t, s.Subscribe(uuid.New(), sub))
}

func TestWriteDropsWhenFull(t *testing.T) {
	sub := &Subscriber{UserID: uuid.New(), Out: make(chan map[string]interface{}, 1)}
	sub.Write(map[string]interface{}{"type": "a"})
	sub.Write(map[string]interface{}{"type": "b"}) // must not block

	msg := <-sub.Out
	assert.Equal(t, "a", msg["type"])
	select {
	case <-sub.Out:
		t.Fatal("second event should have been dropped")
	default:
	}
}
