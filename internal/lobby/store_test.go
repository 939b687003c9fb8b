// internal/lobby/store_test.go
package lobby

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eatup-app/eatup/internal/models"
)

func TestCreateLobby(t *testing.T) {
	s := NewStore()
	host := uuid.New()

	l := s.Create("Trivia Night", host, "Alex", 6)

	assert.NotEqual(t, uuid.Nil, l.ID)
	assert.Equal(t, "Trivia Night", l.Name)
	assert.Equal(t, host, l.HostUserID)
	assert.Equal(t, models.LobbyPending, l.Status)
	require.Len(t, l.Participants, 1)
	assert.Equal(t, host, l.Participants[0].UserID)
	assert.Equal(t, models.MemberReady, l.Participants[0].Status, "host joins ready")

	// Creating sets the host's current-lobby view.
	cur, ok := s.Current(host)
	require.True(t, ok)
	assert.Equal(t, l.ID, cur.ID)
}

func TestCreateClampsCapacity(t *testing.T) {
	s := NewStore()
	l := s.Create("Tiny", uuid.New(), "Alex", 1)
	assert.Equal(t, 2, l.MaxParticipants)

	l = s.Create("Negative", uuid.New(), "Blair", -4)
	assert.Equal(t, 2, l.MaxParticipants)
}

func TestJoinUnknownLobby(t *testing.T) {
	s := NewStore()
	res := s.Join(uuid.New(), uuid.New(), "Casey")
	assert.Equal(t, ResultNotFound, res)
}

func TestJoinFullLobbyDoesNotMutate(t *testing.T) {
	s := NewStore()
	host := uuid.New()
	l := s.Create("Pair", host, "Alex", 2)
	require.Equal(t, ResultOK, s.Join(l.ID, uuid.New(), "Blair"))

	res := s.Join(l.ID, uuid.New(), "Casey")
	assert.Equal(t, ResultLobbyFull, res)

	got, ok := s.Get(l.ID)
	require.True(t, ok)
	assert.Len(t, got.Participants, 2, "rejected join must not change membership")
}

func TestJoinTwiceIsRejected(t *testing.T) {
	s := NewStore()
	host := uuid.New()
	l := s.Create("Dinner", host, "Alex", 4)
	friend := uuid.New()

	require.Equal(t, ResultOK, s.Join(l.ID, friend, "Blair"))
	assert.Equal(t, ResultAlreadyMember, s.Join(l.ID, friend, "Blair"))

	got, _ := s.Get(l.ID)
	assert.Len(t, got.Participants, 2, "no duplicate membership")
}

func TestHostLeaveDissolvesLobby(t *testing.T) {
	s := NewStore()
	host := uuid.New()
	friend := uuid.New()
	l := s.Create("Dinner", host, "Alex", 4)
	require.Equal(t, ResultOK, s.Join(l.ID, friend, "Blair"))
	require.Equal(t, ResultOK, s.SetCurrent(friend, l.ID))

	res := s.Leave(l.ID, host)
	require.Equal(t, ResultOK, res)

	_, ok := s.Get(l.ID)
	assert.False(t, ok, "lobby must be gone")
	assert.Empty(t, s.List())

	// Every view that pointed at the dissolved lobby is cleared.
	_, ok = s.Current(host)
	assert.False(t, ok)
	_, ok = s.Current(friend)
	assert.False(t, ok)
}

func TestNonHostLeave(t *testing.T) {
	s := NewStore()
	host := uuid.New()
	friend := uuid.New()
	l := s.Create("Dinner", host, "Alex", 4)
	require.Equal(t, ResultOK, s.Join(l.ID, friend, "Blair"))
	require.Equal(t, ResultOK, s.SetCurrent(friend, l.ID))

	require.Equal(t, ResultOK, s.Leave(l.ID, friend))

	got, ok := s.Get(l.ID)
	require.True(t, ok, "lobby survives a non-host leave")
	require.Len(t, got.Participants, 1)
	assert.Equal(t, host, got.Participants[0].UserID)

	_, ok = s.Current(friend)
	assert.False(t, ok, "leaver's view is cleared")
	cur, ok := s.Current(host)
	require.True(t, ok, "host's view is untouched")
	assert.Equal(t, l.ID, cur.ID)
}

func TestToggleReadyIsSelfInverse(t *testing.T) {
	s := NewStore()
	host := uuid.New()
	friend := uuid.New()
	l := s.Create("Dinner", host, "Alex", 4)
	require.Equal(t, ResultOK, s.Join(l.ID, friend, "Blair"))

	readyOf := func(id uuid.UUID) models.MemberStatus {
		got, ok := s.Get(l.ID)
		require.True(t, ok)
		m, present := got.Member(id)
		require.True(t, present)
		return m.Status
	}

	require.Equal(t, models.MemberNotReady, readyOf(friend))
	require.Equal(t, ResultOK, s.ToggleReady(l.ID, friend))
	assert.Equal(t, models.MemberReady, readyOf(friend))
	require.Equal(t, ResultOK, s.ToggleReady(l.ID, friend))
	assert.Equal(t, models.MemberNotReady, readyOf(friend))
}

func TestToggleReadyNonMember(t *testing.T) {
	s := NewStore()
	l := s.Create("Dinner", uuid.New(), "Alex", 4)
	assert.Equal(t, ResultNotMember, s.ToggleReady(l.ID, uuid.New()))
}

func TestAllReady(t *testing.T) {
	s := NewStore()
	host := uuid.New()
	friend := uuid.New()
	l := s.Create("Dinner", host, "Alex", 4)

	assert.True(t, s.AllReady(l.ID), "host-only lobby is all ready")

	require.Equal(t, ResultOK, s.Join(l.ID, friend, "Blair"))
	assert.False(t, s.AllReady(l.ID))

	require.Equal(t, ResultOK, s.ToggleReady(l.ID, friend))
	assert.True(t, s.AllReady(l.ID))
}

func TestSetSelectedOfferForcesSelected(t *testing.T) {
	s := NewStore()
	l := s.Create("Dinner", uuid.New(), "Alex", 4)

	offer := models.Offer{ID: "offer-1", RestaurantID: "1", DiscountPercent: 15}
	require.Equal(t, ResultOK, s.SetSelectedOffer(l.ID, offer))

	got, _ := s.Get(l.ID)
	assert.Equal(t, models.LobbySelected, got.Status)
	require.NotNil(t, got.SelectedOffer)
	assert.Equal(t, "offer-1", got.SelectedOffer.ID)
}

func TestListNewestFirst(t *testing.T) {
	s := NewStore()
	a := s.Create("First", uuid.New(), "Alex", 4)
	b := s.Create("Second", uuid.New(), "Blair", 4)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := NewStore()
	host := uuid.New()
	l := s.Create("Dinner", host, "Alex", 4)

	snap, _ := s.Get(l.ID)
	snap.Participants[0].Status = models.MemberNotReady
	snap.Name = "Hijacked"

	got, _ := s.Get(l.ID)
	assert.Equal(t, "Dinner", got.Name)
	assert.Equal(t, models.MemberReady, got.Participants[0].Status)
}

// TestTriviaNightFlow walks the canonical group night: create, friends join,
// everyone readies up, the group locks in an offer, a friend leaves after,
// and finally the host closes up shop.
func TestTriviaNightFlow(t *testing.T) {
	s := NewStore()
	host := uuid.New()
	f1, f2 := uuid.New(), uuid.New()

	l := s.Create("Trivia Night", host, "Alex", 6)
	require.Equal(t, ResultOK, s.Join(l.ID, f1, "Blair"))
	require.Equal(t, ResultOK, s.Join(l.ID, f2, "Casey"))
	require.False(t, s.AllReady(l.ID))

	require.Equal(t, ResultOK, s.ToggleReady(l.ID, f1))
	require.Equal(t, ResultOK, s.ToggleReady(l.ID, f2))
	require.True(t, s.AllReady(l.ID))

	require.Equal(t, ResultOK, s.SetStatus(l.ID, models.LobbySpinning))
	offer := models.Offer{ID: "offer-7", RestaurantID: "7", DiscountPercent: 30}
	require.Equal(t, ResultOK, s.SetSelectedOffer(l.ID, offer))

	got, _ := s.Get(l.ID)
	assert.Equal(t, models.LobbySelected, got.Status)
	assert.Len(t, got.ParticipantIDs(), 3)

	require.Equal(t, ResultOK, s.Leave(l.ID, f2))
	got, _ = s.Get(l.ID)
	assert.Len(t, got.Participants, 2)

	require.Equal(t, ResultOK, s.Leave(l.ID, host))
	_, ok := s.Get(l.ID)
	assert.False(t, ok)
}
