// internal/handlers/invitation_test.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eatup-app/eatup/internal/models"
)

// fakeDirectory is an in-memory InvitationDirectory. Accept and decline are
// receiver-scoped like the real one.
type fakeDirectory struct {
	mu          sync.Mutex
	failFor     map[uuid.UUID]bool
	invitations map[uuid.UUID]*models.LobbyInvitation
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		failFor:     make(map[uuid.UUID]bool),
		invitations: make(map[uuid.UUID]*models.LobbyInvitation),
	}
}

func (f *fakeDirectory) SendLobbyInvitation(ctx context.Context, lobbyID, senderID, receiverID uuid.UUID, lobbyName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[receiverID] {
		return fmt.Errorf("directory unavailable")
	}
	inv := &models.LobbyInvitation{
		ID:         uuid.New(),
		LobbyID:    lobbyID,
		LobbyName:  lobbyName,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     "pending",
		CreatedAt:  time.Now(),
	}
	f.invitations[inv.ID] = inv
	return nil
}

func (f *fakeDirectory) AcceptLobbyInvitation(ctx context.Context, invitationID, receiverID uuid.UUID) (*models.LobbyInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[invitationID]
	if !ok || inv.Status != "pending" || inv.ReceiverID != receiverID {
		return nil, fmt.Errorf("no pending invitation %v for this user", invitationID)
	}
	inv.Status = "accepted"
	out := *inv
	return &out, nil
}

func (f *fakeDirectory) DeclineLobbyInvitation(ctx context.Context, invitationID, receiverID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[invitationID]
	if !ok || inv.Status != "pending" || inv.ReceiverID != receiverID {
		return fmt.Errorf("no pending invitation %v for this user", invitationID)
	}
	inv.Status = "declined"
	return nil
}

func (f *fakeDirectory) ListPendingInvitations(ctx context.Context, userID uuid.UUID, asSender bool) ([]models.LobbyInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.LobbyInvitation
	for _, inv := range f.invitations {
		if inv.Status != "pending" {
			continue
		}
		if (asSender && inv.SenderID == userID) || (!asSender && inv.ReceiverID == userID) {
			out = append(out, *inv)
		}
	}
	return out, nil
}

// invitationFor finds the pending invitation addressed to receiverID.
func (f *fakeDirectory) invitationFor(receiverID uuid.UUID) *models.LobbyInvitation {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invitations {
		if inv.ReceiverID == receiverID {
			out := *inv
			return &out
		}
	}
	return nil
}

func inviteToLobby(t *testing.T, dir *fakeDirectory, lobbyID, senderID, receiverID uuid.UUID) uuid.UUID {
	t.Helper()
	if err := dir.SendLobbyInvitation(context.Background(), lobbyID, senderID, receiverID, "Dinner"); err != nil {
		t.Fatalf("failed to seed invitation: %v", err)
	}
	return dir.invitationFor(receiverID).ID
}

func acceptInvitation(t *testing.T, s *ApiServer, user, invID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := authedRequest(t, user, "POST", "/invitations/accept", map[string]string{
		"invitation_id": invID.String(),
	})
	w := httptest.NewRecorder()
	AcceptInvitationHandler(s).ServeHTTP(w, req)
	return w
}

func TestAcceptInvitationHandler(t *testing.T) {
	s := newTestServer(t)
	dir := newFakeDirectory()
	s.Invites = dir

	host := uuid.New()
	invitee := uuid.New()
	l := createLobby(t, s, host, "Dinner", 4)
	invID := inviteToLobby(t, dir, l.ID, host, invitee)

	w := acceptInvitation(t, s, invitee, invID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Invitation models.LobbyInvitation `json:"invitation"`
		Join       string                 `json:"join"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Invitation.Status != "accepted" || resp.Join != "ok" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	got, _ := s.Lobbies.Get(l.ID)
	if _, member := got.Member(invitee); !member {
		t.Fatalf("invitee should have joined the lobby")
	}
	cur, ok := s.Lobbies.Current(invitee)
	if !ok || cur.ID != l.ID {
		t.Fatalf("accepting should set the invitee's current lobby")
	}
}

// TestAcceptInvitationWrongReceiver checks that an invitation id alone is not
// enough: another authenticated user cannot consume an invitation addressed
// to someone else, and the rightful receiver can still accept afterward.
func TestAcceptInvitationWrongReceiver(t *testing.T) {
	s := newTestServer(t)
	dir := newFakeDirectory()
	s.Invites = dir

	host := uuid.New()
	invitee := uuid.New()
	intruder := uuid.New()
	l := createLobby(t, s, host, "Dinner", 4)
	invID := inviteToLobby(t, dir, l.ID, host, invitee)

	w := acceptInvitation(t, s, intruder, invID)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's invitation, got %d: %s", w.Code, w.Body.String())
	}
	if inv := dir.invitationFor(invitee); inv.Status != "pending" {
		t.Fatalf("invitation must stay pending after a rejected accept, got %s", inv.Status)
	}
	got, _ := s.Lobbies.Get(l.ID)
	if _, member := got.Member(intruder); member {
		t.Fatalf("intruder must not join the lobby")
	}

	// The addressed receiver is unaffected.
	if w := acceptInvitation(t, s, invitee, invID); w.Code != http.StatusOK {
		t.Fatalf("rightful receiver should still accept, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeclineInvitationWrongReceiver(t *testing.T) {
	s := newTestServer(t)
	dir := newFakeDirectory()
	s.Invites = dir

	host := uuid.New()
	invitee := uuid.New()
	l := createLobby(t, s, host, "Dinner", 4)
	invID := inviteToLobby(t, dir, l.ID, host, invitee)

	req := authedRequest(t, uuid.New(), "POST", "/invitations/decline", map[string]string{
		"invitation_id": invID.String(),
	})
	w := httptest.NewRecorder()
	DeclineInvitationHandler(s).ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's invitation, got %d", w.Code)
	}
	if inv := dir.invitationFor(invitee); inv.Status != "pending" {
		t.Fatalf("invitation must stay pending, got %s", inv.Status)
	}
}

func TestListInvitationsHandler(t *testing.T) {
	s := newTestServer(t)
	dir := newFakeDirectory()
	s.Invites = dir

	host := uuid.New()
	invitee := uuid.New()
	l := createLobby(t, s, host, "Dinner", 4)
	inviteToLobby(t, dir, l.ID, host, invitee)

	list := func(user uuid.UUID) (received, sent []models.LobbyInvitation) {
		req := authedRequest(t, user, "GET", "/invitations/list", nil)
		w := httptest.NewRecorder()
		ListInvitationsHandler(s).ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp struct {
			Received []models.LobbyInvitation `json:"received"`
			Sent     []models.LobbyInvitation `json:"sent"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return resp.Received, resp.Sent
	}

	received, sent := list(invitee)
	if len(received) != 1 || len(sent) != 0 {
		t.Fatalf("invitee should have 1 received / 0 sent, got %d/%d", len(received), len(sent))
	}
	received, sent = list(host)
	if len(received) != 0 || len(sent) != 1 {
		t.Fatalf("host should have 0 received / 1 sent, got %d/%d", len(received), len(sent))
	}
	if sent[0].ReceiverID != invitee {
		t.Fatalf("sent listing should point at the recipient, got %+v", sent[0])
	}
}
