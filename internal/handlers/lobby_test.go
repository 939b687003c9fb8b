// internal/handlers/lobby_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eatup-app/eatup/internal/auth"
	"github.com/eatup-app/eatup/internal/catalog"
	"github.com/eatup-app/eatup/internal/models"
	"github.com/eatup-app/eatup/internal/spin"
)

// newTestServer builds an ApiServer with ephemeral keys and no external
// collaborators.
func newTestServer(t *testing.T) *ApiServer {
	t.Helper()
	auth.Init("never") // ephemeral keys, no DB needed

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	engine := spin.NewEngine(catalog.Seed(1), nil)
	engine.SetDelay(time.Millisecond)

	s := NewApiServer(logger, catalog.Seed(1), engine)
	s.Credits = &fakeCredits{remaining: 3}
	return s
}

func authedRequest(t *testing.T, userID uuid.UUID, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	token, err := auth.CreateJWT(userID.String())
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	req.Header.Set("Cookie", "auth_token="+token)
	return req
}

// createLobby drives CreateLobbyHandler and returns the decoded lobby.
func createLobby(t *testing.T, s *ApiServer, host uuid.UUID, name string, max int) models.Lobby {
	t.Helper()
	req := authedRequest(t, host, "POST", "/lobby/create", map[string]interface{}{
		"name":             name,
		"max_participants": max,
	})
	w := httptest.NewRecorder()
	CreateLobbyHandler(s).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var l models.Lobby
	if err := json.Unmarshal(w.Body.Bytes(), &l); err != nil {
		t.Fatalf("failed to decode lobby: %v", err)
	}
	return l
}

func TestCreateLobbyHandler(t *testing.T) {
	s := newTestServer(t)
	host := uuid.New()

	l := createLobby(t, s, host, "Trivia Night", 6)
	if l.ID == uuid.Nil {
		t.Fatalf("lobby has no ID")
	}
	if l.HostUserID != host {
		t.Fatalf("lobby host mismatch, expected %v got %v", host, l.HostUserID)
	}
	if len(l.Participants) != 1 || l.Participants[0].Status != models.MemberReady {
		t.Fatalf("host should be the sole, ready participant: %+v", l.Participants)
	}
}

func TestCreateLobbyRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest("POST", "/lobby/create", bytes.NewBufferString(`{"name":"x"}`))
	w := httptest.NewRecorder()
	CreateLobbyHandler(s).ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJoinLobbyHandlerFull(t *testing.T) {
	s := newTestServer(t)
	host := uuid.New()
	l := createLobby(t, s, host, "Pair", 2)

	join := func(user uuid.UUID) *httptest.ResponseRecorder {
		req := authedRequest(t, user, "POST", "/lobby/join", map[string]string{"lobby_id": l.ID.String()})
		w := httptest.NewRecorder()
		JoinLobbyHandler(s).ServeHTTP(w, req)
		return w
	}

	if w := join(uuid.New()); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w := join(uuid.New())
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for full lobby, got %d", w.Code)
	}
	var resp struct {
		OK     bool   `json:"ok"`
		Result string `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if resp.OK || resp.Result != "lobby_full" {
		t.Fatalf("expected lobby_full, got %+v", resp)
	}
}

func TestHostLeaveDissolves(t *testing.T) {
	s := newTestServer(t)
	host := uuid.New()
	l := createLobby(t, s, host, "Dinner", 4)

	req := authedRequest(t, host, "POST", "/lobby/leave", map[string]string{"lobby_id": l.ID.String()})
	w := httptest.NewRecorder()
	LeaveLobbyHandler(s).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req = authedRequest(t, host, "GET", "/lobby/get?id="+l.ID.String(), nil)
	w = httptest.NewRecorder()
	GetLobbyHandler(s).ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after host leave, got %d", w.Code)
	}
}

func TestCurrentLobbyHandler(t *testing.T) {
	s := newTestServer(t)
	host := uuid.New()
	l := createLobby(t, s, host, "Dinner", 4)

	req := authedRequest(t, host, "GET", "/lobby/current", nil)
	w := httptest.NewRecorder()
	CurrentLobbyHandler(s).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var cur models.Lobby
	if err := json.Unmarshal(w.Body.Bytes(), &cur); err != nil {
		t.Fatalf("failed to decode lobby: %v", err)
	}
	if cur.ID != l.ID {
		t.Fatalf("current lobby mismatch, expected %v got %v", l.ID, cur.ID)
	}

	// A stranger has no current lobby.
	req = authedRequest(t, uuid.New(), "GET", "/lobby/current", nil)
	w = httptest.NewRecorder()
	CurrentLobbyHandler(s).ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUpdateLobbyStatusSpinningGuards(t *testing.T) {
	s := newTestServer(t)
	host := uuid.New()
	friend := uuid.New()
	l := createLobby(t, s, host, "Dinner", 4)
	s.Lobbies.Join(l.ID, friend, "Blair")

	setStatus := func(user uuid.UUID, status string) *httptest.ResponseRecorder {
		req := authedRequest(t, user, "POST", "/lobby/status", map[string]string{
			"lobby_id": l.ID.String(),
			"status":   status,
		})
		w := httptest.NewRecorder()
		UpdateLobbyStatusHandler(s).ServeHTTP(w, req)
		return w
	}

	if w := setStatus(friend, "spinning"); w.Code != http.StatusForbidden {
		t.Fatalf("non-host spin start should be 403, got %d", w.Code)
	}
	if w := setStatus(host, "spinning"); w.Code != http.StatusConflict {
		t.Fatalf("spin start with unready member should be 409, got %d", w.Code)
	}

	s.Lobbies.ToggleReady(l.ID, friend)
	if w := setStatus(host, "spinning"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if w := setStatus(host, "launching"); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown status should be 400, got %d", w.Code)
	}
}

func TestSetMeetingTimeHandler(t *testing.T) {
	s := newTestServer(t)
	host := uuid.New()
	l := createLobby(t, s, host, "Dinner", 4)

	when := time.Now().Add(2 * time.Hour).Format(time.RFC3339)
	req := authedRequest(t, host, "POST", "/lobby/meeting-time", map[string]string{
		"lobby_id":     l.ID.String(),
		"meeting_time": when,
	})
	w := httptest.NewRecorder()
	SetMeetingTimeHandler(s).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	got, _ := s.Lobbies.Get(l.ID)
	if got.MeetingTime == nil {
		t.Fatalf("meeting time not recorded")
	}
}

func TestInviteFriendsHandlerPartialFailure(t *testing.T) {
	s := newTestServer(t)
	host := uuid.New()
	l := createLobby(t, s, host, "Dinner", 4)

	good, bad := uuid.New(), uuid.New()
	dir := newFakeDirectory()
	dir.failFor[bad] = true
	s.Invites = dir

	req := authedRequest(t, host, "POST", "/lobby/invite", map[string]interface{}{
		"lobby_id":   l.ID.String(),
		"friend_ids": []string{good.String(), bad.String()},
	})
	w := httptest.NewRecorder()
	InviteFriendsHandler(s).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		OK       bool `json:"ok"`
		Outcomes []struct {
			FriendID string `json:"friend_id"`
			Sent     bool   `json:"sent"`
		} `json:"outcomes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if resp.OK {
		t.Fatalf("expected ok=false with one failed send")
	}
	if len(resp.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(resp.Outcomes))
	}
	for _, o := range resp.Outcomes {
		wantSent := o.FriendID == good.String()
		if o.Sent != wantSent {
			t.Fatalf("outcome mismatch for %s: sent=%v", o.FriendID, o.Sent)
		}
	}
}

func TestGroupSpinHandler(t *testing.T) {
	s := newTestServer(t)
	host := uuid.New()
	friend := uuid.New()
	l := createLobby(t, s, host, "Dinner", 4)
	s.Lobbies.Join(l.ID, friend, "Blair")

	groupSpin := func(user uuid.UUID) *httptest.ResponseRecorder {
		req := authedRequest(t, user, "POST", "/lobby/spin", map[string]string{
			"lobby_id":    l.ID.String(),
			"price_range": "$$",
		})
		w := httptest.NewRecorder()
		GroupSpinHandler(s).ServeHTTP(w, req)
		return w
	}

	if w := groupSpin(friend); w.Code != http.StatusForbidden {
		t.Fatalf("non-host group spin should be 403, got %d", w.Code)
	}
	if w := groupSpin(host); w.Code != http.StatusConflict {
		t.Fatalf("group spin with unready member should be 409, got %d", w.Code)
	}

	s.Lobbies.ToggleReady(l.ID, friend)
	w := groupSpin(host)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result models.Spin
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode spin: %v", err)
	}
	if result.OfferResult.Restaurant.PriceRange != models.PriceMidrange {
		t.Fatalf("offer tier mismatch: %+v", result.OfferResult)
	}

	got, _ := s.Lobbies.Get(l.ID)
	if got.Status != models.LobbySelected {
		t.Fatalf("lobby should be selected after a group spin, got %s", got.Status)
	}
	if got.SelectedOffer == nil || got.SelectedOffer.ID != result.OfferResult.ID {
		t.Fatalf("selected offer not recorded")
	}
}
