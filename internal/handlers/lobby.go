// internal/handlers/lobby.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/eatup-app/eatup/internal/database"
	"github.com/eatup-app/eatup/internal/lobby"
	"github.com/eatup-app/eatup/internal/models"
	"github.com/eatup-app/eatup/internal/spin"
)

// resultStatus maps a lobby op result onto an HTTP status code.
func resultStatus(res lobby.Result) int {
	switch res {
	case lobby.ResultOK:
		return http.StatusOK
	case lobby.ResultNotFound:
		return http.StatusNotFound
	case lobby.ResultLobbyFull, lobby.ResultAlreadyMember, lobby.ResultNotMember:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeResult reports a lobby op result to the caller.
func writeResult(w http.ResponseWriter, res lobby.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resultStatus(res))
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":     res.OK(),
		"result": res.String(),
	})
}

// callerName fetches the user's display name, falling back to "Guest" when
// the directory is unavailable.
func callerName(r *http.Request, userID uuid.UUID) string {
	if database.DB == nil {
		return "Guest"
	}
	user, err := database.GetUserByID(r.Context(), userID)
	if err != nil {
		return "Guest"
	}
	return user.Name
}

// CreateLobbyHandler builds a new lobby with the caller as host. The new
// lobby becomes the caller's current lobby.
func CreateLobbyHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}

		var req struct {
			Name            string `json:"name"`
			MaxParticipants int    `json:"max_participants"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad lobby request payload", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "lobby name is required", http.StatusBadRequest)
			return
		}

		l := s.Lobbies.Create(req.Name, userID, callerName(r, userID), req.MaxParticipants)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(l)
	}
}

// ListLobbiesHandler returns all lobbies, newest first.
func ListLobbiesHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authedUser(w, r); !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.Lobbies.List())
	}
}

// GetLobbyHandler returns one lobby by id (?id=...).
func GetLobbyHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authedUser(w, r); !ok {
			return
		}
		lobbyID, err := uuid.Parse(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "invalid lobby id", http.StatusBadRequest)
			return
		}
		l, found := s.Lobbies.Get(lobbyID)
		if !found {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(l)
	}
}

// CurrentLobbyHandler returns the caller's current lobby, if any.
func CurrentLobbyHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}
		l, found := s.Lobbies.Current(userID)
		if !found {
			http.Error(w, "no current lobby", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(l)
	}
}

// SelectLobbyHandler points the caller's current-lobby view at a lobby.
func SelectLobbyHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}
		var req struct {
			LobbyID string `json:"lobby_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		lobbyID, err := uuid.Parse(req.LobbyID)
		if err != nil {
			http.Error(w, "invalid lobby_id", http.StatusBadRequest)
			return
		}
		writeResult(w, s.Lobbies.SetCurrent(userID, lobbyID))
	}
}

// lobbyActionRequest is the shared payload for member-level lobby operations.
type lobbyActionRequest struct {
	LobbyID string `json:"lobby_id"`
}

func (req *lobbyActionRequest) parse(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return uuid.Nil, false
	}
	lobbyID, err := uuid.Parse(req.LobbyID)
	if err != nil {
		http.Error(w, "invalid lobby_id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return lobbyID, true
}

// JoinLobbyHandler adds the caller to a lobby as a not-ready member and makes
// it their current lobby on success.
func JoinLobbyHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}
		var req lobbyActionRequest
		lobbyID, ok := req.parse(w, r)
		if !ok {
			return
		}

		res := s.Lobbies.Join(lobbyID, userID, callerName(r, userID))
		if res.OK() {
			s.Lobbies.SetCurrent(userID, lobbyID)
		}
		writeResult(w, res)
	}
}

// LeaveLobbyHandler removes the caller from a lobby. A leaving host dissolves
// the lobby for everyone.
func LeaveLobbyHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}
		var req lobbyActionRequest
		lobbyID, ok := req.parse(w, r)
		if !ok {
			return
		}
		writeResult(w, s.Lobbies.Leave(lobbyID, userID))
	}
}

// ToggleReadyHandler flips the caller's ready flag in the lobby.
func ToggleReadyHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}
		var req lobbyActionRequest
		lobbyID, ok := req.parse(w, r)
		if !ok {
			return
		}
		writeResult(w, s.Lobbies.ToggleReady(lobbyID, userID))
	}
}

// UpdateLobbyStatusHandler overwrites the lobby status. Moving to 'spinning'
// is guarded here: only the host may trigger it, and only once every
// participant is ready. Other transitions are unguarded, matching the state
// machine's contract.
func UpdateLobbyStatusHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}

		var req struct {
			LobbyID string `json:"lobby_id"`
			Status  string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		lobbyID, err := uuid.Parse(req.LobbyID)
		if err != nil {
			http.Error(w, "invalid lobby_id", http.StatusBadRequest)
			return
		}
		status := models.LobbyStatus(req.Status)
		if !status.Valid() {
			http.Error(w, "invalid lobby status", http.StatusBadRequest)
			return
		}

		if status == models.LobbySpinning {
			l, found := s.Lobbies.Get(lobbyID)
			if !found {
				writeResult(w, lobby.ResultNotFound)
				return
			}
			if l.HostUserID != userID {
				http.Error(w, "only the host may start the spin", http.StatusForbidden)
				return
			}
			if !s.Lobbies.AllReady(lobbyID) {
				http.Error(w, "all participants must be ready", http.StatusConflict)
				return
			}
		}

		writeResult(w, s.Lobbies.SetStatus(lobbyID, status))
	}
}

// SetMeetingTimeHandler schedules the lobby's meeting time.
func SetMeetingTimeHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authedUser(w, r); !ok {
			return
		}

		var req struct {
			LobbyID     string `json:"lobby_id"`
			MeetingTime string `json:"meeting_time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		lobbyID, err := uuid.Parse(req.LobbyID)
		if err != nil {
			http.Error(w, "invalid lobby_id", http.StatusBadRequest)
			return
		}
		t, err := time.Parse(time.RFC3339, req.MeetingTime)
		if err != nil {
			http.Error(w, "invalid meeting_time, want RFC3339", http.StatusBadRequest)
			return
		}
		writeResult(w, s.Lobbies.SetMeetingTime(lobbyID, t))
	}
}

// InviteFriendsHandler fans invitations out to the selected friends. The
// response carries per-target outcomes so the caller can retry only the
// failed subset; "ok" is true only when every send succeeded.
func InviteFriendsHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}

		var req struct {
			LobbyID   string   `json:"lobby_id"`
			FriendIDs []string `json:"friend_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		lobbyID, err := uuid.Parse(req.LobbyID)
		if err != nil {
			http.Error(w, "invalid lobby_id", http.StatusBadRequest)
			return
		}
		friendIDs := make([]uuid.UUID, 0, len(req.FriendIDs))
		for _, raw := range req.FriendIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid friend id %q", raw), http.StatusBadRequest)
				return
			}
			friendIDs = append(friendIDs, id)
		}

		report, res := s.Lobbies.InviteFriends(r.Context(), s.Invites, lobbyID, userID, friendIDs)
		if !res.OK() {
			writeResult(w, res)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":       report.AllSent(),
			"outcomes": report.Outcomes,
		})
	}
}

// GroupSpinHandler runs the group spin for a lobby: host-only, all ready.
// The lobby moves to 'spinning' for the duration of the wheel delay, then to
// 'selected' with the winning offer recorded.
func GroupSpinHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}

		var req struct {
			LobbyID    string            `json:"lobby_id"`
			PriceRange models.PriceRange `json:"price_range"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		lobbyID, err := uuid.Parse(req.LobbyID)
		if err != nil {
			http.Error(w, "invalid lobby_id", http.StatusBadRequest)
			return
		}
		if !req.PriceRange.Valid() {
			http.Error(w, "invalid price range", http.StatusBadRequest)
			return
		}

		l, found := s.Lobbies.Get(lobbyID)
		if !found {
			writeResult(w, lobby.ResultNotFound)
			return
		}
		if l.HostUserID != userID {
			http.Error(w, "only the host may spin for the lobby", http.StatusForbidden)
			return
		}
		if !s.Lobbies.AllReady(lobbyID) {
			http.Error(w, "all participants must be ready", http.StatusConflict)
			return
		}

		s.Lobbies.SetStatus(lobbyID, models.LobbySpinning)

		result, err := s.Spins.Spin(r.Context(), userID, req.PriceRange)
		if err != nil {
			// Roll the status back so the group can try again.
			s.Lobbies.SetStatus(lobbyID, models.LobbyPending)
			switch {
			case errors.Is(err, spin.ErrNoOffersAvailable):
				http.Error(w, "no offers available for this price range", http.StatusConflict)
			case errors.Is(err, spin.ErrSpinInProgress):
				http.Error(w, "a spin is already in progress", http.StatusConflict)
			default:
				http.Error(w, fmt.Sprintf("spin failed: %v", err), http.StatusInternalServerError)
			}
			return
		}

		s.Lobbies.SetSelectedOffer(lobbyID, result.OfferResult)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
