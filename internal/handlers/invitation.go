// internal/handlers/invitation.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ListInvitationsHandler returns the caller's pending lobby invitations, both
// received and sent.
func ListInvitationsHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}
		ctx := r.Context()

		received, err := s.Invites.ListPendingInvitations(ctx, userID, false)
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to list invitations: %v", err), http.StatusInternalServerError)
			return
		}
		sent, err := s.Invites.ListPendingInvitations(ctx, userID, true)
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to list sent invitations: %v", err), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"received": received,
			"sent":     sent,
		})
	}
}

// AcceptInvitationHandler accepts a pending invitation addressed to the
// caller and, when the lobby still exists, joins the caller into it. The
// directory update is receiver-scoped, so an invitation belonging to another
// user is never consumed. The invitation stays accepted even if the lobby has
// since dissolved or filled up; the join result tells the caller which it was.
func AcceptInvitationHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}

		var req struct {
			InvitationID string `json:"invitation_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		invID, err := uuid.Parse(req.InvitationID)
		if err != nil {
			http.Error(w, "invalid invitation_id", http.StatusBadRequest)
			return
		}

		inv, err := s.Invites.AcceptLobbyInvitation(r.Context(), invID, userID)
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to accept invitation: %v", err), http.StatusNotFound)
			return
		}

		res := s.Lobbies.Join(inv.LobbyID, userID, callerName(r, userID))
		if res.OK() {
			s.Lobbies.SetCurrent(userID, inv.LobbyID)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"invitation": inv,
			"join":       res.String(),
		})
	}
}

// DeclineInvitationHandler declines a pending invitation addressed to the
// caller.
func DeclineInvitationHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}

		var req struct {
			InvitationID string `json:"invitation_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		invID, err := uuid.Parse(req.InvitationID)
		if err != nil {
			http.Error(w, "invalid invitation_id", http.StatusBadRequest)
			return
		}

		if err := s.Invites.DeclineLobbyInvitation(r.Context(), invID, userID); err != nil {
			http.Error(w, fmt.Sprintf("failed to decline invitation: %v", err), http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("invitation declined"))
	}
}
