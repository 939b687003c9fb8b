// internal/handlers/friend.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/eatup-app/eatup/internal/database"
	"github.com/eatup-app/eatup/internal/models"
)

// SendFriendRequestHandler handles a user sending a friend request.
//
// Request payload: { "friend_id": "some-uuid-string" }
// A reciprocal pending request from the target is accepted instead of
// creating a duplicate row in the opposite direction.
func SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req struct {
		FriendID string `json:"friend_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	friendID, err := uuid.Parse(req.FriendID)
	if err != nil {
		http.Error(w, "invalid friend_id", http.StatusBadRequest)
		return
	}

	if userID == friendID {
		http.Error(w, "cannot friend yourself", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	already, err := database.AreFriends(ctx, userID, friendID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to check friendship: %v", err), http.StatusInternalServerError)
		return
	}
	if already {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("already friends"))
		return
	}

	reciprocal, err := database.HasPendingRequest(ctx, friendID, userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to check pending requests: %v", err), http.StatusInternalServerError)
		return
	}
	if reciprocal {
		if err := database.AcceptFriendRequest(ctx, friendID, userID); err != nil {
			http.Error(w, fmt.Sprintf("failed to accept reciprocal request: %v", err), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("reciprocal request accepted"))
		return
	}

	if err := database.InsertFriendRequest(ctx, userID, friendID); err != nil {
		http.Error(w, fmt.Sprintf("failed to insert friend request: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte("friend request sent"))
}

// AcceptFriendRequestHandler accepts a pending request addressed to the caller.
//
// Request payload: { "friend_id": "some-uuid-string" } — the original sender.
func AcceptFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req struct {
		FriendID string `json:"friend_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	friendID, err := uuid.Parse(req.FriendID)
	if err != nil {
		http.Error(w, "invalid friend_id", http.StatusBadRequest)
		return
	}

	if err := database.AcceptFriendRequest(r.Context(), friendID, userID); err != nil {
		http.Error(w, fmt.Sprintf("failed to accept friend: %v", err), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("friend request accepted"))
}

// DeclineFriendRequestHandler declines a pending request addressed to the caller.
func DeclineFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req struct {
		FriendID string `json:"friend_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	friendID, err := uuid.Parse(req.FriendID)
	if err != nil {
		http.Error(w, "invalid friend_id", http.StatusBadRequest)
		return
	}

	if err := database.DeclineFriendRequest(r.Context(), friendID, userID); err != nil {
		http.Error(w, fmt.Sprintf("failed to decline friend request: %v", err), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("friend request declined"))
}

// ListFriendsHandler returns the caller's friends and pending requests in
// both directions.
func ListFriendsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	friends, err := database.ListFriends(ctx, userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list friends: %v", err), http.StatusInternalServerError)
		return
	}
	received, err := database.ListPendingFriendRequests(ctx, userID, false)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list friend requests: %v", err), http.StatusInternalServerError)
		return
	}
	sent, err := database.ListPendingFriendRequests(ctx, userID, true)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list sent requests: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"friends":          friends,
		"pending_received": received,
		"pending_sent":     sent,
	})
}

// RemoveFriendHandler removes a friendship in both directions.
//
// Request payload: { "friend_id": "some-uuid-string" }
func RemoveFriendHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req struct {
		FriendID string `json:"friend_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	friendID, err := uuid.Parse(req.FriendID)
	if err != nil {
		http.Error(w, "invalid friend_id", http.StatusBadRequest)
		return
	}

	if err := database.RemoveFriendship(r.Context(), userID, friendID); err != nil {
		http.Error(w, fmt.Sprintf("failed to remove friend: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("friend removed"))
}

// SearchUsersHandler finds users by name, email, or username. Queries shorter
// than 3 characters return an empty result without hitting the directory.
func SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	w.Header().Set("Content-Type", "application/json")
	if utf8.RuneCountInString(query) < 3 {
		json.NewEncoder(w).Encode([]models.User{})
		return
	}

	users, err := database.SearchUsers(r.Context(), query, userID, 10)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to search users: %v", err), http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	json.NewEncoder(w).Encode(users)
}
