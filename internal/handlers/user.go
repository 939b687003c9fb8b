package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/eatup-app/eatup/internal/cache"
	"github.com/eatup-app/eatup/internal/database"
	"github.com/eatup-app/eatup/internal/models"
)

// CreateUserHandler registers a new account and signs the user in.
func CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		http.Error(w, "email, password, and name are required", http.StatusBadRequest)
		return
	}

	user := models.User{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Username: req.Username,
	}
	if err := database.CreateUser(r.Context(), &user); err != nil {
		http.Error(w, fmt.Sprintf("failed to create user: %v", err), http.StatusInternalServerError)
		return
	}

	token, err := database.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "user created but login failed", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})

	user.Password = ""
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// LoginHandler authenticates credentials and sets the session cookie.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	token, err := database.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusForbidden)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("logged in"))
}

// MeHandler returns the authenticated user's profile.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	user, err := database.GetProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// UpdatePresenceHandler records the caller's presence status in the directory
// and refreshes the presence cache. A cache failure is logged, not fatal.
func UpdatePresenceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Status models.OnlineStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	switch req.Status {
	case models.StatusOnline, models.StatusAway, models.StatusOffline:
	default:
		http.Error(w, "invalid presence status", http.StatusBadRequest)
		return
	}

	if err := database.UpdatePresence(r.Context(), userID, req.Status, time.Now()); err != nil {
		http.Error(w, fmt.Sprintf("failed to update presence: %v", err), http.StatusInternalServerError)
		return
	}
	if cache.Rdb != nil {
		if err := cache.SetPresence(r.Context(), userID, req.Status); err != nil {
			log.Warnf("failed to cache presence for %v: %v", userID, err)
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("presence updated"))
}
