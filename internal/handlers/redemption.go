// internal/handlers/redemption.go
package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/eatup-app/eatup/internal/models"
	"github.com/eatup-app/eatup/internal/qr"
)

// QRPayloadHandler emits the redemption payload the client feeds into its QR
// renderer (?offer_id=...&lobby_id=... for a group redemption). This is a
// display artifact: no validity-window or redemption-count check is made.
func QRPayloadHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}

		offerID := r.URL.Query().Get("offer_id")
		offer, found := s.Catalog.OfferByID(offerID)
		if !found {
			http.Error(w, "offer not found", http.StatusNotFound)
			return
		}

		var lobbyRef *models.Lobby
		if raw := r.URL.Query().Get("lobby_id"); raw != "" {
			lobbyID, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "invalid lobby_id", http.StatusBadRequest)
				return
			}
			l, found := s.Lobbies.Get(lobbyID)
			if !found {
				http.Error(w, "lobby not found", http.StatusNotFound)
				return
			}
			lobbyRef = &l
		}

		payload, err := qr.Encode(offer, lobbyRef, userID)
		if err != nil {
			http.Error(w, "failed to encode redemption payload", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	}
}
