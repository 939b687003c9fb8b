// Package qr serializes redemption payloads for the external QR renderer.
// The payload is a display/handoff artifact, not an authoritative redemption
// transaction: no validity-window or redemption-ceiling checks happen here.
package qr

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/eatup-app/eatup/internal/models"
)

// Payload is the flat envelope encoded into the QR code.
type Payload struct {
	Type            string `json:"type"` // "individual" or "group"
	OfferID         string `json:"offerId"`
	RestaurantID    string `json:"restaurantId"`
	DiscountPercent int    `json:"discountPercent"`
	UserID          string `json:"userId"`
	Timestamp       string `json:"timestamp"`

	// Group-only fields.
	LobbyID          string   `json:"lobbyId,omitempty"`
	ParticipantIDs   []string `json:"participantIds,omitempty"`
	ParticipantCount int      `json:"participantCount,omitempty"`
}

// Encode builds the payload for an offer redemption. A non-nil lobby makes it
// a group redemption carrying the participant set at encode time.
func Encode(offer models.Offer, lobby *models.Lobby, userID uuid.UUID) ([]byte, error) {
	p := Payload{
		Type:            "individual",
		OfferID:         offer.ID,
		RestaurantID:    offer.RestaurantID,
		DiscountPercent: offer.DiscountPercent,
		UserID:          userID.String(),
		Timestamp:       time.Now().Format(time.RFC3339),
	}
	if lobby != nil {
		p.Type = "group"
		p.LobbyID = lobby.ID.String()
		p.ParticipantCount = len(lobby.Participants)
		p.ParticipantIDs = make([]string, 0, len(lobby.Participants))
		for _, m := range lobby.Participants {
			p.ParticipantIDs = append(p.ParticipantIDs, m.UserID.String())
		}
	}
	return json.Marshal(p)
}

// Decode parses a payload previously produced by Encode.
func Decode(data []byte) (Payload, error) {
	var p Payload
	err := json.Unmarshal(data, &p)
	return p, err
}
