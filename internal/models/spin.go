package models

import (
	"time"

	"github.com/google/uuid"
)

// Spin is an immutable record of one randomized offer selection.
type Spin struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	PriceRange  PriceRange `json:"price_range"`
	OfferResult Offer      `json:"offer_result"`
	CreatedAt   time.Time  `json:"created_at"`
}
