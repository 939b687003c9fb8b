// internal/handlers/spin.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/eatup-app/eatup/internal/models"
	"github.com/eatup-app/eatup/internal/spin"
)

// SpinHandler runs one individual spin for the caller. A spin credit is
// debited from the directory before the wheel runs; if the spin then fails,
// the credit is refunded so the caller is not charged for nothing.
func SpinHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}

		var req struct {
			PriceRange models.PriceRange `json:"price_range"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		if !req.PriceRange.Valid() {
			http.Error(w, "invalid price range", http.StatusBadRequest)
			return
		}

		if err := s.Credits.DecrementSpinCredits(r.Context(), userID); err != nil {
			http.Error(w, fmt.Sprintf("no spin credit: %v", err), http.StatusPaymentRequired)
			return
		}

		result, err := s.Spins.Spin(r.Context(), userID, req.PriceRange)
		if err != nil {
			if refundErr := s.Credits.IncrementSpinCredits(r.Context(), userID, 1); refundErr != nil {
				log.Warnf("failed to refund spin credit for %v: %v", userID, refundErr)
			}
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

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// SpinHistoryHandler returns the caller's spin history, newest first.
func SpinHistoryHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUser(w, r)
		if !ok {
			return
		}

		history := s.Spins.HistoryFor(userID)
		if history == nil {
			history = []models.Spin{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(history)
	}
}

// ListRestaurantsHandler returns the restaurant catalog, optionally filtered
// by ?price_range=.
func ListRestaurantsHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tier := models.PriceRange(r.URL.Query().Get("price_range"))
		restaurants := s.Catalog.Restaurants()
		if tier != "" {
			if !tier.Valid() {
				http.Error(w, "invalid price range", http.StatusBadRequest)
				return
			}
			filtered := restaurants[:0]
			for _, rest := range restaurants {
				if rest.PriceRange == tier {
					filtered = append(filtered, rest)
				}
			}
			restaurants = filtered
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(restaurants)
	}
}

// ListOffersHandler returns catalog offers, optionally filtered by ?price_range=.
func ListOffersHandler(s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tier := models.PriceRange(r.URL.Query().Get("price_range"))
		var offers []models.Offer
		if tier != "" {
			if !tier.Valid() {
				http.Error(w, "invalid price range", http.StatusBadRequest)
				return
			}
			offers = s.Catalog.ByPriceRange(tier)
		} else {
			offers = s.Catalog.Offers()
		}
		if offers == nil {
			offers = []models.Offer{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(offers)
	}
}
