// Package catalog holds the static restaurant/offer reference data and the
// random selection used by the spin engine.
package catalog

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/eatup-app/eatup/internal/models"
)

// ErrNoOffers is returned when a price tier has no offers to pick from.
// Selection must never be attempted over an empty filtered set.
var ErrNoOffers = errors.New("no offers available for the requested price range")

// Catalog is an in-memory set of restaurants and their offers.
type Catalog struct {
	mu          sync.Mutex
	rng         *rand.Rand
	restaurants []models.Restaurant
	offers      []models.Offer
}

// New builds a catalog over the given restaurants and offers.
func New(restaurants []models.Restaurant, offers []models.Offer, seed int64) *Catalog {
	return &Catalog{
		rng:         rand.New(rand.NewSource(seed)),
		restaurants: restaurants,
		offers:      offers,
	}
}

// Restaurants returns all restaurants.
func (c *Catalog) Restaurants() []models.Restaurant {
	out := make([]models.Restaurant, len(c.restaurants))
	copy(out, c.restaurants)
	return out
}

// Offers returns all offers.
func (c *Catalog) Offers() []models.Offer {
	out := make([]models.Offer, len(c.offers))
	copy(out, c.offers)
	return out
}

// ByPriceRange returns the offers whose restaurant sits in the given tier.
func (c *Catalog) ByPriceRange(tier models.PriceRange) []models.Offer {
	var out []models.Offer
	for _, o := range c.offers {
		if o.Restaurant.PriceRange == tier {
			out = append(out, o)
		}
	}
	return out
}

// RandomOffer picks uniformly among the offers in the given tier. It returns
// ErrNoOffers when the tier is empty rather than selecting out of bounds.
func (c *Catalog) RandomOffer(tier models.PriceRange) (models.Offer, error) {
	filtered := c.ByPriceRange(tier)
	if len(filtered) == 0 {
		return models.Offer{}, ErrNoOffers
	}
	c.mu.Lock()
	idx := c.rng.Intn(len(filtered))
	c.mu.Unlock()
	return filtered[idx], nil
}

// OfferByID looks up a single offer.
func (c *Catalog) OfferByID(id string) (models.Offer, bool) {
	for _, o := range c.offers {
		if o.ID == id {
			return o, true
		}
	}
	return models.Offer{}, false
}

// RestaurantByID looks up a single restaurant.
func (c *Catalog) RestaurantByID(id string) (models.Restaurant, bool) {
	for _, r := range c.restaurants {
		if r.ID == id {
			return r, true
		}
	}
	return models.Restaurant{}, false
}
