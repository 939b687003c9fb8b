package models

// PriceRange is one of the three coarse cost bands used to filter offers.
type PriceRange string

const (
	PriceBudget   PriceRange = "$"
	PriceMidrange PriceRange = "$$"
	PricePremium  PriceRange = "$$$"
)

// Valid reports whether p is one of the three known tiers.
func (p PriceRange) Valid() bool {
	return p == PriceBudget || p == PriceMidrange || p == PricePremium
}

// Restaurant is immutable reference data describing a participating venue.
type Restaurant struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	PriceRange  PriceRange `json:"price_range"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	Cuisine     string     `json:"cuisine"`
	Rating      float64    `json:"rating"`
}
