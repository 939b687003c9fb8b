package models

// Offer is a restaurant-linked discount with a validity window and a
// redemption ceiling. The ceiling is informational here; redemption is not a
// transactional operation in this service.
type Offer struct {
	ID                 string     `json:"id"`
	RestaurantID       string     `json:"restaurant_id"`
	Restaurant         Restaurant `json:"restaurant"`
	DiscountPercent    int        `json:"discount_percent"`
	ValidFrom          string     `json:"valid_from"`
	ValidTo            string     `json:"valid_to"`
	MaxRedemptions     int        `json:"max_redemptions"`
	CurrentRedemptions int        `json:"current_redemptions"`
}
