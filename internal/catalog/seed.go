package catalog

import (
	"fmt"
	"time"

	"github.com/eatup-app/eatup/internal/models"
)

// seedRestaurants is the launch set of participating restaurants around the
// University District. One offer is derived per restaurant; the discount
// percentages are pinned so QR payloads stay stable across restarts.
var seedRestaurants = []struct {
	r        models.Restaurant
	discount int
}{
	{models.Restaurant{
		ID:          "1",
		Name:        "Taco Bell Cantina",
		Address:     "4229 University Way NE, Seattle, WA 98105",
		PriceRange:  models.PriceBudget,
		Description: "Fast-food Mexican-inspired chain offering tacos, burritos, and a casual vibe with a college crowd.",
		Image:       "https://images.unsplash.com/photo-1600891964599-f61ba0e24092?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
		Cuisine:     "Mexican",
		Rating:      4.0,
	}, 15},
	{models.Restaurant{
		ID:          "2",
		Name:        "Shree's Indo-Chinese",
		Address:     "4201 University Way NE, Seattle, WA 98105",
		PriceRange:  models.PriceBudget,
		Description: "Popular spot serving spicy Indo-Chinese fusion food like Hakka noodles and chili paneer.",
		Image:       "https://images.unsplash.com/photo-1586190848861-99aa4a171e90?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
		Cuisine:     "Indo-Chinese",
		Rating:      4.1,
	}, 20},
	{models.Restaurant{
		ID:          "3",
		Name:        "Sizzle & Crunch",
		Address:     "1313 NE 42nd St, Seattle, WA 98105",
		PriceRange:  models.PriceBudget,
		Description: "Build-your-own Vietnamese rice bowls and banh mi with fresh, fast ingredients.",
		Image:       "https://images.unsplash.com/photo-1553621042-f6e147245754?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
		Cuisine:     "Vietnamese",
		Rating:      4.3,
	}, 10},
	{models.Restaurant{
		ID:          "4",
		Name:        "Xi'an Noodles",
		Address:     "5259 University Way NE, Seattle, WA 98105",
		PriceRange:  models.PriceMidrange,
		Description: "Famous for hand-pulled noodles and spicy Chinese-style lamb dishes in a cozy eatery.",
		Image:       "https://images.unsplash.com/photo-1601050690597-cd0400eb65c7?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
		Cuisine:     "Chinese",
		Rating:      4.6,
	}, 25},
	{models.Restaurant{
		ID:          "5",
		Name:        "Thai Tom",
		Address:     "4543 University Way NE, Seattle, WA 98105",
		PriceRange:  models.PriceMidrange,
		Description: "Legendary hole-in-the-wall serving fiery Thai classics with an open kitchen show.",
		Image:       "https://images.unsplash.com/photo-1606787366850-de6330128bfc?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
		Cuisine:     "Thai",
		Rating:      4.7,
	}, 15},
	{models.Restaurant{
		ID:          "6",
		Name:        "Samurai Noodle",
		Address:     "4138 University Way NE, Seattle, WA 98105",
		PriceRange:  models.PriceMidrange,
		Description: "Authentic Japanese ramen with rich tonkotsu broth and housemade noodles.",
		Image:       "https://images.unsplash.com/photo-1598137265283-157d9646c42b?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
		Cuisine:     "Japanese",
		Rating:      4.4,
	}, 20},
	{models.Restaurant{
		ID:          "7",
		Name:        "Mamma Melina",
		Address:     "5101 25th Ave NE, Seattle, WA 98105",
		PriceRange:  models.PricePremium,
		Description: "Upscale Italian dining with classic pasta, wood-fired pizzas, and a sleek modern setting.",
		Image:       "https://images.unsplash.com/photo-1547592166-23ac45744acd?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
		Cuisine:     "Italian",
		Rating:      4.6,
	}, 30},
	{models.Restaurant{
		ID:          "8",
		Name:        "Din Tai Fung",
		Address:     "2621 NE 46th St, Seattle, WA 98105",
		PriceRange:  models.PricePremium,
		Description: "Globally acclaimed Taiwanese restaurant famous for soup dumplings and wok dishes.",
		Image:       "https://images.unsplash.com/photo-1606788075761-5a62cd5fd7c7?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
		Cuisine:     "Taiwanese",
		Rating:      4.8,
	}, 10},
	{models.Restaurant{
		ID:          "9",
		Name:        "Ba Bar University Village",
		Address:     "2685 NE 46th St, Seattle, WA 98105",
		PriceRange:  models.PricePremium,
		Description: "Trendy Vietnamese bistro with pho, rotisserie meats, and creative cocktails.",
		Image:       "https://images.unsplash.com/photo-1617196038437-805ff0f7556f?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
		Cuisine:     "Vietnamese",
		Rating:      4.5,
	}, 25},
}

// Seed returns a catalog populated with the launch data. Offers are valid
// from today for 30 days and capped at 100 redemptions each.
func Seed(seed int64) *Catalog {
	now := time.Now()
	restaurants := make([]models.Restaurant, 0, len(seedRestaurants))
	offers := make([]models.Offer, 0, len(seedRestaurants))
	for _, s := range seedRestaurants {
		restaurants = append(restaurants, s.r)
		offers = append(offers, models.Offer{
			ID:                 fmt.Sprintf("offer-%s", s.r.ID),
			RestaurantID:       s.r.ID,
			Restaurant:         s.r,
			DiscountPercent:    s.discount,
			ValidFrom:          now.Format("2006-01-02"),
			ValidTo:            now.AddDate(0, 0, 30).Format("2006-01-02"),
			MaxRedemptions:     100,
			CurrentRedemptions: 0,
		})
	}
	return New(restaurants, offers, seed)
}
