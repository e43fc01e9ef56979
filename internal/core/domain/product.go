package domain

import "time"

type (
	// A Product is an immutable catalog entry.
	// Created at load time, never mutated by the core.
	Product struct {
		ID          string
		Title       string
		Price       float64
		Discount    int
		Platform    string
		Category    string
		Genres      []string
		Publisher   string
		ReleaseDate time.Time
		Rating      float64
		Sales       int
		Image       string
	}

	// A CartItem is a product snapshot taken at add-time plus a quantity.
	CartItem struct {
		ProductID string
		Title     string
		Price     float64
		Discount  int
		Platform  string
		Image     string
		Quantity  int
	}
)

// A FilterCriteria describes one catalog query.
// Zero values mean "criterion inactive".
type FilterCriteria struct {
	Category   string
	Search     string
	PriceMin   float64
	PriceMax   float64
	Platforms  []string
	Genres     []string
	Publishers []string
	Upcoming   bool
	Sort       string
}

// Sort modes accepted by FilterCriteria.Sort.
// Anything else falls back to SortFeatured.
const (
	SortFeatured    = "featured"
	SortNewest      = "newest"
	SortPriceLow    = "price-low"
	SortPriceHigh   = "price-high"
	SortBestselling = "bestselling"
	SortDiscount    = "discount"
	SortRating      = "rating"
)
