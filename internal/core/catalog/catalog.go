package catalog

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/zafago/storefront/internal/core/domain"
	"github.com/zafago/storefront/internal/core/pricing"
)

// Featured-sort weighting. A legacy formula reproduced exactly:
// sales/1e6 + rating + a flat bonus for recent releases.
const (
	salesWeight   = 1_000_000
	recencyBonus  = 2.0
	recencyWindow = 30 * 24 * time.Hour
)

// An Engine filters and sorts catalog snapshots.
//
// Pure: the input slice is never mutated, every call allocates a fresh
// result. The clock is injectable for the release-date rules.
type Engine struct {
	Now func() time.Time
}

func New() Engine {
	return Engine{Now: time.Now}
}

// Apply returns the products matching every active criterion, ordered
// by the requested sort mode. The predicate is conjunctive; each
// selection set is OR within itself. Sorting is stable, so ties keep
// catalog input order. An unknown sort mode degrades to featured
// instead of failing: display concern, not a safety-critical path.
func (e Engine) Apply(
	products []domain.Product, c domain.FilterCriteria,
) []domain.Product {
	now := e.now()

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if e.match(p, c, now) {
			filtered = append(filtered, p)
		}
	}

	e.sortProducts(filtered, c.Sort, now)
	return filtered
}

func (e Engine) match(
	p domain.Product, c domain.FilterCriteria, now time.Time,
) bool {
	if c.Category != "" && c.Category != "all" && p.Category != c.Category {
		return false
	}

	if c.Search != "" && !strings.Contains(
		strings.ToLower(p.Title), strings.ToLower(c.Search),
	) {
		return false
	}

	effective := pricing.Effective(p.Price, p.Discount)
	if effective < c.PriceMin {
		return false
	}
	if c.PriceMax > 0 && effective > c.PriceMax {
		return false
	}

	if len(c.Platforms) > 0 && !slices.Contains(c.Platforms, p.Platform) {
		return false
	}

	if len(c.Genres) > 0 && !intersects(c.Genres, p.Genres) {
		return false
	}

	if len(c.Publishers) > 0 && !slices.Contains(c.Publishers, p.Publisher) {
		return false
	}

	if c.Upcoming && !p.ReleaseDate.After(now) {
		return false
	}

	return true
}

func (e Engine) sortProducts(ps []domain.Product, mode string, now time.Time) {
	var less func(a, b domain.Product) bool

	switch mode {
	case domain.SortNewest:
		less = func(a, b domain.Product) bool {
			return a.ReleaseDate.After(b.ReleaseDate)
		}
	case domain.SortPriceLow:
		less = func(a, b domain.Product) bool {
			return pricing.Effective(a.Price, a.Discount) <
				pricing.Effective(b.Price, b.Discount)
		}
	case domain.SortPriceHigh:
		less = func(a, b domain.Product) bool {
			return pricing.Effective(a.Price, a.Discount) >
				pricing.Effective(b.Price, b.Discount)
		}
	case domain.SortBestselling:
		less = func(a, b domain.Product) bool {
			return a.Sales > b.Sales
		}
	case domain.SortDiscount:
		less = func(a, b domain.Product) bool {
			return a.Discount > b.Discount
		}
	case domain.SortRating:
		less = func(a, b domain.Product) bool {
			return a.Rating > b.Rating
		}
	default:
		less = func(a, b domain.Product) bool {
			return featuredScore(a, now) > featuredScore(b, now)
		}
	}

	sort.SliceStable(ps, func(i, j int) bool {
		return less(ps[i], ps[j])
	})
}

func featuredScore(p domain.Product, now time.Time) float64 {
	score := float64(p.Sales)/salesWeight + p.Rating
	if p.ReleaseDate.After(now.Add(-recencyWindow)) {
		score += recencyBonus
	}
	return score
}

func intersects(selected, have []string) bool {
	for _, s := range selected {
		if slices.Contains(have, s) {
			return true
		}
	}
	return false
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
