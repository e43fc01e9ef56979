package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zafago/storefront/internal/core/domain"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func testEngine() Engine {
	return Engine{Now: func() time.Time { return testNow }}
}

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func testCatalog() []domain.Product {
	return []domain.Product{
		{
			ID: "p1", Title: "Cyber Odyssey", Price: 59.99, Discount: 15,
			Platform: "Steam", Category: "games",
			Genres: []string{"rpg", "action"}, Publisher: "Nova",
			ReleaseDate: daysAgo(400), Rating: 4.7, Sales: 2_500_000,
		},
		{
			ID: "p2", Title: "Photo Studio Pro", Price: 89.99, Discount: 0,
			Platform: "Windows", Category: "software",
			Genres: []string{"productivity"}, Publisher: "Pixelworks",
			ReleaseDate: daysAgo(200), Rating: 4.2, Sales: 300_000,
		},
		{
			ID: "p3", Title: "Dungeon Echoes", Price: 29.99, Discount: 50,
			Platform: "Steam", Category: "games",
			Genres: []string{"roguelike"}, Publisher: "Nova",
			ReleaseDate: daysAgo(10), Rating: 4.9, Sales: 800_000,
		},
		{
			ID: "p4", Title: "Star Drift", Price: 49.99, Discount: 0,
			Platform: "Epic", Category: "games",
			Genres: []string{"action", "sim"}, Publisher: "Orbital",
			ReleaseDate: testNow.AddDate(0, 2, 0), Rating: 0, Sales: 0,
		},
		{
			ID: "p5", Title: "Gift Card 50", Price: 50, Discount: 0,
			Platform: "Any", Category: "wallet",
			Publisher:   "Zafago",
			ReleaseDate: daysAgo(1000), Rating: 4.0, Sales: 5_000_000,
		},
	}
}

func TestFilter(t *testing.T) {
	e := testEngine()

	t.Run("NoCriteriaKeepsAll", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{Sort: domain.SortNewest})
		assert.Len(t, got, 5)
	})

	t.Run("CategoryAllSkips", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{Category: "all"})
		assert.Len(t, got, 5)
	})

	t.Run("CategoryExactMatch", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{Category: "games"})
		require.Len(t, got, 3)
		for _, p := range got {
			assert.Equal(t, "games", p.Category)
		}
	})

	t.Run("SearchTitleSubstringCaseInsensitive", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{Search: "ODYSSEY"})
		require.Len(t, got, 1)
		assert.Equal(t, "p1", got[0].ID)
	})

	t.Run("PriceRangeUsesEffectivePrice", func(t *testing.T) {
		// p3 base 29.99, 50% off -> 14.995
		got := e.Apply(testCatalog(), domain.FilterCriteria{
			PriceMin: 10, PriceMax: 20,
		})
		require.Len(t, got, 1)
		assert.Equal(t, "p3", got[0].ID)
	})

	t.Run("PriceRangeInclusiveBounds", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{
			PriceMin: 14.995, PriceMax: 14.995,
		})
		require.Len(t, got, 1)
		assert.Equal(t, "p3", got[0].ID)
	})

	t.Run("PlatformSetIsORWithin", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{
			Platforms: []string{"Steam", "Epic"},
			Sort:      domain.SortPriceLow,
		})
		require.Len(t, got, 3)
	})

	t.Run("GenreSetIntersection", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{
			Genres: []string{"action"},
			Sort:   domain.SortNewest,
		})
		require.Len(t, got, 2)
		assert.Equal(t, "p4", got[0].ID)
		assert.Equal(t, "p1", got[1].ID)
	})

	t.Run("DimensionsAreANDAcross", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{
			Platforms:  []string{"Steam"},
			Genres:     []string{"action"},
			Publishers: []string{"Nova"},
		})
		require.Len(t, got, 1)
		assert.Equal(t, "p1", got[0].ID)
	})

	t.Run("UpcomingIsStrictlyFuture", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{Upcoming: true})
		require.Len(t, got, 1)
		assert.Equal(t, "p4", got[0].ID)
	})

	t.Run("EmptyResultIsNotError", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{Search: "no such title"})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Idempotent", func(t *testing.T) {
		c := domain.FilterCriteria{Category: "games", Sort: domain.SortPriceLow}
		once := e.Apply(testCatalog(), c)
		twice := e.Apply(once, c)
		assert.Equal(t, once, twice)
	})

	t.Run("InputNotMutated", func(t *testing.T) {
		ps := testCatalog()
		snapshot := make([]domain.Product, len(ps))
		copy(snapshot, ps)

		e.Apply(ps, domain.FilterCriteria{Sort: domain.SortPriceHigh})
		assert.Equal(t, snapshot, ps)
	})
}

func TestSort(t *testing.T) {
	e := testEngine()

	ids := func(ps []domain.Product) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.ID
		}
		return out
	}

	t.Run("Newest", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{Sort: domain.SortNewest})
		assert.Equal(t, []string{"p4", "p3", "p2", "p1", "p5"}, ids(got))
	})

	t.Run("PriceLow", func(t *testing.T) {
		got := e.Apply([]domain.Product{
			{ID: "a", Price: 50, Discount: 0},
			{ID: "b", Price: 30, Discount: 0},
		}, domain.FilterCriteria{Sort: domain.SortPriceLow})
		assert.Equal(t, []string{"b", "a"}, ids(got))
	})

	t.Run("PriceHighUsesEffectivePrice", func(t *testing.T) {
		got := e.Apply([]domain.Product{
			{ID: "a", Price: 50, Discount: 80}, // 10
			{ID: "b", Price: 30, Discount: 0},  // 30
		}, domain.FilterCriteria{Sort: domain.SortPriceHigh})
		assert.Equal(t, []string{"b", "a"}, ids(got))
	})

	t.Run("Bestselling", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{Sort: domain.SortBestselling})
		assert.Equal(t, "p5", got[0].ID)
		assert.Equal(t, "p1", got[1].ID)
	})

	t.Run("Discount", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{Sort: domain.SortDiscount})
		assert.Equal(t, "p3", got[0].ID)
		assert.Equal(t, "p1", got[1].ID)
	})

	t.Run("Rating", func(t *testing.T) {
		got := e.Apply(testCatalog(), domain.FilterCriteria{Sort: domain.SortRating})
		assert.Equal(t, "p3", got[0].ID)
	})

	t.Run("FeaturedComposite", func(t *testing.T) {
		// p1: 2.5 + 4.7 = 7.2
		// p3: 0.8 + 4.9 + 2 (released 10 days ago) = 7.7
		// p5: 5.0 + 4.0 = 9.0
		got := e.Apply(testCatalog(), domain.FilterCriteria{Sort: domain.SortFeatured})
		assert.Equal(t, "p5", got[0].ID)
		assert.Equal(t, "p3", got[1].ID)
		assert.Equal(t, "p1", got[2].ID)
	})

	t.Run("FutureReleaseGetsRecencyBonus", func(t *testing.T) {
		score := featuredScore(domain.Product{
			ReleaseDate: testNow.AddDate(0, 1, 0), Rating: 1,
		}, testNow)
		assert.InDelta(t, 3, score, 1e-9)
	})

	t.Run("UnknownModeFallsBackToFeatured", func(t *testing.T) {
		featured := e.Apply(testCatalog(), domain.FilterCriteria{Sort: domain.SortFeatured})
		fallback := e.Apply(testCatalog(), domain.FilterCriteria{Sort: "bogus"})
		assert.Equal(t, featured, fallback)
	})

	t.Run("StableOnTies", func(t *testing.T) {
		ps := []domain.Product{
			{ID: "first", Price: 10, Sales: 7},
			{ID: "second", Price: 10, Sales: 7},
			{ID: "third", Price: 10, Sales: 7},
		}
		for _, mode := range []string{
			domain.SortPriceLow, domain.SortPriceHigh,
			domain.SortBestselling, domain.SortDiscount,
			domain.SortRating, domain.SortFeatured,
		} {
			got := e.Apply(ps, domain.FilterCriteria{Sort: mode})
			assert.Equal(t, []string{"first", "second", "third"}, ids(got), mode)
		}
	})
}
