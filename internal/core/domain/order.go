package domain

import (
	"strings"
	"time"
)

// A CouponTable maps coupon codes to whole discount percents.
// Lookup is case-insensitive.
type CouponTable map[string]int

// DefaultCoupons is the built-in table used when no table is
// configured.
var DefaultCoupons = CouponTable{"discount10": 10}

func (t CouponTable) Lookup(code string) (percent int, ok bool) {
	for k, v := range t {
		if strings.EqualFold(k, code) {
			return v, true
		}
	}
	return 0, false
}

// A CouponResult is the outcome of applying a coupon code.
// An unknown code is a normal outcome, not an error.
type CouponResult struct {
	Valid           bool
	DiscountPercent int
	DiscountAmount  float64
}

// An OrderSummary is a pure view of the current cart state.
// Recomputed on demand, never persisted on its own.
type OrderSummary struct {
	Subtotal float64
	Discount float64
	Shipping float64
	Tax      float64
	Total    float64
}

// A SalesCount is the aggregated number of units sold for a product.
type SalesCount struct {
	ProductID string
	Units     int64
}

type Order struct {
	ID         string
	CartID     string
	Items      []CartItem
	Summary    OrderSummary
	CouponCode string
	CreatedAt  time.Time
}
