package pricing

import (
	"fmt"
	"math"

	"github.com/zafago/storefront/internal/core/domain"
)

// Default pricing constants, overridable through config.
const (
	DefaultShippingFee = 4.99
	DefaultTaxRate     = 0.08
)

// An Engine computes deterministic order breakdowns from cart snapshots.
//
// All methods are pure: no I/O, inputs are never mutated, and repeated
// calls with identical input yield identical output. Computation keeps
// full float64 precision; rounding happens at the display boundary only.
type Engine struct {
	ShippingFee float64
	TaxRate     float64
}

func New(shippingFee, taxRate float64) Engine {
	return Engine{ShippingFee: shippingFee, TaxRate: taxRate}
}

// Effective is the raw discounted-price formula, shared with the
// catalog filter. It performs no validation.
func Effective(base float64, discountPercent int) float64 {
	return base - base*float64(discountPercent)/100
}

// EffectiveUnitPrice returns the unit price after the item's own
// discount. Malformed input is a caller bug and fails with
// [domain.InvalidInputError] instead of being clamped.
func (Engine) EffectiveUnitPrice(item domain.CartItem) (float64, error) {
	const op = "Engine.EffectiveUnitPrice"

	if err := validateItem(item); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return Effective(item.Price, item.Discount), nil
}

// LineTotal returns the effective unit price multiplied by quantity.
func (e Engine) LineTotal(item domain.CartItem) (float64, error) {
	const op = "Engine.LineTotal"

	unit, err := e.EffectiveUnitPrice(item)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return unit * float64(item.Quantity), nil
}

// Subtotal sums line totals over all items. An empty cart totals zero.
func (e Engine) Subtotal(items []domain.CartItem) (float64, error) {
	const op = "Engine.Subtotal"

	var sum float64
	for _, item := range items {
		lt, err := e.LineTotal(item)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		sum += lt
	}
	return sum, nil
}

// ApplyCoupon resolves a coupon code against the injected table.
// The lookup is case-insensitive. An unknown code is a routine outcome
// reported as Valid=false, never an error.
func (Engine) ApplyCoupon(
	code string, subtotal float64, table domain.CouponTable,
) domain.CouponResult {
	percent, ok := table.Lookup(code)
	if !ok {
		return domain.CouponResult{}
	}
	return domain.CouponResult{
		Valid:           true,
		DiscountPercent: percent,
		DiscountAmount:  subtotal * float64(percent) / 100,
	}
}

// Summarize derives the checkout breakdown. Shipping is a flat fee
// applied only to non-empty orders. Tax applies to the post-discount,
// pre-shipping amount; that ordering is a business rule.
func (e Engine) Summarize(subtotal, discountAmount float64) domain.OrderSummary {
	var shipping float64
	if subtotal > 0 {
		shipping = e.ShippingFee
	}
	tax := (subtotal - discountAmount) * e.TaxRate
	return domain.OrderSummary{
		Subtotal: subtotal,
		Discount: discountAmount,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal - discountAmount + shipping + tax,
	}
}

// Checkout computes the full breakdown for a cart snapshot and an
// optional coupon code in one pass.
func (e Engine) Checkout(
	items []domain.CartItem, couponCode string, table domain.CouponTable,
) (domain.OrderSummary, domain.CouponResult, error) {
	const op = "Engine.Checkout"

	subtotal, err := e.Subtotal(items)
	if err != nil {
		return domain.OrderSummary{}, domain.CouponResult{},
			fmt.Errorf("%s: %w", op, err)
	}

	var coupon domain.CouponResult
	if couponCode != "" {
		coupon = e.ApplyCoupon(couponCode, subtotal, table)
	}

	return e.Summarize(subtotal, coupon.DiscountAmount), coupon, nil
}

// Round2 rounds to two decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func validateItem(item domain.CartItem) error {
	switch {
	case math.IsNaN(item.Price) || math.IsInf(item.Price, 0):
		return domain.InvalidInputError{
			Field: "price", Reason: "must be finite",
		}
	case item.Price < 0:
		return domain.InvalidInputError{
			Field: "price", Reason: "must not be negative",
		}
	case item.Discount < 0 || item.Discount > 100:
		return domain.InvalidInputError{
			Field: "discount", Reason: "must be within [0, 100]",
		}
	case item.Quantity < 1:
		return domain.InvalidInputError{
			Field: "quantity", Reason: "must be a positive integer",
		}
	}
	return nil
}
