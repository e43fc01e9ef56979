package httphandler

import (
	"time"

	"github.com/zafago/storefront/internal/core/domain"
	"github.com/zafago/storefront/internal/core/pricing"
)

type (
	Product struct {
		ID             string   `json:"id"`
		Title          string   `json:"title"`
		Price          float64  `json:"price"`
		Discount       int      `json:"discount"`
		EffectivePrice float64  `json:"effective_price"`
		Platform       string   `json:"platform"`
		Category       string   `json:"category"`
		Genres         []string `json:"genres"`
		Publisher      string   `json:"publisher"`
		ReleaseDate    string   `json:"release_date"`
		Rating         float64  `json:"rating"`
		Sales          int      `json:"sales"`
		Image          string   `json:"image"`
	}

	CartItem struct {
		ProductID string  `json:"product_id"`
		Title     string  `json:"title"`
		Price     float64 `json:"price"`
		Discount  int     `json:"discount"`
		Platform  string  `json:"platform"`
		Image     string  `json:"image"`
		Quantity  int     `json:"quantity"`
	}

	QuantityUpdate struct {
		Quantity int `json:"quantity"`
	}

	CouponRequest struct {
		Code string `json:"code"`
	}

	CouponResult struct {
		Valid           bool    `json:"valid"`
		DiscountPercent int     `json:"discount_percent"`
		DiscountAmount  float64 `json:"discount_amount"`
	}

	OrderSummary struct {
		Subtotal float64 `json:"subtotal"`
		Discount float64 `json:"discount"`
		Shipping float64 `json:"shipping"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
	}

	OrderRequest struct {
		CartID     string `json:"cart_id"`
		CouponCode string `json:"coupon_code,omitempty"`
	}

	Order struct {
		ID         string       `json:"id"`
		CartID     string       `json:"cart_id"`
		Items      []CartItem   `json:"items"`
		Summary    OrderSummary `json:"summary"`
		CouponCode string       `json:"coupon_code,omitempty"`
		CreatedAt  string       `json:"created_at"`
	}

	SalesCount struct {
		ProductID string `json:"product_id"`
		Units     int64  `json:"units"`
	}
)

// Monetary values round to two decimals here and only here. The core
// keeps full precision so sums never accumulate rounding drift.

func toProductView(v domain.Product) Product {
	return Product{
		ID:             v.ID,
		Title:          v.Title,
		Price:          pricing.Round2(v.Price),
		Discount:       v.Discount,
		EffectivePrice: pricing.Round2(pricing.Effective(v.Price, v.Discount)),
		Platform:       v.Platform,
		Category:       v.Category,
		Genres:         v.Genres,
		Publisher:      v.Publisher,
		ReleaseDate:    v.ReleaseDate.Format(time.RFC3339),
		Rating:         v.Rating,
		Sales:          v.Sales,
		Image:          v.Image,
	}
}

func toCartItemView(v domain.CartItem) CartItem {
	return CartItem(v)
}

func toCouponView(v domain.CouponResult) CouponResult {
	return CouponResult{
		Valid:           v.Valid,
		DiscountPercent: v.DiscountPercent,
		DiscountAmount:  pricing.Round2(v.DiscountAmount),
	}
}

func toSummaryView(v domain.OrderSummary) OrderSummary {
	return OrderSummary{
		Subtotal: pricing.Round2(v.Subtotal),
		Discount: pricing.Round2(v.Discount),
		Shipping: pricing.Round2(v.Shipping),
		Tax:      pricing.Round2(v.Tax),
		Total:    pricing.Round2(v.Total),
	}
}

func toOrderView(v domain.Order) Order {
	items := make([]CartItem, len(v.Items))
	for i, item := range v.Items {
		items[i] = toCartItemView(item)
	}
	return Order{
		ID:         v.ID,
		CartID:     v.CartID,
		Items:      items,
		Summary:    toSummaryView(v.Summary),
		CouponCode: v.CouponCode,
		CreatedAt:  v.CreatedAt.Format(time.RFC3339),
	}
}
