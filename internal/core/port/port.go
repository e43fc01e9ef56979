package port

import (
	"context"

	"github.com/zafago/storefront/internal/core/domain"
)

// CartStore owns the persisted cart line items.
// A missing cart reads as an empty one.
type CartStore interface {
	LoadCart(ctx context.Context, cartID string) ([]domain.CartItem, error)
	SaveCart(ctx context.Context, cartID string, items []domain.CartItem) error
	DeleteCart(ctx context.Context, cartID string) error
}

// CatalogSource supplies product snapshots for filtering.
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type ProductsSaver interface {
	SaveProducts(ctx context.Context, ps []domain.Product) error
}

type ProductsStorage interface {
	StoreProducts(ctx context.Context, ps []domain.Product) error
}

type OrdersRepository interface {
	StoreOrder(ctx context.Context, o domain.Order) error
}

type OrderEventsProducer interface {
	ProduceOrder(ctx context.Context, o domain.Order) error
	Close()
}

// SalesCountsViewer reads the aggregated units-sold table.
type SalesCountsViewer interface {
	TopSellers(ctx context.Context, n int) ([]domain.SalesCount, error)
}

type CartService interface {
	ViewCart(ctx context.Context, cartID string) ([]domain.CartItem, error)
	AddItem(ctx context.Context, cartID string, item domain.CartItem) error
	UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID string) error
	ClearCart(ctx context.Context, cartID string) error
	ApplyCoupon(ctx context.Context, cartID, code string) (domain.CouponResult, error)
	CheckoutSummary(ctx context.Context, cartID, couponCode string) (domain.OrderSummary, error)
	PlaceOrder(ctx context.Context, cartID, couponCode string) (domain.Order, error)
}

type CatalogService interface {
	ListProducts(ctx context.Context, c domain.FilterCriteria) ([]domain.Product, error)
	Trending(ctx context.Context, n int) ([]domain.SalesCount, error)
}
