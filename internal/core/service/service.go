package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/zafago/storefront/internal/core/catalog"
	"github.com/zafago/storefront/internal/core/domain"
	"github.com/zafago/storefront/internal/core/port"
	"github.com/zafago/storefront/internal/core/pricing"
)

var _ port.CartService = (*Service)(nil)
var _ port.CatalogService = (*Service)(nil)
var _ port.ProductsSaver = (*Service)(nil)

// ErrEmptyCart is returned when an order is placed over an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// Service orchestrates the pricing and catalog engines over the
// injected adapters. The engines stay pure; every call works on a
// fresh snapshot, persistence and eventing stay behind ports.
type Service struct {
	pricing     pricing.Engine
	catalog     catalog.Engine
	coupons     domain.CouponTable
	cartStore   port.CartStore
	catalogSrc  port.CatalogSource
	orders      port.OrdersRepository
	orderEvents port.OrderEventsProducer
	salesView   port.SalesCountsViewer
	products    port.ProductsStorage
}

func New(
	pricingEngine pricing.Engine,
	catalogEngine catalog.Engine,
	coupons domain.CouponTable,
	cartStore port.CartStore,
	catalogSrc port.CatalogSource,
	orders port.OrdersRepository,
	orderEvents port.OrderEventsProducer,
	salesView port.SalesCountsViewer,
	products port.ProductsStorage,
) Service {
	return Service{
		pricingEngine,
		catalogEngine,
		coupons,
		cartStore,
		catalogSrc,
		orders,
		orderEvents,
		salesView,
		products,
	}
}

// SaveProducts upserts seller catalog entries.
func (s Service) SaveProducts(
	ctx context.Context, ps []domain.Product,
) error {
	const op = "Service.SaveProducts"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.products.StoreProducts(ctx, ps); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Service) ViewCart(
	ctx context.Context, cartID string,
) ([]domain.CartItem, error) {
	const op = "Service.ViewCart"

	items, err := s.cartStore.LoadCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// AddItem appends the snapshot to the cart. Adding a product already
// in the cart merges quantities into the existing line.
func (s Service) AddItem(
	ctx context.Context, cartID string, item domain.CartItem,
) error {
	const op = "Service.AddItem"

	if _, err := s.pricing.EffectiveUnitPrice(item); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.cartStore.LoadCart(ctx, cartID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	merged := false
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}

	if err := s.cartStore.SaveCart(ctx, cartID, items); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateQuantity sets a line's quantity. A quantity below one removes
// the line instead of storing a non-positive value.
func (s Service) UpdateQuantity(
	ctx context.Context, cartID, productID string, quantity int,
) error {
	const op = "Service.UpdateQuantity"

	if quantity < 1 {
		if err := s.RemoveItem(ctx, cartID, productID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	items, err := s.cartStore.LoadCart(ctx, cartID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			break
		}
	}

	if err := s.cartStore.SaveCart(ctx, cartID, items); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Service) RemoveItem(
	ctx context.Context, cartID, productID string,
) error {
	const op = "Service.RemoveItem"

	items, err := s.cartStore.LoadCart(ctx, cartID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}

	if err := s.cartStore.SaveCart(ctx, cartID, kept); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Service) ClearCart(ctx context.Context, cartID string) error {
	const op = "Service.ClearCart"

	if err := s.cartStore.DeleteCart(ctx, cartID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ApplyCoupon resolves a code against the configured table using the
// current cart subtotal. An unknown code yields Valid=false, no error.
func (s Service) ApplyCoupon(
	ctx context.Context, cartID, code string,
) (domain.CouponResult, error) {
	const op = "Service.ApplyCoupon"

	items, err := s.cartStore.LoadCart(ctx, cartID)
	if err != nil {
		return domain.CouponResult{}, fmt.Errorf("%s: %w", op, err)
	}

	subtotal, err := s.pricing.Subtotal(items)
	if err != nil {
		return domain.CouponResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.pricing.ApplyCoupon(code, subtotal, s.coupons), nil
}

func (s Service) CheckoutSummary(
	ctx context.Context, cartID, couponCode string,
) (domain.OrderSummary, error) {
	const op = "Service.CheckoutSummary"

	items, err := s.cartStore.LoadCart(ctx, cartID)
	if err != nil {
		return domain.OrderSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	summary, _, err := s.pricing.Checkout(items, couponCode, s.coupons)
	if err != nil {
		return domain.OrderSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	return summary, nil
}

// PlaceOrder turns the current cart into an order: persists it,
// publishes the order event and clears the cart.
func (s Service) PlaceOrder(
	ctx context.Context, cartID, couponCode string,
) (domain.Order, error) {
	const op = "Service.PlaceOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.cartStore.LoadCart(ctx, cartID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(items) == 0 {
		return domain.Order{}, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	summary, coupon, err := s.pricing.Checkout(items, couponCode, s.coupons)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order := domain.Order{
		ID:        newOrderID(),
		CartID:    cartID,
		Items:     items,
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}
	if coupon.Valid {
		order.CouponCode = couponCode
	}

	if err := s.orders.StoreOrder(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.orderEvents.ProduceOrder(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cartStore.DeleteCart(ctx, cartID); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	return order, nil
}

func (s Service) ListProducts(
	ctx context.Context, c domain.FilterCriteria,
) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	ps, err := s.catalogSrc.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.catalog.Apply(ps, c), nil
}

func (s Service) Trending(
	ctx context.Context, n int,
) ([]domain.SalesCount, error) {
	const op = "Service.Trending"

	counts, err := s.salesView.TopSellers(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return counts, nil
}

func newOrderID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
