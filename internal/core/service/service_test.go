package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zafago/storefront/internal/core/catalog"
	"github.com/zafago/storefront/internal/core/domain"
	"github.com/zafago/storefront/internal/core/pricing"
)

type fakeCartStore struct {
	carts map[string][]domain.CartItem
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string][]domain.CartItem)}
}

func (f *fakeCartStore) LoadCart(
	_ context.Context, cartID string,
) ([]domain.CartItem, error) {
	items := make([]domain.CartItem, len(f.carts[cartID]))
	copy(items, f.carts[cartID])
	return items, nil
}

func (f *fakeCartStore) SaveCart(
	_ context.Context, cartID string, items []domain.CartItem,
) error {
	f.carts[cartID] = items
	return nil
}

func (f *fakeCartStore) DeleteCart(_ context.Context, cartID string) error {
	delete(f.carts, cartID)
	return nil
}

type fakeCatalogSource struct {
	products []domain.Product
}

func (f fakeCatalogSource) ListProducts(
	_ context.Context,
) ([]domain.Product, error) {
	return f.products, nil
}

type fakeOrdersRepo struct {
	stored []domain.Order
}

func (f *fakeOrdersRepo) StoreOrder(_ context.Context, o domain.Order) error {
	f.stored = append(f.stored, o)
	return nil
}

type fakeOrderEvents struct {
	produced []domain.Order
}

func (f *fakeOrderEvents) ProduceOrder(_ context.Context, o domain.Order) error {
	f.produced = append(f.produced, o)
	return nil
}

func (f *fakeOrderEvents) Close() {}

type fakeSalesView struct {
	counts []domain.SalesCount
}

func (f fakeSalesView) TopSellers(
	_ context.Context, n int,
) ([]domain.SalesCount, error) {
	if n > len(f.counts) {
		n = len(f.counts)
	}
	return f.counts[:n], nil
}

type fakeProductsStorage struct {
	stored []domain.Product
}

func (f *fakeProductsStorage) StoreProducts(
	_ context.Context, ps []domain.Product,
) error {
	f.stored = append(f.stored, ps...)
	return nil
}

type fixture struct {
	svc      Service
	carts    *fakeCartStore
	orders   *fakeOrdersRepo
	events   *fakeOrderEvents
	prodRepo *fakeProductsStorage
}

func newFixture(products ...domain.Product) fixture {
	carts := newFakeCartStore()
	orders := &fakeOrdersRepo{}
	events := &fakeOrderEvents{}
	prodRepo := &fakeProductsStorage{}

	svc := New(
		pricing.New(pricing.DefaultShippingFee, pricing.DefaultTaxRate),
		catalog.New(),
		domain.CouponTable{"discount10": 10},
		carts,
		fakeCatalogSource{products},
		orders,
		events,
		fakeSalesView{counts: []domain.SalesCount{
			{ProductID: "p1", Units: 9},
			{ProductID: "p2", Units: 4},
		}},
		prodRepo,
	)

	return fixture{svc, carts, orders, events, prodRepo}
}

func item(productID string, price float64, qty int) domain.CartItem {
	return domain.CartItem{ProductID: productID, Price: price, Quantity: qty}
}

func TestCartLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("AddAndView", func(t *testing.T) {
		f := newFixture()

		require.NoError(t, f.svc.AddItem(ctx, "c1", item("p1", 10, 2)))

		got, err := f.svc.ViewCart(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].Quantity)
	})

	t.Run("AddMergesExistingLine", func(t *testing.T) {
		f := newFixture()

		require.NoError(t, f.svc.AddItem(ctx, "c1", item("p1", 10, 1)))
		require.NoError(t, f.svc.AddItem(ctx, "c1", item("p1", 10, 3)))

		got, err := f.svc.ViewCart(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 4, got[0].Quantity)
	})

	t.Run("AddRejectsMalformedItem", func(t *testing.T) {
		f := newFixture()

		err := f.svc.AddItem(ctx, "c1", item("p1", -5, 1))
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("UpdateQuantity", func(t *testing.T) {
		f := newFixture()

		require.NoError(t, f.svc.AddItem(ctx, "c1", item("p1", 10, 1)))
		require.NoError(t, f.svc.UpdateQuantity(ctx, "c1", "p1", 5))

		got, _ := f.svc.ViewCart(ctx, "c1")
		require.Len(t, got, 1)
		assert.Equal(t, 5, got[0].Quantity)
	})

	t.Run("QuantityBelowOneRemovesLine", func(t *testing.T) {
		f := newFixture()

		require.NoError(t, f.svc.AddItem(ctx, "c1", item("p1", 10, 1)))
		require.NoError(t, f.svc.AddItem(ctx, "c1", item("p2", 20, 1)))
		require.NoError(t, f.svc.UpdateQuantity(ctx, "c1", "p1", 0))

		got, _ := f.svc.ViewCart(ctx, "c1")
		require.Len(t, got, 1)
		assert.Equal(t, "p2", got[0].ProductID)
	})

	t.Run("RemoveAndClear", func(t *testing.T) {
		f := newFixture()

		require.NoError(t, f.svc.AddItem(ctx, "c1", item("p1", 10, 1)))
		require.NoError(t, f.svc.AddItem(ctx, "c1", item("p2", 20, 1)))

		require.NoError(t, f.svc.RemoveItem(ctx, "c1", "p1"))
		got, _ := f.svc.ViewCart(ctx, "c1")
		require.Len(t, got, 1)

		require.NoError(t, f.svc.ClearCart(ctx, "c1"))
		got, _ = f.svc.ViewCart(ctx, "c1")
		assert.Empty(t, got)
	})
}

func TestApplyCoupon(t *testing.T) {
	ctx := context.Background()

	t.Run("Known", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.svc.AddItem(ctx, "c1", item("p1", 50, 2)))

		res, err := f.svc.ApplyCoupon(ctx, "c1", "DISCOUNT10")
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.InDelta(t, 10, res.DiscountAmount, 1e-9)
	})

	t.Run("Unknown", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.svc.AddItem(ctx, "c1", item("p1", 50, 2)))

		res, err := f.svc.ApplyCoupon(ctx, "c1", "NOPE")
		require.NoError(t, err)
		assert.False(t, res.Valid)
	})
}

func TestCheckoutSummary(t *testing.T) {
	ctx := context.Background()

	f := newFixture()
	require.NoError(t, f.svc.AddItem(ctx, "c1", item("p1", 50, 2)))

	got, err := f.svc.CheckoutSummary(ctx, "c1", "discount10")
	require.NoError(t, err)

	assert.InDelta(t, 100, got.Subtotal, 1e-9)
	assert.InDelta(t, 10, got.Discount, 1e-9)
	assert.InDelta(t, 4.99, got.Shipping, 1e-9)
	assert.InDelta(t, 7.20, got.Tax, 1e-9)
	assert.InDelta(t, 101.19, got.Total, 1e-9)
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("StoresProducesAndClears", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.svc.AddItem(ctx, "c1", item("p1", 50, 2)))

		order, err := f.svc.PlaceOrder(ctx, "c1", "discount10")
		require.NoError(t, err)

		assert.NotEmpty(t, order.ID)
		assert.Equal(t, "c1", order.CartID)
		assert.Equal(t, "discount10", order.CouponCode)
		assert.InDelta(t, 101.19, order.Summary.Total, 1e-9)
		assert.WithinDuration(t, time.Now().UTC(), order.CreatedAt, time.Minute)

		require.Len(t, f.orders.stored, 1)
		require.Len(t, f.events.produced, 1)
		assert.Equal(t, order.ID, f.events.produced[0].ID)

		got, _ := f.svc.ViewCart(ctx, "c1")
		assert.Empty(t, got)
	})

	t.Run("InvalidCouponNotRecorded", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.svc.AddItem(ctx, "c1", item("p1", 50, 1)))

		order, err := f.svc.PlaceOrder(ctx, "c1", "NOPE")
		require.NoError(t, err)
		assert.Empty(t, order.CouponCode)
		assert.Zero(t, order.Summary.Discount)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.PlaceOrder(ctx, "c1", "")
		require.ErrorIs(t, err, ErrEmptyCart)
		assert.Empty(t, f.orders.stored)
		assert.Empty(t, f.events.produced)
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()

	products := []domain.Product{
		{ID: "g1", Category: "games", Price: 30},
		{ID: "s1", Category: "software", Price: 80},
		{ID: "g2", Category: "games", Price: 50},
	}
	f := newFixture(products...)

	got, err := f.svc.ListProducts(ctx, domain.FilterCriteria{
		Category: "games",
		Sort:     domain.SortPriceLow,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "g1", got[0].ID)
	assert.Equal(t, "g2", got[1].ID)
}

func TestSaveProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	ps := []domain.Product{{ID: "p1"}, {ID: "p2"}}
	require.NoError(t, f.svc.SaveProducts(ctx, ps))
	assert.Equal(t, ps, f.prodRepo.stored)
}

func TestTrending(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	got, err := f.svc.Trending(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ProductID)
}
