package rediscart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zafago/storefront/internal/core/domain"
	"github.com/zafago/storefront/internal/core/port"
	"github.com/zafago/storefront/pkg/retry"
)

var _ port.CartStore = (*CartStore)(nil)

// DefaultKeyPrefix matches the storage key the web client used.
const DefaultKeyPrefix = "zafago_cart"

type cartItem struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Discount  int     `json:"discount"`
	Platform  string  `json:"platform"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// A CartStore keeps one redis key per cart, the value being the JSON
// array of line items. A missing key reads as an empty cart.
type CartStore struct {
	cl        *redis.Client
	keyPrefix string
}

func New(ctx context.Context, addr, keyPrefix string) (CartStore, error) {
	const op = "rediscart.New"
	log := slog.With("op", op)

	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}

	cl := redis.NewClient(&redis.Options{Addr: addr})
	if err := cl.Ping(ctx).Err(); err != nil {
		return CartStore{}, fmt.Errorf(
			"%s: cart storage is unavailable: %w", op, err,
		)
	}

	log.Info("cart storage is available")
	return CartStore{cl, keyPrefix}, nil
}

func (s CartStore) LoadCart(
	ctx context.Context, cartID string,
) ([]domain.CartItem, error) {
	const op = "CartStore.LoadCart"

	data, err := s.cl.Get(ctx, s.key(cartID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var vs []cartItem
	if err := json.Unmarshal(data, &vs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]domain.CartItem, len(vs))
	for i, v := range vs {
		items[i] = domain.CartItem(v)
	}
	return items, nil
}

func (s CartStore) SaveCart(
	ctx context.Context, cartID string, items []domain.CartItem,
) error {
	const op = "CartStore.SaveCart"

	vs := make([]cartItem, len(items))
	for i, item := range items {
		vs[i] = cartItem(item)
	}

	data, err := json.Marshal(vs)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	retryCfg := retry.RetryConfig{
		MaxAttempts: 3,
		Backoff:     retry.LinearBackoff(50 * time.Millisecond),
	}

	err = retry.Do(ctx, retryCfg, func() error {
		return s.cl.Set(ctx, s.key(cartID), data, 0).Err()
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s CartStore) DeleteCart(ctx context.Context, cartID string) error {
	const op = "CartStore.DeleteCart"

	if err := s.cl.Del(ctx, s.key(cartID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s CartStore) Close() {
	const op = "CartStore.Close"
	log := slog.With("op", op)

	log.Info("closing cart storage...")
	if err := s.cl.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("cart storage is closed")
}

func (s CartStore) key(cartID string) string {
	return s.keyPrefix + ":" + cartID
}
