package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zafago/storefront/internal/core/domain"
	"github.com/zafago/storefront/internal/core/port"
)

var _ port.OrdersRepository = (*OrdersRepository)(nil)

type OrdersRepository struct {
	sqldb sqldb
}

func NewOrdersRepository(sqldb sqldb) OrdersRepository {
	return OrdersRepository{sqldb}
}

// StoreOrder writes the order header and its line items in one
// transaction. The summary is stored denormalized: it is the amount
// the buyer actually saw at checkout, not something to recompute.
func (r OrdersRepository) StoreOrder(
	ctx context.Context, o domain.Order,
) (storeErr error) {
	const op = "OrdersRepository.StoreOrder"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	orderQuery := `
		INSERT INTO orders (
			id, cart_id, coupon_code,
			subtotal, discount, shipping, tax, total, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	_, err = tx.ExecContext(ctx, orderQuery,
		o.ID, o.CartID, o.CouponCode,
		o.Summary.Subtotal, o.Summary.Discount, o.Summary.Shipping,
		o.Summary.Tax, o.Summary.Total, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to insert order: %w", op, err)
	}

	itemQuery := `
		INSERT INTO order_items (
			order_id, product_id, title, price, discount, platform, quantity
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	stmt, err := tx.PrepareContext(ctx, itemQuery)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, item := range o.Items {
		_, err := stmt.ExecContext(ctx,
			o.ID, item.ProductID, item.Title, item.Price,
			item.Discount, item.Platform, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return nil
}
