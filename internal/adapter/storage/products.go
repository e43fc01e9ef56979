package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zafago/storefront/internal/core/domain"
	"github.com/zafago/storefront/internal/core/port"
)

var _ port.CatalogSource = (*ProductsRepository)(nil)
var _ port.ProductsStorage = (*ProductsRepository)(nil)

type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

// ListProducts reads the whole catalog snapshot. Filtering and sorting
// happen in the core, not in SQL, so the engine stays the single place
// the display rules live.
func (r ProductsRepository) ListProducts(
	ctx context.Context,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ListProducts"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT
			id, title, price, discount, platform, category,
			genres, publisher, release_date, rating, sales, image
		FROM products
		ORDER BY created_at ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", "err", err)
		}
	}()

	var ps []domain.Product
	for rows.Next() {
		var v domain.Product
		var genresS string
		err := rows.Scan(
			&v.ID, &v.Title, &v.Price, &v.Discount, &v.Platform,
			&v.Category, &genresS, &v.Publisher, &v.ReleaseDate,
			&v.Rating, &v.Sales, &v.Image,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if trimmed := strings.Trim(genresS, "{}"); trimmed != "" {
			v.Genres = strings.Split(trimmed, ",")
		}
		ps = append(ps, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ps, nil
}

// StoreProducts upserts seller catalog entries in one transaction.
func (r ProductsRepository) StoreProducts(
	ctx context.Context, vs []domain.Product,
) (storeErr error) {
	const op = "ProductsRepository.StoreProducts"
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

	query := `
		INSERT INTO products (
			id, title, price, discount, platform, category,
			genres, publisher, release_date, rating, sales, image
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			discount = EXCLUDED.discount,
			platform = EXCLUDED.platform,
			category = EXCLUDED.category,
			genres = EXCLUDED.genres,
			publisher = EXCLUDED.publisher,
			release_date = EXCLUDED.release_date,
			rating = EXCLUDED.rating,
			sales = EXCLUDED.sales,
			image = EXCLUDED.image;
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, v := range vs {
		genresS := "{" + strings.Join(v.Genres, ",") + "}"
		_, err := stmt.ExecContext(ctx,
			v.ID, v.Title, v.Price, v.Discount, v.Platform, v.Category,
			genresS, v.Publisher, v.ReleaseDate, v.Rating, v.Sales, v.Image,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return nil
}
