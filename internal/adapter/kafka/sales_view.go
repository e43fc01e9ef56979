package kafka

import (
	"context"
	"log/slog"
	"sort"

	"github.com/lovoo/goka"
	"github.com/zafago/storefront/internal/core/domain"
	"github.com/zafago/storefront/internal/core/port"
)

var _ port.SalesCountsViewer = (*SalesView)(nil)

// A SalesView reads the units-sold group table maintained by
// [SalesProcessor].
type SalesView struct {
	gv *goka.View
}

func NewSalesView(seedBrokers []string, group string) (SalesView, error) {
	const op = "NewSalesView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		UnitsCountCodec{},
	)
	if err != nil {
		return SalesView{}, opErr(err, op)
	}

	return SalesView{gv}, nil
}

func (v SalesView) Run(ctx context.Context) {
	const op = "SalesView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

// TopSellers returns up to n products ordered by units sold
// descending. Equal counts order by product ID to keep the result
// deterministic.
func (v SalesView) TopSellers(
	ctx context.Context, n int,
) ([]domain.SalesCount, error) {
	const op = "SalesView.TopSellers"

	if err := ctx.Err(); err != nil {
		return nil, opErr(err, op)
	}

	it, err := v.gv.Iterator()
	if err != nil {
		return nil, opErr(err, op)
	}
	defer it.Release()

	var counts []domain.SalesCount
	for it.Next() {
		val, err := it.Value()
		if err != nil {
			return nil, opErr(err, op)
		}
		units, ok := val.(UnitsCount)
		if !ok {
			return nil, opErr(ErrInvalidValueType, op)
		}
		counts = append(counts, domain.SalesCount{
			ProductID: it.Key(),
			Units:     int64(units),
		})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Units != counts[j].Units {
			return counts[i].Units > counts[j].Units
		}
		return counts[i].ProductID < counts[j].ProductID
	})

	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts, nil
}
