package kafka

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/lovoo/goka"
	"github.com/zafago/storefront/pkg/schema"
)

// An orderEventCodec used for serde [schema.OrderEventV1].
type orderEventCodec struct {
	serde Serde
}

func newOrderEventCodec(s Serde) orderEventCodec {
	return orderEventCodec{s}
}

func (c orderEventCodec) Encode(v any) ([]byte, error) {
	const op = "orderEventCodec.Encode"
	if _, ok := v.(schema.OrderEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c orderEventCodec) Decode(data []byte) (any, error) {
	const op = "orderEventCodec.Decode"
	var s schema.OrderEventV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// UnitsCount is the group-table value: cumulative units sold.
type UnitsCount int64

type UnitsCountCodec struct{}

func (UnitsCountCodec) Encode(v any) ([]byte, error) {
	const op = "UnitsCountCodec.Encode"
	cv, ok := v.(UnitsCount)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendInt([]byte(nil), int64(cv), 10), nil
}

func (UnitsCountCodec) Decode(data []byte) (any, error) {
	const op = "UnitsCountCodec.Decode"
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return UnitsCount(n), nil
}

// A SalesProcessor folds order events into a per-product units-sold
// group table. Order records are keyed by order ID, so each item is
// re-keyed by product ID through the loopback before accumulation.
type SalesProcessor struct {
	gp *goka.Processor
}

func NewSalesProcessor(
	seedBrokers []string, stream, group string, orderEventSerde Serde,
) (SalesProcessor, error) {
	const op = "NewSalesProcessor"
	p := SalesProcessor{}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(goka.Stream(stream), newOrderEventCodec(orderEventSerde), p.processOrder),
		goka.Loop(UnitsCountCodec{}, p.accumulate),
		goka.Persist(UnitsCountCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return SalesProcessor{}, opErr(err, op)
	}

	return SalesProcessor{gp}, nil
}

func (p SalesProcessor) Run(ctx context.Context) {
	const op = "SalesProcessor.Run"
	log := slog.With("op", op)

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p SalesProcessor) Close() {
	const op = "SalesProcessor.Close"
	log := slog.With("op", op)

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

func (SalesProcessor) processOrder(ctx goka.Context, msg any) {
	evt, ok := msg.(schema.OrderEventV1)
	if !ok {
		return
	}
	for _, item := range evt.Items {
		ctx.Loopback(item.ProductID, UnitsCount(item.Quantity))
	}
}

func (SalesProcessor) accumulate(ctx goka.Context, msg any) {
	add, ok := msg.(UnitsCount)
	if !ok {
		return
	}

	var current UnitsCount
	if v := ctx.Value(); v != nil {
		current, _ = v.(UnitsCount)
	}
	ctx.SetValue(current + add)
}
