package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/zafago/storefront/internal/core/domain"
	"github.com/zafago/storefront/internal/core/port"
)

var _ port.OrderEventsProducer = (*OrdersProducer)(nil)

// An OrdersProducer publishes one avro-encoded record per placed
// order, keyed by order ID.
type OrdersProducer struct {
	cl      ProducerClient
	encoder Encoder
}

func NewOrdersProducer(opts ...ProducerOpt) (OrdersProducer, error) {
	const op = "NewOrdersProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return OrdersProducer{}, opErr(err, op)
		}
	}
	return OrdersProducer{options.cl, options.encoder}, nil
}

func (p OrdersProducer) Close() {
	const op = "OrdersProducer.Close"
	log := slog.With("op", op)
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p OrdersProducer) ProduceOrder(
	ctx context.Context, o domain.Order,
) error {
	const op = "OrdersProducer.ProduceOrder"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	r, err := p.createRecord(o)
	if err != nil {
		return opErr(err, op)
	}

	res := p.cl.ProduceSync(ctx, r)
	if err := res.FirstErr(); err != nil {
		return opErr(err, op)
	}

	return nil
}

func (p OrdersProducer) createRecord(o domain.Order) (*kgo.Record, error) {
	const op = "OrdersProducer.createRecord"

	s := orderToSchemaV1(o)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return &kgo.Record{Key: []byte(s.OrderID), Value: b}, nil
}
