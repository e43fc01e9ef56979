package schema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zafago/storefront/pkg/schema"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeOrderEventV1(t *testing.T) {

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeOrderEventV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeOrderEventV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("IdentifierAndSubjectOpts", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaID := 1
		subject := "testTopic-value"

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.OrderEventSchemaTextV1,
		).Return(schemaID, nil)

		_, err := schema.NewSerdeOrderEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaID := 1
		subject := "testTopic-value"

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.OrderEventSchemaTextV1,
		).Return(schemaID, nil)

		serde, err := schema.NewSerdeOrderEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)

		orderValue1 := schema.OrderEventV1{
			OrderID:    "testOrderID",
			CartID:     "testCartID",
			CouponCode: "discount10",
			Subtotal:   100,
			Discount:   10,
			Shipping:   4.99,
			Tax:        7.2,
			Total:      101.19,
			CreatedAt:  1756684800,
			Items: []schema.OrderEventItemV1{
				{
					ProductID: "testProductID",
					Title:     "testTitle",
					Price:     29.99,
					Discount:  50,
					Platform:  "Steam",
					Quantity:  1,
				},
			},
		}

		encodedData, err := serde.Encode(orderValue1)
		require.NoError(t, err)

		var orderValue2 schema.OrderEventV1
		err = serde.Decode(encodedData, &orderValue2)
		require.NoError(t, err)

		assert.Equal(t, orderValue1.OrderID, orderValue2.OrderID)
		assert.Equal(t, orderValue1.CartID, orderValue2.CartID)
		assert.Equal(t, orderValue1.CouponCode, orderValue2.CouponCode)
		assert.Equal(t, orderValue1.Subtotal, orderValue2.Subtotal)
		assert.Equal(t, orderValue1.Total, orderValue2.Total)
		assert.Equal(t, orderValue1.CreatedAt, orderValue2.CreatedAt)

		require.Len(t, orderValue2.Items, len(orderValue1.Items))
		for i, v := range orderValue2.Items {
			assert.Equal(t, orderValue1.Items[i], v)
		}
	})
}
