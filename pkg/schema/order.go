package schema

const OrderEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.orders",
	"name": "order_event",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "cart_id", "type": "string"},
		{"name": "coupon_code", "type": "string"},
		{"name": "subtotal", "type": "double"},
		{"name": "discount", "type": "double"},
		{"name": "shipping", "type": "double"},
		{"name": "tax", "type": "double"},
		{"name": "total", "type": "double"},
		{"name": "created_at", "type": "long"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_event_item",
				"fields": [
					{"name": "product_id", "type": "string"},
					{"name": "title", "type": "string"},
					{"name": "price", "type": "double"},
					{"name": "discount", "type": "int"},
					{"name": "platform", "type": "string"},
					{"name": "quantity", "type": "int"}
				]
			}
		}}
	]
}`

type (
	OrderEventV1 struct {
		OrderID    string             `avro:"order_id"`
		CartID     string             `avro:"cart_id"`
		CouponCode string             `avro:"coupon_code"`
		Subtotal   float64            `avro:"subtotal"`
		Discount   float64            `avro:"discount"`
		Shipping   float64            `avro:"shipping"`
		Tax        float64            `avro:"tax"`
		Total      float64            `avro:"total"`
		CreatedAt  int64              `avro:"created_at"`
		Items      []OrderEventItemV1 `avro:"items"`
	}

	OrderEventItemV1 struct {
		ProductID string  `avro:"product_id"`
		Title     string  `avro:"title"`
		Price     float64 `avro:"price"`
		Discount  int     `avro:"discount"`
		Platform  string  `avro:"platform"`
		Quantity  int     `avro:"quantity"`
	}
)
