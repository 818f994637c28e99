package square

// Webhook event types this application reacts to. Anything else is
// acknowledged and ignored so Square stops redelivering.
const (
	EventTypePaymentUpdated = "payment.updated"
	EventTypeOrderUpdated   = "order.updated"
)

const (
	PaymentStatusCompleted = "COMPLETED"
	OrderStateCompleted    = "COMPLETED"
)

// Metadata keys attached to a Square order at checkout initiation. The
// values are opaque strings; deliveryAddress and cartItems carry embedded
// JSON that must round-trip through the webhook.
const (
	MetadataKeyUserID          = "userId"
	MetadataKeyRestaurantID    = "restaurantId"
	MetadataKeyDeliveryAddress = "deliveryAddress"
	MetadataKeyCartItems       = "cartItems"
)

// WebhookEvent is the envelope Square posts to the notification URL.
type WebhookEvent struct {
	MerchantID string           `json:"merchant_id"`
	Type       string           `json:"type"`
	EventID    string           `json:"event_id"`
	CreatedAt  string           `json:"created_at"`
	Data       WebhookEventData `json:"data"`
}

type WebhookEventData struct {
	Type   string             `json:"type"`
	ID     string             `json:"id"`
	Object WebhookEventObject `json:"object"`
}

type WebhookEventObject struct {
	Payment *Payment `json:"payment,omitempty"`
	Order   *Order   `json:"order,omitempty"`
}

// Money is an amount in minor currency units (cents for USD).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

type Card struct {
	CardBrand string `json:"card_brand,omitempty"`
	Last4     string `json:"last_4,omitempty"`
}

type CardDetails struct {
	Status string `json:"status,omitempty"`
	Card   Card   `json:"card"`
}

// Payment is the provider-owned payment object as delivered in
// payment.updated events. Only the fields this application reads.
type Payment struct {
	ID          string       `json:"id"`
	OrderID     string       `json:"order_id"`
	Status      string       `json:"status"`
	SourceType  string       `json:"source_type,omitempty"`
	CardDetails *CardDetails `json:"card_details,omitempty"`
	AmountMoney *Money       `json:"amount_money,omitempty"`
}

type Tender struct {
	ID          string `json:"id,omitempty"`
	Type        string `json:"type,omitempty"`
	AmountMoney *Money `json:"amount_money,omitempty"`
}

type OrderSource struct {
	Name string `json:"name,omitempty"`
}

// Order is the provider-owned order, either embedded in order.updated
// events or fetched authoritatively via RetrieveOrder.
type Order struct {
	ID                 string            `json:"id"`
	LocationID         string            `json:"location_id,omitempty"`
	State              string            `json:"state,omitempty"`
	Version            int64             `json:"version,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	TotalMoney         *Money            `json:"total_money,omitempty"`
	NetAmountDueMoney  *Money            `json:"net_amount_due_money,omitempty"`
	TotalTaxMoney      *Money            `json:"total_tax_money,omitempty"`
	TotalDiscountMoney *Money            `json:"total_discount_money,omitempty"`
	Tenders            []Tender          `json:"tenders,omitempty"`
	Source             *OrderSource      `json:"source,omitempty"`
}

// HasPositiveTender reports whether at least one tender on the order
// carries a positive amount. An order.updated in state COMPLETED without
// money moved is not treated as paid.
func (o *Order) HasPositiveTender() bool {
	for _, t := range o.Tenders {
		if t.AmountMoney != nil && t.AmountMoney.Amount > 0 {
			return true
		}
	}
	return false
}
