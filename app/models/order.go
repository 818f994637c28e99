package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// OrderStatusPending is set at checkout initiation, before the payment
	// provider has confirmed anything.
	OrderStatusPending = "pending"
	// OrderStatusPaid is set exactly once by the webhook reconciliation;
	// a paid order is never reprocessed by a later duplicate event.
	OrderStatusPaid = "paid"

	// Kitchen progression, driven by the admin back-office.
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"

	PaymentProviderSquare = "square"
)

// Order is the locally persisted order record, keyed by
// (restaurant_id, square_order_id). CartItems and DeliveryAddress hold the
// decoded JSON that round-tripped through the provider's order metadata.
type Order struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	SquareOrderID    string          `gorm:"type:varchar(64);not null;index:ux_orders_restaurant_square_order,unique,priority:2;index" json:"square_order_id"`
	RestaurantID     uint            `gorm:"not null;index:ux_orders_restaurant_square_order,unique,priority:1;index" json:"restaurant_id"`
	UserID           uint            `gorm:"index" json:"user_id"`
	CartItems        datatypes.JSON  `gorm:"type:json" json:"cart_items"`
	DeliveryAddress  datatypes.JSON  `gorm:"type:json" json:"delivery_address"`
	Status           string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	Currency         string          `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	PaymentProvider  string          `gorm:"type:varchar(20);not null;default:'square'" json:"payment_provider"`
	PaymentDetails   datatypes.JSON  `gorm:"type:json" json:"payment_details,omitempty"`
	SquareSnapshot   datatypes.JSON  `gorm:"type:json" json:"square_snapshot,omitempty"`
	WebhookEventID   string          `gorm:"type:varchar(100)" json:"webhook_event_id"`
	WebhookEventType string          `gorm:"type:varchar(100)" json:"webhook_event_type"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPaid
}

// ValidStatusTransition gates the admin-driven kitchen progression. The
// pending→paid transition is owned by the webhook path and excluded here.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case OrderStatusPaid:
		return to == OrderStatusPreparing || to == OrderStatusCanceled
	case OrderStatusPreparing:
		return to == OrderStatusReady || to == OrderStatusCanceled
	case OrderStatusReady:
		return to == OrderStatusDelivered
	default:
		return false
	}
}
