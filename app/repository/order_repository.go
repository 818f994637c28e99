package repository

import (
	"errors"
	"time"

	"github.com/LukasWeidner/DishPatch/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAlreadyPaid is returned by UpsertPaid when the row was already marked
// paid by the time the write transaction acquired its lock. The webhook
// treats this as a duplicate delivery, not a failure.
var ErrAlreadyPaid = errors.New("order already marked paid")

// ErrInvalidTransition is returned by UpdateStatus when the order is not in
// the expected source status.
var ErrInvalidTransition = errors.New("order not in expected status")

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreatePending records a local order at checkout initiation, before any
// payment confirmation.
func (r *orderRepository) CreatePending(order *models.Order) error {
	order.Status = models.OrderStatusPending
	return r.db.Create(order).Error
}

// GetByID retrieves an order by its ID
func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByUserID retrieves a user's orders with pagination, newest first
func (r *orderRepository) GetByUserID(userID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, err
}

// GetByRestaurant retrieves a restaurant's orders, optionally filtered by status
func (r *orderRepository) GetByRestaurant(restaurantID uint, status string, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.Where("restaurant_id = ?", restaurantID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, err
}

// UpdateStatus moves an order from one status to another; the WHERE on the
// source status makes concurrent admin updates lose cleanly.
func (r *orderRepository) UpdateStatus(id uint, from, to string) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// Count returns the total number of orders
func (r *orderRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of orders in a given status
func (r *orderRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// FindPaidBySquareOrderID looks for an already-paid order with the given
// provider order id across all restaurants. A pending row with the same id
// does not count; it still needs reconciliation.
func (r *orderRepository) FindPaidBySquareOrderID(squareOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("square_order_id = ? AND status = ?", squareOrderID, models.OrderStatusPaid).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpsertPaid merge-writes the reconciled order. The existence check and the
// write run in one transaction with the row locked, so two concurrent
// deliveries of the same order cannot both apply the paid write: the loser
// observes status=paid under the lock and gets ErrAlreadyPaid.
//
// Merge semantics: only the reconciliation-owned columns are assigned on an
// existing row; anything else previously written (e.g. at checkout
// initiation) is preserved. created_at and updated_at are both refreshed on
// every write.
func (r *orderRepository) UpsertPaid(order *models.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("restaurant_id = ? AND square_order_id = ?", order.RestaurantID, order.SquareOrderID).
			First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		order.Status = models.OrderStatusPaid
		order.CreatedAt = now
		order.UpdatedAt = now

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(order).Error
		}

		if existing.IsPaid() {
			return ErrAlreadyPaid
		}

		order.ID = existing.ID
		return tx.Model(&models.Order{}).Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"square_order_id":    order.SquareOrderID,
				"user_id":            order.UserID,
				"restaurant_id":      order.RestaurantID,
				"cart_items":         order.CartItems,
				"delivery_address":   order.DeliveryAddress,
				"status":             order.Status,
				"total_amount":       order.TotalAmount,
				"currency":           order.Currency,
				"payment_provider":   order.PaymentProvider,
				"payment_details":    order.PaymentDetails,
				"square_snapshot":    order.SquareSnapshot,
				"webhook_event_id":   order.WebhookEventID,
				"webhook_event_type": order.WebhookEventType,
				"created_at":         order.CreatedAt,
				"updated_at":         order.UpdatedAt,
			}).Error
	})
}
