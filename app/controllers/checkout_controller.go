package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/app/repository"
	"github.com/LukasWeidner/DishPatch/internal/pkg/square"
	"github.com/LukasWeidner/DishPatch/internal/pkg/usercontext"
)

type checkoutItem struct {
	ItemID   uint  `json:"item_id" validate:"required"`
	Quantity int64 `json:"quantity" validate:"required,min=1,max=50"`
}

type deliveryAddress struct {
	Street string `json:"street" validate:"required,max=255"`
	City   string `json:"city" validate:"required,max=100"`
	Zip    string `json:"zip" validate:"required,max=20"`
	Notes  string `json:"notes" validate:"max=500"`
}

type checkoutRequest struct {
	RestaurantID    uint            `json:"restaurant_id" validate:"required"`
	Items           []checkoutItem  `json:"items" validate:"required,min=1,max=50,dive"`
	DeliveryAddress deliveryAddress `json:"delivery_address" validate:"required"`
}

// cartLine is the shape persisted in order metadata and decoded again by the
// webhook reconciliation. Field names are part of that contract.
type cartLine struct {
	ItemID   uint            `json:"itemId"`
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// HandleCheckout creates the provider order for a cart and records a local
// pending order. The provider order carries userId, restaurantId,
// deliveryAddress and cartItems in its metadata; payment confirmation comes
// back later through the webhook, which reads exactly those keys.
func HandleCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validator.New().Struct(&req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	repos := repository.GetGlobalRepositories()

	restaurant, err := repos.Restaurant.GetByID(req.RestaurantID)
	if err != nil || !restaurant.IsActive {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
	}
	if restaurant.SquareLocationID == "" {
		return jsonError(c, fiber.StatusConflict, "not_accepting_orders", "This restaurant is not accepting online orders")
	}

	ids := make([]uint, 0, len(req.Items))
	quantities := make(map[uint]int64, len(req.Items))
	for _, it := range req.Items {
		if _, dup := quantities[it.ItemID]; dup {
			return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Duplicate cart item")
		}
		ids = append(ids, it.ItemID)
		quantities[it.ItemID] = it.Quantity
	}

	items, err := repos.Menu.GetItemsByIDs(ids)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load menu items")
	}
	if len(items) != len(ids) {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Cart contains unknown menu items")
	}

	lines := make([]cartLine, 0, len(items))
	lineItems := make([]square.NewLineItem, 0, len(items))
	total := decimal.Zero
	currency := "USD"
	for _, item := range items {
		if item.RestaurantID != restaurant.ID {
			return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Cart contains items from another restaurant")
		}
		if !item.IsAvailable {
			return jsonError(c, fiber.StatusConflict, "item_unavailable", "Item is currently unavailable: "+item.Name)
		}
		if item.Currency != "" {
			currency = item.Currency
		}

		qty := quantities[item.ID]
		lines = append(lines, cartLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Quantity: qty,
			Price:    item.Price,
		})
		lineItems = append(lineItems, square.NewLineItem{
			Name:     item.Name,
			Quantity: strconv.FormatInt(qty, 10),
			BasePriceMoney: &square.Money{
				Amount:   item.Price.Shift(2).IntPart(),
				Currency: currency,
			},
		})
		total = total.Add(item.Price.Mul(decimal.NewFromInt(qty)))
	}

	addressJSON, err := json.Marshal(req.DeliveryAddress)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to encode delivery address")
	}
	cartJSON, err := json.Marshal(lines)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to encode cart")
	}

	newOrder := &square.NewOrder{
		LocationID: restaurant.SquareLocationID,
		LineItems:  lineItems,
		Metadata: map[string]string{
			square.MetadataKeyUserID:          strconv.FormatUint(uint64(userCtx.UserID), 10),
			square.MetadataKeyRestaurantID:    strconv.FormatUint(uint64(restaurant.ID), 10),
			square.MetadataKeyDeliveryAddress: string(addressJSON),
			square.MetadataKeyCartItems:       string(cartJSON),
		},
	}

	providerOrder, err := square.NewClientFromEnv().CreateOrder(c.UserContext(), uuid.New().String(), newOrder)
	if err != nil {
		log.Errorf("[Checkout] provider order creation failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusBadGateway, "provider_error", "Failed to create order with payment provider")
	}

	order := &models.Order{
		SquareOrderID:   providerOrder.ID,
		UserID:          userCtx.UserID,
		RestaurantID:    restaurant.ID,
		CartItems:       datatypes.JSON(cartJSON),
		DeliveryAddress: datatypes.JSON(addressJSON),
		TotalAmount:     total,
		Currency:        currency,
		PaymentProvider: models.PaymentProviderSquare,
	}
	if err := repos.Order.CreatePending(order); err != nil {
		// Provider order exists but the local row does not. The webhook
		// reconciliation creates it on payment, so checkout still succeeds.
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Errorf("[Checkout] pending order write failed for provider order %s: %v", providerOrder.ID, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id":        order.ID,
		"square_order_id": providerOrder.ID,
		"total_amount":    total,
		"currency":        currency,
		"status":          models.OrderStatusPending,
	})
}
