package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/app/repository"
)

type orderStatusRequest struct {
	Status string `json:"status"`
}

// HandleAdminOrders lists a restaurant's orders, optionally filtered by status.
func HandleAdminOrders(c *fiber.Ctx) error {
	restaurantID := parseUintParam(c, "restaurantId")
	if restaurantID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid restaurant id")
	}
	offset, limit := parsePagination(c, 50, 200)

	orders, err := repository.GetGlobalFactory().GetOrderRepository().
		GetByRestaurant(restaurantID, c.Query("status"), offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load orders")
	}

	return c.JSON(fiber.Map{"orders": orders, "offset": offset, "limit": limit})
}

// HandleAdminOrderStatusUpdate moves an order through the kitchen pipeline.
// Only the transitions the pipeline allows are accepted; the paid status
// itself is owned by the payment webhook and cannot be set here.
func HandleAdminOrderStatusUpdate(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid order id")
	}

	var req orderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetOrderRepository()
	order, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load order")
	}

	if !models.ValidStatusTransition(order.Status, req.Status) {
		return jsonError(c, fiber.StatusConflict, "invalid_transition",
			"Cannot move order from "+order.Status+" to "+req.Status)
	}

	if err := repo.UpdateStatus(order.ID, order.Status, req.Status); err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			// Someone else moved the order first
			return jsonError(c, fiber.StatusConflict, "invalid_transition", "Order status changed concurrently")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update order")
	}

	order.Status = req.Status
	return c.JSON(order)
}
