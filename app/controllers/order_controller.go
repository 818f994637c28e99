package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/LukasWeidner/DishPatch/app/repository"
	"github.com/LukasWeidner/DishPatch/internal/pkg/usercontext"
)

// HandleUserOrders lists the authenticated user's orders, newest first.
func HandleUserOrders(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := parsePagination(c, 20, 100)

	orders, err := repository.GetGlobalFactory().GetOrderRepository().GetByUserID(userCtx.UserID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load orders")
	}

	return c.JSON(fiber.Map{"orders": orders, "offset": offset, "limit": limit})
}

// HandleOrderDetail returns one order. Owners and admins only.
func HandleOrderDetail(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id := parseUintParam(c, "id")
	if id == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid order id")
	}

	order, err := repository.GetGlobalFactory().GetOrderRepository().GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load order")
	}

	if order.UserID != userCtx.UserID && !userCtx.IsAdmin {
		// Hide existence from other users
		return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
	}

	return c.JSON(order)
}
