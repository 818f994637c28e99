package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/app/repository"
	"github.com/LukasWeidner/DishPatch/internal/pkg/usercontext"
)

type adminUserUpdateRequest struct {
	Role   string `json:"role"`
	Status string `json:"status"`
}

// HandleAdminUsers lists accounts with pagination.
func HandleAdminUsers(c *fiber.Ctx) error {
	offset, limit := parsePagination(c, 50, 200)
	users, err := repository.GetGlobalFactory().GetUserRepository().List(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load users")
	}
	return c.JSON(fiber.Map{"users": users, "offset": offset, "limit": limit})
}

// HandleAdminUserUpdate changes a user's role or status.
func HandleAdminUserUpdate(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == usercontext.GetUserID(c) {
		return jsonError(c, fiber.StatusConflict, "self_update", "You cannot change your own role or status")
	}

	var req adminUserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
	}

	if req.Role != "" {
		if req.Role != models.ROLE_USER && req.Role != models.ROLE_ADMIN {
			return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Unknown role")
		}
		user.Role = req.Role
	}
	if req.Status != "" {
		if req.Status != models.STATUS_ACTIVE && req.Status != models.STATUS_DISABLED {
			return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Unknown status")
		}
		user.Status = req.Status
	}

	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update user")
	}
	return c.JSON(userResponse(user))
}
