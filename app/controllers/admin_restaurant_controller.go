package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/app/repository"
)

// HandleAdminRestaurants lists all restaurants, active or not.
func HandleAdminRestaurants(c *fiber.Ctx) error {
	restaurants, err := repository.GetGlobalFactory().GetRestaurantRepository().GetAll()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurants")
	}
	return c.JSON(fiber.Map{"restaurants": restaurants})
}

// HandleAdminRestaurantCreate creates a restaurant.
func HandleAdminRestaurantCreate(c *fiber.Ctx) error {
	var restaurant models.Restaurant
	if err := c.BodyParser(&restaurant); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := restaurant.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetRestaurantRepository().Create(&restaurant); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create restaurant")
	}
	return c.Status(fiber.StatusCreated).JSON(restaurant)
}

// HandleAdminRestaurantUpdate updates a restaurant.
func HandleAdminRestaurantUpdate(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	repo := repository.GetGlobalFactory().GetRestaurantRepository()

	restaurant, err := repo.GetByID(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
	}
	if err := c.BodyParser(restaurant); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	restaurant.ID = id
	if err := restaurant.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repo.Update(restaurant); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update restaurant")
	}
	return c.JSON(restaurant)
}

// HandleAdminRestaurantDelete soft-deletes a restaurant.
func HandleAdminRestaurantDelete(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	repo := repository.GetGlobalFactory().GetRestaurantRepository()

	if _, err := repo.GetByID(id); err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
	}
	if err := repo.Delete(id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete restaurant")
	}
	return c.JSON(fiber.Map{"message": "restaurant deleted"})
}
