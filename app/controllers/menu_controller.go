package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/LukasWeidner/DishPatch/app/repository"
	"github.com/LukasWeidner/DishPatch/internal/pkg/cache"
	"github.com/LukasWeidner/DishPatch/internal/pkg/metrics/counter"
)

const menuCacheTTL = 15 * time.Minute

// HandleRestaurants lists active restaurants.
func HandleRestaurants(c *fiber.Ctx) error {
	restaurants, err := repository.GetGlobalFactory().GetRestaurantRepository().GetActive()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurants")
	}
	return c.JSON(fiber.Map{"restaurants": restaurants})
}

// HandleRestaurantMenu serves a restaurant's public menu, cache-first. The
// cache is repopulated inline on a miss and refreshed in the background
// after admin edits.
func HandleRestaurantMenu(c *fiber.Ctx) error {
	slug := c.Params("slug")
	restaurant, err := repository.GetGlobalFactory().GetRestaurantRepository().GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurant")
	}

	key := cache.MenuCacheKey(restaurant.ID)
	var menu []repository.CategoryWithItems
	if err := cache.GetJSON(key, &menu); err == nil {
		return c.JSON(fiber.Map{"restaurant": restaurant, "menu": menu})
	}

	menu, err = repository.GetGlobalFactory().GetMenuRepository().GetFullMenu(restaurant.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load menu")
	}

	if err := cache.SetJSON(key, menu, menuCacheTTL); err != nil {
		log.Warnf("[Menu] caching menu for restaurant %d: %v", restaurant.ID, err)
	}

	return c.JSON(fiber.Map{"restaurant": restaurant, "menu": menu})
}

// HandleMenuItem returns a single menu item and counts the view.
func HandleMenuItem(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid item id")
	}

	item, err := repository.GetGlobalFactory().GetMenuRepository().GetItemByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Menu item not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load menu item")
	}

	if err := counter.AddItemView(item.ID); err != nil {
		log.Warnf("[Menu] view counter for item %d: %v", item.ID, err)
	}

	return c.JSON(item)
}
