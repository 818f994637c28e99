package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/app/repository"
	"github.com/LukasWeidner/DishPatch/internal/pkg/jobqueue"
)

// AdminMenuController handles menu management with injected repositories
type AdminMenuController struct {
	menuRepo       repository.MenuRepository
	restaurantRepo repository.RestaurantRepository
}

var adminMenuController *AdminMenuController

// InitializeAdminMenuController sets up the controller with repositories
func InitializeAdminMenuController() {
	repos := repository.GetGlobalRepositories()
	adminMenuController = &AdminMenuController{
		menuRepo:       repos.Menu,
		restaurantRepo: repos.Restaurant,
	}
}

// refreshMenuCache schedules a background rebuild of the restaurant's cached
// menu after any mutation.
func (ctrl *AdminMenuController) refreshMenuCache(restaurantID uint) {
	payload := jobqueue.MenuCacheRefreshJobPayload{RestaurantID: restaurantID}
	if _, err := jobqueue.GetManager().GetQueue().EnqueueJob(jobqueue.JobTypeMenuCacheRefresh, payload.ToMap()); err != nil {
		log.Errorf("[AdminMenu] enqueue menu cache refresh for restaurant %d: %v", restaurantID, err)
	}
}

// HandleAdminCategoryCreate creates a menu category.
func HandleAdminCategoryCreate(c *fiber.Ctx) error {
	var category models.MenuCategory
	if err := c.BodyParser(&category); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := category.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	if _, err := adminMenuController.restaurantRepo.GetByID(category.RestaurantID); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Unknown restaurant")
	}

	if err := adminMenuController.menuRepo.CreateCategory(&category); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create category")
	}

	adminMenuController.refreshMenuCache(category.RestaurantID)
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleAdminCategoryUpdate updates a menu category.
func HandleAdminCategoryUpdate(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	category, err := adminMenuController.menuRepo.GetCategoryByID(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Category not found")
	}

	if err := c.BodyParser(category); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	category.ID = id
	if err := category.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := adminMenuController.menuRepo.UpdateCategory(category); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update category")
	}

	adminMenuController.refreshMenuCache(category.RestaurantID)
	return c.JSON(category)
}

// HandleAdminCategoryDelete removes a menu category.
func HandleAdminCategoryDelete(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	category, err := adminMenuController.menuRepo.GetCategoryByID(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Category not found")
	}

	if err := adminMenuController.menuRepo.DeleteCategory(id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete category")
	}

	adminMenuController.refreshMenuCache(category.RestaurantID)
	return c.JSON(fiber.Map{"message": "category deleted"})
}

// HandleAdminItemCreate creates a menu item.
func HandleAdminItemCreate(c *fiber.Ctx) error {
	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := item.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	category, err := adminMenuController.menuRepo.GetCategoryByID(item.CategoryID)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Unknown category")
	}
	item.RestaurantID = category.RestaurantID

	if err := adminMenuController.menuRepo.CreateItem(&item); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create item")
	}

	adminMenuController.refreshMenuCache(item.RestaurantID)
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleAdminItemUpdate updates a menu item.
func HandleAdminItemUpdate(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	item, err := adminMenuController.menuRepo.GetItemByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Item not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load item")
	}

	if err := c.BodyParser(item); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	item.ID = id
	if err := item.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := adminMenuController.menuRepo.UpdateItem(item); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update item")
	}

	adminMenuController.refreshMenuCache(item.RestaurantID)
	return c.JSON(item)
}

// HandleAdminItemDelete removes a menu item.
func HandleAdminItemDelete(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	item, err := adminMenuController.menuRepo.GetItemByID(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Item not found")
	}

	if err := adminMenuController.menuRepo.DeleteItem(id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete item")
	}

	adminMenuController.refreshMenuCache(item.RestaurantID)
	return c.JSON(fiber.Map{"message": "item deleted"})
}
