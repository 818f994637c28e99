package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/LukasWeidner/DishPatch/app/repository"
)

// HandlePageDisplay returns an active content page by slug.
func HandlePageDisplay(c *fiber.Ctx) error {
	page, err := repository.GetGlobalFactory().GetPageRepository().GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Page not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load page")
	}
	if !page.IsActive {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Page not found")
	}

	return c.JSON(page)
}
