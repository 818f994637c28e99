package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LukasWeidner/DishPatch/app/repository"
)

// HandleFaqIndex lists active FAQ entries in display order.
func HandleFaqIndex(c *fiber.Ctx) error {
	faqs, err := repository.GetGlobalFactory().GetFaqRepository().GetActive()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load FAQ")
	}
	return c.JSON(fiber.Map{"faqs": faqs})
}
