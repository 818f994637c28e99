package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/app/repository"
)

// HandleAdminFaqIndex lists all FAQ entries including inactive ones.
func HandleAdminFaqIndex(c *fiber.Ctx) error {
	faqs, err := repository.GetGlobalFactory().GetFaqRepository().GetAll()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load FAQ")
	}
	return c.JSON(fiber.Map{"faqs": faqs})
}

// HandleAdminFaqCreate creates a FAQ entry.
func HandleAdminFaqCreate(c *fiber.Ctx) error {
	var faq models.Faq
	if err := c.BodyParser(&faq); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := faq.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetFaqRepository().Create(&faq); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create FAQ entry")
	}
	return c.Status(fiber.StatusCreated).JSON(faq)
}

// HandleAdminFaqUpdate updates a FAQ entry.
func HandleAdminFaqUpdate(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	repo := repository.GetGlobalFactory().GetFaqRepository()

	faq, err := repo.GetByID(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "FAQ entry not found")
	}
	if err := c.BodyParser(faq); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	faq.ID = id
	if err := faq.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := repo.Update(faq); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update FAQ entry")
	}
	return c.JSON(faq)
}

// HandleAdminFaqDelete removes a FAQ entry.
func HandleAdminFaqDelete(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	repo := repository.GetGlobalFactory().GetFaqRepository()

	if _, err := repo.GetByID(id); err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "FAQ entry not found")
	}
	if err := repo.Delete(id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete FAQ entry")
	}
	return c.JSON(fiber.Map{"message": "faq entry deleted"})
}
