package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/app/repository"
)

// HandleAdminPages lists all content pages.
func HandleAdminPages(c *fiber.Ctx) error {
	pages, err := repository.GetGlobalFactory().GetPageRepository().GetAll()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load pages")
	}
	return c.JSON(fiber.Map{"pages": pages})
}

// HandleAdminPageCreate creates a content page.
func HandleAdminPageCreate(c *fiber.Ctx) error {
	var page models.Page
	if err := c.BodyParser(&page); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	page.Slug = strings.TrimSpace(page.Slug)
	if err := page.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	repo := repository.GetGlobalFactory().GetPageRepository()
	if exists, err := repo.SlugExists(page.Slug); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check slug")
	} else if exists {
		return jsonError(c, fiber.StatusConflict, "slug_taken", "A page with this slug already exists")
	}

	if err := repo.Create(&page); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create page")
	}
	return c.Status(fiber.StatusCreated).JSON(page)
}

// HandleAdminPageUpdate updates a content page.
func HandleAdminPageUpdate(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	repo := repository.GetGlobalFactory().GetPageRepository()

	page, err := repo.GetByID(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Page not found")
	}
	if err := c.BodyParser(page); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	page.ID = id
	if err := page.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if exists, err := repo.SlugExistsExceptID(page.Slug, id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check slug")
	} else if exists {
		return jsonError(c, fiber.StatusConflict, "slug_taken", "A page with this slug already exists")
	}

	if err := repo.Update(page); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update page")
	}
	return c.JSON(page)
}

// HandleAdminPageDelete removes a content page.
func HandleAdminPageDelete(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	repo := repository.GetGlobalFactory().GetPageRepository()

	if _, err := repo.GetByID(id); err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Page not found")
	}
	if err := repo.Delete(id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete page")
	}
	return c.JSON(fiber.Map{"message": "page deleted"})
}
