package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/app/repository"
	"github.com/LukasWeidner/DishPatch/internal/pkg/usercontext"
)

func parseUint64Param(c *fiber.Ctx, name string) uint64 {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// HandleAdminBlogIndex lists all posts including drafts.
func HandleAdminBlogIndex(c *fiber.Ctx) error {
	offset, limit := parsePagination(c, 20, 100)
	posts, err := repository.GetGlobalFactory().GetBlogRepository().GetAll(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load posts")
	}
	return c.JSON(fiber.Map{"posts": posts, "offset": offset, "limit": limit})
}

// HandleAdminBlogCreate creates a post authored by the current admin.
func HandleAdminBlogCreate(c *fiber.Ctx) error {
	var post models.BlogPost
	if err := c.BodyParser(&post); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	post.Slug = strings.TrimSpace(post.Slug)
	post.UserID = usercontext.GetUserID(c)

	repo := repository.GetGlobalFactory().GetBlogRepository()
	if exists, err := repo.SlugExists(post.Slug); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check slug")
	} else if exists {
		return jsonError(c, fiber.StatusConflict, "slug_taken", "A post with this slug already exists")
	}

	if err := repo.Create(&post); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create post")
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleAdminBlogUpdate updates a post.
func HandleAdminBlogUpdate(c *fiber.Ctx) error {
	id := parseUint64Param(c, "id")
	repo := repository.GetGlobalFactory().GetBlogRepository()

	post, err := repo.GetByID(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Post not found")
	}
	if err := c.BodyParser(post); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	post.ID = id

	if exists, err := repo.SlugExistsExceptID(post.Slug, id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check slug")
	} else if exists {
		return jsonError(c, fiber.StatusConflict, "slug_taken", "A post with this slug already exists")
	}

	if err := repo.Update(post); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update post")
	}
	return c.JSON(post)
}

// HandleAdminBlogDelete removes a post.
func HandleAdminBlogDelete(c *fiber.Ctx) error {
	id := parseUint64Param(c, "id")
	repo := repository.GetGlobalFactory().GetBlogRepository()

	if _, err := repo.GetByID(id); err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Post not found")
	}
	if err := repo.Delete(id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete post")
	}
	return c.JSON(fiber.Map{"message": "post deleted"})
}
