package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/LukasWeidner/DishPatch/app/repository"
)

// HandleBlogIndex lists published blog posts.
func HandleBlogIndex(c *fiber.Ctx) error {
	offset, limit := parsePagination(c, 10, 50)

	posts, err := repository.GetGlobalFactory().GetBlogRepository().GetPublished(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load posts")
	}

	return c.JSON(fiber.Map{"posts": posts, "offset": offset, "limit": limit})
}

// HandleBlogShow returns a published post by slug.
func HandleBlogShow(c *fiber.Ctx) error {
	post, err := repository.GetGlobalFactory().GetBlogRepository().GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Post not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load post")
	}
	if !post.Published {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Post not found")
	}

	return c.JSON(post)
}
