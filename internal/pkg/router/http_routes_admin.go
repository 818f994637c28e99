package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LukasWeidner/DishPatch/app/controllers"
	"github.com/LukasWeidner/DishPatch/internal/pkg/constants"
	"github.com/LukasWeidner/DishPatch/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group(constants.AdminRoute, middleware.RequireAdmin)
	adminGroup.Get("/", controllers.HandleAdminDashboard)

	// User management
	adminGroup.Get("/users", controllers.HandleAdminUsers)
	adminGroup.Patch("/users/:id", controllers.HandleAdminUserUpdate)

	// Restaurant management
	adminGroup.Get("/restaurants", controllers.HandleAdminRestaurants)
	adminGroup.Post("/restaurants", controllers.HandleAdminRestaurantCreate)
	adminGroup.Patch("/restaurants/:id", controllers.HandleAdminRestaurantUpdate)
	adminGroup.Delete("/restaurants/:id", controllers.HandleAdminRestaurantDelete)

	// Menu management
	adminGroup.Post("/menu/categories", controllers.HandleAdminCategoryCreate)
	adminGroup.Patch("/menu/categories/:id", controllers.HandleAdminCategoryUpdate)
	adminGroup.Delete("/menu/categories/:id", controllers.HandleAdminCategoryDelete)
	adminGroup.Post("/menu/items", controllers.HandleAdminItemCreate)
	adminGroup.Patch("/menu/items/:id", controllers.HandleAdminItemUpdate)
	adminGroup.Delete("/menu/items/:id", controllers.HandleAdminItemDelete)

	// Order pipeline
	adminGroup.Get("/restaurants/:restaurantId/orders", controllers.HandleAdminOrders)
	adminGroup.Patch("/orders/:id/status", controllers.HandleAdminOrderStatusUpdate)

	// Content management
	adminGroup.Get("/blog", controllers.HandleAdminBlogIndex)
	adminGroup.Post("/blog", controllers.HandleAdminBlogCreate)
	adminGroup.Patch("/blog/:id", controllers.HandleAdminBlogUpdate)
	adminGroup.Delete("/blog/:id", controllers.HandleAdminBlogDelete)

	adminGroup.Get("/faq", controllers.HandleAdminFaqIndex)
	adminGroup.Post("/faq", controllers.HandleAdminFaqCreate)
	adminGroup.Patch("/faq/:id", controllers.HandleAdminFaqUpdate)
	adminGroup.Delete("/faq/:id", controllers.HandleAdminFaqDelete)

	adminGroup.Get("/pages", controllers.HandleAdminPages)
	adminGroup.Post("/pages", controllers.HandleAdminPageCreate)
	adminGroup.Patch("/pages/:id", controllers.HandleAdminPageUpdate)
	adminGroup.Delete("/pages/:id", controllers.HandleAdminPageDelete)
}
