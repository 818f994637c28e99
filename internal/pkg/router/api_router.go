package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/LukasWeidner/DishPatch/app/controllers"
	"github.com/LukasWeidner/DishPatch/internal/pkg/constants"
	"github.com/LukasWeidner/DishPatch/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, cors.New(), limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group(constants.APIv1Route)

	// Public storefront
	v1.Get("/restaurants", controllers.HandleRestaurants)
	v1.Get("/restaurants/:slug/menu", controllers.HandleRestaurantMenu)
	v1.Get("/menu/items/:id", controllers.HandleMenuItem)
	v1.Get("/blog", controllers.HandleBlogIndex)
	v1.Get("/blog/:slug", controllers.HandleBlogShow)
	v1.Get("/faq", controllers.HandleFaqIndex)
	v1.Get("/pages/:slug", controllers.HandlePageDisplay)

	// Auth
	v1.Post("/auth/register", controllers.HandleAuthRegister)
	v1.Post("/auth/login", controllers.HandleAuthLogin)
	v1.Post("/auth/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Authenticated customer operations
	v1.Get("/user/profile", middleware.RequireAuth, controllers.HandleUserProfile)
	v1.Post("/checkout", middleware.RequireAuth, controllers.HandleCheckout)
	v1.Get("/orders", middleware.RequireAuth, controllers.HandleUserOrders)
	v1.Get("/orders/:id", middleware.RequireAuth, controllers.HandleOrderDetail)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
