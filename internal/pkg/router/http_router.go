package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LukasWeidner/DishPatch/app/controllers"
	"github.com/LukasWeidner/DishPatch/internal/pkg/constants"
	"github.com/LukasWeidner/DishPatch/internal/pkg/middleware"
	"github.com/LukasWeidner/DishPatch/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Initialize controllers that carry injected dependencies
	controllers.InitializeWebhookController()
	controllers.InitializeAdminMenuController()

	// Provider webhooks live outside the API group: no session, no rate
	// limiter, signature-verified in the handler. Registered for all methods
	// so non-POST gets an explicit 405.
	app.All(constants.SquareWebhookRoute, controllers.HandleSquareWebhook)

	h.registerAdminRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
