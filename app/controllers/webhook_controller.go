package controllers

import (
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/LukasWeidner/DishPatch/app/repository"
	"github.com/LukasWeidner/DishPatch/internal/pkg/database"
	"github.com/LukasWeidner/DishPatch/internal/pkg/orders"
	"github.com/LukasWeidner/DishPatch/internal/pkg/square"
)

// SignatureHeader is the header Square signs its deliveries with.
const SignatureHeader = "X-Square-HmacSha256-Signature"

var (
	webhookService *orders.Service
	webhookOnce    sync.Once
)

// InitializeWebhookController wires the reconciliation service from the
// environment and live dependencies. Called once from the router.
func InitializeWebhookController() {
	webhookOnce.Do(func() {
		webhookService = orders.NewService(
			orders.ConfigFromEnv(),
			square.NewClientFromEnv(),
			repository.GetGlobalFactory().GetOrderRepository(),
			orders.NewEventLog(database.GetDB()),
			orders.NewQueueNotifier(),
		)
	})
}

// SetWebhookService replaces the service instance. Tests only.
func SetWebhookService(svc *orders.Service) {
	webhookService = svc
}

// HandleSquareWebhook receives Square payment webhook deliveries. The route
// is registered for all methods so non-POST requests get an explicit 405
// instead of a router-level 404.
func HandleSquareWebhook(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return jsonError(c, fiber.StatusMethodNotAllowed, "method_not_allowed", "Only POST is accepted")
	}

	if webhookService == nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Webhook processing unavailable")
	}

	// Body() is the raw bytes; the signature covers them verbatim, so no
	// parsing may happen before verification.
	outcome := webhookService.ProcessWebhook(c.UserContext(), c.Body(), c.Get(SignatureHeader))

	if outcome.Code >= 400 {
		return jsonError(c, outcome.Code, statusCodeLabel(outcome.Code), outcome.Message)
	}
	return c.Status(outcome.Code).JSON(fiber.Map{"message": outcome.Message})
}

func statusCodeLabel(code int) string {
	switch code {
	case fiber.StatusBadRequest:
		return "bad_request"
	case fiber.StatusForbidden:
		return "forbidden"
	case fiber.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "internal_server_error"
	}
}
