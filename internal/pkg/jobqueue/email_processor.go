package jobqueue

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/LukasWeidner/DishPatch/app/repository"
	"github.com/LukasWeidner/DishPatch/internal/pkg/mail"
)

// processOrderConfirmationJob sends the confirmation email for a paid order.
// The order id is all the payload carries; everything else is loaded fresh so
// a retried job never works from stale data.
func (q *Queue) processOrderConfirmationJob(job *Job) error {
	payload, err := OrderConfirmationJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	repos := repository.GetGlobalRepositories()

	order, err := repos.Order.GetByID(payload.OrderID)
	if err != nil {
		return fmt.Errorf("order %d not found: %w", payload.OrderID, err)
	}

	user, err := repos.User.GetByID(order.UserID)
	if err != nil {
		return fmt.Errorf("user %d not found: %w", order.UserID, err)
	}

	restaurant, err := repos.Restaurant.GetByID(order.RestaurantID)
	if err != nil {
		return fmt.Errorf("restaurant %d not found: %w", order.RestaurantID, err)
	}

	subject, body := mail.BuildOrderConfirmation(order, restaurant, user.Name)
	if err := mail.SendMail(user.Email, subject, body); err != nil {
		return fmt.Errorf("sending confirmation for order %d: %w", order.ID, err)
	}

	log.Infof("[JobQueue] Confirmation email sent for order %d to user %d", order.ID, order.UserID)
	return nil
}
