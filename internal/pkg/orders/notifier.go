package orders

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2/log"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/internal/pkg/jobqueue"
	"github.com/LukasWeidner/DishPatch/internal/pkg/metrics/counter"
)

// QueueNotifier reacts to a paid order by enqueueing the confirmation email
// and bumping item popularity counters. Everything here is best-effort; the
// webhook response never depends on it.
type QueueNotifier struct{}

func NewQueueNotifier() *QueueNotifier {
	return &QueueNotifier{}
}

type cartLine struct {
	ItemID   uint  `json:"itemId"`
	Quantity int64 `json:"quantity"`
}

func (n *QueueNotifier) OrderPaid(order *models.Order) {
	payload := jobqueue.OrderConfirmationJobPayload{OrderID: order.ID}
	if _, err := jobqueue.GetManager().GetQueue().EnqueueJob(jobqueue.JobTypeOrderConfirmation, payload.ToMap()); err != nil {
		log.Errorf("[Orders] enqueue confirmation email for order %d: %v", order.ID, err)
	}

	var lines []cartLine
	if err := json.Unmarshal(order.CartItems, &lines); err != nil {
		log.Warnf("[Orders] cart items of order %d not countable: %v", order.ID, err)
		return
	}
	for _, line := range lines {
		if line.ItemID == 0 {
			continue
		}
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		if err := counter.AddItemOrders(line.ItemID, qty); err != nil {
			log.Warnf("[Orders] bump order counter for item %d: %v", line.ItemID, err)
		}
	}
}
