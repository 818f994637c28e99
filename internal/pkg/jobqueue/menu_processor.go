package jobqueue

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/LukasWeidner/DishPatch/app/repository"
	"github.com/LukasWeidner/DishPatch/internal/pkg/cache"
)

const menuCacheTTL = 15 * time.Minute

// processMenuCacheRefreshJob rebuilds the cached public menu for one
// restaurant. Enqueued after admin menu edits so browsing traffic never
// rebuilds the menu inline.
func (q *Queue) processMenuCacheRefreshJob(job *Job) error {
	payload, err := MenuCacheRefreshJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	menu, err := repository.GetGlobalRepositories().Menu.GetFullMenu(payload.RestaurantID)
	if err != nil {
		return fmt.Errorf("loading menu for restaurant %d: %w", payload.RestaurantID, err)
	}

	key := cache.MenuCacheKey(payload.RestaurantID)
	if err := cache.SetJSON(key, menu, menuCacheTTL); err != nil {
		return fmt.Errorf("caching menu for restaurant %d: %w", payload.RestaurantID, err)
	}

	log.Infof("[JobQueue] Menu cache refreshed for restaurant %d (%d categories)", payload.RestaurantID, len(menu))
	return nil
}
