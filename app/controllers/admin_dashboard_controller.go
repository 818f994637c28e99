package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/app/repository"
	"github.com/LukasWeidner/DishPatch/internal/pkg/jobqueue"
	"github.com/LukasWeidner/DishPatch/internal/pkg/statistics"
)

// HandleAdminDashboard returns the aggregate numbers for the back office:
// cached platform statistics, the live order pipeline, and job queue health.
func HandleAdminDashboard(c *fiber.Ctx) error {
	stats := statistics.GetDashboardStats()

	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	pipeline := fiber.Map{}
	for _, status := range []string{
		models.OrderStatusPending,
		models.OrderStatusPaid,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusDelivered,
		models.OrderStatusCanceled,
	} {
		count, err := orderRepo.CountByStatus(status)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load order pipeline")
		}
		pipeline[status] = count
	}

	queue := jobqueue.GetManager().GetQueue()
	ctx := c.UserContext()
	pending, _ := queue.GetQueueSize(ctx)
	processing, _ := queue.GetProcessingSize(ctx)
	jobStats, _ := queue.GetJobStats(ctx)

	return c.JSON(fiber.Map{
		"statistics": stats,
		"orders":     pipeline,
		"jobs": fiber.Map{
			"pending":    pending,
			"processing": processing,
			"stats":      jobStats,
		},
	})
}
