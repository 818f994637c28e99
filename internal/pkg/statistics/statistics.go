package statistics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/internal/pkg/cache"
	"github.com/LukasWeidner/DishPatch/internal/pkg/database"
)

const (
	CacheKeyOrdersTotal  = "statistics:orders:total"
	CacheKeyOrdersToday  = "statistics:orders:today"
	CacheKeyUsersTotal   = "statistics:users:total"
	CacheKeyRevenueToday = "statistics:revenue:today"
	CacheExpiration      = 30 * time.Minute
)

// DashboardStats holds the aggregate numbers shown on the admin dashboard
type DashboardStats struct {
	TotalOrders  int64  `json:"total_orders"`
	TodayOrders  int64  `json:"today_orders"`
	TotalUsers   int64  `json:"total_users"`
	TodayRevenue string `json:"today_revenue"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// UpdateCacheIfNeeded refreshes the cached statistics if the refresh
// interval has passed. Safe to call on every dashboard request.
func UpdateCacheIfNeeded() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	if time.Since(lastCacheUpdate) <= cacheUpdateInterval {
		return
	}
	if err := UpdateStatisticsCache(); err != nil {
		log.Errorf("[Statistics] cache refresh failed: %v", err)
		return
	}
	lastCacheUpdate = time.Now()
}

// ResetCacheUpdateTimer forces the next UpdateCacheIfNeeded call to refresh
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache recomputes all dashboard statistics and stores them
// in Redis
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalOrders int64
	if err := db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	todayStart := time.Now().Truncate(24 * time.Hour)
	todayEnd := todayStart.Add(24 * time.Hour)

	var todayOrders int64
	if err := db.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).
		Count(&todayOrders).Error; err != nil {
		return err
	}

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	// Revenue counts only reconciled (paid and later) orders
	var todayRevenue struct {
		Total string
	}
	if err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("created_at BETWEEN ? AND ? AND status NOT IN ?", todayStart, todayEnd,
			[]string{models.OrderStatusPending, models.OrderStatusCanceled}).
		Scan(&todayRevenue).Error; err != nil {
		return err
	}

	if err := cache.Set(CacheKeyOrdersTotal, strconv.FormatInt(totalOrders, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyOrdersToday, strconv.FormatInt(todayOrders, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyUsersTotal, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		return err
	}
	return cache.Set(CacheKeyRevenueToday, todayRevenue.Total, CacheExpiration)
}

// GetDashboardStats returns the cached statistics, refreshing them first if
// they are stale
func GetDashboardStats() DashboardStats {
	UpdateCacheIfNeeded()

	stats := DashboardStats{TodayRevenue: "0"}
	if v, err := cache.Get(CacheKeyOrdersTotal); err == nil {
		stats.TotalOrders, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, err := cache.Get(CacheKeyOrdersToday); err == nil {
		stats.TodayOrders, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, err := cache.Get(CacheKeyUsersTotal); err == nil {
		stats.TotalUsers, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, err := cache.Get(CacheKeyRevenueToday); err == nil && v != "" {
		stats.TodayRevenue = v
	}
	return stats
}
