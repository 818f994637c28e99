package counter

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/LukasWeidner/DishPatch/internal/pkg/cache"
	"github.com/LukasWeidner/DishPatch/internal/pkg/database"
)

const (
	itemOrdersKey = "menu_item:counters:orders"
	menuViewsKey  = "menu_item:counters:views"
)

// AddItemOrders increments the pending order counter for a menu item in Redis.
// quantity is the number of units sold, not the number of orders.
func AddItemOrders(itemID uint, quantity int64) error {
	if quantity <= 0 {
		return nil
	}
	ctx := context.Background()
	field := strconv.FormatUint(uint64(itemID), 10)
	return cache.GetClient().HIncrBy(ctx, itemOrdersKey, field, quantity).Err()
}

// AddItemView increments the pending view counter for a menu item in Redis
func AddItemView(itemID uint) error {
	ctx := context.Background()
	field := strconv.FormatUint(uint64(itemID), 10)
	return cache.GetClient().HIncrBy(ctx, menuViewsKey, field, 1).Err()
}

// FlushAll flushes pending counters to the database
func FlushAll() error {
	if err := flushHashToTable(itemOrdersKey, "menu_items", "order_count"); err != nil {
		return err
	}
	return flushHashToTable(menuViewsKey, "menu_items", "view_count")
}

// flushHashToTable drains a Redis hash atomically and applies batched increments
// to the target table. Uses RENAME to a temporary key so in-flight increments
// land in a fresh hash instead of being lost mid-drain.
func flushHashToTable(redisKey, table, column string) error {
	ctx := context.Background()
	rdb := cache.GetClient()

	tmpKey := fmt.Sprintf("%s:tmp:%d", redisKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", redisKey, tmpKey).Err(); err != nil {
		// Missing key means nothing to flush
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return nil
		}
		if err.Error() == "redis: nil" {
			return nil
		}
		return err
	}

	defer rdb.Del(ctx, tmpKey)

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	type pair struct {
		id  uint64
		inc int64
	}
	pairs := make([]pair, 0, len(data))
	for k, v := range data {
		id, perr := strconv.ParseUint(k, 10, 64)
		if perr != nil {
			continue
		}
		inc, ierr := strconv.ParseInt(v, 10, 64)
		if ierr != nil || inc == 0 {
			continue
		}
		pairs = append(pairs, pair{id: id, inc: inc})
	}
	if len(pairs) == 0 {
		return nil
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].id < pairs[j].id })

	// UPDATE <table> SET <column> = <column> + CASE id WHEN ? THEN ? ... END WHERE id IN (...)
	var builder strings.Builder
	args := make([]interface{}, 0, len(pairs)*3)
	builder.WriteString("UPDATE ")
	builder.WriteString(table)
	builder.WriteString(" SET ")
	builder.WriteString(column)
	builder.WriteString(" = ")
	builder.WriteString(column)
	builder.WriteString(" + CASE id ")
	for _, p := range pairs {
		builder.WriteString(" WHEN ? THEN ?")
		args = append(args, p.id, p.inc)
	}
	builder.WriteString(" END WHERE id IN (")
	for i, p := range pairs {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString("?")
		args = append(args, p.id)
	}
	builder.WriteString(")")

	return database.GetDB().Exec(builder.String(), args...).Error
}
