package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Redis keys for the traffic counters surfaced by /health/json.
// Exported for use by the health service.
const (
	KeyReqTotal  = "origen:stats:req_total"
	KeyReqErrors = "origen:stats:req_errors"
	KeyResTime   = "origen:stats:res_time_total"
	KeyResCount  = "origen:stats:res_count"
	KeyStartTime = "origen:stats:start_time"
)

// RequestStats records request counters in Redis (skips health and favicon paths).
func RequestStats(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		ctx := context.Background()
		_, _ = rdb.Incr(ctx, KeyReqTotal).Result()
		_, _ = rdb.SetNX(ctx, KeyStartTime, time.Now().UnixMilli(), 0).Result()

		err := c.Next()

		ms := time.Since(start).Milliseconds()
		_, _ = rdb.Incr(ctx, KeyResCount).Result()
		_, _ = rdb.IncrByFloat(ctx, KeyResTime, float64(ms)).Result()
		if c.Response().StatusCode() >= 500 {
			_, _ = rdb.Incr(ctx, KeyReqErrors).Result()
		}
		return err
	}
}
