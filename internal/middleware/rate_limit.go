package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/smart-door/smart_door/internal/event"
)

// CaptureRateLimit bounds how often a single stream may fire the pipeline
// using a per-minute Redis counter. A stuck motion sensor would otherwise
// flood the owner and visitors with SMS.
func CaptureRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 10
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next() // no-op without Redis
		}

		stream := c.IP()
		if env, err := event.Decode(c.Body()); err == nil && env.Input.KinesisVideo.StreamName != "" {
			stream = env.Input.KinesisVideo.StreamName
		}

		key := "rl:capture:" + stream
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err == nil && cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many captures for this stream, try again later")
		}
		return c.Next()
	}
}
