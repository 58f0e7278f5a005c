package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/smart-door/smart_door/internal/event"
)

const dedupPrefix = "capture:dedup:v1:"

// CaptureDedup guards the trigger boundary against at-least-once redelivery:
// the decision engine itself is not idempotent (a replayed event appends a
// duplicate history row and issues another passcode), so fragments are
// fenced here with a short-lived SetNX reservation. Redis failures fail
// open rather than dropping the capture.
func CaptureDedup(cache *redis.Client, ttl time.Duration, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}

		env, err := event.Decode(c.Body())
		if err != nil {
			// Let the handler produce the real decode error.
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		key := dedupPrefix + env.FragmentID()
		set, err := cache.SetNX(ctx, key, 1, ttl).Result()
		if err != nil {
			logger.Warn("capture dedup unavailable", slog.String("fragment", env.FragmentID()), slog.Any("error", err))
			return c.Next()
		}
		if !set {
			return fiber.NewError(http.StatusConflict, "capture event already processed")
		}

		if err := c.Next(); err != nil {
			// A failed invocation releases the fence so the trigger layer
			// may redeliver.
			cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cleanupCancel()
			cache.Del(cleanupCtx, key)
			return err
		}
		return nil
	}
}
