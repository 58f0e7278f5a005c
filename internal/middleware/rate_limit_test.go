package middleware

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func setupRateLimitApp(t *testing.T, maxPerMin int) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New()
	app.Use(CaptureRateLimit(cache, maxPerMin))
	app.Post("/captures", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, mr
}

func postStreamCapture(t *testing.T, app *fiber.App, stream string) int {
	t.Helper()
	body := fmt.Sprintf(`{"InputInformation": {"KinesisVideo": {"StreamName": %q, "FragmentNumber": "1"}}}`, stream)
	req := httptest.NewRequest(fiber.MethodPost, "/captures", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestCaptureRateLimitBoundsStream(t *testing.T) {
	app, _ := setupRateLimitApp(t, 10)

	for i := 1; i <= 10; i++ {
		if status := postStreamCapture(t, app, "KVS1"); status != fiber.StatusOK {
			t.Fatalf("capture %d: expected 200, got %d", i, status)
		}
	}

	if status := postStreamCapture(t, app, "KVS1"); status != fiber.StatusTooManyRequests {
		t.Fatalf("11th capture: expected 429, got %d", status)
	}

	// A different stream has its own counter.
	if status := postStreamCapture(t, app, "KVS2"); status != fiber.StatusOK {
		t.Fatalf("other stream: expected 200, got %d", status)
	}
}

func TestCaptureRateLimitResetsAfterWindow(t *testing.T) {
	app, mr := setupRateLimitApp(t, 1)

	if status := postStreamCapture(t, app, "KVS1"); status != fiber.StatusOK {
		t.Fatalf("first capture: expected 200, got %d", status)
	}
	if status := postStreamCapture(t, app, "KVS1"); status != fiber.StatusTooManyRequests {
		t.Fatalf("second capture: expected 429, got %d", status)
	}

	mr.FastForward(61 * time.Second)

	if status := postStreamCapture(t, app, "KVS1"); status != fiber.StatusOK {
		t.Fatalf("after window: expected 200, got %d", status)
	}
}
