package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/smart-door/smart_door/internal/logging"
)

const captureBody = `{"InputInformation": {"KinesisVideo": {"StreamName": "KVS1", "FragmentNumber": "42"}}, "FaceSearchResponse": []}`

func setupDedupApp(t *testing.T, handler fiber.Handler) *fiber.App {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New()
	app.Use(CaptureDedup(cache, time.Minute, logging.Discard()))
	app.Post("/captures", handler)
	return app
}

func postCapture(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/captures", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestCaptureDedupRejectsRedelivery(t *testing.T) {
	calls := 0
	app := setupDedupApp(t, func(c *fiber.Ctx) error {
		calls++
		return c.SendStatus(fiber.StatusOK)
	})

	if status := postCapture(t, app, captureBody); status != fiber.StatusOK {
		t.Fatalf("first delivery: expected 200, got %d", status)
	}
	if status := postCapture(t, app, captureBody); status != fiber.StatusConflict {
		t.Fatalf("redelivery: expected 409, got %d", status)
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, expected 1", calls)
	}
}

func TestCaptureDedupAllowsDistinctFragments(t *testing.T) {
	app := setupDedupApp(t, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	other := strings.Replace(captureBody, `"42"`, `"43"`, 1)
	if status := postCapture(t, app, captureBody); status != fiber.StatusOK {
		t.Fatalf("first fragment: expected 200, got %d", status)
	}
	if status := postCapture(t, app, other); status != fiber.StatusOK {
		t.Fatalf("second fragment: expected 200, got %d", status)
	}
}

func TestCaptureDedupReleasesFenceOnFailure(t *testing.T) {
	fail := true
	app := setupDedupApp(t, func(c *fiber.Ctx) error {
		if fail {
			return fiber.NewError(fiber.StatusBadGateway, "collaborator down")
		}
		return c.SendStatus(fiber.StatusOK)
	})

	if status := postCapture(t, app, captureBody); status != fiber.StatusBadGateway {
		t.Fatalf("failed delivery: expected 502, got %d", status)
	}

	fail = false
	if status := postCapture(t, app, captureBody); status != fiber.StatusOK {
		t.Fatalf("retry after failure: expected 200, got %d", status)
	}
}

func TestCaptureDedupPassesThroughUndecodableBody(t *testing.T) {
	app := setupDedupApp(t, func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad envelope")
	})

	if status := postCapture(t, app, "garbage"); status != fiber.StatusBadRequest {
		t.Fatalf("expected handler's 400, got %d", status)
	}
}
