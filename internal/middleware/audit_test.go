package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func setupAuditApp(t *testing.T) (*fiber.App, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	app := fiber.New()
	app.Use(RequestID())
	app.Use(Audit(logger))
	app.Post("/captures", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/broken", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadGateway, "collaborator down")
	})
	return app, &buf
}

func auditLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	if err := json.Unmarshal(bytes.Split(buf.Bytes(), []byte("\n"))[0], &line); err != nil {
		t.Fatalf("decode audit line %q: %v", buf.String(), err)
	}
	return line
}

func TestAuditLogsInvocation(t *testing.T) {
	app, buf := setupAuditApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/captures", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	line := auditLine(t, buf)
	if line["msg"] != "capture request completed" {
		t.Fatalf("unexpected message %q", line["msg"])
	}
	if line["method"] != "POST" || line["path"] != "/captures" {
		t.Fatalf("unexpected method/path in %v", line)
	}
	if line["status"] != float64(fiber.StatusOK) {
		t.Fatalf("expected status 200, got %v", line["status"])
	}
	if reqID, _ := line["request_id"].(string); reqID == "" {
		t.Fatalf("expected a request id in %v", line)
	}
}

func TestAuditLogsFailureWithError(t *testing.T) {
	app, buf := setupAuditApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/broken", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	line := auditLine(t, buf)
	if line["level"] != "ERROR" {
		t.Fatalf("expected ERROR level, got %v", line["level"])
	}
	if line["error"] != "collaborator down" {
		t.Fatalf("expected error attribute, got %v", line["error"])
	}
}
