package doorbell

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/smart-door/smart_door/internal/visitor"
)

func newTestApp(f *fixture) *fiber.App {
	app := fiber.New()
	app.Post("/captures", NewHandler(f.engine).Capture)
	return app
}

func TestCaptureEndpointKnownBranch(t *testing.T) {
	f := newFixture()
	visitor.Seed(f.visitors, visitor.Visitor{IdentityKey: "alice-123", PhoneNumber: "+15551230000"})
	app := newTestApp(f)

	body := `{
		"InputInformation": {"KinesisVideo": {"StreamName": "KVS1", "FragmentNumber": "42"}},
		"FaceSearchResponse": [{"MatchedFaces": [{"Face": {"ExternalImageId": "alice-123"}}]}]
	}`
	req := httptest.NewRequest(fiber.MethodPost, "/captures", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	payload, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	var decoded map[string]string
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decoded["branch"] != "known" {
		t.Fatalf("expected known branch, got %q", decoded["branch"])
	}
}

func TestCaptureEndpointBadEnvelope(t *testing.T) {
	app := newTestApp(newFixture())

	req := httptest.NewRequest(fiber.MethodPost, "/captures", strings.NewReader("not an envelope"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCaptureEndpointNoFrame(t *testing.T) {
	f := newFixture()
	f.frames.Frame = nil
	app := newTestApp(f)

	body := `{"InputInformation": {"KinesisVideo": {"StreamName": "KVS1", "FragmentNumber": "42"}}, "FaceSearchResponse": [{"MatchedFaces": []}]}`
	req := httptest.NewRequest(fiber.MethodPost, "/captures", strings.NewReader(body))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}
