package doorbell

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/smart-door/smart_door/internal/event"
	"github.com/smart-door/smart_door/internal/faces"
	"github.com/smart-door/smart_door/internal/frame"
	"github.com/smart-door/smart_door/internal/visitor"
)

// Handler exposes the capture trigger endpoint.
type Handler struct {
	engine *Engine
}

// NewHandler constructs a capture handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// Capture decodes the event envelope and runs it through the decision engine.
func (h *Handler) Capture(c *fiber.Ctx) error {
	env, err := event.Decode(c.Body())
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	outcome, err := h.engine.HandleCapture(c.UserContext(), env)
	if err != nil {
		switch {
		case errors.Is(err, frame.ErrCaptureUnavailable):
			return fiber.NewError(http.StatusUnprocessableEntity, "no frame available for capture")
		case errors.Is(err, faces.ErrEnrollmentFailed):
			return fiber.NewError(http.StatusUnprocessableEntity, "image rejected by face directory")
		case errors.Is(err, visitor.ErrVersionConflict):
			return fiber.NewError(http.StatusConflict, "concurrent capture for the same visitor")
		case errors.Is(err, ErrUnknownIdentityKey):
			return fiber.NewError(http.StatusInternalServerError, "ledger inconsistent with face directory")
		default:
			return fiber.NewError(http.StatusBadGateway, err.Error())
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"branch": outcome.Branch})
}
