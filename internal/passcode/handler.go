package passcode

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes passcode validation for the visitor verification page.
type Handler struct {
	issuer *Issuer
}

// NewHandler constructs a passcode handler.
func NewHandler(issuer *Issuer) *Handler {
	return &Handler{issuer: issuer}
}

type verifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

// Verify checks a presented code against the live passcodes for the number.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.PhoneNumber == "" || req.Code == "" {
		return fiber.NewError(http.StatusBadRequest, "phone_number and code are required")
	}

	valid, err := h.issuer.Verify(c.UserContext(), req.PhoneNumber, req.Code)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"valid": valid})
}
