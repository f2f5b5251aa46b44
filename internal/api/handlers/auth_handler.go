package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/community-resources/backend/pkg/logger"
)

// PasscodeStore looks up shared access codes.
type PasscodeStore interface {
	VerifyPasscode(ctx context.Context, code string) (label string, ok bool, err error)
}

type AuthHandler struct {
	store PasscodeStore
}

func NewAuthHandler(store PasscodeStore) *AuthHandler {
	return &AuthHandler{store: store}
}

func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	var req struct {
		Passcode string `json:"passcode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	code := strings.TrimSpace(req.Passcode)
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Passcode is required",
		})
	}

	label, ok, err := h.store.VerifyPasscode(c.Context(), code)
	if err != nil {
		logger.Error("Passcode lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Unable to verify passcode",
		})
	}

	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid passcode",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"label":   label,
	})
}
