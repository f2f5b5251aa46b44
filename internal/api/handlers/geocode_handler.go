package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/community-resources/backend/internal/geocode"
	"github.com/community-resources/backend/pkg/logger"
)

// Geocoder resolves addresses for distance filtering.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geocode.Result, error)
}

type GeocodeHandler struct {
	geocoder Geocoder
}

func NewGeocodeHandler(g Geocoder) *GeocodeHandler {
	return &GeocodeHandler{geocoder: g}
}

func (h *GeocodeHandler) HandleGeocode(c *fiber.Ctx) error {
	var req struct {
		Address string `json:"address"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Address) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Address is required",
		})
	}

	result, err := h.geocoder.Geocode(c.Context(), req.Address)
	if err != nil {
		if errors.Is(err, geocode.ErrNoMatch) {
			return c.JSON(fiber.Map{
				"success": false,
				"message": "Address could not be found",
			})
		}
		logger.Error("Geocode lookup failed", zap.Error(err), zap.String("address", req.Address))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"message": "Geocoding service is unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"lat":               result.Lat,
		"lng":               result.Lng,
		"formatted_address": result.FormattedAddress,
	})
}
