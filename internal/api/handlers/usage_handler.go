package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/community-resources/backend/internal/metrics"
	"github.com/community-resources/backend/internal/storage/models"
	"github.com/community-resources/backend/pkg/logger"
)

// UsageStore persists analytics events. Writes are detached from the
// request; a failing store never affects the caller.
type UsageStore interface {
	InsertUsageEvent(ctx context.Context, event *models.UsageEvent) error
}

// Counters is optional best-effort tallying. May be nil.
type Counters interface {
	IncrementCounter(ctx context.Context, name string) error
}

type UsageHandler struct {
	store    UsageStore
	counters Counters
}

func NewUsageHandler(store UsageStore, counters Counters) *UsageHandler {
	return &UsageHandler{store: store, counters: counters}
}

// HandleUsage accepts a usage event and acknowledges immediately; the
// insert happens on a detached goroutine.
func (h *UsageHandler) HandleUsage(c *fiber.Ctx) error {
	var req struct {
		EventType string `json:"event_type"`
		Detail    string `json:"detail"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.EventType) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Event type is required",
		})
	}

	metrics.UsageEvents.WithLabelValues(req.EventType).Inc()

	event := &models.UsageEvent{
		EventType: req.EventType,
		Detail:    req.Detail,
		CreatedAt: time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.store.InsertUsageEvent(ctx, event); err != nil {
			logger.Warn("Usage event write failed", zap.Error(err), zap.String("event_type", event.EventType))
		}
		if h.counters != nil {
			if err := h.counters.IncrementCounter(ctx, "usage:"+event.EventType); err != nil {
				logger.Debug("Usage counter increment failed", zap.Error(err))
			}
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
	})
}
