package handlers

import (
	"github.com/geoincidents/backend/internal/apperr"
	"github.com/geoincidents/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) RiskZones(c *fiber.Ctx) error {
	zones, err := h.analytics.RiskZones()
	if err != nil {
		return fail(c, err)
	}
	return ok(c, zones)
}

func (h *AnalyticsHandler) Predictions(c *fiber.Ctx) error {
	var zoneID, categoryID *uuid.UUID
	if raw := c.Query("zone_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fail(c, apperr.Validation("invalid zone_id"))
		}
		zoneID = &id
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fail(c, apperr.Validation("invalid category_id"))
		}
		categoryID = &id
	}

	predictions, err := h.analytics.Predictions(zoneID, categoryID, c.QueryInt("limit", 100))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, predictions)
}

// Refresh runs the ML sync synchronously; with many incidents this can take
// a while, bounded by the ML client timeout.
func (h *AnalyticsHandler) Refresh(c *fiber.Ctx) error {
	result, err := h.analytics.Refresh(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Risk analysis refreshed", result)
}
