package handlers

import (
	"time"

	"github.com/geoincidents/backend/internal/database"
	"github.com/geoincidents/backend/internal/dto"
	"github.com/geoincidents/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports process and database liveness. A failing database turns the
// status to degraded but still answers 200 so load balancers can tell the
// process itself is up.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
	}
	if err := database.Ping(h.db); err != nil {
		resp.Status = "degraded"
		resp.DB = "unreachable"
	}
	return c.JSON(resp)
}

// SystemStatus returns a host resource snapshot. Admin only.
func (h *HealthHandler) SystemStatus(c *fiber.Ctx) error {
	return ok(c, services.SystemStatus())
}
