package handlers

import (
	"log/slog"
	"time"

	"github.com/geoincidents/backend/internal/apperr"
	"github.com/geoincidents/backend/internal/dto"
	"github.com/geoincidents/backend/internal/middleware"
	"github.com/geoincidents/backend/internal/repository"
	"github.com/geoincidents/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IncidentHandler struct {
	incidents *services.IncidentService
}

func NewIncidentHandler(incidents *services.IncidentService) *IncidentHandler {
	return &IncidentHandler{incidents: incidents}
}

func (h *IncidentHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return fail(c, err)
	}

	var req dto.CreateIncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	incident, err := h.incidents.Create(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Incident reported", incident)
}

func (h *IncidentHandler) List(c *fiber.Ctx) error {
	filter, err := parseIncidentFilter(c)
	if err != nil {
		return fail(c, err)
	}

	incidents, pagination, err := h.incidents.Find(*filter, c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return fail(c, err)
	}
	return paginated(c, incidents, pagination)
}

// Get returns one incident and bumps its view counter. The bump is best
// effort and never fails the read; it happens before the fetch so the
// returned view_count includes this request.
func (h *IncidentHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}

	if err := h.incidents.IncrementViewCount(id); err != nil {
		slog.Warn("Failed to increment view count", "incident_id", id, "error", err)
	}
	incident, err := h.incidents.FindByID(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, incident)
}

func (h *IncidentHandler) Nearby(c *fiber.Ctx) error {
	lat := c.QueryFloat("latitude")
	lon := c.QueryFloat("longitude")
	if c.Query("latitude") == "" || c.Query("longitude") == "" {
		return badRequest(c, "latitude and longitude are required")
	}

	radius := c.QueryFloat("radius", 0)
	limit := c.QueryInt("limit", 0)

	incidents, err := h.incidents.FindNearby(lat, lon, radius, limit)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, incidents)
}

func (h *IncidentHandler) Heatmap(c *fiber.Ctx) error {
	filter, err := parseIncidentFilter(c)
	if err != nil {
		return fail(c, err)
	}

	points, err := h.incidents.Heatmap(*filter)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, points)
}

func (h *IncidentHandler) StatsByCategory(c *fiber.Ctx) error {
	stats, err := h.incidents.StatsByCategory()
	if err != nil {
		return fail(c, err)
	}
	return ok(c, stats)
}

func (h *IncidentHandler) TemporalStats(c *fiber.Ctx) error {
	start, err := parseDateQuery(c, "startDate", "start_date")
	if err != nil {
		return fail(c, err)
	}
	end, err := parseDateQuery(c, "endDate", "end_date")
	if err != nil {
		return fail(c, err)
	}

	groupBy := queryAlias(c, "groupBy", "group_by")
	if groupBy == "" {
		groupBy = "day"
	}

	buckets, err := h.incidents.TemporalStats(groupBy, start, end)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, buckets)
}

func (h *IncidentHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}

	var req dto.UpdateIncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	incident, err := h.incidents.Update(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Incident updated", incident)
}

func (h *IncidentHandler) Validate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	adminID, err := middleware.UserID(c)
	if err != nil {
		return fail(c, err)
	}

	incident, err := h.incidents.Validate(id, adminID)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Incident validated", incident)
}

func (h *IncidentHandler) Reject(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	adminID, err := middleware.UserID(c)
	if err != nil {
		return fail(c, err)
	}

	var req dto.RejectIncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	incident, err := h.incidents.Reject(id, adminID, &req)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Incident rejected", incident)
}

func (h *IncidentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}

	if err := h.incidents.Delete(id); err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Incident deleted", nil)
}

func (h *IncidentHandler) AddEvidence(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}

	var req dto.AddEvidenceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	evidence, err := h.incidents.AddEvidence(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Evidence attached", evidence)
}

func parseIncidentFilter(c *fiber.Ctx) (*repository.IncidentFilter, error) {
	filter := repository.IncidentFilter{
		Status:   c.Query("status"),
		Severity: c.Query("severity"),
	}

	if raw := queryAlias(c, "categoryId", "category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperr.Validation("invalid categoryId")
		}
		filter.CategoryID = &categoryID
	}

	start, err := parseDateQuery(c, "startDate", "start_date")
	if err != nil {
		return nil, err
	}
	end, err := parseDateQuery(c, "endDate", "end_date")
	if err != nil {
		return nil, err
	}
	filter.StartDate = start
	filter.EndDate = end

	// All four bounds must arrive together to form a viewport.
	if c.Query("north") != "" || c.Query("south") != "" || c.Query("east") != "" || c.Query("west") != "" {
		if c.Query("north") == "" || c.Query("south") == "" || c.Query("east") == "" || c.Query("west") == "" {
			return nil, apperr.Validation("north, south, east and west must all be provided")
		}
		filter.Bounds = &repository.Bounds{
			North: c.QueryFloat("north"),
			South: c.QueryFloat("south"),
			East:  c.QueryFloat("east"),
			West:  c.QueryFloat("west"),
		}
	}

	return &filter, nil
}

// queryAlias returns the first non-empty query value among names. The
// documented parameters are camelCase; the snake_case spellings stay accepted.
func queryAlias(c *fiber.Ctx, names ...string) string {
	for _, name := range names {
		if v := c.Query(name); v != "" {
			return v
		}
	}
	return ""
}

// parseDateQuery accepts RFC 3339 timestamps or bare dates under any of the
// given parameter spellings.
func parseDateQuery(c *fiber.Ctx, names ...string) (*time.Time, error) {
	raw := queryAlias(c, names...)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, apperr.Validation("invalid " + names[0])
}
