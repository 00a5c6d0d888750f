package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geoincidents/backend/internal/dto"
	"github.com/geoincidents/backend/internal/models"
	"github.com/geoincidents/backend/internal/realtime"
	"github.com/geoincidents/backend/internal/repository"
	"github.com/geoincidents/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func incidentTestApp(t *testing.T) (*fiber.App, *services.IncidentService, *services.CategoryService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Incident{},
		&models.Evidence{},
		&models.Notification{},
	))

	categoryRepo := repository.NewCategoryRepository(db)
	incidents := services.NewIncidentService(
		repository.NewIncidentRepository(db),
		categoryRepo,
		repository.NewEvidenceRepository(db),
		repository.NewNotificationRepository(db),
		realtime.NewHub(),
	)
	categories := services.NewCategoryService(categoryRepo)

	app := fiber.New()
	app.Get("/api/categories", NewCategoryHandler(categories).List)
	app.Get("/api/incidents/:id", NewIncidentHandler(incidents).Get)
	return app, incidents, categories
}

func getJSON(t *testing.T, app *fiber.App, path string) (*dto.Envelope, int) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope dto.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return &envelope, resp.StatusCode
}

func anonymousIncidentReq(categoryID string) *dto.CreateIncidentRequest {
	return &dto.CreateIncidentRequest{
		CategoryID:   categoryID,
		Title:        "Robo en la plaza",
		Description:  "Arrebataron un celular cerca del mercado.",
		Latitude:     -15.8402,
		Longitude:    -70.0219,
		IncidentDate: time.Now().Add(-time.Hour),
		IsAnonymous:  true,
	}
}

func TestIncidentFilterAcceptsDocumentedParamNames(t *testing.T) {
	app := fiber.New()
	var got repository.IncidentFilter
	app.Get("/incidents", func(c *fiber.Ctx) error {
		filter, err := parseIncidentFilter(c)
		if err != nil {
			return err
		}
		got = *filter
		return c.SendStatus(fiber.StatusNoContent)
	})

	id := uuid.New()
	req := httptest.NewRequest("GET",
		"/incidents?categoryId="+id.String()+"&startDate=2026-01-01&endDate=2026-02-01", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	require.NotNil(t, got.CategoryID)
	assert.Equal(t, id, *got.CategoryID)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), got.StartDate.UTC())
	require.NotNil(t, got.EndDate)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), got.EndDate.UTC())
}

func TestIncidentFilterAcceptsSnakeCaseParamNames(t *testing.T) {
	app := fiber.New()
	var got repository.IncidentFilter
	app.Get("/incidents", func(c *fiber.Ctx) error {
		filter, err := parseIncidentFilter(c)
		if err != nil {
			return err
		}
		got = *filter
		return c.SendStatus(fiber.StatusNoContent)
	})

	id := uuid.New()
	req := httptest.NewRequest("GET",
		"/incidents?category_id="+id.String()+"&start_date=2026-01-01", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	require.NotNil(t, got.CategoryID)
	assert.Equal(t, id, *got.CategoryID)
	require.NotNil(t, got.StartDate)
}

func TestListCategoriesIncludeInactiveParam(t *testing.T) {
	app, _, categories := incidentTestApp(t)

	created, err := categories.Create(&dto.CreateCategoryRequest{Name: "Robo"})
	require.NoError(t, err)
	require.NoError(t, categories.Delete(created.ID))

	decode := func(envelope *dto.Envelope) []models.Category {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var list []models.Category
		require.NoError(t, json.Unmarshal(raw, &list))
		return list
	}

	envelope, status := getJSON(t, app, "/api/categories")
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, decode(envelope))

	envelope, status = getJSON(t, app, "/api/categories?includeInactive=true")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode(envelope), 1)
}

func TestGetIncidentReturnsFreshViewCount(t *testing.T) {
	app, incidents, categories := incidentTestApp(t)

	category, err := categories.Create(&dto.CreateCategoryRequest{Name: "Robo"})
	require.NoError(t, err)
	incident, err := incidents.Create(uuid.New(), anonymousIncidentReq(category.ID.String()))
	require.NoError(t, err)

	decode := func(envelope *dto.Envelope) models.Incident {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var fetched models.Incident
		require.NoError(t, json.Unmarshal(raw, &fetched))
		return fetched
	}

	envelope, status := getJSON(t, app, "/api/incidents/"+incident.ID.String())
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, decode(envelope).ViewCount, "the first read already counts itself")

	envelope, status = getJSON(t, app, "/api/incidents/"+incident.ID.String())
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 2, decode(envelope).ViewCount)
}
