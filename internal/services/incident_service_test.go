package services

import (
	"testing"
	"time"

	"github.com/geoincidents/backend/internal/apperr"
	"github.com/geoincidents/backend/internal/dto"
	"github.com/geoincidents/backend/internal/models"
	"github.com/geoincidents/backend/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createReq(categoryID string) *dto.CreateIncidentRequest {
	return &dto.CreateIncidentRequest{
		CategoryID:   categoryID,
		Title:        "Robo en la plaza",
		Description:  "Arrebataron un celular cerca del mercado.",
		Latitude:     -15.8402,
		Longitude:    -70.0219,
		IncidentDate: time.Now().Add(-time.Hour),
	}
}

func TestCreateIncidentForcesPending(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	user := f.mustUser(t, "citizen@example.com", models.RoleCitizen)

	incident, err := f.incidents.Create(user.ID, createReq(category.ID.String()))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, incident.Status)
	assert.Equal(t, models.SeverityMedium, incident.Severity, "severity defaults to medium")
	require.NotNil(t, incident.UserID)
	assert.Equal(t, user.ID, *incident.UserID)
	require.NotNil(t, incident.Category)
	assert.Equal(t, "Robo", incident.Category.Name)
}

func TestCreateAnonymousIncidentStripsReporter(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	user := f.mustUser(t, "citizen@example.com", models.RoleCitizen)

	req := createReq(category.ID.String())
	req.IsAnonymous = true
	incident, err := f.incidents.Create(user.ID, req)
	require.NoError(t, err)

	assert.True(t, incident.IsAnonymous)
	assert.Nil(t, incident.UserID, "anonymous reports store no reporter reference")
}

func TestCreateIncidentRejectsInactiveCategory(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	user := f.mustUser(t, "citizen@example.com", models.RoleCitizen)
	require.NoError(t, f.categories.Delete(category.ID))

	_, err := f.incidents.Create(user.ID, createReq(category.ID.String()))
	require.Error(t, err)
	status, _, _ := apperr.Status(err)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreateIncidentRejectsBadCoordinates(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	user := f.mustUser(t, "citizen@example.com", models.RoleCitizen)

	req := createReq(category.ID.String())
	req.Latitude = 91
	_, err := f.incidents.Create(user.ID, req)
	require.Error(t, err)

	req = createReq(category.ID.String())
	req.Longitude = -181
	_, err = f.incidents.Create(user.ID, req)
	require.Error(t, err)
}

func TestValidateIncidentNotifiesReporter(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	citizen := f.mustUser(t, "citizen@example.com", models.RoleCitizen)
	admin := f.mustUser(t, "admin@example.com", models.RoleAdmin)

	incident, err := f.incidents.Create(citizen.ID, createReq(category.ID.String()))
	require.NoError(t, err)

	validated, err := f.incidents.Validate(incident.ID, admin.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusValidated, validated.Status)
	require.NotNil(t, validated.ValidatedBy)
	assert.Equal(t, admin.ID, *validated.ValidatedBy)
	assert.NotNil(t, validated.ValidatedAt)

	notifications, _, err := f.notifications.List(citizen.ID, false, 1, 20)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotifIncidentValidated, notifications[0].Type)
	require.NotNil(t, notifications[0].IncidentID)
	assert.Equal(t, incident.ID, *notifications[0].IncidentID)
}

func TestValidateAnonymousIncidentSkipsNotification(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	citizen := f.mustUser(t, "citizen@example.com", models.RoleCitizen)
	admin := f.mustUser(t, "admin@example.com", models.RoleAdmin)

	req := createReq(category.ID.String())
	req.IsAnonymous = true
	incident, err := f.incidents.Create(citizen.ID, req)
	require.NoError(t, err)

	_, err = f.incidents.Validate(incident.ID, admin.ID)
	require.NoError(t, err)

	count, err := f.notifications.UnreadCount(citizen.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	citizen := f.mustUser(t, "citizen@example.com", models.RoleCitizen)
	admin := f.mustUser(t, "admin@example.com", models.RoleAdmin)

	incident, err := f.incidents.Create(citizen.ID, createReq(category.ID.String()))
	require.NoError(t, err)

	_, err = f.incidents.Reject(incident.ID, admin.ID, &dto.RejectIncidentRequest{})
	require.Error(t, err)

	rejected, err := f.incidents.Reject(incident.ID, admin.ID, &dto.RejectIncidentRequest{Reason: "duplicate report"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "duplicate report", *rejected.RejectionReason)
}

func TestValidateAfterRejectLastWriteWins(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	citizen := f.mustUser(t, "citizen@example.com", models.RoleCitizen)
	admin := f.mustUser(t, "admin@example.com", models.RoleAdmin)

	incident, err := f.incidents.Create(citizen.ID, createReq(category.ID.String()))
	require.NoError(t, err)

	_, err = f.incidents.Reject(incident.ID, admin.ID, &dto.RejectIncidentRequest{Reason: "unclear"})
	require.NoError(t, err)

	// There is no pending-only guard; a later validate overrides the reject.
	validated, err := f.incidents.Validate(incident.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusValidated, validated.Status)
}

func TestUpdateIncidentArbitraryStatus(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	citizen := f.mustUser(t, "citizen@example.com", models.RoleCitizen)

	incident, err := f.incidents.Create(citizen.ID, createReq(category.ID.String()))
	require.NoError(t, err)

	status := models.StatusResolved
	severity := models.SeverityCritical
	updated, err := f.incidents.Update(incident.ID, &dto.UpdateIncidentRequest{
		Status:   &status,
		Severity: &severity,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)
	assert.Equal(t, models.SeverityCritical, updated.Severity)

	bad := "archived"
	_, err = f.incidents.Update(incident.ID, &dto.UpdateIncidentRequest{Status: &bad})
	require.Error(t, err)
}

func TestDeleteIncidentCascadesEvidence(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	citizen := f.mustUser(t, "citizen@example.com", models.RoleCitizen)

	incident, err := f.incidents.Create(citizen.ID, createReq(category.ID.String()))
	require.NoError(t, err)

	_, err = f.incidents.AddEvidence(incident.ID, &dto.AddEvidenceRequest{
		Type:     models.EvidenceImage,
		URL:      "https://cdn.example.com/photo.jpg",
		FileName: "photo.jpg",
	})
	require.NoError(t, err)

	require.NoError(t, f.incidents.Delete(incident.ID))

	var evidenceCount int64
	require.NoError(t, f.db.Model(&models.Evidence{}).Count(&evidenceCount).Error)
	assert.Zero(t, evidenceCount)

	err = f.incidents.Delete(incident.ID)
	require.Error(t, err)
	statusCode, _, _ := apperr.Status(err)
	assert.Equal(t, fiber.StatusNotFound, statusCode)
}

func TestAddEvidenceRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	citizen := f.mustUser(t, "citizen@example.com", models.RoleCitizen)

	incident, err := f.incidents.Create(citizen.ID, createReq(category.ID.String()))
	require.NoError(t, err)

	_, err = f.incidents.AddEvidence(incident.ID, &dto.AddEvidenceRequest{
		Type:     "hologram",
		URL:      "https://cdn.example.com/x",
		FileName: "x",
	})
	require.Error(t, err)
}

func TestFindNearbyValidatedWithinRadius(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	citizen := f.mustUser(t, "citizen@example.com", models.RoleCitizen)
	admin := f.mustUser(t, "admin@example.com", models.RoleAdmin)

	validated := func(req *dto.CreateIncidentRequest) *models.Incident {
		incident, err := f.incidents.Create(citizen.ID, req)
		require.NoError(t, err)
		incident, err = f.incidents.Validate(incident.ID, admin.ID)
		require.NoError(t, err)
		return incident
	}

	atOrigin := validated(createReq(category.ID.String()))

	// Roughly half a kilometer north-east of the query point.
	neighborReq := createReq(category.ID.String())
	neighborReq.Latitude = -15.8367
	neighborReq.Longitude = -70.0178
	neighbor := validated(neighborReq)

	// Pending report at the query point itself, must never appear.
	_, err := f.incidents.Create(citizen.ID, createReq(category.ID.String()))
	require.NoError(t, err)

	near, err := f.incidents.FindNearby(-15.8402, -70.0219, 1, 0)
	require.NoError(t, err)
	require.Len(t, near, 2, "pending incidents are excluded")
	assert.Equal(t, atOrigin.ID, near[0].ID, "results come back closest first")
	assert.InDelta(t, 0, near[0].DistanceKm, 0.01)
	assert.Equal(t, neighbor.ID, near[1].ID)
	assert.InDelta(t, 0.58, near[1].DistanceKm, 0.1)

	tight, err := f.incidents.FindNearby(-15.8402, -70.0219, 0.1, 0)
	require.NoError(t, err)
	require.Len(t, tight, 1, "the neighbor sits outside a 100m radius")
	assert.Equal(t, atOrigin.ID, tight[0].ID)

	limited, err := f.incidents.FindNearby(-15.8402, -70.0219, 1, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, atOrigin.ID, limited[0].ID)
}

func TestHeatmapUsesValidatedOnlyWithSeverityWeights(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	citizen := f.mustUser(t, "citizen@example.com", models.RoleCitizen)
	admin := f.mustUser(t, "admin@example.com", models.RoleAdmin)

	reqLow := createReq(category.ID.String())
	reqLow.Severity = models.SeverityLow
	low, err := f.incidents.Create(citizen.ID, reqLow)
	require.NoError(t, err)
	_, err = f.incidents.Validate(low.ID, admin.ID)
	require.NoError(t, err)

	reqCritical := createReq(category.ID.String())
	reqCritical.Severity = models.SeverityCritical
	critical, err := f.incidents.Create(citizen.ID, reqCritical)
	require.NoError(t, err)
	_, err = f.incidents.Validate(critical.ID, admin.ID)
	require.NoError(t, err)

	// Still pending, must not appear.
	_, err = f.incidents.Create(citizen.ID, createReq(category.ID.String()))
	require.NoError(t, err)

	points, err := f.incidents.Heatmap(repository.IncidentFilter{})
	require.NoError(t, err)
	require.Len(t, points, 2)

	intensities := map[string]float64{}
	for _, p := range points {
		intensities[p.Severity] = p.Intensity
	}
	assert.Equal(t, 0.3, intensities[models.SeverityLow])
	assert.Equal(t, 1.0, intensities[models.SeverityCritical])
}

func TestFindFiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	other := f.mustCategory(t, "Vandalismo")
	citizen := f.mustUser(t, "citizen@example.com", models.RoleCitizen)

	for i := 0; i < 3; i++ {
		_, err := f.incidents.Create(citizen.ID, createReq(category.ID.String()))
		require.NoError(t, err)
	}
	_, err := f.incidents.Create(citizen.ID, createReq(other.ID.String()))
	require.NoError(t, err)

	incidents, pagination, err := f.incidents.Find(repository.IncidentFilter{CategoryID: &category.ID}, 1, 2)
	require.NoError(t, err)
	assert.Len(t, incidents, 2)
	assert.Equal(t, int64(3), pagination.Total)
	assert.Equal(t, 2, pagination.TotalPages)

	badFilter := repository.IncidentFilter{Status: "archived"}
	_, _, err = f.incidents.Find(badFilter, 1, 20)
	require.Error(t, err)
}

func TestIncrementViewCount(t *testing.T) {
	f := newFixture(t)
	category := f.mustCategory(t, "Robo")
	citizen := f.mustUser(t, "citizen@example.com", models.RoleCitizen)

	incident, err := f.incidents.Create(citizen.ID, createReq(category.ID.String()))
	require.NoError(t, err)

	require.NoError(t, f.incidents.IncrementViewCount(incident.ID))
	require.NoError(t, f.incidents.IncrementViewCount(incident.ID))

	reloaded, err := f.incidents.FindByID(incident.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.ViewCount)
}
