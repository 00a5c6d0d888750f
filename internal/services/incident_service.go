package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/geoincidents/backend/internal/apperr"
	"github.com/geoincidents/backend/internal/dto"
	"github.com/geoincidents/backend/internal/models"
	"github.com/geoincidents/backend/internal/realtime"
	"github.com/geoincidents/backend/internal/repository"
	"github.com/google/uuid"
)

const (
	defaultNearbyRadiusKm = 5.0
	defaultNearbyLimit    = 50
	maxNearbyLimit        = 200
)

// severityIntensity maps an incident severity to its heatmap weight.
var severityIntensity = map[string]float64{
	models.SeverityLow:      0.3,
	models.SeverityMedium:   0.5,
	models.SeverityHigh:     0.8,
	models.SeverityCritical: 1.0,
}

type IncidentService struct {
	incidents     repository.IncidentRepository
	categories    repository.CategoryRepository
	evidences     repository.EvidenceRepository
	notifications repository.NotificationRepository
	hub           *realtime.Hub
}

func NewIncidentService(
	incidents repository.IncidentRepository,
	categories repository.CategoryRepository,
	evidences repository.EvidenceRepository,
	notifications repository.NotificationRepository,
	hub *realtime.Hub,
) *IncidentService {
	return &IncidentService{
		incidents:     incidents,
		categories:    categories,
		evidences:     evidences,
		notifications: notifications,
		hub:           hub,
	}
}

// Create registers a new report. The status is always pending regardless of
// what the caller sends; only admins move incidents out of pending.
func (s *IncidentService) Create(userID uuid.UUID, req *dto.CreateIncidentRequest) (*models.Incident, error) {
	if req.Title == "" || req.Description == "" {
		return nil, apperr.Validation("title and description are required")
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}
	if req.IncidentDate.IsZero() {
		return nil, apperr.Validation("incident_date is required")
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, apperr.Validation("invalid category id")
	}
	category, err := s.categories.FindByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil || !category.IsActive {
		return nil, apperr.Validation("category not found or inactive")
	}

	severity := req.Severity
	if severity == "" {
		severity = models.SeverityMedium
	}
	if !models.ValidSeverity(severity) {
		return nil, apperr.Validation("invalid severity")
	}

	incident := models.Incident{
		ID:           uuid.New(),
		CategoryID:   categoryID,
		Title:        req.Title,
		Description:  req.Description,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Address:      req.Address,
		IncidentDate: req.IncidentDate,
		Status:       models.StatusPending,
		Severity:     severity,
		IsAnonymous:  req.IsAnonymous,
	}
	// Anonymous reports carry no reporter reference at all, so even a direct
	// database read cannot attribute them.
	if !req.IsAnonymous {
		incident.UserID = &userID
	}

	if err := s.incidents.Create(&incident); err != nil {
		return nil, fmt.Errorf("failed to create incident: %w", err)
	}

	created, err := s.FindByID(incident.ID)
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastAt(
		realtime.NewEvent(realtime.EventIncidentCreated, created),
		created.Latitude, created.Longitude,
	)
	return created, nil
}

func (s *IncidentService) FindByID(id uuid.UUID) (*models.Incident, error) {
	incident, err := s.incidents.FindByID(id)
	if err != nil {
		return nil, err
	}
	if incident == nil {
		return nil, apperr.NotFound("incident not found")
	}
	return incident, nil
}

func (s *IncidentService) Find(filter repository.IncidentFilter, page, limit int) ([]models.Incident, *dto.Pagination, error) {
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return nil, nil, apperr.Validation("invalid status filter")
	}
	if filter.Severity != "" && !models.ValidSeverity(filter.Severity) {
		return nil, nil, apperr.Validation("invalid severity filter")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	incidents, total, err := s.incidents.Find(filter, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return incidents, dto.NewPagination(page, limit, total), nil
}

// FindNearby returns validated incidents within radiusKm of the point,
// closest first.
func (s *IncidentService) FindNearby(lat, lon, radiusKm float64, limit int) ([]repository.NearbyIncident, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = defaultNearbyRadiusKm
	}
	if limit < 1 || limit > maxNearbyLimit {
		limit = defaultNearbyLimit
	}
	return s.incidents.NearbyValidated(lat, lon, radiusKm, limit)
}

// Heatmap converts validated incidents into weighted points for map overlays.
func (s *IncidentService) Heatmap(filter repository.IncidentFilter) ([]dto.HeatmapPoint, error) {
	rows, err := s.incidents.HeatmapRows(filter)
	if err != nil {
		return nil, err
	}

	points := make([]dto.HeatmapPoint, len(rows))
	for i, row := range rows {
		intensity, ok := severityIntensity[row.Severity]
		if !ok {
			intensity = severityIntensity[models.SeverityMedium]
		}
		points[i] = dto.HeatmapPoint{
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
			Intensity: intensity,
			Severity:  row.Severity,
		}
	}
	return points, nil
}

func (s *IncidentService) StatsByCategory() ([]repository.CategoryStats, error) {
	return s.incidents.StatsByCategory()
}

func (s *IncidentService) TemporalStats(bucket string, start, end *time.Time) ([]repository.TemporalBucket, error) {
	switch bucket {
	case "", "hour", "day", "month":
	default:
		return nil, apperr.Validation("group_by must be hour, day or month")
	}
	return s.incidents.TemporalStats(bucket, start, end)
}

// Validate marks the incident as validated by the given admin. The write is
// unconditional: re-validating or flipping a rejected incident is allowed and
// the latest admin action wins.
func (s *IncidentService) Validate(id, adminID uuid.UUID) (*models.Incident, error) {
	incident, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":       models.StatusValidated,
		"validated_by": adminID,
		"validated_at": now,
	}
	if _, err := s.incidents.UpdateFields(id, fields); err != nil {
		return nil, err
	}

	s.notifyReporter(incident, models.NotifIncidentValidated,
		"Incident validated",
		fmt.Sprintf("Your report %q has been validated and is now public.", incident.Title))

	updated, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.hub.BroadcastAt(
		realtime.NewEvent(realtime.EventIncidentValidated, updated),
		updated.Latitude, updated.Longitude,
	)
	return updated, nil
}

// Reject marks the incident as rejected with a mandatory reason. Like
// Validate, the write is last-wins.
func (s *IncidentService) Reject(id, adminID uuid.UUID, req *dto.RejectIncidentRequest) (*models.Incident, error) {
	if req.Reason == "" {
		return nil, apperr.Validation("rejection reason is required")
	}

	incident, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":           models.StatusRejected,
		"validated_by":     adminID,
		"validated_at":     now,
		"rejection_reason": req.Reason,
	}
	if _, err := s.incidents.UpdateFields(id, fields); err != nil {
		return nil, err
	}

	s.notifyReporter(incident, models.NotifIncidentRejected,
		"Incident rejected",
		fmt.Sprintf("Your report %q was rejected: %s", incident.Title, req.Reason))

	updated, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.hub.BroadcastAt(
		realtime.NewEvent(realtime.EventIncidentRejected, updated),
		updated.Latitude, updated.Longitude,
	)
	return updated, nil
}

// Update lets an admin overwrite incident fields, including status, with no
// workflow restrictions.
func (s *IncidentService) Update(id uuid.UUID, req *dto.UpdateIncidentRequest) (*models.Incident, error) {
	if _, err := s.FindByID(id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, apperr.Validation("invalid category id")
		}
		category, err := s.categories.FindByID(categoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperr.Validation("category not found")
		}
		fields["category_id"] = categoryID
	}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Latitude != nil || req.Longitude != nil {
		if req.Latitude == nil || req.Longitude == nil {
			return nil, apperr.Validation("latitude and longitude must be updated together")
		}
		if err := validateCoordinates(*req.Latitude, *req.Longitude); err != nil {
			return nil, err
		}
		fields["latitude"] = *req.Latitude
		fields["longitude"] = *req.Longitude
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.IncidentDate != nil {
		fields["incident_date"] = *req.IncidentDate
	}
	if req.Severity != nil {
		if !models.ValidSeverity(*req.Severity) {
			return nil, apperr.Validation("invalid severity")
		}
		fields["severity"] = *req.Severity
	}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			return nil, apperr.Validation("invalid status")
		}
		fields["status"] = *req.Status
	}

	if len(fields) > 0 {
		if _, err := s.incidents.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}
	return s.FindByID(id)
}

func (s *IncidentService) Delete(id uuid.UUID) error {
	affected, err := s.incidents.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("incident not found")
	}
	return nil
}

func (s *IncidentService) AddEvidence(incidentID uuid.UUID, req *dto.AddEvidenceRequest) (*models.Evidence, error) {
	if _, err := s.FindByID(incidentID); err != nil {
		return nil, err
	}
	if !models.ValidEvidenceType(req.Type) {
		return nil, apperr.Validation("invalid evidence type")
	}
	if req.URL == "" || req.FileName == "" {
		return nil, apperr.Validation("url and file_name are required")
	}

	evidence := models.Evidence{
		ID:         uuid.New(),
		IncidentID: incidentID,
		Type:       req.Type,
		URL:        req.URL,
		FileName:   req.FileName,
		FileSize:   req.FileSize,
		MimeType:   req.MimeType,
	}
	if err := s.evidences.Create(&evidence); err != nil {
		return nil, err
	}
	return &evidence, nil
}

// IncrementViewCount is fire-and-forget from the handler's perspective; a
// failed bump never fails the read.
func (s *IncidentService) IncrementViewCount(id uuid.UUID) error {
	return s.incidents.IncrementViewCount(id)
}

// notifyReporter creates an in-app notification for the incident's reporter.
// Anonymous reports have no reporter to notify. A failed insert is logged but
// never fails the admin action that triggered it.
func (s *IncidentService) notifyReporter(incident *models.Incident, notifType, title, message string) {
	if incident.UserID == nil {
		return
	}
	notification := models.Notification{
		ID:         uuid.New(),
		UserID:     *incident.UserID,
		IncidentID: &incident.ID,
		Type:       notifType,
		Title:      title,
		Message:    message,
	}
	if err := s.notifications.Create(&notification); err != nil {
		slog.Error("Failed to create notification",
			"incident_id", incident.ID,
			"user_id", *incident.UserID,
			"error", err)
	}
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return apperr.Validation("latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return apperr.Validation("longitude must be between -180 and 180")
	}
	return nil
}
