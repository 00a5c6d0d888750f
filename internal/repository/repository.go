// Package repository holds the persistence gateways. Services depend on the
// interfaces here, never on GORM directly, and every raw SQL fragment in the
// application lives behind a named method in this package.
package repository

import (
	"time"

	"github.com/geoincidents/backend/internal/models"
	"github.com/google/uuid"
)

// Bounds is a rectangular lat/lon region, typically a map viewport.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// IncidentFilter combines with AND semantics; zero-valued fields are ignored.
type IncidentFilter struct {
	CategoryID *uuid.UUID
	Status     string
	Severity   string
	StartDate  *time.Time
	EndDate    *time.Time
	Bounds     *Bounds
}

// NearbyIncident pairs an incident with its computed great-circle distance.
type NearbyIncident struct {
	models.Incident
	DistanceKm float64 `json:"distance_km"`
}

type CategoryStats struct {
	CategoryID uuid.UUID `gorm:"column:category_id" json:"category_id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	Icon       string    `json:"icon"`
	Total      int64     `json:"total"`
	Validated  int64     `json:"validated"`
	Pending    int64     `json:"pending"`
}

type TemporalBucket struct {
	Period string `json:"period"`
	Total  int64  `json:"total"`
}

// IncidentPoint is the minimal incident shape shipped to the ML service.
type IncidentPoint struct {
	ID           uuid.UUID `gorm:"column:id" json:"id"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Category     string    `json:"category"`
	Severity     string    `json:"severity"`
	IncidentDate time.Time `gorm:"column:incident_date" json:"incident_date"`
}

// Find methods return (nil, nil) when the row does not exist so callers can
// decide which domain error applies.

type UserRepository interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	Save(user *models.User) error
	UpdateFields(id uuid.UUID, fields map[string]interface{}) error
}

type CategoryRepository interface {
	Create(category *models.Category) error
	FindByID(id uuid.UUID) (*models.Category, error)
	FindByName(name string) (*models.Category, error)
	FindAll(includeInactive bool) ([]models.Category, error)
	Save(category *models.Category) error
	SetOrder(id uuid.UUID, order int) error
}

type IncidentRepository interface {
	Create(incident *models.Incident) error
	FindByID(id uuid.UUID) (*models.Incident, error)
	Find(filter IncidentFilter, page, limit int) ([]models.Incident, int64, error)
	NearbyValidated(lat, lon, radiusKm float64, limit int) ([]NearbyIncident, error)
	UpdateFields(id uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(id uuid.UUID) (int64, error)
	HeatmapRows(filter IncidentFilter) ([]models.Incident, error)
	StatsByCategory() ([]CategoryStats, error)
	TemporalStats(bucket string, start, end *time.Time) ([]TemporalBucket, error)
	IncrementViewCount(id uuid.UUID) error
	ValidatedPoints() ([]IncidentPoint, error)
}

type EvidenceRepository interface {
	Create(evidence *models.Evidence) error
}

type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByUser(userID uuid.UUID, unreadOnly bool, page, limit int) ([]models.Notification, int64, error)
	FindByID(id uuid.UUID) (*models.Notification, error)
	Save(notification *models.Notification) error
	MarkAllRead(userID uuid.UUID, readAt time.Time) (int64, error)
	CountUnread(userID uuid.UUID) (int64, error)
}

type AnalyticsRepository interface {
	RiskZones() ([]models.RiskZone, error)
	ReplaceRiskZones(zones []models.RiskZone, predictions []models.Prediction) error
	Predictions(zoneID, categoryID *uuid.UUID, limit int) ([]models.Prediction, error)
}
