package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
	RiskVeryHigh = "very_high"
	RiskCritical = "critical"
)

// RiskZone is an area with elevated incident risk computed by the ML service.
// Polygon holds the zone boundary as a GeoJSON-style coordinate array.
type RiskZone struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string         `gorm:"not null;size:255" json:"name"`
	Description      *string        `gorm:"type:text" json:"description,omitempty"`
	Polygon          datatypes.JSON `gorm:"not null" json:"polygon"`
	RiskLevel        string         `gorm:"not null;size:20" json:"risk_level"`
	TotalIncidents   int            `gorm:"not null;default:0" json:"total_incidents"`
	LastCalculatedAt time.Time      `gorm:"not null" json:"last_calculated_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (z *RiskZone) BeforeCreate(tx *gorm.DB) error {
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	return nil
}

func (RiskZone) TableName() string {
	return "risk_zones"
}
