package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusValidated = "validated"
	StatusRejected  = "rejected"
	StatusResolved  = "resolved"
)

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// ValidStatus reports whether s is one of the four incident statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusValidated, StatusRejected, StatusResolved:
		return true
	}
	return false
}

// ValidSeverity reports whether s is one of the four severity levels.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Incident is a geolocated citizen report. UserID is nil exactly when the
// report is anonymous. ValidatedBy/ValidatedAt are set together when an admin
// moves the incident out of pending; there is no guard against re-validating,
// the last admin write wins.
type Incident struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	CategoryID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"category_id"`
	Title           string     `gorm:"not null;size:255" json:"title"`
	Description     string     `gorm:"not null;type:text" json:"description"`
	Latitude        float64    `gorm:"not null;type:decimal(10,8);index:idx_incidents_coords" json:"latitude"`
	Longitude       float64    `gorm:"not null;type:decimal(11,8);index:idx_incidents_coords" json:"longitude"`
	Address         *string    `gorm:"type:text" json:"address,omitempty"`
	IncidentDate    time.Time  `gorm:"not null;index" json:"incident_date"`
	Status          string     `gorm:"not null;size:20;default:'pending';index" json:"status"`
	Severity        string     `gorm:"not null;size:20;default:'medium'" json:"severity"`
	IsAnonymous     bool       `gorm:"not null;default:false" json:"is_anonymous"`
	ValidatedBy     *uuid.UUID `gorm:"type:uuid" json:"validated_by,omitempty"`
	ValidatedAt     *time.Time `json:"validated_at,omitempty"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`
	ViewCount       int        `gorm:"not null;default:0" json:"view_count"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category  *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Validator *User      `gorm:"foreignKey:ValidatedBy" json:"validator,omitempty"`
	Evidences []Evidence `gorm:"foreignKey:IncidentID" json:"evidences,omitempty"`
}

func (i *Incident) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (Incident) TableName() string {
	return "incidents"
}
