package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotifIncidentNearby    = "incident_nearby"
	NotifIncidentValidated = "incident_validated"
	NotifIncidentRejected  = "incident_rejected"
	NotifAlertZone         = "alert_zone"
	NotifSystem            = "system"
)

// Notification is a per-user message produced by admin actions on incidents.
// ReadAt is set exactly when IsRead flips to true.
type Notification struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_user_read" json:"user_id"`
	IncidentID *uuid.UUID `gorm:"type:uuid" json:"incident_id,omitempty"`
	Type       string     `gorm:"not null;size:30" json:"type"`
	Title      string     `gorm:"not null;size:255" json:"title"`
	Message    string     `gorm:"not null;type:text" json:"message"`
	IsRead     bool       `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}
