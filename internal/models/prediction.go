package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Prediction is a point risk forecast produced by the ML service. Probability
// is kept in [0,1]; Features records the model inputs for auditability.
type Prediction struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ZoneID        *uuid.UUID     `gorm:"type:uuid;index" json:"zone_id,omitempty"`
	CategoryID    *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Latitude      float64        `gorm:"not null;type:decimal(10,8)" json:"latitude"`
	Longitude     float64        `gorm:"not null;type:decimal(11,8)" json:"longitude"`
	Probability   float64        `gorm:"not null;type:decimal(5,4);index" json:"probability"`
	PredictedDate time.Time      `gorm:"not null;index" json:"predicted_date"`
	ModelVersion  string         `gorm:"not null;size:50" json:"model_version"`
	Features      datatypes.JSON `gorm:"not null" json:"features"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	Zone     *RiskZone `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (p *Prediction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Prediction) TableName() string {
	return "predictions"
}
