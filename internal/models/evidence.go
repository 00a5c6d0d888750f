package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EvidenceImage    = "image"
	EvidenceVideo    = "video"
	EvidenceAudio    = "audio"
	EvidenceDocument = "document"
)

// ValidEvidenceType reports whether t is a supported evidence type.
func ValidEvidenceType(t string) bool {
	switch t {
	case EvidenceImage, EvidenceVideo, EvidenceAudio, EvidenceDocument:
		return true
	}
	return false
}

// Evidence is file metadata attached to an incident. Rows are removed together
// with their incident; the file bytes themselves live outside this service.
type Evidence struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IncidentID uuid.UUID `gorm:"type:uuid;not null;index" json:"incident_id"`
	Type       string    `gorm:"not null;size:20" json:"type"`
	URL        string    `gorm:"not null;size:500" json:"url"`
	FileName   string    `gorm:"not null;size:255" json:"file_name"`
	FileSize   int64     `gorm:"not null" json:"file_size"`
	MimeType   string    `gorm:"not null;size:100" json:"mime_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (e *Evidence) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (Evidence) TableName() string {
	return "evidences"
}
