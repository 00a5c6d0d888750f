package dto

import "time"

type CreateIncidentRequest struct {
	CategoryID   string    `json:"category_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Address      *string   `json:"address,omitempty"`
	IncidentDate time.Time `json:"incident_date"`
	Severity     string    `json:"severity,omitempty"`
	IsAnonymous  bool      `json:"is_anonymous,omitempty"`
}

// UpdateIncidentRequest allows an admin to overwrite any field, including an
// arbitrary status change.
type UpdateIncidentRequest struct {
	CategoryID   *string    `json:"category_id,omitempty"`
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	Address      *string    `json:"address,omitempty"`
	IncidentDate *time.Time `json:"incident_date,omitempty"`
	Severity     *string    `json:"severity,omitempty"`
	Status       *string    `json:"status,omitempty"`
}

type RejectIncidentRequest struct {
	Reason string `json:"reason"`
}

type AddEvidenceRequest struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
}

type HeatmapPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Intensity float64 `json:"intensity"`
	Severity  string  `json:"severity"`
}
