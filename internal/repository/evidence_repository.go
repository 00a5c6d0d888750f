package repository

import (
	"github.com/geoincidents/backend/internal/models"
	"gorm.io/gorm"
)

type evidenceRepository struct {
	db *gorm.DB
}

func NewEvidenceRepository(db *gorm.DB) EvidenceRepository {
	return &evidenceRepository{db: db}
}

func (r *evidenceRepository) Create(evidence *models.Evidence) error {
	return r.db.Create(evidence).Error
}
