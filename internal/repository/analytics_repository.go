package repository

import (
	"github.com/geoincidents/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) RiskZones() ([]models.RiskZone, error) {
	var zones []models.RiskZone
	err := r.db.Order("risk_level DESC, total_incidents DESC").Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

// ReplaceRiskZones swaps the full analytics result set in one transaction:
// predictions reference zones, so both tables are cleared and rewritten
// together.
func (r *analyticsRepository) ReplaceRiskZones(zones []models.RiskZone, predictions []models.Prediction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Prediction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.RiskZone{}).Error; err != nil {
			return err
		}
		if len(zones) > 0 {
			if err := tx.CreateInBatches(zones, 50).Error; err != nil {
				return err
			}
		}
		if len(predictions) > 0 {
			if err := tx.CreateInBatches(predictions, 50).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *analyticsRepository) Predictions(zoneID, categoryID *uuid.UUID, limit int) ([]models.Prediction, error) {
	query := r.db.Model(&models.Prediction{}).Preload("Zone").Preload("Category")
	if zoneID != nil {
		query = query.Where("zone_id = ?", *zoneID)
	}
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var predictions []models.Prediction
	err := query.Order("probability DESC").Limit(limit).Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}
