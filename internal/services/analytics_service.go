package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/geoincidents/backend/internal/apperr"
	"github.com/geoincidents/backend/internal/dto"
	"github.com/geoincidents/backend/internal/models"
	"github.com/geoincidents/backend/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const fallbackModelVersion = "risk-grid-v1"

type AnalyticsService struct {
	analytics repository.AnalyticsRepository
	incidents repository.IncidentRepository
	ml        *MLClient
}

func NewAnalyticsService(
	analytics repository.AnalyticsRepository,
	incidents repository.IncidentRepository,
	ml *MLClient,
) *AnalyticsService {
	return &AnalyticsService{analytics: analytics, incidents: incidents, ml: ml}
}

func (s *AnalyticsService) RiskZones() ([]models.RiskZone, error) {
	return s.analytics.RiskZones()
}

func (s *AnalyticsService) Predictions(zoneID, categoryID *uuid.UUID, limit int) ([]models.Prediction, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return s.analytics.Predictions(zoneID, categoryID, limit)
}

// Refresh sends every validated incident to the ML service and replaces the
// stored risk zones and predictions with the new result set.
func (s *AnalyticsService) Refresh(ctx context.Context) (*dto.RefreshAnalyticsResponse, error) {
	points, err := s.incidents.ValidatedPoints()
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, apperr.Validation("no validated incidents to analyze")
	}

	result, err := s.ml.PredictRiskZones(ctx, points)
	if err != nil {
		slog.Error("Risk-zone analysis failed", "error", err)
		return nil, apperr.New(fiber.StatusServiceUnavailable, "analysis service unavailable")
	}

	modelVersion := result.ModelVersion
	if modelVersion == "" {
		modelVersion = fallbackModelVersion
	}

	now := time.Now()
	zones := make([]models.RiskZone, 0, len(result.RiskZones))
	predictions := make([]models.Prediction, 0, len(result.RiskZones))
	for i, zone := range result.RiskZones {
		polygon, err := json.Marshal(zone.Polygon)
		if err != nil {
			return nil, fmt.Errorf("failed to encode zone polygon: %w", err)
		}

		zoneID := uuid.New()
		zones = append(zones, models.RiskZone{
			ID:               zoneID,
			Name:             fmt.Sprintf("Risk zone %d", i+1),
			Polygon:          datatypes.JSON(polygon),
			RiskLevel:        normalizeRiskLevel(zone.RiskLevel),
			TotalIncidents:   zone.IncidentCount,
			LastCalculatedAt: now,
		})

		lat, lon := polygonCentroid(zone.Polygon)
		features, err := json.Marshal(map[string]interface{}{
			"incident_count":     zone.IncidentCount,
			"category_breakdown": zone.CategoryBreakdown,
			"grid_size":          mlGridSize,
			"time_window_days":   mlTimeWindowDays,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode prediction features: %w", err)
		}

		predictions = append(predictions, models.Prediction{
			ID:            uuid.New(),
			ZoneID:        &zoneID,
			Latitude:      lat,
			Longitude:     lon,
			Probability:   clampProbability(zone.PredictionConfidence),
			PredictedDate: now.AddDate(0, 0, 7),
			ModelVersion:  modelVersion,
			Features:      datatypes.JSON(features),
		})
	}

	if err := s.analytics.ReplaceRiskZones(zones, predictions); err != nil {
		return nil, err
	}

	return &dto.RefreshAnalyticsResponse{
		ZonesStored:       len(zones),
		PredictionsStored: len(predictions),
		IncidentsAnalyzed: len(points),
		ModelVersion:      modelVersion,
	}, nil
}

func normalizeRiskLevel(level string) string {
	switch level {
	case models.RiskLow, models.RiskModerate, models.RiskHigh, models.RiskVeryHigh, models.RiskCritical:
		return level
	}
	return models.RiskModerate
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func polygonCentroid(coords []mlCoordinate) (float64, float64) {
	if len(coords) == 0 {
		return 0, 0
	}
	var lat, lon float64
	for _, c := range coords {
		lat += c.Latitude
		lon += c.Longitude
	}
	n := float64(len(coords))
	return lat / n, lon / n
}
