package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/geoincidents/backend/internal/config"
	"github.com/geoincidents/backend/internal/repository"
)

const (
	mlGridSize       = 0.005
	mlTimeWindowDays = 30
)

// MLClient talks to the external risk-analysis service over HTTP.
type MLClient struct {
	baseURL string
	http    *http.Client
}

func NewMLClient(cfg *config.Config) *MLClient {
	return &MLClient{
		baseURL: cfg.MLServiceURL,
		http:    &http.Client{Timeout: cfg.MLTimeout},
	}
}

type mlRiskZoneRequest struct {
	Incidents      []repository.IncidentPoint `json:"incidents"`
	GridSize       float64                    `json:"grid_size"`
	TimeWindowDays int                        `json:"time_window_days"`
}

type mlCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type mlRiskZone struct {
	Polygon              []mlCoordinate   `json:"polygon"`
	RiskLevel            string           `json:"risk_level"`
	IncidentCount        int              `json:"incident_count"`
	PredictionConfidence float64          `json:"prediction_confidence"`
	CategoryBreakdown    map[string]int64 `json:"category_breakdown"`
}

type mlRiskZoneResponse struct {
	RiskZones          []mlRiskZone `json:"risk_zones"`
	ModelVersion       string       `json:"model_version"`
	AnalysisPeriodDays int          `json:"analysis_period_days"`
}

// PredictRiskZones ships validated incident points to the analysis service and
// returns its clustered risk zones.
func (c *MLClient) PredictRiskZones(ctx context.Context, points []repository.IncidentPoint) (*mlRiskZoneResponse, error) {
	body, err := json.Marshal(mlRiskZoneRequest{
		Incidents:      points,
		GridSize:       mlGridSize,
		TimeWindowDays: mlTimeWindowDays,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode risk-zone request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/predict/risk-zones", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("risk-zone request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("risk-zone request returned status %d", resp.StatusCode)
	}

	var out mlRiskZoneResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode risk-zone response: %w", err)
	}
	return &out, nil
}
