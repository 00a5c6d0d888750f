package repository

import (
	"errors"
	"time"

	"github.com/geoincidents/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// distanceExpr is the spherical law of cosines evaluated per row, in
// kilometers. The acos argument is clamped to [-1, 1] because floating-point
// rounding can push it out of domain for rows at (or very near) the query
// point. Placeholders: query latitude, query longitude, query latitude.
const distanceExpr = `(6371 * acos(LEAST(1.0, GREATEST(-1.0,` +
	` cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?))` +
	` + sin(radians(?)) * sin(radians(latitude))))))`

type incidentRepository struct {
	db *gorm.DB
}

func NewIncidentRepository(db *gorm.DB) IncidentRepository {
	return &incidentRepository{db: db}
}

func (r *incidentRepository) Create(incident *models.Incident) error {
	return r.db.Create(incident).Error
}

func (r *incidentRepository) FindByID(id uuid.UUID) (*models.Incident, error) {
	var incident models.Incident
	err := r.db.
		Preload("Category").
		Preload("User").
		Preload("Validator").
		Preload("Evidences").
		First(&incident, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

func applyFilter(query *gorm.DB, f IncidentFilter) *gorm.DB {
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Severity != "" {
		query = query.Where("severity = ?", f.Severity)
	}
	switch {
	case f.StartDate != nil && f.EndDate != nil:
		query = query.Where("incident_date BETWEEN ? AND ?", *f.StartDate, *f.EndDate)
	case f.StartDate != nil:
		query = query.Where("incident_date >= ?", *f.StartDate)
	case f.EndDate != nil:
		query = query.Where("incident_date <= ?", *f.EndDate)
	}
	if f.Bounds != nil {
		query = query.
			Where("latitude BETWEEN ? AND ?", f.Bounds.South, f.Bounds.North).
			Where("longitude BETWEEN ? AND ?", f.Bounds.West, f.Bounds.East)
	}
	return query
}

func (r *incidentRepository) Find(filter IncidentFilter, page, limit int) ([]models.Incident, int64, error) {
	query := applyFilter(r.db.Model(&models.Incident{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var incidents []models.Incident
	err := query.
		Preload("Category").
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&incidents).Error
	if err != nil {
		return nil, 0, err
	}
	return incidents, total, nil
}

// NearbyValidated filters and orders by great-circle distance inside the
// query, then hydrates the matching incidents in one follow-up select so the
// usual preloads apply.
func (r *incidentRepository) NearbyValidated(lat, lon, radiusKm float64, limit int) ([]NearbyIncident, error) {
	type nearbyRow struct {
		ID       uuid.UUID `gorm:"column:id"`
		Distance float64   `gorm:"column:distance"`
	}

	var rows []nearbyRow
	err := r.db.Raw(
		`SELECT id, `+distanceExpr+` AS distance`+
			` FROM incidents`+
			` WHERE status = ? AND `+distanceExpr+` <= ?`+
			` ORDER BY distance ASC LIMIT ?`,
		lat, lon, lat,
		models.StatusValidated,
		lat, lon, lat, radiusKm,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []NearbyIncident{}, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var incidents []models.Incident
	if err := r.db.Preload("Category").Find(&incidents, "id IN ?", ids).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Incident, len(incidents))
	for _, incident := range incidents {
		byID[incident.ID] = incident
	}

	result := make([]NearbyIncident, 0, len(rows))
	for _, row := range rows {
		incident, ok := byID[row.ID]
		if !ok {
			continue
		}
		result = append(result, NearbyIncident{Incident: incident, DistanceKm: row.Distance})
	}
	return result, nil
}

func (r *incidentRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.Incident{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

// Delete removes the incident and its evidence rows in one transaction.
func (r *incidentRepository) Delete(id uuid.UUID) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("incident_id = ?", id).Delete(&models.Evidence{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Incident{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}

func (r *incidentRepository) HeatmapRows(filter IncidentFilter) ([]models.Incident, error) {
	filter.Status = models.StatusValidated

	var incidents []models.Incident
	err := applyFilter(r.db.Model(&models.Incident{}), filter).
		Select("latitude", "longitude", "severity").
		Find(&incidents).Error
	if err != nil {
		return nil, err
	}
	return incidents, nil
}

func (r *incidentRepository) StatsByCategory() ([]CategoryStats, error) {
	var stats []CategoryStats
	err := r.db.Raw(
		`SELECT c.id AS category_id, c.name, c.color, c.icon,` +
			` COUNT(i.id) AS total,` +
			` COUNT(CASE WHEN i.status = 'validated' THEN 1 END) AS validated,` +
			` COUNT(CASE WHEN i.status = 'pending' THEN 1 END) AS pending` +
			` FROM incidents i` +
			` JOIN categories c ON c.id = i.category_id` +
			` GROUP BY c.id, c.name, c.color, c.icon` +
			` ORDER BY total DESC`,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// TemporalStats buckets validated incidents by truncating incident_date.
// Bucket must be hour, day, or month; anything else falls back to day.
func (r *incidentRepository) TemporalStats(bucket string, start, end *time.Time) ([]TemporalBucket, error) {
	var format string
	switch bucket {
	case "hour":
		format = "YYYY-MM-DD HH24"
	case "month":
		format = "YYYY-MM"
	default:
		format = "YYYY-MM-DD"
	}

	query := r.db.Model(&models.Incident{}).Where("status = ?", models.StatusValidated)
	if start != nil && end != nil {
		query = query.Where("incident_date BETWEEN ? AND ?", *start, *end)
	}

	var buckets []TemporalBucket
	err := query.
		Select("TO_CHAR(incident_date, ?) AS period, COUNT(*) AS total", format).
		Group("period").
		Order("period ASC").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

// IncrementViewCount bumps the counter in a single UPDATE so concurrent
// readers never lose increments.
func (r *incidentRepository) IncrementViewCount(id uuid.UUID) error {
	return r.db.Model(&models.Incident{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// ValidatedPoints returns the validated incident coordinates shipped to the
// ML service for risk-zone analysis.
func (r *incidentRepository) ValidatedPoints() ([]IncidentPoint, error) {
	var points []IncidentPoint
	err := r.db.Raw(
		`SELECT i.id, i.latitude, i.longitude, c.name AS category, i.severity, i.incident_date`+
			` FROM incidents i`+
			` JOIN categories c ON c.id = i.category_id`+
			` WHERE i.status = ?`+
			` ORDER BY i.incident_date ASC`,
		models.StatusValidated,
	).Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}
