// Package seed loads the baseline dataset: the incident categories, a
// bootstrap admin, a demo citizen and a handful of sample reports around
// Puno. Every write is a FirstOrCreate, so running it twice is harmless.
package seed

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/geoincidents/backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type categorySeed struct {
	name  string
	icon  string
	color string
}

var defaultCategories = []categorySeed{
	{"Robo", "shield-alert", "#E53935"},
	{"Vandalismo", "spray-can", "#8E24AA"},
	{"Acoso", "account-alert", "#D81B60"},
	{"Accidente de tránsito", "car-emergency", "#FB8C00"},
	{"Alumbrado público", "lightbulb-off", "#FDD835"},
	{"Venta de drogas", "pill", "#6D4C41"},
	{"Ruidos molestos", "volume-high", "#43A047"},
	{"Otros", "dots-horizontal", "#757575"},
}

// Run is idempotent and safe to call on every boot.
func Run(db *gorm.DB) error {
	if err := seedCategories(db); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	admin, err := seedUser(db, "admin@geoincidents.local", "admin123", "Admin", "General", models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	citizen, err := seedUser(db, "demo@geoincidents.local", "demo123", "Demo", "Ciudadano", models.RoleCitizen)
	if err != nil {
		return fmt.Errorf("seed citizen: %w", err)
	}

	if err := seedIncidents(db, admin, citizen); err != nil {
		return fmt.Errorf("seed incidents: %w", err)
	}

	slog.Info("seed data loaded")
	return nil
}

func seedCategories(db *gorm.DB) error {
	for i, c := range defaultCategories {
		category := models.Category{
			ID:       uuid.New(),
			Name:     c.name,
			Icon:     c.icon,
			Color:    c.color,
			Order:    i,
			IsActive: true,
		}
		if err := db.Where("name = ?", c.name).FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUser(db *gorm.DB, email, password, firstName, lastName, role string) (*models.User, error) {
	// Hash before FirstOrCreate; with no save hook an existing row is
	// returned untouched and a new row gets exactly one round of bcrypt.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hash),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		IsActive:  true,
	}
	if err := db.Where("email = ?", email).FirstOrCreate(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func seedIncidents(db *gorm.DB, admin, citizen *models.User) error {
	var count int64
	if err := db.Model(&models.Incident{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var robo, alumbrado models.Category
	if err := db.First(&robo, "name = ?", "Robo").Error; err != nil {
		return err
	}
	if err := db.First(&alumbrado, "name = ?", "Alumbrado público").Error; err != nil {
		return err
	}

	now := time.Now()
	validatedAt := now.Add(-12 * time.Hour)
	incidents := []models.Incident{
		{
			ID:           uuid.New(),
			UserID:       &citizen.ID,
			CategoryID:   robo.ID,
			Title:        "Robo de celular en el Jr. Lima",
			Description:  "Dos personas en moto arrebataron un celular cerca de la plaza.",
			Latitude:     -15.8402,
			Longitude:    -70.0219,
			IncidentDate: now.Add(-24 * time.Hour),
			Status:       models.StatusValidated,
			Severity:     models.SeverityHigh,
			ValidatedBy:  &admin.ID,
			ValidatedAt:  &validatedAt,
		},
		{
			ID:           uuid.New(),
			UserID:       &citizen.ID,
			CategoryID:   alumbrado.ID,
			Title:        "Poste sin luz frente al mercado central",
			Description:  "La cuadra queda completamente oscura desde hace una semana.",
			Latitude:     -15.8367,
			Longitude:    -70.0178,
			IncidentDate: now.Add(-48 * time.Hour),
			Status:       models.StatusPending,
			Severity:     models.SeverityMedium,
		},
		{
			ID:           uuid.New(),
			CategoryID:   robo.ID,
			Title:        "Intento de robo a transeúnte",
			Description:  "Reporte anónimo de un intento de asalto en la avenida El Sol.",
			Latitude:     -15.8431,
			Longitude:    -70.0254,
			IncidentDate: now.Add(-6 * time.Hour),
			Status:       models.StatusPending,
			Severity:     models.SeverityHigh,
			IsAnonymous:  true,
		},
	}

	return db.Create(&incidents).Error
}
