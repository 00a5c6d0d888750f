package services

import (
	"database/sql"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/geoincidents/backend/internal/config"
	"github.com/geoincidents/backend/internal/models"
	"github.com/geoincidents/backend/internal/realtime"
	"github.com/geoincidents/backend/internal/repository"
	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlite ships none of the trig or clamp functions the distance query relies
// on, so the test driver registers Go implementations on every connection.
var registerMathDriver sync.Once

func mathDriverName() string {
	registerMathDriver.Do(func() {
		sql.Register("sqlite3_math", &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				funcs := map[string]interface{}{
					"acos":     math.Acos,
					"cos":      math.Cos,
					"sin":      math.Sin,
					"radians":  func(deg float64) float64 { return deg * math.Pi / 180 },
					"least":    math.Min,
					"greatest": math.Max,
				}
				for name, fn := range funcs {
					if err := conn.RegisterFunc(name, fn, true); err != nil {
						return err
					}
				}
				return nil
			},
		})
	})
	return "sqlite3_math"
}

// testDB opens a fresh in-memory database with the full schema migrated.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(&sqlite.Dialector{
		DriverName: mathDriverName(),
		DSN:        "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Incident{},
		&models.Evidence{},
		&models.Notification{},
		&models.RiskZone{},
		&models.Prediction{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

type fixture struct {
	db            *gorm.DB
	hub           *realtime.Hub
	auth          *AuthService
	categories    *CategoryService
	incidents     *IncidentService
	notifications *NotificationService

	categoryRepo     repository.CategoryRepository
	incidentRepo     repository.IncidentRepository
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testDB(t)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	incidentRepo := repository.NewIncidentRepository(db)
	evidenceRepo := repository.NewEvidenceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	hub := realtime.NewHub()

	return &fixture{
		db:               db,
		hub:              hub,
		auth:             NewAuthService(userRepo, testConfig()),
		categories:       NewCategoryService(categoryRepo),
		incidents:        NewIncidentService(incidentRepo, categoryRepo, evidenceRepo, notificationRepo, hub),
		notifications:    NewNotificationService(notificationRepo),
		categoryRepo:     categoryRepo,
		incidentRepo:     incidentRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

func (f *fixture) mustCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	category := &models.Category{ID: uuid.New(), Name: name, IsActive: true}
	require.NoError(t, f.db.Create(category).Error)
	return category
}

func (f *fixture) mustUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "x",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}
