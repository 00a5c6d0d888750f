package logging

import (
	"testing"
	"time"

	"github.com/geoincidents/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPurgeOldLogsHonorsRetention(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SystemLog{}))

	stale := &models.SystemLog{ID: uuid.New(), Level: "ERROR", Message: "stale", Timestamp: time.Now().AddDate(0, 0, -10)}
	recent := &models.SystemLog{ID: uuid.New(), Level: "ERROR", Message: "recent", Timestamp: time.Now()}
	require.NoError(t, db.Create(stale).Error)
	require.NoError(t, db.Create(recent).Error)

	purgeOldLogs(db, 7)

	var remaining []models.SystemLog
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent", remaining[0].Message)
}
