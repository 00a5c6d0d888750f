package services

import (
	"testing"

	"github.com/geoincidents/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) mustNotification(t *testing.T, userID uuid.UUID) *models.Notification {
	t.Helper()
	n := &models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    models.NotifSystem,
		Title:   "Aviso",
		Message: "Mensaje de prueba",
	}
	require.NoError(t, f.db.Create(n).Error)
	return n
}

func TestMarkReadSetsReadAtOnce(t *testing.T) {
	f := newFixture(t)
	user := f.mustUser(t, "citizen@example.com", models.RoleCitizen)
	n := f.mustNotification(t, user.ID)

	first, err := f.notifications.MarkRead(n.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, first.IsRead)
	require.NotNil(t, first.ReadAt)

	// A second mark is a no-op and keeps the original timestamp.
	second, err := f.notifications.MarkRead(n.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ReadAt.Unix(), second.ReadAt.Unix())
}

func TestMarkReadHidesForeignNotifications(t *testing.T) {
	f := newFixture(t)
	owner := f.mustUser(t, "owner@example.com", models.RoleCitizen)
	intruder := f.mustUser(t, "intruder@example.com", models.RoleCitizen)
	n := f.mustNotification(t, owner.ID)

	_, err := f.notifications.MarkRead(n.ID, intruder.ID)
	require.Error(t, err, "foreign notifications read as not found")
}

func TestMarkAllReadAndUnreadCount(t *testing.T) {
	f := newFixture(t)
	user := f.mustUser(t, "citizen@example.com", models.RoleCitizen)
	f.mustNotification(t, user.ID)
	f.mustNotification(t, user.ID)
	f.mustNotification(t, user.ID)

	count, err := f.notifications.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	updated, err := f.notifications.MarkAllRead(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	count, err = f.notifications.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListUnreadOnly(t *testing.T) {
	f := newFixture(t)
	user := f.mustUser(t, "citizen@example.com", models.RoleCitizen)
	read := f.mustNotification(t, user.ID)
	f.mustNotification(t, user.ID)

	_, err := f.notifications.MarkRead(read.ID, user.ID)
	require.NoError(t, err)

	unread, pagination, err := f.notifications.List(user.ID, true, 1, 20)
	require.NoError(t, err)
	assert.Len(t, unread, 1)
	assert.Equal(t, int64(1), pagination.Total)

	all, _, err := f.notifications.List(user.ID, false, 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
