// internal/services/notification_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/models"
)

func seedNotification(t *testing.T, db *gorm.DB, nType models.NotificationType, read bool) *models.Notification {
	t.Helper()

	n := &models.Notification{
		Type:    nType,
		Title:   "Test " + string(nType),
		Message: "test message",
		IsRead:  read,
	}
	require.NoError(t, db.Create(n).Error)
	return n
}

func TestNotificationMarkReadUnread(t *testing.T) {
	db := newTestDB(t)
	notifications := NewNotificationService(db)
	n := seedNotification(t, db, models.NotificationTypeNewOrder, false)

	marked, err := notifications.MarkRead(n.ID)
	require.NoError(t, err)
	assert.True(t, marked.IsRead)

	// Marking twice is a no-op, not an error.
	marked, err = notifications.MarkRead(n.ID)
	require.NoError(t, err)
	assert.True(t, marked.IsRead)

	cleared, err := notifications.MarkUnread(n.ID)
	require.NoError(t, err)
	assert.False(t, cleared.IsRead)

	cleared, err = notifications.MarkUnread(n.ID)
	require.NoError(t, err)
	assert.False(t, cleared.IsRead)

	var notFoundErr *NotFoundError
	_, err = notifications.MarkRead(uuid.New())
	require.ErrorAs(t, err, &notFoundErr)
}

func TestNotificationUnreadCount(t *testing.T) {
	db := newTestDB(t)
	notifications := NewNotificationService(db)

	seedNotification(t, db, models.NotificationTypeNewOrder, false)
	seedNotification(t, db, models.NotificationTypeLowStock, false)
	read := seedNotification(t, db, models.NotificationTypeOrderStatus, true)

	count, err := notifications.UnreadCount()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	_, err = notifications.MarkUnread(read.ID)
	require.NoError(t, err)

	count, err = notifications.UnreadCount()
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestNotificationListFilters(t *testing.T) {
	db := newTestDB(t)
	notifications := NewNotificationService(db)

	seedNotification(t, db, models.NotificationTypeNewOrder, false)
	seedNotification(t, db, models.NotificationTypeNewOrder, true)
	seedNotification(t, db, models.NotificationTypeLowStock, false)

	newOrder := models.NotificationTypeNewOrder
	_, total, err := notifications.List(NotificationSearchParams{
		PaginationParams: defaultParams(),
		Type:             &newOrder,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	unread := false
	_, total, err = notifications.List(NotificationSearchParams{
		PaginationParams: defaultParams(),
		IsRead:           &unread,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	listed, total, err := notifications.List(NotificationSearchParams{
		PaginationParams: defaultParams(),
		Type:             &newOrder,
		IsRead:           &unread,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, listed, 1)
	assert.Equal(t, models.NotificationTypeNewOrder, listed[0].Type)
	assert.False(t, listed[0].IsRead)
}
