// internal/services/stock_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom-backend/internal/models"
)

func TestStockDecrement(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db, NewNotificationService(db))
	category := createTestCategory(t, db, "Shirts")

	t.Run("decrements when enough on hand", func(t *testing.T) {
		product := createTestProduct(t, db, category.ID, "SHT-001", 10, 0, "25.00")

		updated, ok, err := stock.Decrement(db, product.ID, 4)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 6, updated.Stock)
		assert.Equal(t, 6, reloadProduct(t, db, product.ID).Stock)
	})

	t.Run("refuses when quantity exceeds stock", func(t *testing.T) {
		product := createTestProduct(t, db, category.ID, "SHT-002", 3, 0, "25.00")

		updated, ok, err := stock.Decrement(db, product.ID, 5)
		require.NoError(t, err)
		assert.False(t, ok)
		// Nothing was mutated.
		assert.Equal(t, 3, updated.Stock)
		assert.Equal(t, 3, reloadProduct(t, db, product.ID).Stock)
	})

	t.Run("drains stock to exactly zero", func(t *testing.T) {
		product := createTestProduct(t, db, category.ID, "SHT-003", 5, 0, "25.00")

		updated, ok, err := stock.Decrement(db, product.ID, 5)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0, updated.Stock)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		product := createTestProduct(t, db, category.ID, "SHT-004", 5, 0, "25.00")

		_, _, err := stock.Decrement(db, product.ID, 0)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)

		_, _, err = stock.Decrement(db, product.ID, -2)
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, _, err := stock.Decrement(db, uuid.New(), 1)
		var notFoundErr *NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})
}

func TestStockDecrementLowStockAlert(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(db, NewNotificationService(db))
	category := createTestCategory(t, db, "Pants")

	t.Run("alerts when level lands on the threshold", func(t *testing.T) {
		product := createTestProduct(t, db, category.ID, "PNT-001", 6, 5, "40.00")

		_, ok, err := stock.Decrement(db, product.ID, 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.EqualValues(t, 1, countNotifications(t, db, models.NotificationTypeLowStock))
	})

	t.Run("no alert while above the threshold", func(t *testing.T) {
		product := createTestProduct(t, db, category.ID, "PNT-002", 10, 5, "40.00")

		_, ok, err := stock.Decrement(db, product.ID, 4)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.EqualValues(t, 1, countNotifications(t, db, models.NotificationTypeLowStock))
	})

	t.Run("zero threshold never alerts", func(t *testing.T) {
		product := createTestProduct(t, db, category.ID, "PNT-003", 2, 0, "40.00")

		_, ok, err := stock.Decrement(db, product.ID, 2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.EqualValues(t, 1, countNotifications(t, db, models.NotificationTypeLowStock))
	})

	t.Run("failed decrement does not alert", func(t *testing.T) {
		product := createTestProduct(t, db, category.ID, "PNT-004", 2, 5, "40.00")

		_, ok, err := stock.Decrement(db, product.ID, 10)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.EqualValues(t, 1, countNotifications(t, db, models.NotificationTypeLowStock))
	})
}
