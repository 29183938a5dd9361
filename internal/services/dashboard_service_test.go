// internal/services/dashboard_service_test.go
package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom-backend/internal/models"
)

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	notifications := NewNotificationService(db)
	stock := NewStockService(db, notifications)
	orders := NewOrderService(db, stock, notifications)
	sales := NewSaleService(db, stock)
	dashboard := NewDashboardService(db)

	category := createTestCategory(t, db, "Shirts")
	shirt := createTestProduct(t, db, category.ID, "SHT-001", 10, 0, "25.00")
	createTestProduct(t, db, category.ID, "SHT-LOW", 2, 5, "30.00")

	inactive := createTestProduct(t, db, category.ID, "SHT-OLD", 4, 0, "10.00")
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", inactive.ID).
		UpdateColumn("is_active", false).Error)

	_, err := orders.Create(&CreateOrderRequest{
		CustomerName: "Ayesha",
		Items:        []OrderItemRequest{{ProductID: shirt.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = sales.Sell(&SellRequest{ProductID: shirt.ID, Quantity: 1}, nil)
	require.NoError(t, err)

	stats, err := dashboard.Stats()
	require.NoError(t, err)

	// Active products only.
	assert.EqualValues(t, 2, stats.TotalProducts)

	// 7 shirts left (10 - 2 ordered - 1 sold) + 2 low + 4 inactive.
	assert.EqualValues(t, 13, stats.TotalStock)

	// 7*25.00 + 2*30.00 + 4*10.00
	assert.True(t, stats.InventoryValue.Equal(decimal.RequireFromString("275.00")),
		"inventory value was %s", stats.InventoryValue)

	assert.EqualValues(t, 1, stats.LowStockCount)
	require.Len(t, stats.LowStockItems, 1)
	assert.Equal(t, "SHT-LOW", stats.LowStockItems[0].SKU)

	assert.EqualValues(t, 1, stats.PendingOrders)
	require.Len(t, stats.RecentOrders, 1)

	assert.EqualValues(t, 1, stats.TotalSalesCount)
	assert.True(t, stats.TotalSalesAmount.Equal(decimal.RequireFromString("25.00")))
	require.Len(t, stats.RecentSales, 1)

	// new_order from the order above; the low-stock shirt never moved, so
	// no low_stock row yet.
	assert.NotEmpty(t, stats.UnreadNotifications)
}

func TestDashboardStatsEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	dashboard := NewDashboardService(db)

	stats, err := dashboard.Stats()
	require.NoError(t, err)

	assert.EqualValues(t, 0, stats.TotalProducts)
	assert.EqualValues(t, 0, stats.TotalStock)
	assert.True(t, stats.InventoryValue.IsZero())
	assert.True(t, stats.TotalSalesAmount.IsZero())
	assert.Empty(t, stats.LowStockItems)
	assert.Empty(t, stats.RecentOrders)
}
