// internal/services/dashboard_service.go
package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/models"
)

// DashboardService aggregates the numbers the back-office landing page
// shows. Everything is computed from live rows; nothing here is cached.
type DashboardService struct {
	db *gorm.DB
}

type DashboardStats struct {
	TotalProducts       int64                 `json:"total_products"`
	TotalStock          int64                 `json:"total_stock"`
	InventoryValue      decimal.Decimal       `json:"inventory_value"`
	LowStockCount       int64                 `json:"low_stock_count"`
	LowStockItems       []ProductView         `json:"low_stock_items"`
	RecentProducts      []models.Product      `json:"recent_products"`
	PendingOrders       int64                 `json:"pending_orders"`
	RecentOrders        []models.Order        `json:"recent_orders"`
	UnreadNotifications []models.Notification `json:"unread_notifications"`
	TotalSalesCount     int64                 `json:"total_sales_count"`
	TotalSalesAmount    decimal.Decimal       `json:"total_sales_amount"`
	RecentSales         []models.Sale         `json:"recent_sales"`
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

func (s *DashboardService) Stats() (*DashboardStats, error) {
	stats := &DashboardStats{
		InventoryValue:   decimal.Zero,
		TotalSalesAmount: decimal.Zero,
	}

	if err := s.db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var totalStock *int64
	if err := s.db.Model(&models.Product{}).
		Select("SUM(stock)").Scan(&totalStock).Error; err != nil {
		return nil, fmt.Errorf("failed to sum stock: %w", err)
	}
	if totalStock != nil {
		stats.TotalStock = *totalStock
	}

	// Inventory value is summed in Go so decimal arithmetic stays exact
	// across database engines.
	var products []models.Product
	if err := s.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for i := range products {
		stats.InventoryValue = stats.InventoryValue.Add(products[i].InventoryValue())
	}

	lowStock := s.db.Model(&models.Product{}).
		Where("reorder_threshold > 0 AND stock <= reorder_threshold")
	if err := lowStock.Count(&stats.LowStockCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count low-stock products: %w", err)
	}

	var lowStockProducts []models.Product
	if err := s.db.Preload("Category").
		Where("reorder_threshold > 0 AND stock <= reorder_threshold").
		Order("stock ASC").Limit(10).
		Find(&lowStockProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch low-stock products: %w", err)
	}
	for i := range lowStockProducts {
		stats.LowStockItems = append(stats.LowStockItems, newProductView(&lowStockProducts[i]))
	}

	if err := s.db.Order("created_at DESC").Limit(10).
		Find(&stats.RecentProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent products: %w", err)
	}

	if err := s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	if err := s.db.Preload("Items").Order("created_at DESC").Limit(5).
		Find(&stats.RecentOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent orders: %w", err)
	}

	if err := s.db.Where("is_read = ?", false).
		Order("created_at DESC").Limit(5).
		Find(&stats.UnreadNotifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch unread notifications: %w", err)
	}

	if err := s.db.Model(&models.Sale{}).Count(&stats.TotalSalesCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	var sales []models.Sale
	if err := s.db.Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	for i := range sales {
		stats.TotalSalesAmount = stats.TotalSalesAmount.Add(sales[i].TotalAmount)
	}

	if err := s.db.Preload("Product").Order("created_at DESC").Limit(5).
		Find(&stats.RecentSales).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent sales: %w", err)
	}

	return stats, nil
}
