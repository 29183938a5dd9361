// internal/services/stock_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/models"
)

// StockService is the single authority for mutating Product.Stock. Both the
// order pipeline and the sales register go through Decrement; nothing else
// writes the stock column.
type StockService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewStockService(db *gorm.DB, notifications *NotificationService) *StockService {
	return &StockService{
		db:            db,
		notifications: notifications,
	}
}

// Decrement atomically subtracts quantity from the product's stock, but
// only if enough is on hand. The guard lives in the UPDATE itself
// (stock >= quantity), so two near-simultaneous requests cannot race the
// stock below zero. Returns the reloaded product and whether the decrement
// happened; an unfulfilled decrement is a business outcome, not an error.
//
// When the decrement succeeds and the resulting level is at or below the
// reorder threshold, a low_stock notification is written in the same
// transaction.
func (s *StockService) Decrement(tx *gorm.DB, productID uuid.UUID, quantity int) (*models.Product, bool, error) {
	if quantity <= 0 {
		return nil, false, NewValidationError("quantity", "quantity must be positive")
	}

	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to decrement stock: %w", result.Error)
	}

	var product models.Product
	if err := tx.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, &NotFoundError{Resource: "product"}
		}
		return nil, false, fmt.Errorf("database error: %w", err)
	}

	if result.RowsAffected == 0 {
		// Insufficient stock; nothing was mutated. The caller decides
		// whether that is a rejection (sales) or a recorded shortfall
		// (orders).
		return &product, false, nil
	}

	if product.LowStock() {
		if err := s.notifications.NotifyLowStock(tx, &product); err != nil {
			return nil, false, err
		}
	}

	return &product, true, nil
}
