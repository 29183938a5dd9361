// internal/services/sale_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/models"
	"github.com/stockroomhq/stockroom-backend/internal/utils"
)

// SaleService records completed point-of-sale transactions. Unlike the
// order pipeline, a sale is refused up front when stock cannot cover it;
// no Sale row or stock change is recorded for unmet demand.
type SaleService struct {
	db    *gorm.DB
	stock *StockService
}

type SellRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type SellResult struct {
	Sale           *models.Sale `json:"sale"`
	RemainingStock int          `json:"remaining_stock"`
}

type SaleSearchParams struct {
	utils.PaginationParams
}

// SaleListResult carries the page of sales plus the page-level summary the
// sales screen shows (amount and units sold on this page).
type SaleListResult struct {
	Sales           []models.Sale   `json:"sales"`
	Total           int64           `json:"total"`
	PageTotalAmount decimal.Decimal `json:"page_total_amount"`
	PageItemsSold   int             `json:"page_items_sold"`
}

func NewSaleService(db *gorm.DB, stock *StockService) *SaleService {
	return &SaleService{db: db, stock: stock}
}

// Sell validates that the product is active and has enough stock, then
// decrements and records the sale in one transaction. The decrement is
// guaranteed to succeed after the precondition check unless a concurrent
// writer got there first, in which case the conditional update catches it
// and the sale is refused the same way.
func (s *SaleService) Sell(req *SellRequest, actorID *uuid.UUID) (*SellResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, NewValidationError("quantity", "quantity must be positive")
	}

	var result *SellResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "product"}
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !product.IsActive {
			return NewValidationError("product_id", fmt.Sprintf("product %q is not active", product.Name))
		}
		if product.Stock < req.Quantity {
			return NewValidationError("quantity",
				fmt.Sprintf("insufficient stock: only %d available", product.Stock))
		}

		updated, ok, err := s.stock.Decrement(tx, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			// Lost a race between the check and the decrement.
			return NewValidationError("quantity",
				fmt.Sprintf("insufficient stock: only %d available", updated.Stock))
		}

		sale := &models.Sale{
			ProductID:   product.ID,
			Quantity:    req.Quantity,
			UnitPrice:   product.Price,
			TotalAmount: product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
			CreatedByID: actorID,
		}

		if err := tx.Create(sale).Error; err != nil {
			return fmt.Errorf("failed to record sale: %w", err)
		}

		sale.Product = *updated
		result = &SellResult{Sale: sale, RemainingStock: updated.Stock}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *SaleService) List(params SaleSearchParams) (*SaleListResult, error) {
	query := s.db.Model(&models.Sale{}).Preload("Product").Preload("CreatedBy")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "total_amount", "quantity"})
	query = utils.ApplyPagination(query, params.PaginationParams)

	var sales []models.Sale
	if err := query.Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sales: %w", err)
	}

	pageAmount := decimal.Zero
	pageItems := 0
	for i := range sales {
		pageAmount = pageAmount.Add(sales[i].TotalAmount)
		pageItems += sales[i].Quantity
	}

	return &SaleListResult{
		Sales:           sales,
		Total:           total,
		PageTotalAmount: pageAmount,
		PageItemsSold:   pageItems,
	}, nil
}

func (s *SaleService) Get(id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := s.db.Preload("Product").Preload("CreatedBy").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "sale"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &sale, nil
}

// Delete removes a sale record. Stock is not restored; deleting a sale is
// a bookkeeping correction, not a return.
func (s *SaleService) Delete(id uuid.UUID) error {
	var sale models.Sale
	if err := s.db.First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "sale"}
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&sale).Error; err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	return nil
}
