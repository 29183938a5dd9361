// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/models"
	"github.com/stockroomhq/stockroom-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name             string          `json:"name" validate:"required,min=1,max=200"`
	SKU              string          `json:"sku" validate:"required,sku"`
	CategoryID       uuid.UUID       `json:"category_id" validate:"required"`
	Size             string          `json:"size,omitempty" validate:"omitempty,max=10"`
	Color            string          `json:"color,omitempty" validate:"omitempty,max=50"`
	Price            decimal.Decimal `json:"price"`
	Cost             decimal.Decimal `json:"cost"`
	Stock            int             `json:"stock" validate:"min=0"`
	ReorderThreshold int             `json:"reorder_threshold" validate:"min=0"`
	IsActive         *bool           `json:"is_active,omitempty"`
}

type UpdateProductRequest struct {
	Name             *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	SKU              *string          `json:"sku,omitempty" validate:"omitempty,sku"`
	CategoryID       *uuid.UUID       `json:"category_id,omitempty"`
	Size             *string          `json:"size,omitempty" validate:"omitempty,max=10"`
	Color            *string          `json:"color,omitempty" validate:"omitempty,max=50"`
	Price            *decimal.Decimal `json:"price,omitempty"`
	Cost             *decimal.Decimal `json:"cost,omitempty"`
	Stock            *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	ReorderThreshold *int             `json:"reorder_threshold,omitempty" validate:"omitempty,min=0"`
	IsActive         *bool            `json:"is_active,omitempty"`
}

// StockStatus filter values accepted by List.
const (
	StockStatusLow   = "low_stock"
	StockStatusOut   = "out_of_stock"
	StockStatusIn    = "in_stock"
)

type ProductSearchParams struct {
	utils.PaginationParams
	CategoryID  *uuid.UUID
	StockStatus string
	IsActive    *bool
}

// ProductView is the JSON projection of a product: stored columns plus the
// derived inventory_value and low_stock fields, computed at read time.
type ProductView struct {
	models.Product
	CategoryName   string          `json:"category_name"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	LowStock       bool            `json:"low_stock"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func newProductView(p *models.Product) ProductView {
	return ProductView{
		Product:        *p,
		CategoryName:   p.Category.Name,
		InventoryValue: p.InventoryValue(),
		LowStock:       p.LowStock(),
	}
}

func (s *ProductService) Create(req *CreateProductRequest) (*ProductView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		if fieldErrors := utils.GetValidationErrors(err); len(fieldErrors) > 0 {
			return nil, NewValidationError(fieldErrors[0].Field, fieldErrors[0].Message)
		}
		return nil, NewValidationError("", "invalid product")
	}
	if req.Price.IsNegative() {
		return nil, NewValidationError("price", "price must not be negative")
	}
	if req.Cost.IsNegative() {
		return nil, NewValidationError("cost", "cost must not be negative")
	}

	var category models.Category
	if err := s.db.First(&category, "id = ?", req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("category_id", "category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.Product{}).
		Where("LOWER(sku) = LOWER(?)", req.SKU).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, NewValidationError("sku", "product with this SKU already exists")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := &models.Product{
		Name:             strings.TrimSpace(req.Name),
		SKU:              strings.TrimSpace(req.SKU),
		CategoryID:       req.CategoryID,
		Size:             req.Size,
		Color:            req.Color,
		Price:            req.Price,
		Cost:             req.Cost,
		Stock:            req.Stock,
		ReorderThreshold: req.ReorderThreshold,
		IsActive:         isActive,
	}

	if err := s.db.Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, NewValidationError("sku", "product with this SKU already exists")
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	product.Category = category
	view := newProductView(product)
	return &view, nil
}

func (s *ProductService) Get(id uuid.UUID) (*ProductView, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "product"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	view := newProductView(&product)
	return &view, nil
}

func (s *ProductService) List(params ProductSearchParams) ([]ProductView, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Category")

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(color) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.IsActive != nil {
		query = query.Where("is_active = ?", *params.IsActive)
	}

	switch params.StockStatus {
	case StockStatusLow:
		query = query.Where("reorder_threshold > 0 AND stock <= reorder_threshold")
	case StockStatusOut:
		query = query.Where("stock = 0")
	case StockStatusIn:
		query = query.Where("stock > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"name", "sku", "price", "stock", "created_at", "updated_at"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, newProductView(&products[i]))
	}

	return views, total, nil
}

func (s *ProductService) Update(id uuid.UUID, req *UpdateProductRequest) (*ProductView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		if fieldErrors := utils.GetValidationErrors(err); len(fieldErrors) > 0 {
			return nil, NewValidationError(fieldErrors[0].Field, fieldErrors[0].Message)
		}
		return nil, NewValidationError("", "invalid product")
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "product"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.SKU != nil {
		sku := strings.TrimSpace(*req.SKU)
		var count int64
		if err := s.db.Model(&models.Product{}).
			Where("LOWER(sku) = LOWER(?) AND id <> ?", sku, id).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return nil, NewValidationError("sku", "product with this SKU already exists")
		}
		updates["sku"] = sku
	}
	if req.CategoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).Where("id = ?", *req.CategoryID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count == 0 {
			return nil, NewValidationError("category_id", "category not found")
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Size != nil {
		updates["size"] = *req.Size
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, NewValidationError("price", "price must not be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, NewValidationError("cost", "cost must not be negative")
		}
		updates["cost"] = *req.Cost
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.ReorderThreshold != nil {
		updates["reorder_threshold"] = *req.ReorderThreshold
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				return nil, NewValidationError("sku", "product with this SKU already exists")
			}
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return s.Get(id)
}

// Delete refuses to remove a product that order items or sales still
// reference: those rows are the business history and must keep resolving.
func (s *ProductService) Delete(id uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "product"}
		}
		return fmt.Errorf("database error: %w", err)
	}

	var itemCount int64
	if err := s.db.Model(&models.OrderItem{}).
		Where("product_id = ?", id).
		Count(&itemCount).Error; err != nil {
		return fmt.Errorf("failed to check order items: %w", err)
	}
	if itemCount > 0 {
		return &ReferentialProtectionError{
			Resource: "product",
			Message:  fmt.Sprintf("cannot delete product %q: %d order items reference it", product.Name, itemCount),
		}
	}

	var saleCount int64
	if err := s.db.Model(&models.Sale{}).
		Where("product_id = ?", id).
		Count(&saleCount).Error; err != nil {
		return fmt.Errorf("failed to check sales: %w", err)
	}
	if saleCount > 0 {
		return &ReferentialProtectionError{
			Resource: "product",
			Message:  fmt.Sprintf("cannot delete product %q: %d sales reference it", product.Name, saleCount),
		}
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}
