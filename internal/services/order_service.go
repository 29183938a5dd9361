// internal/services/order_service.go
package services

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/models"
	"github.com/stockroomhq/stockroom-backend/internal/utils"
)

const orderNumberAttempts = 5

// OrderService owns the order and order-item lifecycle. Stock decrements
// and notifications happen inside the same transaction as the mutation
// that caused them, so a rollback takes the side effects with it.
type OrderService struct {
	db            *gorm.DB
	stock         *StockService
	notifications *NotificationService
}

type OrderItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

type CreateOrderRequest struct {
	CustomerName    string             `json:"customer_name" validate:"required,max=200"`
	CustomerEmail   string             `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone   string             `json:"customer_phone,omitempty" validate:"omitempty,max=20"`
	CustomerAddress string             `json:"customer_address,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	CustomerName    *string             `json:"customer_name,omitempty" validate:"omitempty,min=1,max=200"`
	CustomerEmail   *string             `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone   *string             `json:"customer_phone,omitempty" validate:"omitempty,max=20"`
	CustomerAddress *string             `json:"customer_address,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	Status          *models.OrderStatus `json:"status,omitempty"`
}

type OrderSearchParams struct {
	utils.PaginationParams
	Status *models.OrderStatus
}

func NewOrderService(db *gorm.DB, stock *StockService, notifications *NotificationService) *OrderService {
	return &OrderService{
		db:            db,
		stock:         stock,
		notifications: notifications,
	}
}

// generateOrderNumber produces an ORD- prefixed token from UUID entropy and
// retries on the rare collision. The unique index on order_number is the
// backstop for concurrent creators. Called exactly once per order, at first
// save; the number is never regenerated afterwards.
func (s *OrderService) generateOrderNumber(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		raw := uuid.New()
		candidate := "ORD-" + strings.ToUpper(hex.EncodeToString(raw[:4]))

		var count int64
		if err := tx.Model(&models.Order{}).
			Where("order_number = ?", candidate).
			Count(&count).Error; err != nil {
			return "", fmt.Errorf("database error: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique order number after %d attempts", orderNumberAttempts)
}

// recalculateTotal sums quantity * unit_price over the order's current
// items and writes the result back. This is a full read-then-write
// aggregate; every item mutation must call it rather than patch the total
// incrementally.
func (s *OrderService) recalculateTotal(tx *gorm.DB, order *models.Order) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Subtotal())
	}

	order.TotalAmount = total
	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
		UpdateColumn("total_amount", total).Error; err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}

	return nil
}

// createItem persists one line item and runs the stock side effects. The
// unit price defaults to the product's current price, frozen at creation;
// later repricing never touches existing items. When stock cannot cover
// the quantity the item is still recorded and a stock_update notification
// reports the shortfall.
func (s *OrderService) createItem(tx *gorm.DB, order *models.Order, req *OrderItemRequest) (*models.OrderItem, error) {
	if req.Quantity <= 0 {
		return nil, NewValidationError("quantity", "quantity must be positive")
	}

	var product models.Product
	if err := tx.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("product_id", "product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var count int64
	if err := tx.Model(&models.OrderItem{}).
		Where("order_id = ? AND product_id = ?", order.ID, req.ProductID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, NewValidationError("product_id", "order already has an item for this product")
	}

	unitPrice := product.Price
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, NewValidationError("unit_price", "unit price must not be negative")
		}
		unitPrice = *req.UnitPrice
	}

	item := &models.OrderItem{
		OrderID:   order.ID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: unitPrice,
	}

	if err := tx.Create(item).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, NewValidationError("product_id", "order already has an item for this product")
		}
		return nil, fmt.Errorf("failed to create order item: %w", err)
	}

	updated, ok, err := s.stock.Decrement(tx, req.ProductID, req.Quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := s.notifications.NotifyInsufficientStock(tx, order, updated, req.Quantity); err != nil {
			return nil, err
		}
	}

	return item, nil
}

// Create persists the order with its items (at least one), computes the
// total, and emits the new_order notification, all in one transaction.
func (s *OrderService) Create(req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		if fieldErrors := utils.GetValidationErrors(err); len(fieldErrors) > 0 {
			return nil, NewValidationError(fieldErrors[0].Field, fieldErrors[0].Message)
		}
		return nil, NewValidationError("", "invalid order")
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orderNumber, err := s.generateOrderNumber(tx)
		if err != nil {
			return err
		}

		order = &models.Order{
			OrderNumber:     orderNumber,
			CustomerName:    strings.TrimSpace(req.CustomerName),
			CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
			CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
			CustomerAddress: strings.TrimSpace(req.CustomerAddress),
			Notes:           req.Notes,
			Status:          models.OrderStatusPending,
		}

		if err := tx.Create(order).Error; err != nil {
			if isUniqueViolation(err) {
				return NewValidationError("order_number", "order number collision, retry the request")
			}
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range req.Items {
			if _, err := s.createItem(tx, order, &req.Items[i]); err != nil {
				return err
			}
		}

		if err := s.recalculateTotal(tx, order); err != nil {
			return err
		}

		return s.notifications.NotifyNewOrder(tx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(order.ID)
}

func (s *OrderService) Get(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").Preload("Items.Product").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

func (s *OrderService) List(params OrderSearchParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Preload("Items").Preload("Items.Product")

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_phone) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "order_number", "status", "total_amount"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// Update edits customer fields, notes, and status. Status moves freely
// among the six values; there is no transition graph to enforce. The
// order number is immutable and not accepted here.
func (s *OrderService) Update(id uuid.UUID, req *UpdateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		if fieldErrors := utils.GetValidationErrors(err); len(fieldErrors) > 0 {
			return nil, NewValidationError(fieldErrors[0].Field, fieldErrors[0].Message)
		}
		return nil, NewValidationError("", "invalid order")
	}

	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	previousStatus := order.Status

	updates := make(map[string]interface{})
	if req.CustomerName != nil {
		updates["customer_name"] = strings.TrimSpace(*req.CustomerName)
	}
	if req.CustomerEmail != nil {
		updates["customer_email"] = strings.TrimSpace(*req.CustomerEmail)
	}
	if req.CustomerPhone != nil {
		updates["customer_phone"] = strings.TrimSpace(*req.CustomerPhone)
	}
	if req.CustomerAddress != nil {
		updates["customer_address"] = strings.TrimSpace(*req.CustomerAddress)
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Status != nil {
		if !models.ValidOrderStatus(*req.Status) {
			return nil, NewValidationError("status", "unknown order status")
		}
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		return s.Get(id)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		if req.Status != nil && *req.Status != previousStatus {
			order.Status = *req.Status
			return s.notifications.NotifyOrderStatus(tx, &order, previousStatus)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// AddItem appends a line item to an existing order and recomputes the
// total, with the same stock side effects as order creation.
func (s *OrderService) AddItem(orderID uuid.UUID, req *OrderItemRequest) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.createItem(tx, &order, req); err != nil {
			return err
		}
		return s.recalculateTotal(tx, &order)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(orderID)
}

type UpdateOrderItemRequest struct {
	Quantity  *int             `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// UpdateItem edits quantity or price of an existing line item and
// recomputes the total. Stock was adjusted when the item was created;
// edits change the paperwork, not the shelf.
func (s *OrderService) UpdateItem(orderID, itemID uuid.UUID, req *UpdateOrderItemRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, NewValidationError("quantity", "quantity must be positive")
	}
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return nil, NewValidationError("unit_price", "unit price must not be negative")
	}

	var item models.OrderItem
	if err := s.db.First(&item, "id = ? AND order_id = ?", itemID, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order item"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.UnitPrice != nil {
		updates["unit_price"] = *req.UnitPrice
	}

	if len(updates) == 0 {
		return s.Get(orderID)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order item: %w", err)
		}
		return s.recalculateTotal(tx, &models.Order{BaseModel: models.BaseModel{ID: orderID}})
	})
	if err != nil {
		return nil, err
	}

	return s.Get(orderID)
}

// RemoveItem deletes a line item and recomputes the total. An order must
// keep at least one item.
func (s *OrderService) RemoveItem(orderID, itemID uuid.UUID) (*models.Order, error) {
	var item models.OrderItem
	if err := s.db.First(&item, "id = ? AND order_id = ?", itemID, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order item"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var itemCount int64
	if err := s.db.Model(&models.OrderItem{}).
		Where("order_id = ?", orderID).
		Count(&itemCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if itemCount <= 1 {
		return nil, NewValidationError("items", "order must keep at least one item")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&item).Error; err != nil {
			return fmt.Errorf("failed to delete order item: %w", err)
		}
		return s.recalculateTotal(tx, &models.Order{BaseModel: models.BaseModel{ID: orderID}})
	})
	if err != nil {
		return nil, err
	}

	return s.Get(orderID)
}
