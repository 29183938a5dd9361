// internal/services/notification_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/models"
	"github.com/stockroomhq/stockroom-backend/internal/utils"
)

// NotificationService keeps the append-only alert log. Rows are created by
// the order, stock, and sale flows and only ever change their read flag
// afterwards.
type NotificationService struct {
	db *gorm.DB
}

type NotificationSearchParams struct {
	utils.PaginationParams
	Type   *models.NotificationType
	IsRead *bool
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) emit(tx *gorm.DB, n *models.Notification) error {
	if err := tx.Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// NotifyNewOrder records a new_order alert carrying the customer name and
// the computed order total.
func (s *NotificationService) NotifyNewOrder(tx *gorm.DB, order *models.Order) error {
	return s.emit(tx, &models.Notification{
		Type:    models.NotificationTypeNewOrder,
		Title:   fmt.Sprintf("New Order #%s", order.OrderNumber),
		Message: fmt.Sprintf("New order from %s for Rs %s", order.CustomerName, order.TotalAmount.StringFixed(2)),
		OrderID: &order.ID,
	})
}

// NotifyLowStock records a low_stock alert with the level that triggered it.
func (s *NotificationService) NotifyLowStock(tx *gorm.DB, product *models.Product) error {
	return s.emit(tx, &models.Notification{
		Type:  models.NotificationTypeLowStock,
		Title: fmt.Sprintf("Low Stock Alert: %s", product.Name),
		Message: fmt.Sprintf("%s is now at %d units (threshold: %d)",
			product.Name, product.Stock, product.ReorderThreshold),
		ProductID: &product.ID,
	})
}

// NotifyInsufficientStock records the shortfall when an order item wants
// more units than are on hand. The order path keeps the item and reports
// the miss here instead of failing.
func (s *NotificationService) NotifyInsufficientStock(tx *gorm.DB, order *models.Order, product *models.Product, requested int) error {
	return s.emit(tx, &models.Notification{
		Type:  models.NotificationTypeStockUpdate,
		Title: fmt.Sprintf("Insufficient Stock: %s", product.Name),
		Message: fmt.Sprintf("Order #%s requires %d units but only %d available",
			order.OrderNumber, requested, product.Stock),
		OrderID:   &order.ID,
		ProductID: &product.ID,
	})
}

// NotifyOrderStatus records an order_status alert when an order moves to a
// new status through the edit path.
func (s *NotificationService) NotifyOrderStatus(tx *gorm.DB, order *models.Order, previous models.OrderStatus) error {
	return s.emit(tx, &models.Notification{
		Type:  models.NotificationTypeOrderStatus,
		Title: fmt.Sprintf("Order #%s Status Update", order.OrderNumber),
		Message: fmt.Sprintf("Order #%s moved from %s to %s",
			order.OrderNumber, previous, order.Status),
		OrderID: &order.ID,
	})
}

func (s *NotificationService) List(params NotificationSearchParams) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{})

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.IsRead != nil {
		query = query.Where("is_read = ?", *params.IsRead)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "type"})
	query = utils.ApplyPagination(query, params.PaginationParams)

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *NotificationService) UnreadCount() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags a notification as read. Idempotent.
func (s *NotificationService) MarkRead(id uuid.UUID) (*models.Notification, error) {
	return s.setRead(id, true)
}

// MarkUnread clears the read flag. Idempotent.
func (s *NotificationService) MarkUnread(id uuid.UUID) (*models.Notification, error) {
	return s.setRead(id, false)
}

func (s *NotificationService) setRead(id uuid.UUID, read bool) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "notification"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if notification.IsRead == read {
		return &notification, nil
	}

	notification.IsRead = read
	if err := s.db.Model(&notification).UpdateColumn("is_read", read).Error; err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}

	return &notification, nil
}
