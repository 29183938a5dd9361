// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an append-only alert row. The only field that changes
// after creation is IsRead.
type Notification struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primary_key"`
	Type      NotificationType `json:"type" gorm:"type:varchar(20);not null;index"`
	Title     string           `json:"title" gorm:"size:200;not null"`
	Message   string           `json:"message" gorm:"type:text"`
	IsRead    bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`

	// Optional references
	OrderID   *uuid.UUID `json:"order_id" gorm:"type:uuid"`
	ProductID *uuid.UUID `json:"product_id" gorm:"type:uuid"`

	Order   *Order   `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
