// internal/models/sale.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is a completed point-of-sale transaction, recorded outside the
// order pipeline. TotalAmount is stored at creation time so deleting or
// repricing the product later does not rewrite sales history.
type Sale struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key"`
	ProductID   uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	CreatedByID *uuid.UUID      `json:"created_by_id" gorm:"type:uuid"`

	// Relationships
	Product   Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedBy *User   `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
