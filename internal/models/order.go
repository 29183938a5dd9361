// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	BaseModel
	OrderNumber     string          `json:"order_number" gorm:"size:20;uniqueIndex;not null"`
	CustomerName    string          `json:"customer_name" gorm:"size:200;not null"`
	CustomerEmail   string          `json:"customer_email" gorm:"size:255"`
	CustomerPhone   string          `json:"customer_phone" gorm:"size:20"`
	CustomerAddress string          `json:"customer_address" gorm:"type:text"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);default:0"`
	Notes           string          `json:"notes" gorm:"type:text"`

	// Relationships
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// ItemCount is the total number of units across all line items.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

type OrderItem struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;uniqueIndex:idx_order_product"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_order_product"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `json:"created_at"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Subtotal is quantity * unit price for this line.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
