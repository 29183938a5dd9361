// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name             string          `json:"name" gorm:"size:200;not null;index"`
	SKU              string          `json:"sku" gorm:"size:50;uniqueIndex;not null"`
	CategoryID       uuid.UUID       `json:"category_id" gorm:"type:uuid;not null;index"`
	Size             string          `json:"size" gorm:"size:10"`
	Color            string          `json:"color" gorm:"size:50"`
	Price            decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Cost             decimal.Decimal `json:"cost" gorm:"type:decimal(10,2);default:0"`
	Stock            int             `json:"stock" gorm:"not null;default:0"`
	ReorderThreshold int             `json:"reorder_threshold" gorm:"not null;default:0"`
	IsActive         bool            `json:"is_active" gorm:"default:true"`

	// Relationships
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// LowStock reports whether stock has fallen to or below the reorder
// threshold. A zero threshold disables the alert entirely, so an item at
// stock 0 with threshold 0 is not "low", it is just untracked.
func (p *Product) LowStock() bool {
	return p.ReorderThreshold > 0 && p.Stock <= p.ReorderThreshold
}

// InventoryValue is price * stock, computed on demand and never stored.
func (p *Product) InventoryValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}
