// internal/models/product_test.go
package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductLowStock(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		threshold int
		want      bool
	}{
		{"well above threshold", 20, 5, false},
		{"one above threshold", 6, 5, false},
		{"exactly at threshold", 5, 5, true},
		{"below threshold", 3, 5, true},
		{"zero stock with threshold", 0, 5, true},
		{"zero threshold disables tracking", 0, 0, false},
		{"zero threshold with stock", 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Stock: tt.stock, ReorderThreshold: tt.threshold}
			assert.Equal(t, tt.want, p.LowStock())
		})
	}
}

func TestProductInventoryValue(t *testing.T) {
	p := Product{
		Price: decimal.RequireFromString("24.99"),
		Stock: 7,
	}
	assert.True(t, p.InventoryValue().Equal(decimal.RequireFromString("174.93")))

	empty := Product{Price: decimal.RequireFromString("24.99"), Stock: 0}
	assert.True(t, empty.InventoryValue().IsZero())
}

func TestOrderItemCount(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Quantity: 2},
			{Quantity: 3},
		},
	}
	assert.Equal(t, 5, order.ItemCount())
	assert.Equal(t, 0, (&Order{}).ItemCount())
}

func TestValidOrderStatus(t *testing.T) {
	for _, status := range []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	} {
		assert.True(t, ValidOrderStatus(status), string(status))
	}

	assert.False(t, ValidOrderStatus("returned"))
	assert.False(t, ValidOrderStatus(""))
	assert.False(t, ValidOrderStatus("Pending"))
}

func TestUserPassword(t *testing.T) {
	u := User{}
	assert.NoError(t, u.SetPassword("Sekret123!"))
	assert.NotEqual(t, "Sekret123!", u.PasswordHash)
	assert.NoError(t, u.CheckPassword("Sekret123!"))
	assert.Error(t, u.CheckPassword("wrong"))
}
