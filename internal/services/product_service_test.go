// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreate(t *testing.T) {
	db := newTestDB(t)
	products := NewProductService(db)
	category := createTestCategory(t, db, "Shirts")

	t.Run("creates with derived fields", func(t *testing.T) {
		view, err := products.Create(&CreateProductRequest{
			Name:             "Oxford Shirt",
			SKU:              "SHT-OXF-M",
			CategoryID:       category.ID,
			Size:             "M",
			Color:            "White",
			Price:            decimal.RequireFromString("45.00"),
			Cost:             decimal.RequireFromString("20.00"),
			Stock:            12,
			ReorderThreshold: 5,
		})
		require.NoError(t, err)

		assert.Equal(t, "Shirts", view.CategoryName)
		assert.True(t, view.IsActive)
		assert.False(t, view.LowStock)
		// 45.00 * 12
		assert.True(t, view.InventoryValue.Equal(decimal.RequireFromString("540.00")))
	})

	t.Run("duplicate SKU is refused case-insensitively", func(t *testing.T) {
		_, err := products.Create(&CreateProductRequest{
			Name:       "Another Oxford",
			SKU:        "sht-oxf-m",
			CategoryID: category.ID,
			Price:      decimal.RequireFromString("45.00"),
		})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "sku", validationErr.Field)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := products.Create(&CreateProductRequest{
			Name:       "Orphan",
			SKU:        "ORP-001",
			CategoryID: uuid.New(),
			Price:      decimal.RequireFromString("10.00"),
		})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "category_id", validationErr.Field)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := products.Create(&CreateProductRequest{
			Name:       "Freebie",
			SKU:        "FRE-001",
			CategoryID: category.ID,
			Price:      decimal.RequireFromString("-1.00"),
		})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "price", validationErr.Field)
	})

	t.Run("malformed SKU", func(t *testing.T) {
		_, err := products.Create(&CreateProductRequest{
			Name:       "Bad SKU",
			SKU:        "-starts-with-dash",
			CategoryID: category.ID,
			Price:      decimal.RequireFromString("10.00"),
		})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestProductStockStatusFilter(t *testing.T) {
	db := newTestDB(t)
	products := NewProductService(db)
	category := createTestCategory(t, db, "Pants")

	createTestProduct(t, db, category.ID, "PNT-LOW", 3, 5, "40.00")  // low
	createTestProduct(t, db, category.ID, "PNT-EDGE", 5, 5, "40.00") // exactly at threshold, low
	createTestProduct(t, db, category.ID, "PNT-OK", 20, 5, "40.00")  // fine
	createTestProduct(t, db, category.ID, "PNT-OUT", 0, 0, "40.00")  // out, but untracked
	createTestProduct(t, db, category.ID, "PNT-ZERO", 2, 0, "40.00") // no threshold

	list := func(status string) []ProductView {
		views, _, err := products.List(ProductSearchParams{
			PaginationParams: defaultParams(),
			StockStatus:      status,
		})
		require.NoError(t, err)
		return views
	}

	low := list(StockStatusLow)
	require.Len(t, low, 2)
	for _, view := range low {
		assert.True(t, view.LowStock, "%s should be low", view.SKU)
	}

	out := list(StockStatusOut)
	require.Len(t, out, 1)
	assert.Equal(t, "PNT-OUT", out[0].SKU)
	// Zero threshold means the alert flag stays off even at stock 0.
	assert.False(t, out[0].LowStock)

	assert.Len(t, list(StockStatusIn), 4)
}

func TestProductSearchAndCategoryFilter(t *testing.T) {
	db := newTestDB(t)
	products := NewProductService(db)
	shirts := createTestCategory(t, db, "Shirts")
	pants := createTestCategory(t, db, "Pants")

	_, err := products.Create(&CreateProductRequest{
		Name:       "Blue Denim Jeans",
		SKU:        "JNS-BLU-32",
		CategoryID: pants.ID,
		Color:      "Blue",
		Price:      decimal.RequireFromString("60.00"),
	})
	require.NoError(t, err)

	_, err = products.Create(&CreateProductRequest{
		Name:       "Linen Shirt",
		SKU:        "SHT-LIN-M",
		CategoryID: shirts.ID,
		Color:      "Beige",
		Price:      decimal.RequireFromString("35.00"),
	})
	require.NoError(t, err)

	params := ProductSearchParams{PaginationParams: defaultParams()}
	params.Search = "denim"
	views, total, err := products.List(params)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, views, 1)
	assert.Equal(t, "JNS-BLU-32", views[0].SKU)

	// Color matches too.
	params.Search = "beige"
	views, _, err = products.List(params)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "SHT-LIN-M", views[0].SKU)

	views, _, err = products.List(ProductSearchParams{
		PaginationParams: defaultParams(),
		CategoryID:       &pants.ID,
	})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Pants", views[0].CategoryName)
}

func TestProductUpdate(t *testing.T) {
	db := newTestDB(t)
	products := NewProductService(db)
	category := createTestCategory(t, db, "Shoes")
	product := createTestProduct(t, db, category.ID, "SHO-001", 10, 0, "80.00")

	t.Run("repricing changes inventory value", func(t *testing.T) {
		price := decimal.RequireFromString("100.00")
		view, err := products.Update(product.ID, &UpdateProductRequest{Price: &price})
		require.NoError(t, err)
		assert.True(t, view.InventoryValue.Equal(decimal.RequireFromString("1000.00")))
	})

	t.Run("SKU held by another product is refused", func(t *testing.T) {
		createTestProduct(t, db, category.ID, "SHO-002", 5, 0, "90.00")
		sku := "SHO-002"
		_, err := products.Update(product.ID, &UpdateProductRequest{SKU: &sku})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("restock flips the low flag off", func(t *testing.T) {
		threshold := 12
		view, err := products.Update(product.ID, &UpdateProductRequest{ReorderThreshold: &threshold})
		require.NoError(t, err)
		assert.True(t, view.LowStock)

		stock := 50
		view, err = products.Update(product.ID, &UpdateProductRequest{Stock: &stock})
		require.NoError(t, err)
		assert.False(t, view.LowStock)
	})
}

func TestProductDeleteProtection(t *testing.T) {
	db := newTestDB(t)
	products := NewProductService(db)
	notifications := NewNotificationService(db)
	stock := NewStockService(db, notifications)
	orders := NewOrderService(db, stock, notifications)
	sales := NewSaleService(db, stock)
	category := createTestCategory(t, db, "Accessories")

	t.Run("blocked by order items", func(t *testing.T) {
		product := createTestProduct(t, db, category.ID, "ACC-001", 10, 0, "15.00")
		_, err := orders.Create(&CreateOrderRequest{
			CustomerName: "Keeper",
			Items:        []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		})
		require.NoError(t, err)

		var protectionErr *ReferentialProtectionError
		require.ErrorAs(t, products.Delete(product.ID), &protectionErr)
	})

	t.Run("blocked by sales", func(t *testing.T) {
		product := createTestProduct(t, db, category.ID, "ACC-002", 10, 0, "15.00")
		_, err := sales.Sell(&SellRequest{ProductID: product.ID, Quantity: 1}, nil)
		require.NoError(t, err)

		var protectionErr *ReferentialProtectionError
		require.ErrorAs(t, products.Delete(product.ID), &protectionErr)
	})

	t.Run("unreferenced product deletes", func(t *testing.T) {
		product := createTestProduct(t, db, category.ID, "ACC-003", 10, 0, "15.00")
		require.NoError(t, products.Delete(product.ID))

		var notFoundErr *NotFoundError
		_, err := products.Get(product.ID)
		require.ErrorAs(t, err, &notFoundErr)
	})
}
