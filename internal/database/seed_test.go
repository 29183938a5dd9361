// internal/database/seed_test.go
package database

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stockroomhq/stockroom-backend/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Sale{},
		&models.Notification{},
	))
	return db
}

func TestSeedDefaultData(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, SeedDefaultData(db, "Admin123!"))

	var admin models.User
	require.NoError(t, db.First(&admin, "username = ?", "admin").Error)
	assert.Equal(t, models.UserTypeAdmin, admin.UserType)
	assert.NoError(t, admin.CheckPassword("Admin123!"))

	var categoryCount int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categoryCount).Error)
	assert.EqualValues(t, len(defaultCategories), categoryCount)
}

func TestSeedDefaultDataIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, SeedDefaultData(db, "Admin123!"))
	require.NoError(t, SeedDefaultData(db, "Different456!"))

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.EqualValues(t, 1, userCount)

	// The second call never rewrites the existing admin password.
	var admin models.User
	require.NoError(t, db.First(&admin, "username = ?", "admin").Error)
	assert.NoError(t, admin.CheckPassword("Admin123!"))

	var categoryCount int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categoryCount).Error)
	assert.EqualValues(t, len(defaultCategories), categoryCount)
}

func TestSeedLeavesExistingCategoriesAlone(t *testing.T) {
	db := openTestDB(t)

	custom := &models.Category{Name: "Shirts", Description: "custom description"}
	require.NoError(t, db.Create(custom).Error)

	require.NoError(t, SeedDefaultData(db, "Admin123!"))

	var shirts models.Category
	require.NoError(t, db.First(&shirts, "name = ?", "Shirts").Error)
	assert.Equal(t, "custom description", shirts.Description)
	assert.Equal(t, custom.ID, shirts.ID)
}
