// internal/database/seed.go
package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/models"
)

var defaultCategories = []models.Category{
	{Name: "Shirts", Description: "Casual shirts, dress shirts, polo shirts, and t-shirts"},
	{Name: "Pants", Description: "Jeans, chinos, dress pants, and casual trousers"},
	{Name: "Jackets & Coats", Description: "Blazers, leather jackets, winter coats, and casual jackets"},
	{Name: "Suits", Description: "Formal suits, business suits, and suit separates"},
	{Name: "Shoes", Description: "Dress shoes, casual shoes, sneakers, and boots"},
	{Name: "Accessories", Description: "Belts, ties, watches, wallets, and bags"},
	{Name: "Underwear & Socks", Description: "Undergarments, socks, and loungewear"},
	{Name: "Sportswear", Description: "Athletic wear, gym clothes, and sports accessories"},
	{Name: "Traditional Wear", Description: "Kurtas, shalwar kameez, and traditional Pakistani clothing"},
	{Name: "Sweaters & Hoodies", Description: "Pullover sweaters, cardigans, hoodies, and sweatshirts"},
}

// SeedDefaultData creates the default admin user and the stock set of
// clothing categories. Safe to call on every startup; existing rows are
// left alone.
func SeedDefaultData(db *gorm.DB, adminPassword string) error {
	log.Println("Seeding default data...")

	var adminCount int64
	db.Model(&models.User{}).Where("user_type = ?", models.UserTypeAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username: "admin",
			Email:    "admin@stockroom.local",
			UserType: models.UserTypeAdmin,
			Status:   models.UserStatusActive,
		}

		if err := admin.SetPassword(adminPassword); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	created := 0
	for _, category := range defaultCategories {
		var count int64
		db.Model(&models.Category{}).Where("name = ?", category.Name).Count(&count)
		if count > 0 {
			continue
		}

		if err := db.Create(&category).Error; err != nil {
			log.Printf("Warning: Failed to create category %s: %v", category.Name, err)
			continue
		}
		created++
	}

	if created > 0 {
		log.Printf("Created %d default categories", created)
	}

	log.Println("Default data seeding completed")
	return nil
}
