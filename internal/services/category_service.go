// internal/services/category_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/models"
	"github.com/stockroomhq/stockroom-backend/internal/utils"
)

type CategoryService struct {
	db *gorm.DB
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
}

// CategoryView is the read projection served by the JSON API: the category
// plus the number of active products filed under it.
type CategoryView struct {
	models.Category
	ProductCount int64 `json:"product_count"`
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) Create(req *CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, NewValidationError("name", "category name is required")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewValidationError("name", "category name is required")
	}

	// Case-insensitive duplicate check; the unique index backstops races.
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, NewValidationError("name", "category with this name already exists")
	}

	category := &models.Category{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}

	if err := s.db.Create(category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, NewValidationError("name", "category with this name already exists")
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (s *CategoryService) Get(id uuid.UUID) (*CategoryView, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "category"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.toView(&category)
}

func (s *CategoryService) List(params utils.PaginationParams) ([]CategoryView, int64, error) {
	query := s.db.Model(&models.Category{})

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"name", "created_at"})
	query = utils.ApplyPagination(query, params)

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch categories: %w", err)
	}

	views := make([]CategoryView, 0, len(categories))
	for i := range categories {
		view, err := s.toView(&categories[i])
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *view)
	}

	return views, total, nil
}

func (s *CategoryService) Update(id uuid.UUID, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, NewValidationError("name", "invalid category name")
	}

	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "category"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewValidationError("name", "category name is required")
		}

		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("LOWER(name) = LOWER(?) AND id <> ?", name, id).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return nil, NewValidationError("name", "category with this name already exists")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}

	if len(updates) == 0 {
		return &category, nil
	}

	if err := s.db.Model(&category).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, NewValidationError("name", "category with this name already exists")
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &category, nil
}

// Delete refuses to remove a category that still has products filed under
// it; products must be moved or deleted first.
func (s *CategoryService) Delete(id uuid.UUID) error {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "category"}
		}
		return fmt.Errorf("database error: %w", err)
	}

	var productCount int64
	if err := s.db.Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to check products: %w", err)
	}

	if productCount > 0 {
		return &ReferentialProtectionError{
			Resource: "category",
			Message:  fmt.Sprintf("cannot delete category %q: %d products reference it", category.Name, productCount),
		}
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

func (s *CategoryService) toView(category *models.Category) (*CategoryView, error) {
	var productCount int64
	if err := s.db.Model(&models.Product{}).
		Where("category_id = ? AND is_active = ?", category.ID, true).
		Count(&productCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	return &CategoryView{Category: *category, ProductCount: productCount}, nil
}
