package repository

import (
	"errors"

	"github.com/geoincidents/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) FindByID(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName matches exactly (case-sensitive), across active and inactive rows.
func (r *categoryRepository) FindByName(name string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("name = ?", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(includeInactive bool) ([]models.Category, error) {
	query := r.db.Model(&models.Category{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := query.Order("display_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Save(category *models.Category) error {
	return r.db.Save(category).Error
}

// SetOrder writes a single category's display position. Reorder issues one
// call per ID with no wrapping transaction; categories omitted from a reorder
// keep their previous value.
func (r *categoryRepository) SetOrder(id uuid.UUID, order int) error {
	return r.db.Model(&models.Category{}).Where("id = ?", id).
		UpdateColumn("display_order", order).Error
}
