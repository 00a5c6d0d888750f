package services

import (
	"strings"

	"github.com/geoincidents/backend/internal/apperr"
	"github.com/geoincidents/backend/internal/dto"
	"github.com/geoincidents/backend/internal/models"
	"github.com/geoincidents/backend/internal/repository"
	"github.com/google/uuid"
)

type CategoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(req *dto.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}

	// Exact-match uniqueness, deactivated categories included. A soft-deleted
	// name stays reserved until the row is reactivated or renamed.
	existing, err := s.categories.FindByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("a category with that name already exists")
	}

	category := models.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		IsActive:    true,
	}
	if req.Order != nil {
		category.Order = *req.Order
	}
	if err := s.categories.Create(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) FindAll(includeInactive bool) ([]models.Category, error) {
	return s.categories.FindAll(includeInactive)
}

func (s *CategoryService) FindByID(id uuid.UUID) (*models.Category, error) {
	category, err := s.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("category not found")
	}
	return category, nil
}

func (s *CategoryService) Update(id uuid.UUID, req *dto.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("category name is required")
		}
		if name != category.Name {
			existing, err := s.categories.FindByName(name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, apperr.Conflict("a category with that name already exists")
			}
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Order != nil {
		category.Order = *req.Order
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categories.Save(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete deactivates the category. Existing incidents keep their reference;
// the category simply stops being offered for new reports.
func (s *CategoryService) Delete(id uuid.UUID) error {
	category, err := s.FindByID(id)
	if err != nil {
		return err
	}
	category.IsActive = false
	return s.categories.Save(category)
}

// Reorder assigns each listed category its position index as display order.
// Categories absent from the list keep their current order, so a partial list
// can interleave with the rest; callers are expected to send the full set.
func (s *CategoryService) Reorder(req *dto.ReorderCategoriesRequest) error {
	if len(req.CategoryIDs) == 0 {
		return apperr.Validation("category_ids is required")
	}

	ids := make([]uuid.UUID, len(req.CategoryIDs))
	for i, raw := range req.CategoryIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.Validation("invalid category id: " + raw)
		}
		ids[i] = id
	}

	for position, id := range ids {
		if err := s.categories.SetOrder(id, position); err != nil {
			return err
		}
	}
	return nil
}
