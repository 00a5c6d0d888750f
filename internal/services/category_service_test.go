package services

import (
	"testing"

	"github.com/geoincidents/backend/internal/apperr"
	"github.com/geoincidents/backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryConflict(t *testing.T) {
	f := newFixture(t)

	_, err := f.categories.Create(&dto.CreateCategoryRequest{Name: "Robo"})
	require.NoError(t, err)

	_, err = f.categories.Create(&dto.CreateCategoryRequest{Name: "Robo"})
	require.Error(t, err)
	status, _, _ := apperr.Status(err)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreateCategoryConflictWithInactive(t *testing.T) {
	f := newFixture(t)

	created, err := f.categories.Create(&dto.CreateCategoryRequest{Name: "Robo"})
	require.NoError(t, err)
	require.NoError(t, f.categories.Delete(created.ID))

	// A deactivated category still reserves its name.
	_, err = f.categories.Create(&dto.CreateCategoryRequest{Name: "Robo"})
	require.Error(t, err)
}

func TestListCategoriesFiltersInactive(t *testing.T) {
	f := newFixture(t)

	active, err := f.categories.Create(&dto.CreateCategoryRequest{Name: "Robo"})
	require.NoError(t, err)
	inactive, err := f.categories.Create(&dto.CreateCategoryRequest{Name: "Vandalismo"})
	require.NoError(t, err)
	require.NoError(t, f.categories.Delete(inactive.ID))

	visible, err := f.categories.FindAll(false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, active.ID, visible[0].ID)

	all, err := f.categories.FindAll(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateCategoryRenameConflict(t *testing.T) {
	f := newFixture(t)

	_, err := f.categories.Create(&dto.CreateCategoryRequest{Name: "Robo"})
	require.NoError(t, err)
	other, err := f.categories.Create(&dto.CreateCategoryRequest{Name: "Vandalismo"})
	require.NoError(t, err)

	taken := "Robo"
	_, err = f.categories.Update(other.ID, &dto.UpdateCategoryRequest{Name: &taken})
	require.Error(t, err)

	// Keeping the current name is not a conflict.
	same := "Vandalismo"
	updated, err := f.categories.Update(other.ID, &dto.UpdateCategoryRequest{Name: &same})
	require.NoError(t, err)
	assert.Equal(t, "Vandalismo", updated.Name)
}

func TestDeleteCategoryIsSoft(t *testing.T) {
	f := newFixture(t)

	created, err := f.categories.Create(&dto.CreateCategoryRequest{Name: "Robo"})
	require.NoError(t, err)
	require.NoError(t, f.categories.Delete(created.ID))

	category, err := f.categories.FindByID(created.ID)
	require.NoError(t, err)
	assert.False(t, category.IsActive)
}

func TestReorderAssignsPositions(t *testing.T) {
	f := newFixture(t)

	a, err := f.categories.Create(&dto.CreateCategoryRequest{Name: "A"})
	require.NoError(t, err)
	b, err := f.categories.Create(&dto.CreateCategoryRequest{Name: "B"})
	require.NoError(t, err)
	c, err := f.categories.Create(&dto.CreateCategoryRequest{Name: "C"})
	require.NoError(t, err)

	err = f.categories.Reorder(&dto.ReorderCategoriesRequest{
		CategoryIDs: []string{c.ID.String(), a.ID.String(), b.ID.String()},
	})
	require.NoError(t, err)

	ordered, err := f.categories.FindAll(false)
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	assert.Equal(t, "C", ordered[0].Name)
	assert.Equal(t, "A", ordered[1].Name)
	assert.Equal(t, "B", ordered[2].Name)
}

func TestReorderRejectsBadID(t *testing.T) {
	f := newFixture(t)

	err := f.categories.Reorder(&dto.ReorderCategoriesRequest{CategoryIDs: []string{"not-a-uuid"}})
	require.Error(t, err)
	status, _, _ := apperr.Status(err)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
