package handlers

import (
	"strconv"

	"github.com/geoincidents/backend/internal/apperr"
	"github.com/geoincidents/backend/internal/dto"
	"github.com/geoincidents/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	includeInactive, _ := strconv.ParseBool(queryAlias(c, "includeInactive", "include_inactive"))
	categories, err := h.categories.FindAll(includeInactive)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, categories)
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}

	category, err := h.categories.FindByID(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, category)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.categories.Create(&req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Category created", category)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}

	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.categories.Update(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Category updated", category)
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}

	if err := h.categories.Delete(id); err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Category deactivated", nil)
}

func (h *CategoryHandler) Reorder(c *fiber.Ctx) error {
	var req dto.ReorderCategoriesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.categories.Reorder(&req); err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Categories reordered", nil)
}

// parseID reads the :id route parameter as a UUID.
func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid id")
	}
	return id, nil
}
