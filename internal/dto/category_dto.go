package dto

type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	Order       *int    `json:"order,omitempty"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
	Order       *int    `json:"order,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ReorderCategoriesRequest lists category IDs in their desired display order.
// IDs omitted from the list keep their previous order value.
type ReorderCategoriesRequest struct {
	CategoryIDs []string `json:"category_ids"`
}
