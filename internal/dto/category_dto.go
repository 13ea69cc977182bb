package dto

import "reviewhub/internal/models"

// CategoryResponse exposes only the public identity of a category.
type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryFromModel(cat models.Category) CategoryResponse {
	return CategoryResponse{Name: cat.Name, Slug: cat.Slug}
}

// CreateCategoryDTO used for POST /v1/categories
type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

func (d CreateCategoryDTO) ToModel() models.Category {
	return models.Category{NameSlug: models.NameSlug{Name: d.Name, Slug: d.Slug}}
}
