package category

import categoryDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/category"

type CreateCategoryDTO struct {
	Name        string                    `json:"name" validate:"required,max=100"`
	Description *string                   `json:"description,omitempty" validate:"omitempty,max=500"`
	Status      *categoryDatamodel.Status `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type UpdateCategoryDTO struct {
	Name        *string                   `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string                   `json:"description,omitempty" validate:"omitempty,max=500"`
	Status      *categoryDatamodel.Status `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type CategoryResponse struct {
	Category *categoryDatamodel.Category `json:"category"`
}

type CategoriesResponse struct {
	Categories []*categoryDatamodel.Category `json:"categories"`
}
