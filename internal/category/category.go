package category

import (
	"strings"

	categoryDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/category"
	"github.com/frahmantamala/job-board/internal/storage"
)

func (dto CreateCategoryDTO) ToDataModel() categoryDatamodel.Category {
	c := categoryDatamodel.Category{
		Name:   strings.TrimSpace(dto.Name),
		Status: categoryDatamodel.StatusActive,
	}
	if dto.Description != nil && strings.TrimSpace(*dto.Description) != "" {
		d := strings.TrimSpace(*dto.Description)
		c.Description = &d
	}
	if dto.Status != nil {
		c.Status = *dto.Status
	}
	return c
}

func (dto UpdateCategoryDTO) ToUpdate() storage.CategoryUpdate {
	upd := storage.CategoryUpdate{
		Description: dto.Description,
		Status:      dto.Status,
	}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		upd.Name = &name
	}
	return upd
}
