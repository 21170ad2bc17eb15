package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/job-board/internal/core/datamodel/category"
	"github.com/frahmantamala/job-board/internal/storage"
)

func (s *Store) GetCategory(ctx context.Context, id int64) (*category.Category, error) {
	var c category.Category
	found, err := first(s.db.WithContext(ctx), &c, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetCategories(ctx context.Context, includeInactive bool) ([]*category.Category, error) {
	q := s.db.WithContext(ctx).Model(&category.Category{})
	if !includeInactive {
		q = q.Where("status = ?", string(category.StatusActive))
	}

	categories := make([]*category.Category, 0)
	if err := q.Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) CreateCategory(ctx context.Context, c category.Category) (*category.Category, error) {
	if c.Status == "" {
		c.Status = category.StatusActive
	}
	c.ID = 0
	c.CreatedAt = s.now()

	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id int64, upd storage.CategoryUpdate) (*category.Category, error) {
	var result *category.Category

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing category.Category
		found, err := first(tx, &existing, "id = ?", id)
		if err != nil || !found {
			return err
		}

		merged := existing
		upd.Apply(&merged)
		if cols := upd.Columns(&merged); len(cols) > 0 {
			if err := tx.Model(&category.Category{}).Where("id = ?", id).Updates(cols).Error; err != nil {
				return translate(err)
			}
		}
		result = &merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
