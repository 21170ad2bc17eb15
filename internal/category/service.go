package category

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/job-board/internal"
	"github.com/frahmantamala/job-board/internal/core/common/validation"
	categoryDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/category"
	"github.com/frahmantamala/job-board/internal/storage"
)

type Service struct {
	store  storage.Storage
	logger *slog.Logger
}

func NewService(store storage.Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]*categoryDatamodel.Category, error) {
	categories, err := s.store.GetCategories(ctx, includeInactive)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get categories from storage", "error", err)
		return nil, internal.NewInternalError("Failed to get categories", err)
	}
	if categories == nil {
		categories = []*categoryDatamodel.Category{}
	}

	s.logger.DebugContext(ctx, "retrieved categories", "count", len(categories), "include_inactive", includeInactive)
	return categories, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*categoryDatamodel.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Failed to get category", err)
	}
	if c == nil {
		return nil, internal.ErrCategoryNotFound
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, dto CreateCategoryDTO) (*categoryDatamodel.Category, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if v := validation.Struct(dto); v != nil {
		return nil, v
	}
	if err := s.ensureNameFree(ctx, 0, dto.Name); err != nil {
		return nil, err
	}

	created, err := s.store.CreateCategory(ctx, dto.ToDataModel())
	if err != nil {
		return nil, conflictOr(err, "Failed to create category")
	}

	s.logger.InfoContext(ctx, "category created", "category_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateCategoryDTO) (*categoryDatamodel.Category, error) {
	if v := validation.Struct(dto); v != nil {
		return nil, v
	}
	if dto.Name != nil {
		if strings.TrimSpace(*dto.Name) == "" {
			return nil, internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
		}
		if err := s.ensureNameFree(ctx, id, *dto.Name); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.UpdateCategory(ctx, id, dto.ToUpdate())
	if err != nil {
		return nil, conflictOr(err, "Failed to update category")
	}
	if updated == nil {
		return nil, internal.ErrCategoryNotFound
	}

	s.logger.InfoContext(ctx, "category updated", "category_id", id)
	return updated, nil
}

// Deactivate is the admin delete: categories are never removed because jobs
// keep referencing them.
func (s *Service) Deactivate(ctx context.Context, id int64) (*categoryDatamodel.Category, error) {
	inactive := categoryDatamodel.StatusInactive
	return s.Update(ctx, id, UpdateCategoryDTO{Status: &inactive})
}

// ensureNameFree rejects a name already used by another category, compared
// case-insensitively.
func (s *Service) ensureNameFree(ctx context.Context, excludeID int64, name string) error {
	all, err := s.store.GetCategories(ctx, true)
	if err != nil {
		return internal.NewInternalError("Failed to check category name", err)
	}
	name = strings.TrimSpace(name)
	for _, c := range all {
		if c.ID != excludeID && strings.EqualFold(c.Name, name) {
			return internal.ErrCategoryExists
		}
	}
	return nil
}

func conflictOr(err error, message string) error {
	if errors.Is(err, storage.ErrConflict) {
		return internal.ErrConflict.WithCause(err)
	}
	return internal.NewInternalError(message, err)
}
