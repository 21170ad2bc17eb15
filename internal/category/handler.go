package category

import (
	"context"
	"net/http"

	"github.com/frahmantamala/job-board/internal"
	categoryDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/category"
	"github.com/frahmantamala/job-board/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, includeInactive bool) ([]*categoryDatamodel.Category, error)
	Get(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, dto CreateCategoryDTO) (*categoryDatamodel.Category, error)
	Update(ctx context.Context, id int64, dto UpdateCategoryDTO) (*categoryDatamodel.Category, error)
	Deactivate(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetCategories serves the public list. includeInactive=true is honoured for
// admins and silently ignored for everyone else.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if u, ok := internal.UserFromContext(r.Context()); ok && u.IsAdmin() {
		flag, appErr := transport.QueryBool(r, "includeInactive")
		if appErr != nil {
			h.WriteAppError(w, appErr)
			return
		}
		includeInactive = flag != nil && *flag
	}

	categories, err := h.Service.List(r.Context(), includeInactive)
	if err != nil {
		h.Logger.Error("GetCategories: failed to get categories", "error", err)
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Categories: categories,
	})
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CreateCategoryDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	c, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, CategoryResponse{Category: c})
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto UpdateCategoryDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	c, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, CategoryResponse{Category: c})
}

func (h *Handler) DeactivateCategory(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	c, err := h.Service.Deactivate(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, CategoryResponse{Category: c})
}
