package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/job-board/internal"
	userDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage"
	"github.com/frahmantamala/job-board/internal/transport"
	"github.com/frahmantamala/job-board/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, filter storage.UserFilter) ([]*userDatamodel.User, error)
	Get(ctx context.Context, id int64) (*userDatamodel.User, error)
	Create(ctx context.Context, actor *userDatamodel.User, dto CreateUserDTO) (*userDatamodel.User, error)
	Update(ctx context.Context, actor *userDatamodel.User, id int64, dto UpdateUserDTO) (*userDatamodel.User, error)
	Deactivate(ctx context.Context, actor *userDatamodel.User, id int64) (*userDatamodel.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// ListUsers handles GET /admin/users?role=&isActive=
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var filter storage.UserFilter
	if raw := transport.QueryString(r, "role"); raw != nil {
		role := userDatamodel.Role(*raw)
		if !role.Valid() {
			h.WriteAppError(w, internal.NewValidationFieldError("role", "role must be one of: admin, employee, applicant", internal.ErrCodeInvalidRole))
			return
		}
		filter.Role = &role
	}
	active, appErr := transport.QueryBool(r, "isActive")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	filter.IsActive = active

	users, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UsersResponse{Users: users})
}

// GetUser handles GET /admin/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	u, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UserResponse{User: u})
}

// CreateUser handles POST /admin/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	var dto CreateUserDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	u, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, UserResponse{User: u})
}

// UpdateUser handles PATCH /admin/users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto UpdateUserDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	u, err := h.Service.Update(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UserResponse{User: u})
}

// DeactivateUser handles DELETE /admin/users/{id}
func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	u, err := h.Service.Deactivate(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UserResponse{User: u})
}
