package application

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/job-board/internal"
	userDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/transport"
	"github.com/frahmantamala/job-board/pkg/logger"
)

type ServiceAPI interface {
	Submit(ctx context.Context, actor *userDatamodel.User, dto SubmitApplicationDTO) (*ApplicationView, error)
	ListMine(ctx context.Context, actor *userDatamodel.User) ([]*ApplicationView, error)
	Get(ctx context.Context, actor *userDatamodel.User, id int64) (*ApplicationView, error)
	Review(ctx context.Context, actor *userDatamodel.User, id int64, dto ReviewApplicationDTO) (*ApplicationView, error)
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

// SubmitApplication handles POST /applications. The route runs behind
// OptionalAuth so anonymous visitors can apply too.
func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	var dto SubmitApplicationDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	app, err := h.Service.Submit(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, ApplicationResponse{Application: app})
}

// ListMyApplications handles GET /applicant/applications
func (h *Handler) ListMyApplications(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	apps, err := h.Service.ListMine(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ApplicationsResponse{Applications: apps})
}

// GetApplication handles GET /applications/{id}
func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	app, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ApplicationResponse{Application: app})
}

// ReviewApplication handles PATCH /employee/applications/{id}
func (h *Handler) ReviewApplication(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto ReviewApplicationDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	app, err := h.Service.Review(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ApplicationResponse{Application: app})
}
