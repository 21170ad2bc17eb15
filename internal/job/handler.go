package job

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/job-board/internal"
	applicationDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/application"
	jobDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/job"
	userDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage"
	"github.com/frahmantamala/job-board/internal/transport"
	"github.com/frahmantamala/job-board/pkg/logger"
)

type ServiceAPI interface {
	ListPublic(ctx context.Context, filter storage.JobFilter) ([]*PublicJobView, error)
	GetPublic(ctx context.Context, id int64) (*PublicJobView, error)
	ListForEmployee(ctx context.Context, actor *userDatamodel.User, status *jobDatamodel.Status) ([]*JobView, error)
	Get(ctx context.Context, actor *userDatamodel.User, id int64) (*JobView, error)
	Create(ctx context.Context, actor *userDatamodel.User, dto CreateJobDTO) (*JobView, error)
	Update(ctx context.Context, actor *userDatamodel.User, id int64, dto UpdateJobDTO) (*JobView, error)
	ChangeStatus(ctx context.Context, actor *userDatamodel.User, id int64, dto UpdateStatusDTO) (*JobView, error)
	AddTag(ctx context.Context, actor *userDatamodel.User, id int64, dto TagDTO) ([]string, error)
	RemoveTag(ctx context.Context, actor *userDatamodel.User, id int64, tag string) ([]string, error)
	Applications(ctx context.Context, actor *userDatamodel.User, id int64, status *applicationDatamodel.Status) ([]*applicationDatamodel.Application, error)
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

// publicFilter reads the listing filters of GET /jobs.
func publicFilter(r *http.Request) (storage.JobFilter, *internal.AppError) {
	var filter storage.JobFilter

	categoryID, appErr := transport.QueryInt64(r, "categoryId")
	if appErr != nil {
		return filter, appErr
	}
	filter.CategoryID = categoryID
	filter.Search = transport.QueryString(r, "search")
	filter.Department = transport.QueryString(r, "department")
	filter.City = transport.QueryString(r, "city")
	filter.State = transport.QueryString(r, "state")

	if raw := transport.QueryString(r, "location"); raw != nil {
		loc := jobDatamodel.Location(*raw)
		if !loc.Valid() {
			return filter, internal.NewValidationFieldError("location", "location must be one of: remote, onsite, hybrid", internal.ErrCodeValidationFailed)
		}
		filter.Location = &loc
	}
	return filter, nil
}

func statusQuery(r *http.Request) (*jobDatamodel.Status, *internal.AppError) {
	raw := transport.QueryString(r, "status")
	if raw == nil {
		return nil, nil
	}
	status := jobDatamodel.Status(*raw)
	if !status.Valid() {
		return nil, internal.NewValidationFieldError("status", "status must be one of: draft, active, paused, closed", internal.ErrCodeInvalidStatus)
	}
	return &status, nil
}

// ListJobs handles GET /jobs
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter, appErr := publicFilter(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	jobs, err := h.Service.ListPublic(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, PublicJobsResponse{Jobs: jobs})
}

// GetJob handles GET /jobs/{id}
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	j, err := h.Service.GetPublic(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, PublicJobResponse{Job: j})
}

// ListOwnJobs handles GET /employee/jobs?status=
func (h *Handler) ListOwnJobs(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	status, appErr := statusQuery(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	jobs, err := h.Service.ListForEmployee(r.Context(), actor, status)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, JobsResponse{Jobs: jobs})
}

// GetOwnJob handles GET /employee/jobs/{id}
func (h *Handler) GetOwnJob(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	j, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, JobResponse{Job: j})
}

// CreateJob handles POST /employee/jobs
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	var dto CreateJobDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	j, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, JobResponse{Job: j})
}

// UpdateJob handles PATCH /employee/jobs/{id}
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto UpdateJobDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	j, err := h.Service.Update(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, JobResponse{Job: j})
}

// UpdateJobStatus handles PATCH /employee/jobs/{id}/status
func (h *Handler) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto UpdateStatusDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	j, err := h.Service.ChangeStatus(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, JobResponse{Job: j})
}

// AddTag handles POST /employee/jobs/{id}/tags
func (h *Handler) AddTag(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto TagDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	tags, err := h.Service.AddTag(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}

// tagParam decodes the {tag} segment. chi matches on the raw path when the
// request carries escapes, so "CI%2FCD" reaches the handler still encoded.
func tagParam(r *http.Request) (string, *internal.AppError) {
	raw := chi.URLParam(r, "tag")
	if r.URL.RawPath == "" {
		return raw, nil
	}
	tag, err := url.PathUnescape(raw)
	if err != nil {
		return "", internal.NewValidationFieldError("tag", "tag is not a valid path segment", internal.ErrCodeValidationFailed)
	}
	return tag, nil
}

// RemoveTag handles DELETE /employee/jobs/{id}/tags/{tag}
func (h *Handler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	tag, appErr := tagParam(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	tags, err := h.Service.RemoveTag(r.Context(), actor, id, tag)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}

// ListJobApplications handles GET /employee/jobs/{id}/applications?status=
func (h *Handler) ListJobApplications(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.UserFromContext(r.Context())

	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var status *applicationDatamodel.Status
	if raw := transport.QueryString(r, "status"); raw != nil {
		s := applicationDatamodel.Status(*raw)
		if !s.Valid() {
			h.WriteAppError(w, internal.NewValidationFieldError("status", "status must be one of: new, reviewing, interviewed, rejected, hired", internal.ErrCodeInvalidStatus))
			return
		}
		status = &s
	}

	apps, err := h.Service.Applications(r.Context(), actor, id, status)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"applications": apps})
}
