package job

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/job-board/internal"
	"github.com/frahmantamala/job-board/internal/auth"
	"github.com/frahmantamala/job-board/internal/core/common/validation"
	applicationDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/application"
	jobDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/job"
	userDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/core/events"
	"github.com/frahmantamala/job-board/internal/storage"
	"github.com/frahmantamala/job-board/internal/transport/metrics"
)

type Service struct {
	store     storage.Storage
	publisher events.Publisher
	policy    auth.OwnershipPolicy
	logger    *slog.Logger
}

func NewService(store storage.Storage, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// ListPublic returns active jobs only, whatever status the filter asks for.
func (s *Service) ListPublic(ctx context.Context, filter storage.JobFilter) ([]*PublicJobView, error) {
	active := jobDatamodel.StatusActive
	filter.Status = &active
	filter.EmployeeID = nil

	jobs, err := s.store.GetJobs(ctx, filter)
	if err != nil {
		return nil, internal.NewInternalError("Failed to list jobs", err)
	}
	sortNewestFirst(jobs)
	views, err := s.views(ctx, jobs, false)
	if err != nil {
		return nil, err
	}
	out := make([]*PublicJobView, 0, len(views))
	for _, v := range views {
		out = append(out, &PublicJobView{JobView: v})
	}
	return out, nil
}

func (s *Service) GetPublic(ctx context.Context, id int64) (*PublicJobView, error) {
	j, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Status != jobDatamodel.StatusActive {
		return nil, internal.ErrJobNotFound
	}
	v, err := s.view(ctx, j, false)
	if err != nil {
		return nil, err
	}
	return &PublicJobView{JobView: v}, nil
}

// ListForEmployee returns the jobs the user owns, or every job for an admin,
// with application counts.
func (s *Service) ListForEmployee(ctx context.Context, actor *userDatamodel.User, status *jobDatamodel.Status) ([]*JobView, error) {
	if actor == nil {
		return nil, internal.ErrUnauthorized
	}
	filter := storage.JobFilter{Status: status}
	if !actor.IsAdmin() {
		filter.EmployeeID = &actor.ID
	}

	jobs, err := s.store.GetJobs(ctx, filter)
	if err != nil {
		return nil, internal.NewInternalError("Failed to list jobs", err)
	}
	sortNewestFirst(jobs)
	return s.views(ctx, jobs, true)
}

func (s *Service) Get(ctx context.Context, actor *userDatamodel.User, id int64) (*JobView, error) {
	j, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, j, true)
}

func (s *Service) Create(ctx context.Context, actor *userDatamodel.User, dto CreateJobDTO) (*JobView, error) {
	if actor == nil {
		return nil, internal.ErrUnauthorized
	}
	dto.Title = strings.TrimSpace(dto.Title)
	dto.Department = strings.TrimSpace(dto.Department)
	if v := validation.Struct(dto); v != nil {
		return nil, v
	}
	if err := s.checkCategory(ctx, dto.CategoryID); err != nil {
		return nil, err
	}

	created, err := s.store.CreateJob(ctx, dto.ToDataModel(actor.ID))
	if err != nil {
		return nil, internal.NewInternalError("Failed to create job", err)
	}
	if err := s.replaceTags(ctx, created.ID, dto.Tags); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "job created", "job_id", created.ID, "owner_id", actor.ID, "status", created.Status)
	return s.view(ctx, created, true)
}

func (s *Service) Update(ctx context.Context, actor *userDatamodel.User, id int64, dto UpdateJobDTO) (*JobView, error) {
	if v := validation.Merge(validation.Struct(dto), blankFields(dto)); v != nil {
		return nil, v
	}
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}
	if dto.CategoryID != nil && *dto.CategoryID != 0 {
		if err := s.checkCategory(ctx, dto.CategoryID); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.UpdateJob(ctx, id, dto.ToUpdate())
	if err != nil {
		return nil, internal.NewInternalError("Failed to update job", err)
	}
	if updated == nil {
		return nil, internal.ErrJobNotFound
	}
	if dto.Tags != nil {
		if err := s.replaceTags(ctx, id, *dto.Tags); err != nil {
			return nil, err
		}
	}

	s.logger.InfoContext(ctx, "job updated", "job_id", id, "by", actor.ID)
	return s.view(ctx, updated, true)
}

// ChangeStatus moves a job through draft, active, paused and closed.
// Closed is terminal.
func (s *Service) ChangeStatus(ctx context.Context, actor *userDatamodel.User, id int64, dto UpdateStatusDTO) (*JobView, error) {
	if v := validation.Struct(dto); v != nil {
		return nil, v
	}
	j, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from := j.Status
	if !jobDatamodel.CanTransition(from, dto.Status) {
		return nil, internal.ErrInvalidTransition.WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{{
			Field:   "status",
			Message: "cannot change status from " + string(from) + " to " + string(dto.Status),
			Code:    string(internal.ErrCodeInvalidTransition),
		}}})
	}
	if from == dto.Status {
		return s.view(ctx, j, true)
	}

	updated, err := s.store.UpdateJob(ctx, id, storage.JobUpdate{Status: &dto.Status})
	if err != nil {
		return nil, internal.NewInternalError("Failed to update job status", err)
	}
	if updated == nil {
		return nil, internal.ErrJobNotFound
	}

	metrics.JobStatusChangesTotal.WithLabelValues(string(dto.Status)).Inc()
	s.publish(ctx, events.NewJobStatusChangedEvent(id, string(from), string(dto.Status), actor.ID))
	s.logger.InfoContext(ctx, "job status changed", "job_id", id, "from", from, "to", dto.Status, "by", actor.ID)
	return s.view(ctx, updated, true)
}

// AddTag is idempotent: a tag already on the job, compared
// case-insensitively, is not added twice.
func (s *Service) AddTag(ctx context.Context, actor *userDatamodel.User, id int64, dto TagDTO) ([]string, error) {
	dto.Tag = strings.TrimSpace(dto.Tag)
	if v := validation.Struct(dto); v != nil {
		return nil, v
	}
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}

	tags, err := s.tags(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, t := range tags {
		if strings.EqualFold(t, dto.Tag) {
			return tags, nil
		}
	}

	if _, err := s.store.AddJobTag(ctx, jobDatamodel.Tag{JobID: id, Tag: dto.Tag}); err != nil {
		return nil, internal.NewInternalError("Failed to add tag", err)
	}
	return append(tags, dto.Tag), nil
}

func (s *Service) RemoveTag(ctx context.Context, actor *userDatamodel.User, id int64, tag string) ([]string, error) {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}

	tags, err := s.tags(ctx, id)
	if err != nil {
		return nil, err
	}
	stored := ""
	for _, t := range tags {
		if strings.EqualFold(t, strings.TrimSpace(tag)) {
			stored = t
			break
		}
	}
	if stored == "" {
		return nil, internal.ErrTagNotFound
	}

	removed, err := s.store.RemoveJobTag(ctx, id, stored)
	if err != nil {
		return nil, internal.NewInternalError("Failed to remove tag", err)
	}
	if !removed {
		return nil, internal.ErrTagNotFound
	}
	return s.tags(ctx, id)
}

// Applications lists the applications to a job the actor manages.
func (s *Service) Applications(ctx context.Context, actor *userDatamodel.User, id int64, status *applicationDatamodel.Status) ([]*applicationDatamodel.Application, error) {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}

	apps, err := s.store.GetApplications(ctx, storage.ApplicationFilter{JobID: &id, Status: status})
	if err != nil {
		return nil, internal.NewInternalError("Failed to list applications", err)
	}
	if apps == nil {
		apps = []*applicationDatamodel.Application{}
	}
	return apps, nil
}

func (s *Service) find(ctx context.Context, id int64) (*jobDatamodel.Job, error) {
	j, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Failed to get job", err)
	}
	if j == nil {
		return nil, internal.ErrJobNotFound
	}
	return j, nil
}

// owned loads a job the actor may manage.
func (s *Service) owned(ctx context.Context, actor *userDatamodel.User, id int64) (*jobDatamodel.Job, error) {
	j, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanManageJob(actor, j); err != nil {
		s.logger.WarnContext(ctx, "job access denied", "job_id", id, "user_id", actorID(actor))
		return nil, err
	}
	return j, nil
}

func (s *Service) checkCategory(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	c, err := s.store.GetCategory(ctx, *id)
	if err != nil {
		return internal.NewInternalError("Failed to get category", err)
	}
	if c == nil || !c.IsActive() {
		return internal.NewValidationFieldError("categoryId", "categoryId must reference an active category", internal.ErrCodeCategoryNotFound)
	}
	return nil
}

// replaceTags makes the job's tag set equal to tags.
func (s *Service) replaceTags(ctx context.Context, id int64, tags []string) error {
	current, err := s.tags(ctx, id)
	if err != nil {
		return err
	}
	wanted := normalizeTags(tags)

	keep := make(map[string]struct{}, len(wanted))
	for _, t := range wanted {
		keep[strings.ToLower(t)] = struct{}{}
	}
	have := make(map[string]struct{}, len(current))
	for _, t := range current {
		if _, ok := keep[strings.ToLower(t)]; !ok {
			if _, err := s.store.RemoveJobTag(ctx, id, t); err != nil {
				return internal.NewInternalError("Failed to remove tag", err)
			}
			continue
		}
		have[strings.ToLower(t)] = struct{}{}
	}
	for _, t := range wanted {
		if _, ok := have[strings.ToLower(t)]; ok {
			continue
		}
		if _, err := s.store.AddJobTag(ctx, jobDatamodel.Tag{JobID: id, Tag: t}); err != nil {
			return internal.NewInternalError("Failed to add tag", err)
		}
	}
	return nil
}

func (s *Service) tags(ctx context.Context, id int64) ([]string, error) {
	tags, err := s.store.GetJobTags(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Failed to get tags", err)
	}
	return tagNames(tags), nil
}

func (s *Service) view(ctx context.Context, j *jobDatamodel.Job, withCount bool) (*JobView, error) {
	tags, err := s.tags(ctx, j.ID)
	if err != nil {
		return nil, err
	}
	v := &JobView{Job: j, Tags: tags}
	if withCount {
		n, err := s.store.GetApplicationCount(ctx, j.ID)
		if err != nil {
			return nil, internal.NewInternalError("Failed to count applications", err)
		}
		v.ApplicationCount = &n
	}
	return v, nil
}

func (s *Service) views(ctx context.Context, jobs []*jobDatamodel.Job, withCount bool) ([]*JobView, error) {
	out := make([]*JobView, 0, len(jobs))
	for _, j := range jobs {
		v, err := s.view(ctx, j, withCount)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

// blankFields rejects present-but-empty values for required columns.
func blankFields(dto UpdateJobDTO) *internal.AppError {
	b := validation.NewValidator()
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"title", dto.Title},
		{"department", dto.Department},
		{"shortDescription", dto.ShortDescription},
		{"fullDescription", dto.FullDescription},
		{"requirements", dto.Requirements},
	} {
		if f.value != nil {
			b.Field(f.name, f.value).Required()
		}
	}
	return b.Validate()
}

func actorID(actor *userDatamodel.User) int64 {
	if actor == nil {
		return 0
	}
	return actor.ID
}
