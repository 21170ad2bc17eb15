package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

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
	now       func() time.Time
}

func NewService(store storage.Storage, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit files an application for an open job. actor is nil for anonymous
// submissions; a logged in applicant is recorded as the applicant and may
// apply to each job once.
func (s *Service) Submit(ctx context.Context, actor *userDatamodel.User, dto SubmitApplicationDTO) (*ApplicationView, error) {
	var applicantID *int64
	if actor != nil && actor.Role == userDatamodel.RoleApplicant {
		applicantID = &actor.ID
		if strings.TrimSpace(dto.Name) == "" {
			dto.Name = actor.FullName
		}
		if strings.TrimSpace(dto.Email) == "" {
			dto.Email = actor.Email
		}
	}
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Email = strings.TrimSpace(dto.Email)
	if v := validation.Struct(dto); v != nil {
		return nil, v
	}

	j, err := s.store.GetJob(ctx, dto.JobID)
	if err != nil {
		return nil, internal.NewInternalError("Failed to get job", err)
	}
	if j == nil {
		return nil, internal.ErrJobNotFound
	}
	if !s.acceptsApplications(j) {
		return nil, internal.ErrJobNotOpen
	}

	if applicantID != nil {
		existing, err := s.store.GetApplications(ctx, storage.ApplicationFilter{JobID: &j.ID, ApplicantID: applicantID})
		if err != nil {
			return nil, internal.NewInternalError("Failed to check existing applications", err)
		}
		if len(existing) > 0 {
			return nil, internal.ErrDuplicateApplication
		}
	}

	created, err := s.store.CreateApplication(ctx, applicationDatamodel.Application{
		JobID:       j.ID,
		ApplicantID: applicantID,
		Name:        dto.Name,
		Email:       dto.Email,
		Phone:       optional(dto.Phone),
		ResumeURL:   optional(dto.ResumeURL),
		CoverLetter: optional(dto.CoverLetter),
		Status:      applicationDatamodel.StatusNew,
	})
	if err != nil {
		// the unique (job, applicant) index catches concurrent double submits
		if errors.Is(err, storage.ErrConflict) {
			return nil, internal.ErrDuplicateApplication.WithCause(err)
		}
		return nil, internal.NewInternalError("Failed to create application", err)
	}

	metrics.ApplicationsSubmittedTotal.Inc()
	s.publish(ctx, events.NewApplicationSubmittedEvent(created.ID, j.ID, applicantID))
	s.logger.InfoContext(ctx, "application submitted", "application_id", created.ID, "job_id", j.ID, "anonymous", applicantID == nil)
	return &ApplicationView{Application: created, JobTitle: j.Title}, nil
}

// ListMine returns the applicant's own applications.
func (s *Service) ListMine(ctx context.Context, actor *userDatamodel.User) ([]*ApplicationView, error) {
	if actor == nil {
		return nil, internal.ErrUnauthorized
	}

	apps, err := s.store.GetApplications(ctx, storage.ApplicationFilter{ApplicantID: &actor.ID})
	if err != nil {
		return nil, internal.NewInternalError("Failed to list applications", err)
	}

	titles := map[int64]string{}
	out := make([]*ApplicationView, 0, len(apps))
	for _, a := range apps {
		title, ok := titles[a.JobID]
		if !ok {
			j, err := s.store.GetJob(ctx, a.JobID)
			if err != nil {
				return nil, internal.NewInternalError("Failed to get job", err)
			}
			if j != nil {
				title = j.Title
			}
			titles[a.JobID] = title
		}
		out = append(out, &ApplicationView{Application: a, JobTitle: title})
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, actor *userDatamodel.User, id int64) (*ApplicationView, error) {
	a, j, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanViewApplication(actor, a, j); err != nil {
		return nil, err
	}
	return view(a, j), nil
}

// Review applies a status or notes change by the job owner or an admin.
func (s *Service) Review(ctx context.Context, actor *userDatamodel.User, id int64, dto ReviewApplicationDTO) (*ApplicationView, error) {
	if v := validation.Struct(dto); v != nil {
		return nil, v
	}
	a, j, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanManageApplication(actor, a, j); err != nil {
		if actor != nil {
			s.logger.WarnContext(ctx, "application access denied", "application_id", id, "user_id", actor.ID)
		}
		return nil, err
	}

	updated, err := s.store.UpdateApplication(ctx, id, storage.ApplicationUpdate{Status: dto.Status, Notes: dto.Notes})
	if err != nil {
		return nil, internal.NewInternalError("Failed to update application", err)
	}
	if updated == nil {
		return nil, internal.ErrApplicationNotFound
	}

	if dto.Status != nil && *dto.Status != a.Status {
		metrics.ApplicationStatusChangesTotal.WithLabelValues(string(*dto.Status)).Inc()
		s.publish(ctx, events.NewApplicationStatusChangedEvent(id, a.JobID, string(a.Status), string(*dto.Status), actor.ID))
		s.logger.InfoContext(ctx, "application status changed", "application_id", id, "from", a.Status, "to", *dto.Status, "by", actor.ID)
	}
	return view(updated, j), nil
}

func (s *Service) load(ctx context.Context, id int64) (*applicationDatamodel.Application, *jobDatamodel.Job, error) {
	a, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, nil, internal.NewInternalError("Failed to get application", err)
	}
	if a == nil {
		return nil, nil, internal.ErrApplicationNotFound
	}
	j, err := s.store.GetJob(ctx, a.JobID)
	if err != nil {
		return nil, nil, internal.NewInternalError("Failed to get job", err)
	}
	return a, j, nil
}

// acceptsApplications: active and not past its expiry date.
func (s *Service) acceptsApplications(j *jobDatamodel.Job) bool {
	if j.Status != jobDatamodel.StatusActive {
		return false
	}
	return j.ExpiryDate == nil || s.now().Before(*j.ExpiryDate)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func view(a *applicationDatamodel.Application, j *jobDatamodel.Job) *ApplicationView {
	v := &ApplicationView{Application: a}
	if j != nil {
		v.JobTitle = j.Title
	}
	return v
}

func optional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
