package application_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/job-board/internal"
	"github.com/frahmantamala/job-board/internal/application"
	applicationDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/application"
	jobDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/job"
	userDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/core/events"
	"github.com/frahmantamala/job-board/internal/storage"
	"github.com/frahmantamala/job-board/internal/storage/memory"
)

func TestApplication(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Application Module Suite")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T {
	return &v
}

func seedUser(store storage.Storage, username string, role userDatamodel.Role) *userDatamodel.User {
	u, err := store.CreateUser(context.Background(), userDatamodel.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "pw",
		FirstName: "Test",
		LastName:  username,
		Role:      role,
		IsActive:  true,
	})
	Expect(err).NotTo(HaveOccurred())
	return u
}

func seedJob(store storage.Storage, owner *userDatamodel.User, status jobDatamodel.Status) *jobDatamodel.Job {
	j, err := store.CreateJob(context.Background(), jobDatamodel.Job{
		Title:            "Backend Engineer",
		Department:       "Engineering",
		EmployeeID:       owner.ID,
		ShortDescription: "s",
		FullDescription:  "f",
		Requirements:     "r",
		Type:             jobDatamodel.TypeFullTime,
		Location:         jobDatamodel.LocationRemote,
		Status:           status,
	})
	Expect(err).NotTo(HaveOccurred())
	return j
}

var _ = Describe("Application Service", func() {
	var (
		ctx       context.Context
		store     *memory.Store
		bus       *events.EventBus
		received  chan events.Event
		service   *application.Service
		owner     *userDatamodel.User
		other     *userDatamodel.User
		applicant *userDatamodel.User
		open      *jobDatamodel.Job
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.New()
		bus = events.NewEventBus(quietLogger())
		received = make(chan events.Event, 10)
		for _, t := range []string{events.EventTypeApplicationSubmitted, events.EventTypeApplicationStatusChanged} {
			bus.Subscribe(t, func(_ context.Context, e events.Event) error {
				received <- e
				return nil
			})
		}
		service = application.NewService(store, bus, quietLogger())
		owner = seedUser(store, "owner", userDatamodel.RoleEmployee)
		other = seedUser(store, "other", userDatamodel.RoleEmployee)
		applicant = seedUser(store, "alice", userDatamodel.RoleApplicant)
		open = seedJob(store, owner, jobDatamodel.StatusActive)
	})

	Describe("Submit", func() {
		It("should accept an anonymous application with status new", func() {
			app, err := service.Submit(ctx, nil, application.SubmitApplicationDTO{JobID: open.ID, Name: "Bob", Email: "bob@example.com"})

			Expect(err).NotTo(HaveOccurred())
			Expect(app.ApplicantID).To(BeNil())
			Expect(app.Status).To(Equal(applicationDatamodel.StatusNew))
			Expect(app.JobTitle).To(Equal("Backend Engineer"))

			var e events.Event
			Eventually(received).Should(Receive(&e))
			Expect(e.EventType()).To(Equal(events.EventTypeApplicationSubmitted))
		})

		It("should fill name and email from the applicant's profile", func() {
			app, err := service.Submit(ctx, applicant, application.SubmitApplicationDTO{JobID: open.ID})

			Expect(err).NotTo(HaveOccurred())
			Expect(*app.ApplicantID).To(Equal(applicant.ID))
			Expect(app.Name).To(Equal("Test alice"))
			Expect(app.Email).To(Equal("alice@example.com"))
		})

		It("should refuse a second application to the same job", func() {
			_, err := service.Submit(ctx, applicant, application.SubmitApplicationDTO{JobID: open.ID})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Submit(ctx, applicant, application.SubmitApplicationDTO{JobID: open.ID})
			Expect(err).To(MatchError(internal.ErrDuplicateApplication))
		})

		It("should refuse jobs that are not active", func() {
			draft := seedJob(store, owner, jobDatamodel.StatusDraft)

			_, err := service.Submit(ctx, nil, application.SubmitApplicationDTO{JobID: draft.ID, Name: "Bob", Email: "bob@example.com"})
			Expect(err).To(MatchError(internal.ErrJobNotOpen))
		})

		It("should refuse expired jobs", func() {
			past := time.Now().Add(-time.Hour)
			_, err := store.UpdateJob(ctx, open.ID, storage.JobUpdate{ExpiryDate: &past})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Submit(ctx, nil, application.SubmitApplicationDTO{JobID: open.ID, Name: "Bob", Email: "bob@example.com"})
			Expect(err).To(MatchError(internal.ErrJobNotOpen))
		})

		It("should answer ErrJobNotFound for a missing job", func() {
			_, err := service.Submit(ctx, nil, application.SubmitApplicationDTO{JobID: 999, Name: "Bob", Email: "bob@example.com"})
			Expect(err).To(MatchError(internal.ErrJobNotFound))
		})

		It("should validate anonymous contact details", func() {
			_, err := service.Submit(ctx, nil, application.SubmitApplicationDTO{JobID: open.ID, Name: "Bob", Email: "not-an-email"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("ListMine", func() {
		It("should return only the applicant's applications", func() {
			_, err := service.Submit(ctx, applicant, application.SubmitApplicationDTO{JobID: open.ID})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Submit(ctx, nil, application.SubmitApplicationDTO{JobID: open.ID, Name: "Bob", Email: "bob@example.com"})
			Expect(err).NotTo(HaveOccurred())

			mine, err := service.ListMine(ctx, applicant)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))
			Expect(mine[0].JobTitle).To(Equal("Backend Engineer"))
		})
	})

	Describe("Get", func() {
		It("should let applicants see only their own applications", func() {
			mine, err := service.Submit(ctx, applicant, application.SubmitApplicationDTO{JobID: open.ID})
			Expect(err).NotTo(HaveOccurred())
			theirs, err := service.Submit(ctx, nil, application.SubmitApplicationDTO{JobID: open.ID, Name: "Bob", Email: "bob@example.com"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Get(ctx, applicant, mine.ID)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Get(ctx, applicant, theirs.ID)
			Expect(err).To(MatchError(internal.ErrNotOwner))
			_, err = service.Get(ctx, owner, theirs.ID)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Review", func() {
		var app *application.ApplicationView

		BeforeEach(func() {
			var err error
			app, err = service.Submit(ctx, applicant, application.SubmitApplicationDTO{JobID: open.ID})
			Expect(err).NotTo(HaveOccurred())
			Eventually(received).Should(Receive())
		})

		It("should update status and notes and bump lastUpdated", func() {
			updated, err := service.Review(ctx, owner, app.ID, application.ReviewApplicationDTO{
				Status: ptr(applicationDatamodel.StatusReviewing),
				Notes:  ptr("strong CV"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(applicationDatamodel.StatusReviewing))
			Expect(*updated.Notes).To(Equal("strong CV"))
			Expect(updated.LastUpdated).To(BeTemporally(">=", app.LastUpdated))

			var e events.Event
			Eventually(received).Should(Receive(&e))
			changed := e.(*events.ApplicationStatusChangedEvent)
			Expect(changed.From).To(Equal("new"))
			Expect(changed.To).To(Equal("reviewing"))
		})

		It("should not publish when only the notes change", func() {
			_, err := service.Review(ctx, owner, app.ID, application.ReviewApplicationDTO{Notes: ptr("call back")})
			Expect(err).NotTo(HaveOccurred())

			bus.Wait()
			Consistently(received, "50ms").ShouldNot(Receive())
		})

		It("should refuse employees who do not own the job", func() {
			_, err := service.Review(ctx, other, app.ID, application.ReviewApplicationDTO{Status: ptr(applicationDatamodel.StatusHired)})
			Expect(err).To(MatchError(internal.ErrNotOwner))
		})

		It("should reject an unknown status", func() {
			_, err := service.Review(ctx, owner, app.ID, application.ReviewApplicationDTO{Status: ptr(applicationDatamodel.Status("ghosted"))})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("should answer ErrApplicationNotFound for a missing id", func() {
			_, err := service.Review(ctx, owner, 999, application.ReviewApplicationDTO{Notes: ptr("x")})
			Expect(err).To(MatchError(internal.ErrApplicationNotFound))
		})
	})
})
