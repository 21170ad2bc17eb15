package job_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/job-board/internal"
	jobDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/job"
	userDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/job"
	"github.com/frahmantamala/job-board/internal/storage/postgres"
	"github.com/frahmantamala/job-board/internal/storage/storagetest"
)

var _ = Describe("Job Handler", func() {
	var (
		store   *postgres.Store
		service *job.Service
		router  *chi.Mux
		current *userDatamodel.User
		owner   *userDatamodel.User
		other   *userDatamodel.User
	)

	BeforeEach(func() {
		store = postgres.New(storagetest.OpenSQLite())
		service = job.NewService(store, nil, quietLogger())
		handler := job.NewHandler(service)
		owner = seedUser(store, "owner", userDatamodel.RoleEmployee)
		other = seedUser(store, "other", userDatamodel.RoleEmployee)
		current = owner

		router = chi.NewRouter()
		router.Get("/jobs", handler.ListJobs)
		router.Get("/jobs/{id}", handler.GetJob)
		router.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					next.ServeHTTP(w, req.WithContext(internal.ContextWithUser(req.Context(), current)))
				})
			})
			r.Get("/employee/jobs", handler.ListOwnJobs)
			r.Post("/employee/jobs", handler.CreateJob)
			r.Patch("/employee/jobs/{id}", handler.UpdateJob)
			r.Patch("/employee/jobs/{id}/status", handler.UpdateJobStatus)
			r.Post("/employee/jobs/{id}/tags", handler.AddTag)
			r.Delete("/employee/jobs/{id}/tags/{tag}", handler.RemoveTag)
			r.Get("/employee/jobs/{id}/applications", handler.ListJobApplications)
		})
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	activeJob := func(title, city string) *job.JobView {
		dto := newJobDTO(title)
		dto.City = &city
		dto.Status = ptr(jobDatamodel.StatusActive)
		v, err := service.Create(context.Background(), owner, dto)
		Expect(err).NotTo(HaveOccurred())
		return v
	}

	jobPath := func(id int64, suffix string) string {
		return "/employee/jobs/" + strconv.FormatInt(id, 10) + suffix
	}

	It("should filter the public listing by search and city", func() {
		activeJob("Go Developer", "Bandung")
		activeJob("Product Designer", "Jakarta")

		w := do(http.MethodGet, "/jobs?search=developer", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring("employeeId"))
		var resp job.PublicJobsResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Jobs).To(HaveLen(1))
		Expect(resp.Jobs[0].Title).To(Equal("Go Developer"))
		Expect(resp.Jobs[0].EmployeeID).To(BeNil())

		w = do(http.MethodGet, "/jobs?city=jak", "")
		resp = job.PublicJobsResponse{}
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Jobs).To(HaveLen(1))
		Expect(resp.Jobs[0].Title).To(Equal("Product Designer"))
	})

	It("should reject an unknown location filter", func() {
		w := do(http.MethodGet, "/jobs?location=moon", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should create a job with tags for the current user", func() {
		w := do(http.MethodPost, "/employee/jobs",
			`{"title":"SRE","department":"Ops","shortDescription":"s","fullDescription":"f","requirements":"r","type":"contract","location":"hybrid","tags":["k8s"]}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
		var resp job.JobResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Job.EmployeeID).To(Equal(owner.ID))
		Expect(resp.Job.Status).To(Equal(jobDatamodel.StatusDraft))
		Expect(resp.Job.Tags).To(Equal([]string{"k8s"}))
	})

	It("should answer 403 when another employee changes the status", func() {
		v := activeJob("Mine", "Bandung")
		current = other

		w := do(http.MethodPatch, jobPath(v.ID, "/status"), `{"status":"paused"}`)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("should answer 400 for an invalid transition", func() {
		v := activeJob("Mine", "Bandung")

		w := do(http.MethodPatch, jobPath(v.ID, "/status"), `{"status":"closed"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodPatch, jobPath(v.ID, "/status"), `{"status":"active"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("INVALID_STATUS_TRANSITION"))
	})

	It("should hide a paused job from the public detail route", func() {
		v := activeJob("Paused", "Bandung")

		w := do(http.MethodGet, "/jobs/"+strconv.FormatInt(v.ID, 10), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring("employeeId"))

		w = do(http.MethodPatch, jobPath(v.ID, "/status"), `{"status":"paused"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, "/jobs/"+strconv.FormatInt(v.ID, 10), "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should add and remove tags", func() {
		v := activeJob("Tagged", "Bandung")

		w := do(http.MethodPost, jobPath(v.ID, "/tags"), `{"tag":"remote-first"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"tags":["remote-first"]}`))

		w = do(http.MethodDelete, jobPath(v.ID, "/tags/remote-first"), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"tags":[]}`))

		w = do(http.MethodDelete, jobPath(v.ID, "/tags/remote-first"), "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should remove tags whose names need escaping", func() {
		v := activeJob("Tagged", "Bandung")
		Expect(do(http.MethodPost, jobPath(v.ID, "/tags"), `{"tag":"CI/CD"}`).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodPost, jobPath(v.ID, "/tags"), `{"tag":"C++"}`).Code).To(Equal(http.StatusOK))

		w := do(http.MethodDelete, jobPath(v.ID, "/tags/CI%2FCD"), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"tags":["C++"]}`))

		w = do(http.MethodDelete, jobPath(v.ID, "/tags/C%2B%2B"), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"tags":[]}`))
	})

	It("should list only owned jobs with application counts", func() {
		activeJob("Mine", "Bandung")
		current = other

		w := do(http.MethodGet, "/employee/jobs", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"jobs":[]}`))

		current = owner
		w = do(http.MethodGet, "/employee/jobs?status=active", "")
		Expect(w.Body.String()).To(ContainSubstring(`"applicationCount":0`))
	})

	It("should reject an unknown application status filter", func() {
		v := activeJob("Mine", "Bandung")

		w := do(http.MethodGet, jobPath(v.ID, "/applications?status=maybe"), "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
