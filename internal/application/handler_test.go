package application_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/job-board/internal"
	"github.com/frahmantamala/job-board/internal/application"
	jobDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/job"
	userDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage/postgres"
	"github.com/frahmantamala/job-board/internal/storage/storagetest"
)

var _ = Describe("Application Handler", func() {
	var (
		router    *chi.Mux
		current   *userDatamodel.User
		owner     *userDatamodel.User
		applicant *userDatamodel.User
		open      *jobDatamodel.Job
	)

	BeforeEach(func() {
		store := postgres.New(storagetest.OpenSQLite())
		handler := application.NewHandler(application.NewService(store, nil, quietLogger()))
		owner = seedUser(store, "owner", userDatamodel.RoleEmployee)
		applicant = seedUser(store, "alice", userDatamodel.RoleApplicant)
		open = seedJob(store, owner, jobDatamodel.StatusActive)
		current = nil

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if current != nil {
					r = r.WithContext(internal.ContextWithUser(r.Context(), current))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Post("/applications", handler.SubmitApplication)
		router.Get("/applications/{id}", handler.GetApplication)
		router.Get("/applicant/applications", handler.ListMyApplications)
		router.Patch("/employee/applications/{id}", handler.ReviewApplication)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	submitBody := func() string {
		return `{"jobId":` + strconv.FormatInt(open.ID, 10) + `,"name":"Bob","email":"bob@example.com","resumeUrl":"https://example.com/cv.pdf"}`
	}

	It("should accept an anonymous submission", func() {
		w := do(http.MethodPost, "/applications", submitBody())

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).To(ContainSubstring(`"status":"new"`))
		Expect(w.Body.String()).To(ContainSubstring(`"applicantId":null`))
	})

	It("should answer 409 when an applicant applies twice", func() {
		current = applicant

		Expect(do(http.MethodPost, "/applications", submitBody()).Code).To(Equal(http.StatusCreated))

		w := do(http.MethodPost, "/applications", submitBody())
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("DUPLICATE_APPLICATION"))

		w = do(http.MethodGet, "/applicant/applications", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"jobTitle":"Backend Engineer"`))
	})

	It("should reject an invalid resume URL", func() {
		w := do(http.MethodPost, "/applications",
			`{"jobId":`+strconv.FormatInt(open.ID, 10)+`,"name":"Bob","email":"bob@example.com","resumeUrl":"not a url"}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"field":"resumeUrl"`))
	})

	It("should let the job owner move the application forward", func() {
		w := do(http.MethodPost, "/applications", submitBody())
		Expect(w.Code).To(Equal(http.StatusCreated))

		current = owner
		w = do(http.MethodPatch, "/employee/applications/1", `{"status":"interviewed","notes":"good"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"status":"interviewed"`))
	})

	It("should answer 403 when an applicant views someone else's application", func() {
		Expect(do(http.MethodPost, "/applications", submitBody()).Code).To(Equal(http.StatusCreated))

		current = applicant
		w := do(http.MethodGet, "/applications/1", "")
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})
})
