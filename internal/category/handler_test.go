package category_test

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
	"github.com/frahmantamala/job-board/internal/category"
	userDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage/postgres"
	"github.com/frahmantamala/job-board/internal/storage/storagetest"
	"github.com/frahmantamala/job-board/internal/transport"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		service *category.Service
		router  *chi.Mux
		current *userDatamodel.User
	)

	BeforeEach(func() {
		service = category.NewService(postgres.New(storagetest.OpenSQLite()), quietLogger())
		handler := category.NewHandler(&transport.BaseHandler{Logger: quietLogger()}, service)
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
		router.Get("/categories", handler.GetCategories)
		router.Post("/admin/categories", handler.CreateCategory)
		router.Patch("/admin/categories/{id}", handler.UpdateCategory)
		router.Delete("/admin/categories/{id}", handler.DeactivateCategory)

		for _, name := range []string{"Engineering", "Design"} {
			_, err := service.Create(context.Background(), category.CreateCategoryDTO{Name: name})
			Expect(err).NotTo(HaveOccurred())
		}
		inactive, err := service.Create(context.Background(), category.CreateCategoryDTO{Name: "Retired"})
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Deactivate(context.Background(), inactive.ID)
		Expect(err).NotTo(HaveOccurred())
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) category.CategoriesResponse {
		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		return response
	}

	It("should handle GET /categories request successfully", func() {
		w := do(http.MethodGet, "/categories", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		response := decode(w)
		Expect(response.Categories).To(HaveLen(2))
		Expect(response.Categories[0].Name).To(Equal("Engineering"))
		Expect(response.Categories[1].Name).To(Equal("Design"))
	})

	It("should ignore includeInactive for anonymous callers", func() {
		w := do(http.MethodGet, "/categories?includeInactive=true", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w).Categories).To(HaveLen(2))
	})

	It("should ignore includeInactive for employees", func() {
		current = &userDatamodel.User{ID: 5, Role: userDatamodel.RoleEmployee, IsActive: true}

		w := do(http.MethodGet, "/categories?includeInactive=true", "")
		Expect(decode(w).Categories).To(HaveLen(2))
	})

	It("should honour includeInactive for admins", func() {
		current = &userDatamodel.User{ID: 1, Role: userDatamodel.RoleAdmin, IsActive: true}

		w := do(http.MethodGet, "/categories?includeInactive=true", "")
		Expect(decode(w).Categories).To(HaveLen(3))
	})

	It("should create, update and deactivate through the admin routes", func() {
		w := do(http.MethodPost, "/admin/categories", `{"name":"Marketing","description":"Growth"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created category.CategoryResponse
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		path := "/admin/categories/" + strconv.FormatInt(created.Category.ID, 10)

		w = do(http.MethodPatch, path, `{"name":"Marketing and Sales"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"name":"Marketing and Sales"`))

		w = do(http.MethodDelete, path, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"status":"inactive"`))
	})

	It("should answer 409 for a duplicate name", func() {
		w := do(http.MethodPost, "/admin/categories", `{"name":"engineering"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should answer 404 when updating a missing category", func() {
		w := do(http.MethodPatch, "/admin/categories/999", `{"name":"x"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
