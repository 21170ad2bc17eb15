package user_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/job-board/internal"
	"github.com/frahmantamala/job-board/internal/auth"
	userDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage/memory"
	"github.com/frahmantamala/job-board/internal/user"
)

var _ = Describe("User Handler", func() {
	var (
		store  *memory.Store
		actor  *userDatamodel.User
		router *chi.Mux
	)

	BeforeEach(func() {
		store = memory.New()
		actor = seed(store, "admin", userDatamodel.RoleAdmin, false)
		handler := user.NewHandler(user.NewService(store, auth.NewPasswordHasher(bcrypt.MinCost), quietLogger()))

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithUser(r.Context(), actor)))
			})
		})
		router.Get("/admin/users", handler.ListUsers)
		router.Post("/admin/users", handler.CreateUser)
		router.Get("/admin/users/{id}", handler.GetUser)
		router.Patch("/admin/users/{id}", handler.UpdateUser)
		router.Delete("/admin/users/{id}", handler.DeactivateUser)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should create a user and answer 201 without the password", func() {
		w := do(http.MethodPost, "/admin/users",
			`{"username":"jane","email":"jane@example.com","password":"password123","firstName":"Jane","lastName":"Doe","role":"employee"}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))

		var resp struct {
			User userDatamodel.User `json:"user"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.User.Username).To(Equal("jane"))
		Expect(resp.User.FullName).To(Equal("Jane Doe"))
	})

	It("should answer 409 for a duplicate username", func() {
		w := do(http.MethodPost, "/admin/users",
			`{"username":"ADMIN","email":"x@example.com","password":"password123","firstName":"A","lastName":"B","role":"employee"}`)

		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring(`"message":"Username already exists"`))
	})

	It("should list field errors for an invalid body", func() {
		w := do(http.MethodPost, "/admin/users", `{"username":"x","role":"boss"}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"field":"username"`))
		Expect(w.Body.String()).To(ContainSubstring(`"code":"INVALID_ROLE"`))
	})

	It("should filter by role and isActive", func() {
		seed(store, "emp", userDatamodel.RoleEmployee, false)

		w := do(http.MethodGet, "/admin/users?role=employee&isActive=true", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp user.UsersResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Users).To(HaveLen(1))
		Expect(resp.Users[0].Username).To(Equal("emp"))
	})

	It("should reject an unknown role filter", func() {
		w := do(http.MethodGet, "/admin/users?role=boss", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 404 for a missing user", func() {
		w := do(http.MethodGet, "/admin/users/999", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should answer 400 for a malformed id", func() {
		w := do(http.MethodGet, "/admin/users/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 403 when a plain admin edits a super-admin's role", func() {
		root := seed(store, "root", userDatamodel.RoleAdmin, true)

		w := do(http.MethodPatch, "/admin/users/"+strconv.FormatInt(root.ID, 10), `{"role":"employee"}`)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("should deactivate on DELETE", func() {
		emp := seed(store, "emp", userDatamodel.RoleEmployee, false)

		w := do(http.MethodDelete, "/admin/users/"+strconv.FormatInt(emp.ID, 10), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"isActive":false`))
	})
})
