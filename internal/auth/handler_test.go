package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/job-board/internal"
	"github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage"
	"github.com/frahmantamala/job-board/internal/storage/memory"
)

type stubRegistrar struct {
	store storage.Storage
}

func (s stubRegistrar) Register(ctx context.Context, dto RegisterDTO) (*user.User, error) {
	return s.store.CreateUser(ctx, user.User{
		Username: dto.Username, Email: dto.Email, Password: dto.Password,
		FirstName: dto.FirstName, LastName: dto.LastName, Role: user.RoleApplicant, IsActive: true,
	})
}

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		store    *memory.Store
		sessions *MemorySessionStore
		handler  *Handler
		router   *chi.Mux
	)

	ginkgo.BeforeEach(func() {
		store = memory.New()
		sessions = NewMemorySessionStore(time.Hour)
		service := NewService(store, sessions, NewPasswordHasher(bcrypt.MinCost), nil)
		handler = NewHandler(service, NewCookieCodec("jobboard_session", testSecret, false), stubRegistrar{store: store})

		ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := internal.UserFromContext(r.Context())
			handler.WriteJSON(w, http.StatusOK, map[string]string{"username": u.Username})
		})

		router = chi.NewRouter()
		router.Post("/auth/login", handler.Login)
		router.Post("/auth/logout", handler.Logout)
		router.Post("/auth/register", handler.Register)
		router.With(handler.RequireAuth).Get("/auth/me", handler.Me)
		router.With(handler.RequireAuth).Get("/private", ok)
		router.With(handler.RequireAuth, RequireRole(user.RoleAdmin)).Get("/admin", ok)
	})

	do := func(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	login := func(username, password string) (*httptest.ResponseRecorder, *http.Cookie) {
		rec := do(http.MethodPost, "/auth/login", `{"username":"`+username+`","password":"`+password+`"}`)
		for _, c := range rec.Result().Cookies() {
			if c.Name == "jobboard_session" {
				return rec, c
			}
		}
		return rec, nil
	}

	ginkgo.Describe("RequireAuth", func() {
		ginkgo.It("should answer 401 Unauthorized without a cookie", func() {
			rec := do(http.MethodGet, "/private", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.MatchJSON(`{"message":"Unauthorized"}`))
		})

		ginkgo.It("should answer 401 for a forged cookie", func() {
			rec := do(http.MethodGet, "/private", "", &http.Cookie{Name: "jobboard_session", Value: "forged"})
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should admit a logged in user", func() {
			seedUser(store, "alice", "pw", user.RoleEmployee, true)
			_, cookie := login("alice", "pw")
			gomega.Expect(cookie).ToNot(gomega.BeNil())
			gomega.Expect(cookie.HttpOnly).To(gomega.BeTrue())

			rec := do(http.MethodGet, "/private", "", cookie)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.MatchJSON(`{"username":"alice"}`))
		})

		ginkgo.It("should answer 403 Account disabled once the user is deactivated", func() {
			u := seedUser(store, "bob", "pw", user.RoleEmployee, true)
			_, cookie := login("bob", "pw")

			inactive := false
			_, err := store.UpdateUser(context.Background(), u.ID, storage.UserUpdate{IsActive: &inactive}, nil)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			rec := do(http.MethodGet, "/private", "", cookie)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(rec.Body.String()).To(gomega.MatchJSON(`{"message":"Account disabled"}`))
			gomega.Expect(sessions.Len()).To(gomega.Equal(0))
		})
	})

	ginkgo.Describe("RequireRole", func() {
		ginkgo.It("should forbid an employee on an admin route", func() {
			seedUser(store, "emp", "pw", user.RoleEmployee, true)
			_, cookie := login("emp", "pw")

			rec := do(http.MethodGet, "/admin", "", cookie)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(rec.Body.String()).To(gomega.MatchJSON(`{"message":"Forbidden"}`))
		})

		ginkgo.It("should pass an admin through", func() {
			seedUser(store, "root", "pw", user.RoleAdmin, true)
			_, cookie := login("root", "pw")

			rec := do(http.MethodGet, "/admin", "", cookie)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should answer 401 when no user is attached", func() {
			h := RequireRole(user.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("should answer 401 Invalid credentials for a wrong password", func() {
			seedUser(store, "carol", "pw", user.RoleApplicant, true)

			rec, cookie := login("carol", "nope")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.MatchJSON(`{"message":"Invalid credentials"}`))
			gomega.Expect(cookie).To(gomega.BeNil())
		})

		ginkgo.It("should answer 403 for an inactive user even with the right password", func() {
			seedUser(store, "dan", "pw", user.RoleApplicant, false)

			rec, _ := login("dan", "pw")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should never serialize the password", func() {
			seedUser(store, "erin", "pw", user.RoleApplicant, true)

			rec, _ := login("erin", "pw")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring(`"password"`))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"lastLogin"`))
		})

		ginkgo.It("should reject a malformed body", func() {
			rec := do(http.MethodPost, "/auth/login", `{`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should destroy the session and clear the cookie", func() {
			seedUser(store, "fay", "pw", user.RoleApplicant, true)
			_, cookie := login("fay", "pw")

			rec := do(http.MethodPost, "/auth/logout", "", cookie)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(sessions.Len()).To(gomega.Equal(0))

			rec = do(http.MethodGet, "/private", "", cookie)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should succeed without a session", func() {
			rec := do(http.MethodPost, "/auth/logout", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("should create the account and log it in", func() {
			rec := do(http.MethodPost, "/auth/register",
				`{"username":"newbie","email":"newbie@example.com","password":"longenough","firstName":"New","lastName":"Bie"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))

			var cookie *http.Cookie
			for _, c := range rec.Result().Cookies() {
				if c.Name == "jobboard_session" {
					cookie = c
				}
			}
			gomega.Expect(cookie).ToNot(gomega.BeNil())

			me := do(http.MethodGet, "/auth/me", "", cookie)
			gomega.Expect(me.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(me.Body.String()).To(gomega.ContainSubstring(`"username":"newbie"`))
		})
	})
})
