package auth

import (
	"context"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/job-board/internal"
	"github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage"
	"github.com/frahmantamala/job-board/internal/storage/memory"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

const testSecret = "test-session-secret-0123456789abcdef"

func seedUser(store storage.Storage, username, password string, role user.Role, active bool) *user.User {
	u, err := store.CreateUser(context.Background(), user.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  password,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  active,
	})
	gomega.Expect(err).ToNot(gomega.HaveOccurred())
	return u
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		ctx      context.Context
		store    *memory.Store
		sessions *MemorySessionStore
		hasher   *PasswordHasher
		service  *Service
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		store = memory.New()
		sessions = NewMemorySessionStore(time.Hour)
		hasher = NewPasswordHasher(bcrypt.MinCost)
		service = NewService(store, sessions, hasher, nil)
	})

	ginkgo.Describe("Login", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should create a session and record the last login", func() {
				hash, err := hasher.Hash("correct_password")
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				created := seedUser(store, "alice", hash, user.RoleEmployee, true)

				u, sess, err := service.Login(ctx, LoginDTO{Username: "alice", Password: "correct_password"})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(u.ID).To(gomega.Equal(created.ID))
				gomega.Expect(u.LastLogin).ToNot(gomega.BeNil())
				gomega.Expect(sess.UserID).To(gomega.Equal(created.ID))

				stored, err := sessions.Get(ctx, sess.ID)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(stored).ToNot(gomega.BeNil())
			})

			ginkgo.It("should accept an email as identifier", func() {
				seedUser(store, "bob", "plain", user.RoleApplicant, true)

				u, _, err := service.Login(ctx, LoginDTO{Username: "BOB@example.com", Password: "plain"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(u.Username).To(gomega.Equal("bob"))
			})

			ginkgo.It("should match usernames case-insensitively", func() {
				seedUser(store, "carol", "plain", user.RoleApplicant, true)

				_, _, err := service.Login(ctx, LoginDTO{Username: "Carol", Password: "plain"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should reject a wrong password", func() {
				seedUser(store, "dave", "right", user.RoleEmployee, true)

				_, sess, err := service.Login(ctx, LoginDTO{Username: "dave", Password: "wrong"})
				gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
				gomega.Expect(sess).To(gomega.BeNil())
				gomega.Expect(sessions.Len()).To(gomega.Equal(0))
			})

			ginkgo.It("should reject an unknown user the same way", func() {
				_, _, err := service.Login(ctx, LoginDTO{Username: "ghost", Password: "x"})
				gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
			})

			ginkgo.It("should require both fields", func() {
				_, _, err := service.Login(ctx, LoginDTO{Username: "", Password: ""})
				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
			})
		})

		ginkgo.Context("when the account is inactive", func() {
			ginkgo.It("should refuse regardless of the password", func() {
				seedUser(store, "erin", "right", user.RoleEmployee, false)

				_, _, err := service.Login(ctx, LoginDTO{Username: "erin", Password: "right"})
				gomega.Expect(err).To(gomega.MatchError(internal.ErrUserInactive))

				_, _, err = service.Login(ctx, LoginDTO{Username: "erin", Password: "wrong"})
				gomega.Expect(err).To(gomega.MatchError(internal.ErrUserInactive))
			})
		})
	})

	ginkgo.Describe("ResolveSession", func() {
		ginkgo.It("should return the session user", func() {
			u := seedUser(store, "frank", "pw", user.RoleAdmin, true)
			sess, err := sessions.Create(ctx, u.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			resolved, err := service.ResolveSession(ctx, sess.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resolved.ID).To(gomega.Equal(u.ID))
		})

		ginkgo.It("should reject unknown sessions", func() {
			_, err := service.ResolveSession(ctx, "nope")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrUnauthorized))
		})

		ginkgo.It("should destroy the session of a missing user", func() {
			sess, err := sessions.Create(ctx, 404)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ResolveSession(ctx, sess.ID)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrUnauthorized))
			gomega.Expect(sessions.Len()).To(gomega.Equal(0))
		})

		ginkgo.It("should destroy the session of a deactivated user", func() {
			u := seedUser(store, "gina", "pw", user.RoleEmployee, true)
			sess, err := sessions.Create(ctx, u.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			inactive := false
			_, err = store.UpdateUser(ctx, u.ID, storage.UserUpdate{IsActive: &inactive}, nil)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ResolveSession(ctx, sess.ID)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrUserInactive))
			gomega.Expect(sessions.Len()).To(gomega.Equal(0))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should be idempotent", func() {
			sess, err := sessions.Create(ctx, 1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Logout(ctx, sess.ID)).To(gomega.Succeed())
			gomega.Expect(service.Logout(ctx, sess.ID)).To(gomega.Succeed())
			gomega.Expect(service.Logout(ctx, "")).To(gomega.Succeed())
			gomega.Expect(sessions.Len()).To(gomega.Equal(0))
		})
	})
})

var _ = ginkgo.Describe("PasswordHasher", func() {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	ginkgo.It("should verify bcrypt hashes", func() {
		hash, err := hasher.Hash("s3cret")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(hash).ToNot(gomega.Equal("s3cret"))
		gomega.Expect(hasher.Verify(hash, "s3cret")).To(gomega.BeTrue())
		gomega.Expect(hasher.Verify(hash, "other")).To(gomega.BeFalse())
	})

	ginkgo.It("should compare legacy plaintext values verbatim", func() {
		gomega.Expect(hasher.Verify("admin123", "admin123")).To(gomega.BeTrue())
		gomega.Expect(hasher.Verify("admin123", "Admin123")).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("MemorySessionStore", func() {
	var (
		ctx   context.Context
		store *MemorySessionStore
		clock time.Time
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		clock = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		store = NewMemorySessionStore(time.Hour)
		store.now = func() time.Time { return clock }
	})

	ginkgo.It("should hide expired sessions", func() {
		sess, err := store.Create(ctx, 7)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		clock = clock.Add(59 * time.Minute)
		got, err := store.Get(ctx, sess.ID)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(got).ToNot(gomega.BeNil())

		clock = clock.Add(time.Minute)
		got, err = store.Get(ctx, sess.ID)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(got).To(gomega.BeNil())
	})

	ginkgo.It("should sweep only expired sessions", func() {
		_, err := store.Create(ctx, 1)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		clock = clock.Add(30 * time.Minute)
		_, err = store.Create(ctx, 2)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		clock = clock.Add(45 * time.Minute)
		gomega.Expect(store.Sweep()).To(gomega.Equal(1))
		gomega.Expect(store.Len()).To(gomega.Equal(1))
	})

	ginkgo.It("should stop sweeping when the context ends", func() {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			store.Run(runCtx, time.Millisecond)
			close(done)
		}()
		cancel()
		gomega.Eventually(done).Should(gomega.BeClosed())
	})
})

var _ = ginkgo.Describe("CookieCodec", func() {
	codec := NewCookieCodec("sid", testSecret, false)

	newSession := func(expires time.Time) *Session {
		return &Session{ID: "abc", UserID: 1, CreatedAt: time.Now(), ExpiresAt: expires}
	}

	ginkgo.It("should round-trip the session id", func() {
		token, err := codec.Encode(newSession(time.Now().Add(time.Hour)))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		sid, err := codec.Decode(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(sid).To(gomega.Equal("abc"))
	})

	ginkgo.It("should reject tokens signed with another secret", func() {
		other := NewCookieCodec("sid", "another-secret-0123456789abcdefgh", false)
		token, err := other.Encode(newSession(time.Now().Add(time.Hour)))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = codec.Decode(token)
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidSessionToken))
	})

	ginkgo.It("should reject expired tokens", func() {
		token, err := codec.Encode(newSession(time.Now().Add(-time.Minute)))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = codec.Decode(token)
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidSessionToken))
	})

	ginkgo.It("should reject garbage", func() {
		_, err := codec.Decode("not-a-token")
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})
