package internal_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/job-board/internal"
)

const secret = "0123456789abcdef0123456789abcdef"

var _ = Describe("Config", func() {
	var cfg *internal.Config

	BeforeEach(func() {
		cfg = &internal.Config{Security: internal.SecurityConfig{SessionSecret: secret}}
		cfg.ApplyDefaults()
	})

	It("should fill defaults and select the in-memory backends", func() {
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Session.Store).To(Equal(internal.SessionStoreMemory))
		Expect(cfg.Session.TTL).To(Equal(24 * time.Hour))
		Expect(cfg.UsesMemoryStorage()).To(BeTrue())
		Expect(cfg.Redis.Enabled).To(BeFalse())
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should require a long session secret", func() {
		cfg.Security.SessionSecret = "short"

		Expect(cfg.Validate()).To(MatchError(ContainSubstring("SessionSecret")))
	})

	It("should require a redis address when sessions live in redis", func() {
		cfg.Session.Store = internal.SessionStoreRedis
		cfg.ApplyDefaults()

		Expect(cfg.Redis.Enabled).To(BeTrue())
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("Addr")))

		cfg.Redis.Addr = "localhost:6379"
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should reject more idle than open connections", func() {
		cfg.Database.MaxOpenConns = 2
		cfg.Database.MaxIdleConns = 5

		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
	})

	It("should split the allowed origins", func() {
		cfg.Server.AllowedOrigins = " https://a.example.com, ,https://b.example.com "

		Expect(cfg.Server.AllowedOriginList()).To(Equal([]string{"https://a.example.com", "https://b.example.com"}))
	})

	It("should read everything from the environment", func() {
		GinkgoT().Setenv("SESSION_SECRET", secret)
		GinkgoT().Setenv("DATABASE_URL", "postgres://localhost/jobboard")
		GinkgoT().Setenv("SESSION_TTL", "2h")
		GinkgoT().Setenv("PORT", "9090")

		env := internal.LoadConfigFromEnv()

		Expect(env.Server.Port).To(Equal(9090))
		Expect(env.Session.TTL).To(Equal(2 * time.Hour))
		Expect(env.UsesMemoryStorage()).To(BeFalse())
		Expect(env.Validate()).To(Succeed())
	})
})
