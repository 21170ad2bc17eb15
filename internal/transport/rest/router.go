package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/job-board/internal/application"
	"github.com/frahmantamala/job-board/internal/auth"
	"github.com/frahmantamala/job-board/internal/category"
	"github.com/frahmantamala/job-board/internal/job"
	"github.com/frahmantamala/job-board/internal/transport/metrics"
	"github.com/frahmantamala/job-board/internal/transport/middleware"
	"github.com/frahmantamala/job-board/internal/transport/swagger"
	"github.com/frahmantamala/job-board/internal/user"
)

const APIPrefix = "/api/v1"

// Handlers bundles everything the router mounts. A nil handler leaves its
// routes unregistered.
type Handlers struct {
	Health       *HealthHandler
	Auth         *auth.Handler
	RBAC         *auth.RBACAuthorization
	Users        *user.Handler
	Categories   *category.Handler
	Jobs         *job.Handler
	Applications *application.Handler
}

type Options struct {
	AllowedOrigins []string
	MetricsEnabled bool
	MetricsPath    string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	if h.Health == nil {
		h.Health = NewHealthHandler()
	}
	if h.RBAC == nil {
		h.RBAC = auth.NewRBACAuthorization(logger)
	}

	quiet := []string{APIPrefix + "/ping", APIPrefix + "/health"}
	if opts.MetricsEnabled {
		quiet = append(quiet, opts.MetricsPath)
	}

	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware(logger, quiet...))
	if opts.MetricsEnabled {
		router.Use(metrics.Middleware)
		router.Method(http.MethodGet, opts.MetricsPath, metrics.Handler())
	}

	router.Method(http.MethodGet, swagger.DocumentPath, swagger.DocumentHandler())
	router.Handle("/swagger/*", swagger.Handler())

	router.Route(APIPrefix, func(r chi.Router) {
		r.Get("/health", h.Health.healthCheckHandler)
		r.Get("/ping", h.Health.pingHandler)

		if h.Auth == nil {
			// everything below needs a session resolver
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/register", h.Auth.Register)
			sr.Post("/logout", h.Auth.Logout)
			sr.With(h.Auth.RequireAuth).Get("/me", h.Auth.Me)
		})

		if h.Jobs != nil {
			r.Get("/jobs", h.Jobs.ListJobs)
			r.Get("/jobs/{id}", h.Jobs.GetJob)
		}

		// Public routes that behave differently for a logged in caller
		r.Group(func(or chi.Router) {
			or.Use(h.Auth.OptionalAuth)

			if h.Categories != nil {
				or.Get("/categories", h.Categories.GetCategories)
			}
			if h.Applications != nil {
				or.Post("/applications", h.Applications.SubmitApplication)
			}
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.RequireAuth)

			if h.Applications != nil {
				pr.Get("/applications/{id}", h.Applications.GetApplication)

				pr.With(h.RBAC.RequireApplicant()).Get("/applicant/applications", h.Applications.ListMyApplications)
			}

			pr.Route("/employee", func(er chi.Router) {
				er.Use(h.RBAC.RequireStaff())

				if h.Jobs != nil {
					er.Get("/jobs", h.Jobs.ListOwnJobs)
					er.Post("/jobs", h.Jobs.CreateJob)
					er.Get("/jobs/{id}", h.Jobs.GetOwnJob)
					er.Patch("/jobs/{id}", h.Jobs.UpdateJob)
					er.Patch("/jobs/{id}/status", h.Jobs.UpdateJobStatus)
					er.Post("/jobs/{id}/tags", h.Jobs.AddTag)
					er.Delete("/jobs/{id}/tags/{tag}", h.Jobs.RemoveTag)
					er.Get("/jobs/{id}/applications", h.Jobs.ListJobApplications)
				}
				if h.Applications != nil {
					er.Patch("/applications/{id}", h.Applications.ReviewApplication)
				}
			})

			pr.Route("/admin", func(ar chi.Router) {
				ar.Use(h.RBAC.RequireAdmin())

				if h.Users != nil {
					ar.Get("/users", h.Users.ListUsers)
					ar.Post("/users", h.Users.CreateUser)
					ar.Get("/users/{id}", h.Users.GetUser)
					ar.Patch("/users/{id}", h.Users.UpdateUser)
					ar.Delete("/users/{id}", h.Users.DeactivateUser)
				}
				if h.Categories != nil {
					ar.Post("/categories", h.Categories.CreateCategory)
					ar.Patch("/categories/{id}", h.Categories.UpdateCategory)
					ar.Delete("/categories/{id}", h.Categories.DeactivateCategory)
				}
			})
		})
	})
}
