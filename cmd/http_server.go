package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/job-board/internal"
	"github.com/frahmantamala/job-board/internal/application"
	"github.com/frahmantamala/job-board/internal/auth"
	authredis "github.com/frahmantamala/job-board/internal/auth/redis"
	"github.com/frahmantamala/job-board/internal/category"
	"github.com/frahmantamala/job-board/internal/core/events"
	"github.com/frahmantamala/job-board/internal/job"
	"github.com/frahmantamala/job-board/internal/storage"
	"github.com/frahmantamala/job-board/internal/storage/memory"
	"github.com/frahmantamala/job-board/internal/storage/postgres"
	"github.com/frahmantamala/job-board/internal/transport"
	"github.com/frahmantamala/job-board/internal/transport/rest"
	"github.com/frahmantamala/job-board/internal/transport/swagger"
	"github.com/frahmantamala/job-board/internal/user"
	"github.com/frahmantamala/job-board/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB // nil with the in-memory backend
	Store    storage.Storage
	Sessions auth.SessionStore
	Redis    *goredis.Client
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.close()

	if err := setupRoutes(ctx, deps); err != nil {
		deps.Logger.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server",
		"address", addr,
		"storage", storageName(deps.Config),
		"sessions", deps.Config.Session.Store)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		deps.Logger.Info("Received signal, shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// let in-flight event observers finish before the process exits
		deps.EventBus.Wait()
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(ctx context.Context, deps *Dependencies) error {
	if _, err := swagger.Load(ctx); err != nil {
		return err
	}

	cfg := deps.Config
	lg := deps.Logger
	hasher := auth.NewPasswordHasher(cfg.Security.BCryptCost)

	authService := auth.NewService(deps.Store, deps.Sessions, hasher, lg)
	userService := user.NewService(deps.Store, hasher, lg)
	categoryService := category.NewService(deps.Store, lg)
	jobService := job.NewService(deps.Store, deps.EventBus, lg)
	applicationService := application.NewService(deps.Store, deps.EventBus, lg)

	if cfg.UsesMemoryStorage() && cfg.Seed.DemoData {
		if err := seedDemoData(ctx, deps.Store, hasher, lg); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	cookies := auth.NewCookieCodec(cfg.Session.CookieName, cfg.Security.SessionSecret, cfg.Session.SecureCookie)

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:       rest.NewHealthHandler(healthChecks(deps)...),
		Auth:         auth.NewHandler(authService, cookies, userService),
		RBAC:         auth.NewRBACAuthorization(lg),
		Users:        user.NewHandler(userService),
		Categories:   category.NewHandler(transport.NewBaseHandler(lg), categoryService),
		Jobs:         job.NewHandler(jobService),
		Applications: application.NewHandler(applicationService),
	}, rest.Options{
		AllowedOrigins: cfg.Server.AllowedOriginList(),
		MetricsEnabled: cfg.Observability.Metrics.Enabled,
		MetricsPath:    cfg.Observability.Metrics.Path,
	}, lg)
	return nil
}

func healthChecks(deps *Dependencies) []rest.Check {
	var checks []rest.Check
	if deps.DB != nil {
		checks = append(checks, rest.DatabaseCheck(deps.DB.DB))
	} else {
		checks = append(checks, rest.StaticCheck("storage", map[string]any{"backend": "memory"}))
	}
	if p, ok := deps.Sessions.(interface{ Ping(context.Context) error }); ok {
		checks = append(checks, rest.Check{Name: "redis", Ping: p.Ping})
	}
	return checks
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	configureLogger(config)
	lg := logger.LoggerWrapper()

	deps := &Dependencies{
		Config:   config,
		Logger:   lg,
		Router:   chi.NewRouter(),
		EventBus: newEventBus(lg),
	}

	if config.UsesMemoryStorage() {
		lg.Warn("database.source is empty, using the in-memory store; data is lost on restart")
		deps.Store = memory.New()
	} else {
		db, err := initDB(config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		deps.DB = db
		if deps.Store, err = openPostgresStore(db); err != nil {
			deps.close()
			return nil, err
		}
	}

	switch config.Session.Store {
	case internal.SessionStoreRedis:
		client, err := authredis.Connect(ctx, authredis.Config{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		if err != nil {
			deps.close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		deps.Redis = client
		deps.Sessions = authredis.NewSessionStore(client, config.Session.TTL)
	default:
		sessions := auth.NewMemorySessionStore(config.Session.TTL)
		go sessions.Run(ctx, config.Session.SweepInterval)
		deps.Sessions = sessions
	}

	return deps, nil
}

func (d *Dependencies) close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Error("Database close error", "error", err)
		}
	}
}

func storageName(cfg *internal.Config) string {
	if cfg.UsesMemoryStorage() {
		return "memory"
	}
	return "postgres"
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// openPostgresStore runs gorm on top of the sqlx pool so both share one set of
// connections.
func openPostgresStore(db *sqlx.DB) (*postgres.Store, error) {
	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return postgres.New(gdb), nil
}
