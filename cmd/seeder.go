package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/job-board/internal/auth"
	categoryDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/category"
	jobDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/job"
	userDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage"
	"github.com/frahmantamala/job-board/pkg/logger"
)

const demoPassword = "password123"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with demo accounts, categories and jobs for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		configureLogger(cfg)
		if cfg.UsesMemoryStorage() {
			log.Fatal("seed: database.source is empty; set seed.demo_data to seed the in-memory backend at startup")
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		store, err := openPostgresStore(sqlDB)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}

		hasher := auth.NewPasswordHasher(cfg.Security.BCryptCost)
		if err := seedDemoData(cmd.Context(), store, hasher, logger.LoggerWrapper()); err != nil {
			log.Fatalf("seed: %v", err)
		}
		fmt.Println("Demo data seeded; every demo account uses the password", demoPassword)
	},
}

type demoUser struct {
	Username   string
	FirstName  string
	LastName   string
	Role       userDatamodel.Role
	Department string
	SuperAdmin bool
}

var demoUsers = []demoUser{
	{"admin", "Ada", "Admin", userDatamodel.RoleAdmin, "People", true},
	{"erin", "Erin", "Lee", userDatamodel.RoleEmployee, "Engineering", false},
	{"sam", "Sam", "Rivera", userDatamodel.RoleEmployee, "Design", false},
	{"alice", "Alice", "Smith", userDatamodel.RoleApplicant, "", false},
}

var demoCategories = []struct {
	Name string
	Desc string
}{
	{"Engineering", "Software, infrastructure and data roles"},
	{"Design", "Product and visual design"},
	{"Marketing", "Growth, content and brand"},
	{"Operations", "Finance, people and office operations"},
}

type demoJob struct {
	Owner    string
	Category string
	Title    string
	Type     jobDatamodel.Type
	Location jobDatamodel.Location
	City     string
	Status   jobDatamodel.Status
	Tags     []string
}

var demoJobs = []demoJob{
	{"erin", "Engineering", "Senior Go Engineer", jobDatamodel.TypeFullTime, jobDatamodel.LocationRemote, "", jobDatamodel.StatusActive, []string{"go", "postgres"}},
	{"erin", "Engineering", "Site Reliability Engineer", jobDatamodel.TypeFullTime, jobDatamodel.LocationHybrid, "Bandung", jobDatamodel.StatusActive, []string{"kubernetes", "on-call"}},
	{"erin", "Engineering", "Data Engineering Intern", jobDatamodel.TypeInternship, jobDatamodel.LocationOnsite, "Jakarta", jobDatamodel.StatusDraft, []string{"python"}},
	{"sam", "Design", "Product Designer", jobDatamodel.TypeContract, jobDatamodel.LocationRemote, "", jobDatamodel.StatusActive, []string{"figma"}},
}

// seedDemoData is idempotent: existing users and categories are left alone,
// and an owner's jobs are only seeded when that owner has none yet.
func seedDemoData(ctx context.Context, store storage.Storage, hasher *auth.PasswordHasher, logger *slog.Logger) error {
	hash, err := hasher.Hash(demoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	users := make(map[string]*userDatamodel.User, len(demoUsers))
	for _, du := range demoUsers {
		u, err := store.GetUserByUsername(ctx, du.Username)
		if err != nil {
			return fmt.Errorf("lookup user %s: %w", du.Username, err)
		}
		if u == nil {
			rec := userDatamodel.User{
				Username:     du.Username,
				Email:        du.Username + "@jobboard.local",
				Password:     hash,
				FirstName:    du.FirstName,
				LastName:     du.LastName,
				Role:         du.Role,
				IsActive:     true,
				IsSuperAdmin: du.SuperAdmin,
			}
			if du.Department != "" {
				dept := du.Department
				rec.Department = &dept
			}
			if u, err = store.CreateUser(ctx, rec); err != nil {
				return fmt.Errorf("insert user %s: %w", du.Username, err)
			}
			logger.InfoContext(ctx, "seeded user", "username", u.Username, "role", u.Role)
		}
		users[du.Username] = u
	}

	existing, err := store.GetCategories(ctx, true)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	categories := make(map[string]int64, len(existing))
	for _, c := range existing {
		categories[strings.ToLower(c.Name)] = c.ID
	}
	for _, dc := range demoCategories {
		if _, ok := categories[strings.ToLower(dc.Name)]; ok {
			continue
		}
		desc := dc.Desc
		c, err := store.CreateCategory(ctx, categoryDatamodel.Category{
			Name:        dc.Name,
			Description: &desc,
			Status:      categoryDatamodel.StatusActive,
		})
		if err != nil {
			return fmt.Errorf("insert category %s: %w", dc.Name, err)
		}
		categories[strings.ToLower(c.Name)] = c.ID
		logger.InfoContext(ctx, "seeded category", "name", c.Name)
	}

	seeded := map[string]bool{}
	for _, dj := range demoJobs {
		owner := users[dj.Owner]
		if _, checked := seeded[dj.Owner]; !checked {
			owned, err := store.GetJobs(ctx, storage.JobFilter{EmployeeID: &owner.ID})
			if err != nil {
				return fmt.Errorf("list jobs of %s: %w", dj.Owner, err)
			}
			seeded[dj.Owner] = len(owned) == 0
		}
		if !seeded[dj.Owner] {
			continue
		}

		categoryID := categories[strings.ToLower(dj.Category)]
		rec := jobDatamodel.Job{
			Title:            dj.Title,
			Department:       dj.Category,
			CategoryID:       &categoryID,
			EmployeeID:       owner.ID,
			ShortDescription: "Join the " + dj.Category + " team as a " + dj.Title + ".",
			FullDescription:  "We are hiring a " + dj.Title + " to help build the job board.",
			Requirements:     "Relevant experience and a willingness to learn.",
			Type:             dj.Type,
			Location:         dj.Location,
			Status:           dj.Status,
		}
		if dj.City != "" {
			city := dj.City
			rec.City = &city
		}
		j, err := store.CreateJob(ctx, rec)
		if err != nil {
			return fmt.Errorf("insert job %s: %w", dj.Title, err)
		}
		for _, tag := range dj.Tags {
			if _, err := store.AddJobTag(ctx, jobDatamodel.Tag{JobID: j.ID, Tag: tag}); err != nil {
				return fmt.Errorf("tag job %s: %w", dj.Title, err)
			}
		}
		logger.InfoContext(ctx, "seeded job", "title", j.Title, "status", j.Status)
	}

	return nil
}
