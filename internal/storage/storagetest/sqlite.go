package storagetest

import (
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/job-board/internal/core/datamodel/application"
	"github.com/frahmantamala/job-board/internal/core/datamodel/category"
	"github.com/frahmantamala/job-board/internal/core/datamodel/job"
	"github.com/frahmantamala/job-board/internal/core/datamodel/user"
)

// OpenSQLite returns an in-memory SQLite database with the job board tables
// and the unique indexes the SQL migrations create.
func OpenSQLite() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	Expect(err).NotTo(HaveOccurred())

	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)

	Expect(db.AutoMigrate(
		&user.User{},
		&category.Category{},
		&job.Job{},
		&job.Tag{},
		&application.Application{},
	)).To(Succeed())

	for _, stmt := range []string{
		`CREATE UNIQUE INDEX users_username_lower_idx ON users (LOWER(username))`,
		`CREATE UNIQUE INDEX users_email_lower_idx ON users (LOWER(email))`,
		`CREATE UNIQUE INDEX applications_job_applicant_idx ON applications (job_id, applicant_id)`,
	} {
		Expect(db.Exec(stmt).Error).To(Succeed())
	}
	return db
}
