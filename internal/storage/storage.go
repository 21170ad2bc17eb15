// Package storage defines the persistence contract shared by the in-memory and
// SQL backends. Lookups by id return (nil, nil) on a miss; updates of a missing
// id return (nil, nil) as well. Backend errors are returned unchanged.
package storage

import (
	"context"
	"errors"

	"github.com/frahmantamala/job-board/internal/core/datamodel/application"
	"github.com/frahmantamala/job-board/internal/core/datamodel/category"
	"github.com/frahmantamala/job-board/internal/core/datamodel/job"
	"github.com/frahmantamala/job-board/internal/core/datamodel/user"
)

// ErrPrivilege is returned by UpdateUser when the acting user may not change
// the protected fields (role, isActive, isSuperAdmin) of the target user.
var ErrPrivilege = errors.New("insufficient privilege to change protected user fields")

// ErrConflict wraps unique-constraint violations reported by a backend.
var ErrConflict = errors.New("unique constraint violation")

type Storage interface {
	GetUser(ctx context.Context, id int64) (*user.User, error)
	GetUserByUsername(ctx context.Context, username string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	GetUsers(ctx context.Context, filter UserFilter) ([]*user.User, error)
	// CreateUser stores u.IsActive as given; the zero value creates an
	// inactive account, so callers wanting the usual default must set it.
	CreateUser(ctx context.Context, u user.User) (*user.User, error)
	UpdateUser(ctx context.Context, id int64, upd UserUpdate, actingUserID *int64) (*user.User, error)

	GetCategory(ctx context.Context, id int64) (*category.Category, error)
	GetCategories(ctx context.Context, includeInactive bool) ([]*category.Category, error)
	CreateCategory(ctx context.Context, c category.Category) (*category.Category, error)
	UpdateCategory(ctx context.Context, id int64, upd CategoryUpdate) (*category.Category, error)

	GetJob(ctx context.Context, id int64) (*job.Job, error)
	GetJobs(ctx context.Context, filter JobFilter) ([]*job.Job, error)
	CreateJob(ctx context.Context, j job.Job) (*job.Job, error)
	UpdateJob(ctx context.Context, id int64, upd JobUpdate) (*job.Job, error)

	GetJobTags(ctx context.Context, jobID int64) ([]*job.Tag, error)
	AddJobTag(ctx context.Context, t job.Tag) (*job.Tag, error)
	RemoveJobTag(ctx context.Context, jobID int64, tag string) (bool, error)

	GetApplication(ctx context.Context, id int64) (*application.Application, error)
	GetApplications(ctx context.Context, filter ApplicationFilter) ([]*application.Application, error)
	CreateApplication(ctx context.Context, a application.Application) (*application.Application, error)
	UpdateApplication(ctx context.Context, id int64, upd ApplicationUpdate) (*application.Application, error)
	GetApplicationCount(ctx context.Context, jobID int64) (int, error)
}

// UserFilter narrows GetUsers. Nil fields impose no constraint.
type UserFilter struct {
	Role     *user.Role
	IsActive *bool
}

// JobFilter narrows GetJobs. Fields are applied in declaration order.
// Search matches title, descriptions, city and state; City and State are
// substring matches; everything else is an exact match. All text matching is
// case-insensitive.
type JobFilter struct {
	EmployeeID *int64
	Status     *job.Status
	CategoryID *int64
	Search     *string
	Department *string
	Location   *job.Location
	City       *string
	State      *string
}

type ApplicationFilter struct {
	JobID       *int64
	ApplicantID *int64
	Status      *application.Status
}

// PrepareNewUser fills the fields CreateUser owns.
func PrepareNewUser(u *user.User) {
	u.LastLogin = nil
	if u.FullName == "" {
		u.FullName = user.DeriveFullName(u.FirstName, u.MiddleName, u.LastName)
	}
	if u.Role == "" {
		u.Role = user.RoleApplicant
	}
}

// CheckUserPrivilege enforces the super-admin guard of UpdateUser. A nil actor
// stands for a system update and is always allowed.
func CheckUserPrivilege(target, actor *user.User, upd UserUpdate) error {
	if actor == nil || actor.IsSuperAdmin {
		return nil
	}

	roleChanged := upd.Role != nil && *upd.Role != target.Role
	activeChanged := upd.IsActive != nil && *upd.IsActive != target.IsActive
	superChanged := upd.IsSuperAdmin != nil && *upd.IsSuperAdmin != target.IsSuperAdmin

	if superChanged {
		return ErrPrivilege
	}
	if target.IsSuperAdmin && (roleChanged || activeChanged) {
		return ErrPrivilege
	}
	if actor.ID == target.ID && roleChanged {
		return ErrPrivilege
	}
	return nil
}
