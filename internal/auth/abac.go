package auth

import (
	"github.com/frahmantamala/job-board/internal"
	"github.com/frahmantamala/job-board/internal/core/datamodel/application"
	"github.com/frahmantamala/job-board/internal/core/datamodel/job"
	"github.com/frahmantamala/job-board/internal/core/datamodel/user"
)

// OwnershipPolicy decides resource-level access on top of role checks:
// admins may act on everything, employees only on the jobs they own and the
// applications to those jobs, applicants only on their own applications.
type OwnershipPolicy struct{}

func (OwnershipPolicy) CanManageJob(u *user.User, j *job.Job) error {
	if u == nil {
		return internal.ErrUnauthorized
	}
	if u.IsAdmin() {
		return nil
	}
	if u.Role == user.RoleEmployee && j.EmployeeID == u.ID {
		return nil
	}
	return internal.ErrNotOwner
}

// CanManageApplication covers status and notes changes; j is the job the
// application belongs to.
func (p OwnershipPolicy) CanManageApplication(u *user.User, a *application.Application, j *job.Job) error {
	if j == nil || a.JobID != j.ID {
		return internal.ErrNotOwner
	}
	return p.CanManageJob(u, j)
}

func (p OwnershipPolicy) CanViewApplication(u *user.User, a *application.Application, j *job.Job) error {
	if u == nil {
		return internal.ErrUnauthorized
	}
	if u.Role == user.RoleApplicant {
		if a.ApplicantID != nil && *a.ApplicantID == u.ID {
			return nil
		}
		return internal.ErrNotOwner
	}
	return p.CanManageApplication(u, a, j)
}
