package job

import (
	"time"

	jobDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/job"
)

type CreateJobDTO struct {
	Title            string                `json:"title" validate:"required,max=200"`
	Department       string                `json:"department" validate:"required,max=100"`
	CategoryID       *int64                `json:"categoryId,omitempty" validate:"omitempty,gt=0"`
	ShortDescription string                `json:"shortDescription" validate:"required,max=500"`
	FullDescription  string                `json:"fullDescription" validate:"required"`
	Requirements     string                `json:"requirements" validate:"required"`
	Type             jobDatamodel.Type     `json:"type" validate:"required,oneof=full-time part-time contract internship"`
	Location         jobDatamodel.Location `json:"location" validate:"required,oneof=remote onsite hybrid"`
	City             *string               `json:"city,omitempty" validate:"omitempty,max=100"`
	State            *string               `json:"state,omitempty" validate:"omitempty,max=100"`
	SalaryRange      *string               `json:"salaryRange,omitempty" validate:"omitempty,max=100"`
	Status           *jobDatamodel.Status  `json:"status,omitempty" validate:"omitempty,oneof=draft active"`
	ExpiryDate       *time.Time            `json:"expiryDate,omitempty"`
	Tags             []string              `json:"tags,omitempty" validate:"omitempty,max=20,dive,required,max=50"`
}

// UpdateJobDTO is a partial update. A categoryId of 0 and an expiryDate of
// "0001-01-01T00:00:00Z" clear those fields; tags, when present, replace the
// full tag set. Status changes go through UpdateStatusDTO.
type UpdateJobDTO struct {
	Title            *string                `json:"title,omitempty" validate:"omitempty,max=200"`
	Department       *string                `json:"department,omitempty" validate:"omitempty,max=100"`
	CategoryID       *int64                 `json:"categoryId,omitempty" validate:"omitempty,gte=0"`
	ShortDescription *string                `json:"shortDescription,omitempty" validate:"omitempty,max=500"`
	FullDescription  *string                `json:"fullDescription,omitempty"`
	Requirements     *string                `json:"requirements,omitempty"`
	Type             *jobDatamodel.Type     `json:"type,omitempty" validate:"omitempty,oneof=full-time part-time contract internship"`
	Location         *jobDatamodel.Location `json:"location,omitempty" validate:"omitempty,oneof=remote onsite hybrid"`
	City             *string                `json:"city,omitempty" validate:"omitempty,max=100"`
	State            *string                `json:"state,omitempty" validate:"omitempty,max=100"`
	SalaryRange      *string                `json:"salaryRange,omitempty" validate:"omitempty,max=100"`
	ExpiryDate       *time.Time             `json:"expiryDate,omitempty"`
	Tags             *[]string              `json:"tags,omitempty" validate:"omitempty,max=20,dive,required,max=50"`
}

type UpdateStatusDTO struct {
	Status jobDatamodel.Status `json:"status" validate:"required,oneof=draft active paused closed"`
}

type TagDTO struct {
	Tag string `json:"tag" validate:"required,max=50"`
}

// JobView is a job as returned by the API: the stored record plus its tags
// and, for the employee portal, the number of applications received.
type JobView struct {
	*jobDatamodel.Job
	Tags             []string `json:"tags"`
	ApplicationCount *int     `json:"applicationCount,omitempty"`
}

// PublicJobView is what anonymous readers get: the owning employee is left out.
type PublicJobView struct {
	*JobView
	EmployeeID *int64 `json:"employeeId,omitempty"`
}

type PublicJobResponse struct {
	Job *PublicJobView `json:"job"`
}

type PublicJobsResponse struct {
	Jobs []*PublicJobView `json:"jobs"`
}

type JobResponse struct {
	Job *JobView `json:"job"`
}

type JobsResponse struct {
	Jobs []*JobView `json:"jobs"`
}

type TagsResponse struct {
	Tags []string `json:"tags"`
}
