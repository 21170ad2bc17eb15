package application

import applicationDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/application"

// SubmitApplicationDTO is the public apply form. Name and email fall back to
// the logged in applicant's profile when omitted.
type SubmitApplicationDTO struct {
	JobID       int64   `json:"jobId" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"required,max=200"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	ResumeURL   *string `json:"resumeUrl,omitempty" validate:"omitempty,url,max=500"`
	CoverLetter *string `json:"coverLetter,omitempty" validate:"omitempty,max=10000"`
}

// ReviewApplicationDTO carries the staff-side changes; an empty notes string
// clears the notes.
type ReviewApplicationDTO struct {
	Status *applicationDatamodel.Status `json:"status,omitempty" validate:"omitempty,oneof=new reviewing interviewed rejected hired"`
	Notes  *string                      `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// ApplicationView adds the job title for the applicant portal.
type ApplicationView struct {
	*applicationDatamodel.Application
	JobTitle string `json:"jobTitle,omitempty"`
}

type ApplicationResponse struct {
	Application *ApplicationView `json:"application"`
}

type ApplicationsResponse struct {
	Applications []*ApplicationView `json:"applications"`
}
