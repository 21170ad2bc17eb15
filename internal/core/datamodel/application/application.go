package application

import "time"

type Status string

const (
	StatusNew         Status = "new"
	StatusReviewing   Status = "reviewing"
	StatusInterviewed Status = "interviewed"
	StatusRejected    Status = "rejected"
	StatusHired       Status = "hired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusReviewing, StatusInterviewed, StatusRejected, StatusHired:
		return true
	}
	return false
}

type Application struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	JobID       int64     `json:"jobId" gorm:"column:job_id;not null;index"`
	ApplicantID *int64    `json:"applicantId" gorm:"column:applicant_id"`
	Name        string    `json:"name" gorm:"column:name;not null"`
	Email       string    `json:"email" gorm:"column:email;not null"`
	Phone       *string   `json:"phone,omitempty" gorm:"column:phone"`
	ResumeURL   *string   `json:"resumeUrl,omitempty" gorm:"column:resume_url"`
	CoverLetter *string   `json:"coverLetter,omitempty" gorm:"column:cover_letter"`
	Status      Status    `json:"status" gorm:"column:status;not null"`
	AppliedDate time.Time `json:"appliedDate" gorm:"column:applied_date;not null"`
	LastUpdated time.Time `json:"lastUpdated" gorm:"column:last_updated;not null"`
	Notes       *string   `json:"notes,omitempty" gorm:"column:notes"`
}

func (Application) TableName() string {
	return "applications"
}
