package job

import "time"

type Type string

const (
	TypeFullTime   Type = "full-time"
	TypePartTime   Type = "part-time"
	TypeContract   Type = "contract"
	TypeInternship Type = "internship"
)

func (t Type) Valid() bool {
	switch t {
	case TypeFullTime, TypePartTime, TypeContract, TypeInternship:
		return true
	}
	return false
}

type Location string

const (
	LocationRemote Location = "remote"
	LocationOnsite Location = "onsite"
	LocationHybrid Location = "hybrid"
)

func (l Location) Valid() bool {
	switch l {
	case LocationRemote, LocationOnsite, LocationHybrid:
		return true
	}
	return false
}

type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusPaused Status = "paused"
	StatusClosed Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusPaused, StatusClosed:
		return true
	}
	return false
}

// transitions lists the moves exposed to job owners. Closed is terminal.
var transitions = map[Status][]Status{
	StatusDraft:  {StatusActive, StatusClosed},
	StatusActive: {StatusPaused, StatusClosed},
	StatusPaused: {StatusActive, StatusClosed},
}

// CanTransition reports whether an owner may move a job from one status to another.
// Re-applying the current status is a no-op and always allowed except for closed jobs.
func CanTransition(from, to Status) bool {
	if from == to {
		return from != StatusClosed
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Job struct {
	ID               int64      `json:"id" gorm:"primaryKey"`
	Title            string     `json:"title" gorm:"column:title;not null"`
	Department       string     `json:"department" gorm:"column:department;not null"`
	CategoryID       *int64     `json:"categoryId" gorm:"column:category_id"`
	EmployeeID       int64      `json:"employeeId" gorm:"column:employee_id;not null"`
	ShortDescription string     `json:"shortDescription" gorm:"column:short_description;not null"`
	FullDescription  string     `json:"fullDescription" gorm:"column:full_description;not null"`
	Requirements     string     `json:"requirements" gorm:"column:requirements;not null"`
	Type             Type       `json:"type" gorm:"column:type;not null"`
	Location         Location   `json:"location" gorm:"column:location;not null"`
	City             *string    `json:"city,omitempty" gorm:"column:city"`
	State            *string    `json:"state,omitempty" gorm:"column:state"`
	SalaryRange      *string    `json:"salaryRange,omitempty" gorm:"column:salary_range"`
	Status           Status     `json:"status" gorm:"column:status;not null"`
	PostedDate       time.Time  `json:"postedDate" gorm:"column:posted_date;not null"`
	ExpiryDate       *time.Time `json:"expiryDate" gorm:"column:expiry_date"`
}

func (Job) TableName() string {
	return "jobs"
}

type Tag struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	JobID int64  `json:"jobId" gorm:"column:job_id;not null;index"`
	Tag   string `json:"tag" gorm:"column:tag;not null"`
}

func (Tag) TableName() string {
	return "job_tags"
}
