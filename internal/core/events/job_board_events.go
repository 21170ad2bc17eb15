package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeApplicationSubmitted     = "application.submitted"
	EventTypeApplicationStatusChanged = "application.status_changed"
	EventTypeJobStatusChanged         = "job.status_changed"
)

type ApplicationSubmittedEvent struct {
	BaseEvent
	ApplicationID int64  `json:"application_id"`
	JobID         int64  `json:"job_id"`
	ApplicantID   *int64 `json:"applicant_id,omitempty"`
}

func NewApplicationSubmittedEvent(applicationID, jobID int64, applicantID *int64) *ApplicationSubmittedEvent {
	data := map[string]interface{}{
		"application_id": applicationID,
		"job_id":         jobID,
	}
	if applicantID != nil {
		data["applicant_id"] = *applicantID
	}
	return &ApplicationSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApplicationSubmitted,
			Timestamp: time.Now(),
			Data:      data,
		},
		ApplicationID: applicationID,
		JobID:         jobID,
		ApplicantID:   applicantID,
	}
}

type ApplicationStatusChangedEvent struct {
	BaseEvent
	ApplicationID int64  `json:"application_id"`
	JobID         int64  `json:"job_id"`
	From          string `json:"from"`
	To            string `json:"to"`
	ChangedBy     int64  `json:"changed_by"`
}

func NewApplicationStatusChangedEvent(applicationID, jobID int64, from, to string, changedBy int64) *ApplicationStatusChangedEvent {
	return &ApplicationStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApplicationStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"application_id": applicationID,
				"job_id":         jobID,
				"from":           from,
				"to":             to,
				"changed_by":     changedBy,
			},
		},
		ApplicationID: applicationID,
		JobID:         jobID,
		From:          from,
		To:            to,
		ChangedBy:     changedBy,
	}
}

type JobStatusChangedEvent struct {
	BaseEvent
	JobID     int64  `json:"job_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedBy int64  `json:"changed_by"`
}

func NewJobStatusChangedEvent(jobID int64, from, to string, changedBy int64) *JobStatusChangedEvent {
	return &JobStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeJobStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"job_id":     jobID,
				"from":       from,
				"to":         to,
				"changed_by": changedBy,
			},
		},
		JobID:     jobID,
		From:      from,
		To:        to,
		ChangedBy: changedBy,
	}
}
