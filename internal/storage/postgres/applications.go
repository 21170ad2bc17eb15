package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/job-board/internal/core/datamodel/application"
	"github.com/frahmantamala/job-board/internal/storage"
)

func (s *Store) GetApplication(ctx context.Context, id int64) (*application.Application, error) {
	var a application.Application
	found, err := first(s.db.WithContext(ctx), &a, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}

func (s *Store) GetApplications(ctx context.Context, filter storage.ApplicationFilter) ([]*application.Application, error) {
	q := s.db.WithContext(ctx).Model(&application.Application{})
	if filter.JobID != nil {
		q = q.Where("job_id = ?", *filter.JobID)
	}
	if filter.ApplicantID != nil {
		q = q.Where("applicant_id = ?", *filter.ApplicantID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}

	apps := make([]*application.Application, 0)
	if err := q.Order("id ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *Store) CreateApplication(ctx context.Context, a application.Application) (*application.Application, error) {
	if a.Status == "" {
		a.Status = application.StatusNew
	}
	now := s.now()
	a.ID = 0
	a.AppliedDate = now
	a.LastUpdated = now

	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *Store) UpdateApplication(ctx context.Context, id int64, upd storage.ApplicationUpdate) (*application.Application, error) {
	var result *application.Application

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing application.Application
		found, err := first(tx, &existing, "id = ?", id)
		if err != nil || !found {
			return err
		}

		merged := existing
		upd.Apply(&merged, s.now())
		if err := tx.Model(&application.Application{}).Where("id = ?", id).Updates(upd.Columns(&merged)).Error; err != nil {
			return translate(err)
		}
		result = &merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) GetApplicationCount(ctx context.Context, jobID int64) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&application.Application{}).Where("job_id = ?", jobID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
