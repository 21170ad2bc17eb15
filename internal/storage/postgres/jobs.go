package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/job-board/internal/core/datamodel/job"
	"github.com/frahmantamala/job-board/internal/storage"
)

const jobSearchClause = `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(short_description) LIKE ? ESCAPE '\' OR ` +
	`LOWER(full_description) LIKE ? ESCAPE '\' OR LOWER(COALESCE(city, '')) LIKE ? ESCAPE '\' OR ` +
	`LOWER(COALESCE(state, '')) LIKE ? ESCAPE '\')`

func (s *Store) GetJob(ctx context.Context, id int64) (*job.Job, error) {
	var j job.Job
	found, err := first(s.db.WithContext(ctx), &j, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &j, nil
}

func (s *Store) GetJobs(ctx context.Context, filter storage.JobFilter) ([]*job.Job, error) {
	q := s.db.WithContext(ctx).Model(&job.Job{})
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != nil {
		p := containsPattern(*filter.Search)
		q = q.Where(jobSearchClause, p, p, p, p, p)
	}
	if filter.Department != nil {
		q = q.Where("LOWER(department) = LOWER(?)", *filter.Department)
	}
	if filter.Location != nil {
		q = q.Where("location = ?", string(*filter.Location))
	}
	if filter.City != nil {
		q = q.Where(`LOWER(city) LIKE ? ESCAPE '\'`, containsPattern(*filter.City))
	}
	if filter.State != nil {
		q = q.Where(`LOWER(state) LIKE ? ESCAPE '\'`, containsPattern(*filter.State))
	}

	jobs := make([]*job.Job, 0)
	if err := q.Order("id ASC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *Store) CreateJob(ctx context.Context, j job.Job) (*job.Job, error) {
	if j.Status == "" {
		j.Status = job.StatusDraft
	}
	j.ID = 0
	j.PostedDate = s.now()

	if err := s.db.WithContext(ctx).Create(&j).Error; err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

func (s *Store) UpdateJob(ctx context.Context, id int64, upd storage.JobUpdate) (*job.Job, error) {
	var result *job.Job

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing job.Job
		found, err := first(tx, &existing, "id = ?", id)
		if err != nil || !found {
			return err
		}

		merged := existing
		upd.Apply(&merged)
		if cols := upd.Columns(&merged); len(cols) > 0 {
			if err := tx.Model(&job.Job{}).Where("id = ?", id).Updates(cols).Error; err != nil {
				return translate(err)
			}
		}
		result = &merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) GetJobTags(ctx context.Context, jobID int64) ([]*job.Tag, error) {
	tags := make([]*job.Tag, 0)
	err := s.db.WithContext(ctx).Where("job_id = ?", jobID).Order("id ASC").Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *Store) AddJobTag(ctx context.Context, t job.Tag) (*job.Tag, error) {
	t.ID = 0
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *Store) RemoveJobTag(ctx context.Context, jobID int64, tag string) (bool, error) {
	res := s.db.WithContext(ctx).Where("job_id = ? AND tag = ?", jobID, tag).Delete(&job.Tag{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
