// Package memory is the map-backed Storage used when no database source is
// configured. All state lives in one Store value; nothing is package-global.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/frahmantamala/job-board/internal/core/datamodel/application"
	"github.com/frahmantamala/job-board/internal/core/datamodel/category"
	"github.com/frahmantamala/job-board/internal/core/datamodel/job"
	"github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage"
)

var _ storage.Storage = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	users        map[int64]*user.User
	categories   map[int64]*category.Category
	jobs         map[int64]*job.Job
	jobTags      map[int64]*job.Tag
	applications map[int64]*application.Application

	nextUserID        int64
	nextCategoryID    int64
	nextJobID         int64
	nextJobTagID      int64
	nextApplicationID int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:             make(map[int64]*user.User),
		categories:        make(map[int64]*category.Category),
		jobs:              make(map[int64]*job.Job),
		jobTags:           make(map[int64]*job.Tag),
		applications:      make(map[int64]*application.Application),
		nextUserID:        1,
		nextCategoryID:    1,
		nextJobID:         1,
		nextJobTagID:      1,
		nextApplicationID: 1,
		now:               time.Now,
	}
}

// sortedKeys returns map keys in ascending order so listings are stable.
func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func optionalContainsFold(s *string, substr string) bool {
	return s != nil && containsFold(*s, substr)
}

// Users

func (s *Store) GetUser(_ context.Context, id int64) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range sortedKeys(s.users) {
		if u := s.users[id]; strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range sortedKeys(s.users) {
		if u := s.users[id]; strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUsers(_ context.Context, filter storage.UserFilter) ([]*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*user.User, 0)
	for _, id := range sortedKeys(s.users) {
		u := s.users[id]
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		cp := *u
		result = append(result, &cp)
	}
	return result, nil
}

func (s *Store) CreateUser(_ context.Context, u user.User) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	storage.PrepareNewUser(&u)
	u.ID = s.nextUserID
	s.nextUserID++
	u.CreatedAt = s.now()

	s.users[u.ID] = &u
	cp := u
	return &cp, nil
}

func (s *Store) UpdateUser(_ context.Context, id int64, upd storage.UserUpdate, actingUserID *int64) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[id]
	if !ok {
		return nil, nil
	}

	if actingUserID != nil {
		actor, found := s.users[*actingUserID]
		if !found {
			actor = &user.User{ID: *actingUserID}
		}
		if err := storage.CheckUserPrivilege(existing, actor, upd); err != nil {
			return nil, err
		}
	}

	merged := *existing
	upd.Apply(&merged)
	s.users[id] = &merged

	cp := merged
	return &cp, nil
}

// Categories

func (s *Store) GetCategory(_ context.Context, id int64) (*category.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *Store) GetCategories(_ context.Context, includeInactive bool) ([]*category.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*category.Category, 0)
	for _, id := range sortedKeys(s.categories) {
		c := s.categories[id]
		if !includeInactive && c.Status != category.StatusActive {
			continue
		}
		cp := *c
		result = append(result, &cp)
	}
	return result, nil
}

func (s *Store) CreateCategory(_ context.Context, c category.Category) (*category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Status == "" {
		c.Status = category.StatusActive
	}
	c.ID = s.nextCategoryID
	s.nextCategoryID++
	c.CreatedAt = s.now()

	s.categories[c.ID] = &c
	cp := c
	return &cp, nil
}

func (s *Store) UpdateCategory(_ context.Context, id int64, upd storage.CategoryUpdate) (*category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	merged := *existing
	upd.Apply(&merged)
	s.categories[id] = &merged

	cp := merged
	return &cp, nil
}

// Jobs

func (s *Store) GetJob(_ context.Context, id int64) (*job.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func matchesJob(j *job.Job, f storage.JobFilter) bool {
	if f.EmployeeID != nil && j.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.Status != nil && j.Status != *f.Status {
		return false
	}
	if f.CategoryID != nil && (j.CategoryID == nil || *j.CategoryID != *f.CategoryID) {
		return false
	}
	if f.Search != nil {
		q := *f.Search
		if !containsFold(j.Title, q) &&
			!containsFold(j.ShortDescription, q) &&
			!containsFold(j.FullDescription, q) &&
			!optionalContainsFold(j.City, q) &&
			!optionalContainsFold(j.State, q) {
			return false
		}
	}
	if f.Department != nil && !strings.EqualFold(j.Department, *f.Department) {
		return false
	}
	if f.Location != nil && j.Location != *f.Location {
		return false
	}
	if f.City != nil && !optionalContainsFold(j.City, *f.City) {
		return false
	}
	if f.State != nil && !optionalContainsFold(j.State, *f.State) {
		return false
	}
	return true
}

func (s *Store) GetJobs(_ context.Context, filter storage.JobFilter) ([]*job.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*job.Job, 0)
	for _, id := range sortedKeys(s.jobs) {
		j := s.jobs[id]
		if !matchesJob(j, filter) {
			continue
		}
		cp := *j
		result = append(result, &cp)
	}
	return result, nil
}

func (s *Store) CreateJob(_ context.Context, j job.Job) (*job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if j.Status == "" {
		j.Status = job.StatusDraft
	}
	j.ID = s.nextJobID
	s.nextJobID++
	j.PostedDate = s.now()

	s.jobs[j.ID] = &j
	cp := j
	return &cp, nil
}

func (s *Store) UpdateJob(_ context.Context, id int64, upd storage.JobUpdate) (*job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	merged := *existing
	upd.Apply(&merged)
	s.jobs[id] = &merged

	cp := merged
	return &cp, nil
}

// Job tags

func (s *Store) GetJobTags(_ context.Context, jobID int64) ([]*job.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*job.Tag, 0)
	for _, id := range sortedKeys(s.jobTags) {
		t := s.jobTags[id]
		if t.JobID != jobID {
			continue
		}
		cp := *t
		result = append(result, &cp)
	}
	return result, nil
}

func (s *Store) AddJobTag(_ context.Context, t job.Tag) (*job.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextJobTagID
	s.nextJobTagID++

	s.jobTags[t.ID] = &t
	cp := t
	return &cp, nil
}

func (s *Store) RemoveJobTag(_ context.Context, jobID int64, tag string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for id, t := range s.jobTags {
		if t.JobID == jobID && t.Tag == tag {
			delete(s.jobTags, id)
			removed = true
		}
	}
	return removed, nil
}

// Applications

func (s *Store) GetApplication(_ context.Context, id int64) (*application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.applications[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *Store) GetApplications(_ context.Context, filter storage.ApplicationFilter) ([]*application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*application.Application, 0)
	for _, id := range sortedKeys(s.applications) {
		a := s.applications[id]
		if filter.JobID != nil && a.JobID != *filter.JobID {
			continue
		}
		if filter.ApplicantID != nil && (a.ApplicantID == nil || *a.ApplicantID != *filter.ApplicantID) {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		cp := *a
		result = append(result, &cp)
	}
	return result, nil
}

func (s *Store) CreateApplication(_ context.Context, a application.Application) (*application.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.Status == "" {
		a.Status = application.StatusNew
	}
	now := s.now()
	a.ID = s.nextApplicationID
	s.nextApplicationID++
	a.AppliedDate = now
	a.LastUpdated = now

	s.applications[a.ID] = &a
	cp := a
	return &cp, nil
}

func (s *Store) UpdateApplication(_ context.Context, id int64, upd storage.ApplicationUpdate) (*application.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.applications[id]
	if !ok {
		return nil, nil
	}
	merged := *existing
	upd.Apply(&merged, s.now())
	s.applications[id] = &merged

	cp := merged
	return &cp, nil
}

func (s *Store) GetApplicationCount(_ context.Context, jobID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, a := range s.applications {
		if a.JobID == jobID {
			count++
		}
	}
	return count, nil
}
