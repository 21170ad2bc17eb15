package job

import (
	"sort"
	"strings"

	jobDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/job"
	"github.com/frahmantamala/job-board/internal/storage"
)

func (dto CreateJobDTO) ToDataModel(ownerID int64) jobDatamodel.Job {
	j := jobDatamodel.Job{
		Title:            strings.TrimSpace(dto.Title),
		Department:       strings.TrimSpace(dto.Department),
		CategoryID:       dto.CategoryID,
		EmployeeID:       ownerID,
		ShortDescription: dto.ShortDescription,
		FullDescription:  dto.FullDescription,
		Requirements:     dto.Requirements,
		Type:             dto.Type,
		Location:         dto.Location,
		City:             optional(dto.City),
		State:            optional(dto.State),
		SalaryRange:      optional(dto.SalaryRange),
		Status:           jobDatamodel.StatusDraft,
		ExpiryDate:       dto.ExpiryDate,
	}
	if dto.Status != nil {
		j.Status = *dto.Status
	}
	return j
}

func (dto UpdateJobDTO) ToUpdate() storage.JobUpdate {
	return storage.JobUpdate{
		Title:            trimmed(dto.Title),
		Department:       trimmed(dto.Department),
		CategoryID:       dto.CategoryID,
		ShortDescription: dto.ShortDescription,
		FullDescription:  dto.FullDescription,
		Requirements:     dto.Requirements,
		Type:             dto.Type,
		Location:         dto.Location,
		City:             trimmed(dto.City),
		State:            trimmed(dto.State),
		SalaryRange:      trimmed(dto.SalaryRange),
		ExpiryDate:       dto.ExpiryDate,
	}
}

// normalizeTags trims tags and drops blanks and case-insensitive duplicates,
// keeping the first spelling.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

func tagNames(tags []*jobDatamodel.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Tag)
	}
	return names
}

// sortNewestFirst orders listings by postedDate descending, then id descending.
func sortNewestFirst(jobs []*jobDatamodel.Job) {
	sort.SliceStable(jobs, func(i, k int) bool {
		if !jobs[i].PostedDate.Equal(jobs[k].PostedDate) {
			return jobs[i].PostedDate.After(jobs[k].PostedDate)
		}
		return jobs[i].ID > jobs[k].ID
	})
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func optional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
