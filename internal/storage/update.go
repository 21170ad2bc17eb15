package storage

import (
	"strings"
	"time"

	"github.com/frahmantamala/job-board/internal/core/datamodel/application"
	"github.com/frahmantamala/job-board/internal/core/datamodel/category"
	"github.com/frahmantamala/job-board/internal/core/datamodel/job"
	"github.com/frahmantamala/job-board/internal/core/datamodel/user"
)

// Partial updates: a nil field keeps the stored value. For optional string
// columns an empty string clears the value.

type UserUpdate struct {
	Username      *string
	Email         *string
	Password      *string
	FirstName     *string
	LastName      *string
	MiddleName    *string
	PreferredName *string
	FullName      *string
	Role          *user.Role
	Department    *string
	IsActive      *bool
	IsSuperAdmin  *bool
	LastLogin     *time.Time
}

func (u UserUpdate) touchesName() bool {
	return u.FirstName != nil || u.LastName != nil || u.MiddleName != nil
}

// Apply merges the update into dst, re-deriving fullName when a name part
// changed and no explicit fullName was supplied.
func (u UserUpdate) Apply(dst *user.User) {
	setString(&dst.Username, u.Username)
	setString(&dst.Email, u.Email)
	setString(&dst.Password, u.Password)
	setString(&dst.FirstName, u.FirstName)
	setString(&dst.LastName, u.LastName)
	setOptional(&dst.MiddleName, u.MiddleName)
	setOptional(&dst.PreferredName, u.PreferredName)
	setOptional(&dst.Department, u.Department)
	if u.Role != nil {
		dst.Role = *u.Role
	}
	if u.IsActive != nil {
		dst.IsActive = *u.IsActive
	}
	if u.IsSuperAdmin != nil {
		dst.IsSuperAdmin = *u.IsSuperAdmin
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		dst.LastLogin = &t
	}
	switch {
	case u.FullName != nil && strings.TrimSpace(*u.FullName) != "":
		dst.FullName = *u.FullName
	case u.touchesName() || u.FullName != nil:
		dst.FullName = user.DeriveFullName(dst.FirstName, dst.MiddleName, dst.LastName)
	}
}

// Columns returns the column assignments for merged, limited to the fields
// present in the update.
func (u UserUpdate) Columns(merged *user.User) map[string]interface{} {
	cols := map[string]interface{}{}
	if u.Username != nil {
		cols["username"] = merged.Username
	}
	if u.Email != nil {
		cols["email"] = merged.Email
	}
	if u.Password != nil {
		cols["password"] = merged.Password
	}
	if u.FirstName != nil {
		cols["first_name"] = merged.FirstName
	}
	if u.LastName != nil {
		cols["last_name"] = merged.LastName
	}
	if u.MiddleName != nil {
		cols["middle_name"] = merged.MiddleName
	}
	if u.PreferredName != nil {
		cols["preferred_name"] = merged.PreferredName
	}
	if u.FullName != nil || u.touchesName() {
		cols["full_name"] = merged.FullName
	}
	if u.Role != nil {
		cols["role"] = merged.Role
	}
	if u.Department != nil {
		cols["department"] = merged.Department
	}
	if u.IsActive != nil {
		cols["is_active"] = merged.IsActive
	}
	if u.IsSuperAdmin != nil {
		cols["is_super_admin"] = merged.IsSuperAdmin
	}
	if u.LastLogin != nil {
		cols["last_login"] = merged.LastLogin
	}
	return cols
}

type CategoryUpdate struct {
	Name        *string
	Description *string
	Status      *category.Status
}

func (u CategoryUpdate) Apply(dst *category.Category) {
	setString(&dst.Name, u.Name)
	setOptional(&dst.Description, u.Description)
	if u.Status != nil {
		dst.Status = *u.Status
	}
}

func (u CategoryUpdate) Columns(merged *category.Category) map[string]interface{} {
	cols := map[string]interface{}{}
	if u.Name != nil {
		cols["name"] = merged.Name
	}
	if u.Description != nil {
		cols["description"] = merged.Description
	}
	if u.Status != nil {
		cols["status"] = merged.Status
	}
	return cols
}

// JobUpdate: a CategoryID of 0 clears the category, a zero ExpiryDate clears
// the expiry date.
type JobUpdate struct {
	Title            *string
	Department       *string
	CategoryID       *int64
	EmployeeID       *int64
	ShortDescription *string
	FullDescription  *string
	Requirements     *string
	Type             *job.Type
	Location         *job.Location
	City             *string
	State            *string
	SalaryRange      *string
	Status           *job.Status
	ExpiryDate       *time.Time
}

func (u JobUpdate) Apply(dst *job.Job) {
	setString(&dst.Title, u.Title)
	setString(&dst.Department, u.Department)
	if u.CategoryID != nil {
		if *u.CategoryID == 0 {
			dst.CategoryID = nil
		} else {
			id := *u.CategoryID
			dst.CategoryID = &id
		}
	}
	if u.EmployeeID != nil {
		dst.EmployeeID = *u.EmployeeID
	}
	setString(&dst.ShortDescription, u.ShortDescription)
	setString(&dst.FullDescription, u.FullDescription)
	setString(&dst.Requirements, u.Requirements)
	if u.Type != nil {
		dst.Type = *u.Type
	}
	if u.Location != nil {
		dst.Location = *u.Location
	}
	setOptional(&dst.City, u.City)
	setOptional(&dst.State, u.State)
	setOptional(&dst.SalaryRange, u.SalaryRange)
	if u.Status != nil {
		dst.Status = *u.Status
	}
	if u.ExpiryDate != nil {
		if u.ExpiryDate.IsZero() {
			dst.ExpiryDate = nil
		} else {
			t := *u.ExpiryDate
			dst.ExpiryDate = &t
		}
	}
}

func (u JobUpdate) Columns(merged *job.Job) map[string]interface{} {
	cols := map[string]interface{}{}
	if u.Title != nil {
		cols["title"] = merged.Title
	}
	if u.Department != nil {
		cols["department"] = merged.Department
	}
	if u.CategoryID != nil {
		cols["category_id"] = merged.CategoryID
	}
	if u.EmployeeID != nil {
		cols["employee_id"] = merged.EmployeeID
	}
	if u.ShortDescription != nil {
		cols["short_description"] = merged.ShortDescription
	}
	if u.FullDescription != nil {
		cols["full_description"] = merged.FullDescription
	}
	if u.Requirements != nil {
		cols["requirements"] = merged.Requirements
	}
	if u.Type != nil {
		cols["type"] = merged.Type
	}
	if u.Location != nil {
		cols["location"] = merged.Location
	}
	if u.City != nil {
		cols["city"] = merged.City
	}
	if u.State != nil {
		cols["state"] = merged.State
	}
	if u.SalaryRange != nil {
		cols["salary_range"] = merged.SalaryRange
	}
	if u.Status != nil {
		cols["status"] = merged.Status
	}
	if u.ExpiryDate != nil {
		cols["expiry_date"] = merged.ExpiryDate
	}
	return cols
}

type ApplicationUpdate struct {
	Name        *string
	Email       *string
	Phone       *string
	ResumeURL   *string
	CoverLetter *string
	Status      *application.Status
	Notes       *string
}

// Apply merges the update and bumps LastUpdated to now.
func (u ApplicationUpdate) Apply(dst *application.Application, now time.Time) {
	setString(&dst.Name, u.Name)
	setString(&dst.Email, u.Email)
	setOptional(&dst.Phone, u.Phone)
	setOptional(&dst.ResumeURL, u.ResumeURL)
	setOptional(&dst.CoverLetter, u.CoverLetter)
	setOptional(&dst.Notes, u.Notes)
	if u.Status != nil {
		dst.Status = *u.Status
	}
	dst.LastUpdated = now
}

func (u ApplicationUpdate) Columns(merged *application.Application) map[string]interface{} {
	cols := map[string]interface{}{
		"last_updated": merged.LastUpdated,
	}
	if u.Name != nil {
		cols["name"] = merged.Name
	}
	if u.Email != nil {
		cols["email"] = merged.Email
	}
	if u.Phone != nil {
		cols["phone"] = merged.Phone
	}
	if u.ResumeURL != nil {
		cols["resume_url"] = merged.ResumeURL
	}
	if u.CoverLetter != nil {
		cols["cover_letter"] = merged.CoverLetter
	}
	if u.Status != nil {
		cols["status"] = merged.Status
	}
	if u.Notes != nil {
		cols["notes"] = merged.Notes
	}
	return cols
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setOptional(dst **string, v *string) {
	if v == nil {
		return
	}
	if *v == "" {
		*dst = nil
		return
	}
	s := *v
	*dst = &s
}
