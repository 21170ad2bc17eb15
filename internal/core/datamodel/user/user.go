package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleEmployee  Role = "employee"
	RoleApplicant Role = "applicant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleApplicant:
		return true
	}
	return false
}

type User struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	Username      string     `json:"username" gorm:"column:username;not null"`
	Email         string     `json:"email" gorm:"column:email;not null"`
	Password      string     `json:"-" gorm:"column:password;not null"`
	FirstName     string     `json:"firstName" gorm:"column:first_name;not null"`
	LastName      string     `json:"lastName" gorm:"column:last_name;not null"`
	MiddleName    *string    `json:"middleName,omitempty" gorm:"column:middle_name"`
	PreferredName *string    `json:"preferredName,omitempty" gorm:"column:preferred_name"`
	FullName      string     `json:"fullName" gorm:"column:full_name;not null"`
	Role          Role       `json:"role" gorm:"column:role;not null"`
	Department    *string    `json:"department,omitempty" gorm:"column:department"`
	IsActive      bool       `json:"isActive" gorm:"column:is_active;not null"`
	IsSuperAdmin  bool       `json:"isSuperAdmin" gorm:"column:is_super_admin;not null"`
	LastLogin     *time.Time `json:"lastLogin" gorm:"column:last_login"`
	CreatedAt     time.Time  `json:"createdAt" gorm:"column:created_at;not null"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// DeriveFullName joins first, optional middle and last name with single spaces.
func DeriveFullName(first string, middle *string, last string) string {
	parts := make([]string, 0, 3)
	if s := strings.TrimSpace(first); s != "" {
		parts = append(parts, s)
	}
	if middle != nil {
		if s := strings.TrimSpace(*middle); s != "" {
			parts = append(parts, s)
		}
	}
	if s := strings.TrimSpace(last); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
