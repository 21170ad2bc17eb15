package user

import userDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/user"

type CreateUserDTO struct {
	Username      string             `json:"username" validate:"required,min=3,max=50"`
	Email         string             `json:"email" validate:"required,email"`
	Password      string             `json:"password" validate:"required,min=8,max=72"`
	FirstName     string             `json:"firstName" validate:"required,max=100"`
	LastName      string             `json:"lastName" validate:"required,max=100"`
	MiddleName    *string            `json:"middleName,omitempty" validate:"omitempty,max=100"`
	PreferredName *string            `json:"preferredName,omitempty" validate:"omitempty,max=100"`
	Role          userDatamodel.Role `json:"role" validate:"required,oneof=admin employee applicant"`
	Department    *string            `json:"department,omitempty" validate:"omitempty,max=100"`
	IsActive      *bool              `json:"isActive,omitempty"`
	IsSuperAdmin  bool               `json:"isSuperAdmin,omitempty"`
}

// UpdateUserDTO is a partial update; absent fields are left unchanged and an
// empty string clears an optional field.
type UpdateUserDTO struct {
	Username      *string             `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email         *string             `json:"email,omitempty" validate:"omitempty,email"`
	Password      *string             `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	FirstName     *string             `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName      *string             `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	MiddleName    *string             `json:"middleName,omitempty" validate:"omitempty,max=100"`
	PreferredName *string             `json:"preferredName,omitempty" validate:"omitempty,max=100"`
	FullName      *string             `json:"fullName,omitempty" validate:"omitempty,max=300"`
	Role          *userDatamodel.Role `json:"role,omitempty" validate:"omitempty,oneof=admin employee applicant"`
	Department    *string             `json:"department,omitempty" validate:"omitempty,max=100"`
	IsActive      *bool               `json:"isActive,omitempty"`
	IsSuperAdmin  *bool               `json:"isSuperAdmin,omitempty"`
}

type UserResponse struct {
	User *userDatamodel.User `json:"user"`
}

type UsersResponse struct {
	Users []*userDatamodel.User `json:"users"`
}
