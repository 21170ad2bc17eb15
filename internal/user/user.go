package user

import (
	"strings"

	userDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage"
)

// ToDataModel builds the user record for CreateUser. The password must
// already be hashed.
func (dto CreateUserDTO) ToDataModel(passwordHash string) userDatamodel.User {
	active := true
	if dto.IsActive != nil {
		active = *dto.IsActive
	}
	return userDatamodel.User{
		Username:      strings.TrimSpace(dto.Username),
		Email:         strings.TrimSpace(dto.Email),
		Password:      passwordHash,
		FirstName:     strings.TrimSpace(dto.FirstName),
		LastName:      strings.TrimSpace(dto.LastName),
		MiddleName:    nonEmpty(dto.MiddleName),
		PreferredName: nonEmpty(dto.PreferredName),
		Role:          dto.Role,
		Department:    nonEmpty(dto.Department),
		IsActive:      active,
		IsSuperAdmin:  dto.IsSuperAdmin,
	}
}

// ToUpdate converts the request into a storage partial update. Password is
// left to the caller because it has to be hashed first.
func (dto UpdateUserDTO) ToUpdate() storage.UserUpdate {
	return storage.UserUpdate{
		Username:      trimmed(dto.Username),
		Email:         trimmed(dto.Email),
		FirstName:     trimmed(dto.FirstName),
		LastName:      trimmed(dto.LastName),
		MiddleName:    dto.MiddleName,
		PreferredName: dto.PreferredName,
		FullName:      dto.FullName,
		Role:          dto.Role,
		Department:    dto.Department,
		IsActive:      dto.IsActive,
		IsSuperAdmin:  dto.IsSuperAdmin,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
