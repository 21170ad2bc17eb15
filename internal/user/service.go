package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/job-board/internal"
	"github.com/frahmantamala/job-board/internal/auth"
	"github.com/frahmantamala/job-board/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage"
)

type Service struct {
	store  storage.Storage
	hasher *auth.PasswordHasher
	logger *slog.Logger
}

func NewService(store storage.Storage, hasher *auth.PasswordHasher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if hasher == nil {
		hasher = auth.NewPasswordHasher(0)
	}
	return &Service{
		store:  store,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, filter storage.UserFilter) ([]*userDatamodel.User, error) {
	users, err := s.store.GetUsers(ctx, filter)
	if err != nil {
		return nil, internal.NewInternalError("Failed to list users", err)
	}
	if users == nil {
		users = []*userDatamodel.User{}
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*userDatamodel.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Failed to get user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

// Create adds an account from the admin portal. Only a super-admin may create
// another super-admin.
func (s *Service) Create(ctx context.Context, actor *userDatamodel.User, dto CreateUserDTO) (*userDatamodel.User, error) {
	if v := validation.Struct(dto); v != nil {
		return nil, v
	}
	if dto.IsSuperAdmin && (actor == nil || !actor.IsSuperAdmin) {
		return nil, internal.ErrSuperAdminOnly
	}
	if err := s.ensureAvailable(ctx, 0, &dto.Username, &dto.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("Failed to hash password", err)
	}

	created, err := s.store.CreateUser(ctx, dto.ToDataModel(hash))
	if err != nil {
		return nil, s.conflictOr(err, "Failed to create user")
	}

	s.logger.InfoContext(ctx, "user created", "user_id", created.ID, "role", created.Role, "by", actorID(actor))
	return created, nil
}

// Register implements auth.Registrar: self-service sign-up always produces an
// active applicant.
func (s *Service) Register(ctx context.Context, dto auth.RegisterDTO) (*userDatamodel.User, error) {
	return s.Create(ctx, nil, CreateUserDTO{
		Username:      dto.Username,
		Email:         dto.Email,
		Password:      dto.Password,
		FirstName:     dto.FirstName,
		LastName:      dto.LastName,
		MiddleName:    dto.MiddleName,
		PreferredName: dto.PreferredName,
		Role:          userDatamodel.RoleApplicant,
	})
}

func (s *Service) Update(ctx context.Context, actor *userDatamodel.User, id int64, dto UpdateUserDTO) (*userDatamodel.User, error) {
	if v := validation.Merge(validation.Struct(dto), blankFields(dto)); v != nil {
		return nil, v
	}
	if dto.IsActive != nil && !*dto.IsActive && actor != nil && actor.ID == id {
		return nil, internal.ErrCannotDeactivateSelf
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, existing.ID, changed(dto.Username, existing.Username), changed(dto.Email, existing.Email)); err != nil {
		return nil, err
	}

	upd := dto.ToUpdate()
	if dto.Password != nil {
		hash, err := s.hasher.Hash(*dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("Failed to hash password", err)
		}
		upd.Password = &hash
	}

	return s.update(ctx, actor, id, upd)
}

// Deactivate is the admin portal delete: accounts are never removed.
func (s *Service) Deactivate(ctx context.Context, actor *userDatamodel.User, id int64) (*userDatamodel.User, error) {
	if actor != nil && actor.ID == id {
		return nil, internal.ErrCannotDeactivateSelf
	}
	inactive := false
	return s.update(ctx, actor, id, storage.UserUpdate{IsActive: &inactive})
}

func (s *Service) update(ctx context.Context, actor *userDatamodel.User, id int64, upd storage.UserUpdate) (*userDatamodel.User, error) {
	var actingID *int64
	if actor != nil {
		actingID = &actor.ID
	}

	updated, err := s.store.UpdateUser(ctx, id, upd, actingID)
	if err != nil {
		if errors.Is(err, storage.ErrPrivilege) {
			s.logger.WarnContext(ctx, "protected user fields change refused", "user_id", id, "by", actorID(actor))
			return nil, internal.ErrSuperAdminOnly.WithCause(err)
		}
		return nil, s.conflictOr(err, "Failed to update user")
	}
	if updated == nil {
		return nil, internal.ErrUserNotFound
	}

	s.logger.InfoContext(ctx, "user updated", "user_id", id, "by", actorID(actor))
	return updated, nil
}

// ensureAvailable checks username and email uniqueness ignoring excludeID.
// Nil values are not checked.
func (s *Service) ensureAvailable(ctx context.Context, excludeID int64, username, email *string) error {
	if username != nil {
		u, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(*username))
		if err != nil {
			return internal.NewInternalError("Failed to check username", err)
		}
		if u != nil && u.ID != excludeID {
			return internal.ErrUsernameTaken
		}
	}
	if email != nil {
		u, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(*email))
		if err != nil {
			return internal.NewInternalError("Failed to check email", err)
		}
		if u != nil && u.ID != excludeID {
			return internal.ErrEmailTaken
		}
	}
	return nil
}

func (s *Service) conflictOr(err error, message string) error {
	if errors.Is(err, storage.ErrConflict) {
		return internal.ErrConflict.WithCause(err)
	}
	return internal.NewInternalError(message, err)
}

// changed returns v when it differs case-insensitively from current.
func changed(v *string, current string) *string {
	if v == nil || strings.EqualFold(strings.TrimSpace(*v), current) {
		return nil
	}
	return v
}

// blankFields rejects present-but-empty values for required columns, which
// the omitempty struct tags let through.
func blankFields(dto UpdateUserDTO) *internal.AppError {
	b := validation.NewValidator()
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"username", dto.Username},
		{"email", dto.Email},
		{"password", dto.Password},
		{"firstName", dto.FirstName},
		{"lastName", dto.LastName},
	} {
		if f.value != nil {
			b.Field(f.name, f.value).Required()
		}
	}
	return b.Validate()
}

func actorID(actor *userDatamodel.User) int64 {
	if actor == nil {
		return 0
	}
	return actor.ID
}
