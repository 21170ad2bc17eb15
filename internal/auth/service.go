package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/job-board/internal"
	"github.com/frahmantamala/job-board/internal/core/common/validation"
	"github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage"
	"github.com/frahmantamala/job-board/internal/transport/metrics"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*user.User, *Session, error)
	Logout(ctx context.Context, sessionID string) error
	StartSession(ctx context.Context, u *user.User) (*Session, error)
	ResolveSession(ctx context.Context, sessionID string) (*user.User, error)
}

type Service struct {
	store    storage.Storage
	sessions SessionStore
	hasher   *PasswordHasher
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(store storage.Storage, sessions SessionStore, hasher *PasswordHasher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if hasher == nil {
		hasher = NewPasswordHasher(0)
	}
	return &Service{
		store:    store,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) Hasher() *PasswordHasher {
	return s.hasher
}

// findLoginUser resolves the login identifier: email first when it looks like
// one, otherwise username first, falling back to the other lookup.
func (s *Service) findLoginUser(ctx context.Context, identifier string) (*user.User, error) {
	lookups := []func(context.Context, string) (*user.User, error){
		s.store.GetUserByUsername,
		s.store.GetUserByEmail,
	}
	if strings.Contains(identifier, "@") {
		lookups[0], lookups[1] = lookups[1], lookups[0]
	}

	for _, lookup := range lookups {
		u, err := lookup(ctx, identifier)
		if err != nil {
			return nil, err
		}
		if u != nil {
			return u, nil
		}
	}
	return nil, nil
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (*user.User, *Session, error) {
	dto.Username = strings.TrimSpace(dto.Username)
	if v := validation.Struct(dto); v != nil {
		return nil, nil, v
	}

	u, err := s.findLoginUser(ctx, dto.Username)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, nil, internal.NewInternalError("Failed to look up user", err)
	}
	if u == nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, nil, internal.ErrInvalidCredentials
	}
	// an inactive account is refused before the password is checked
	if !u.IsActive {
		metrics.LoginAttemptsTotal.WithLabelValues("inactive").Inc()
		return nil, nil, internal.ErrUserInactive
	}
	if !s.hasher.Verify(u.Password, dto.Password) {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		s.logger.InfoContext(ctx, "login rejected", "user_id", u.ID)
		return nil, nil, internal.ErrInvalidCredentials
	}

	sess, err := s.StartSession(ctx, u)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, nil, err
	}

	now := s.now()
	updated, err := s.store.UpdateUser(ctx, u.ID, storage.UserUpdate{LastLogin: &now}, nil)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record last login", "user_id", u.ID, "error", err)
	} else if updated != nil {
		u = updated
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID, "role", u.Role)
	return u, sess, nil
}

func (s *Service) StartSession(ctx context.Context, u *user.User) (*Session, error) {
	sess, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, internal.NewInternalError("Failed to create session", err)
	}
	metrics.SessionsCreatedTotal.Inc()
	return sess, nil
}

// Logout destroys the session; an empty or unknown id is not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return internal.NewInternalError("Failed to destroy session", err)
	}
	return nil
}

// ResolveSession loads the user behind a session. Sessions of missing or
// inactive users are destroyed.
func (s *Service) ResolveSession(ctx context.Context, sessionID string) (*user.User, error) {
	if sessionID == "" {
		return nil, internal.ErrUnauthorized
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, internal.NewInternalError("Failed to load session", err)
	}
	if sess == nil {
		return nil, internal.ErrUnauthorized
	}

	u, err := s.store.GetUser(ctx, sess.UserID)
	if err != nil {
		return nil, internal.NewInternalError("Failed to load user", err)
	}
	if u == nil {
		s.destroyQuietly(ctx, sessionID)
		return nil, internal.ErrUnauthorized
	}
	if !u.IsActive {
		s.destroyQuietly(ctx, sessionID)
		return nil, internal.ErrUserInactive
	}
	return u, nil
}

func (s *Service) destroyQuietly(ctx context.Context, sessionID string) {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "failed to destroy session", "error", fmt.Errorf("destroy: %w", err))
	}
}
