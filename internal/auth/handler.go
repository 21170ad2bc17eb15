package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/job-board/internal"
	"github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/transport"
	"github.com/frahmantamala/job-board/pkg/logger"
)

// Registrar creates self-service applicant accounts.
type Registrar interface {
	Register(ctx context.Context, dto RegisterDTO) (*user.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Cookies   *CookieCodec
	Registrar Registrar
}

func NewHandler(svc ServiceAPI, cookies *CookieCodec, registrar Registrar) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Cookies:     cookies,
		Registrar:   registrar,
	}
}

type userResponse struct {
	User *user.User `json:"user"`
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, sess *Session) bool {
	if err := h.Cookies.Set(w, sess); err != nil {
		_ = h.Service.Logout(r.Context(), sess.ID)
		h.HandleServiceError(w, r, internal.NewInternalError("Failed to issue session cookie", err))
		return false
	}
	return true
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	u, sess, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	if !h.startSession(w, r, sess) {
		return
	}

	h.WriteJSON(w, http.StatusOK, userResponse{User: u})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if h.Registrar == nil {
		h.WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	var dto RegisterDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	u, err := h.Registrar.Register(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	sess, err := h.Service.StartSession(r.Context(), u)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if !h.startSession(w, r, sess) {
		return
	}

	h.WriteJSON(w, http.StatusCreated, userResponse{User: u})
}

// Logout is idempotent: it always clears the cookie and answers 200.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sid := h.Cookies.SessionID(r); sid != "" {
		if err := h.Service.Logout(r.Context(), sid); err != nil {
			h.Logger.ErrorContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.Cookies.Clear(w)
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, internal.ErrUnauthorized.Message)
		return
	}
	h.WriteJSON(w, http.StatusOK, userResponse{User: u})
}

// writeAuthError renders the gate errors with a bare {"message"} body.
func (h *Handler) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	for _, sentinel := range []*internal.AppError{
		internal.ErrUnauthorized,
		internal.ErrInvalidCredentials,
		internal.ErrUserInactive,
		internal.ErrForbidden,
	} {
		if errors.Is(err, sentinel) {
			h.WriteError(w, sentinel.StatusCode, sentinel.Message)
			return
		}
	}
	h.HandleServiceError(w, r, err)
}

// RequireAuth admits requests carrying a valid session of an active user and
// attaches that user to the request context.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := h.Cookies.SessionID(r)
		if sid == "" {
			h.WriteError(w, http.StatusUnauthorized, internal.ErrUnauthorized.Message)
			return
		}

		u, err := h.Service.ResolveSession(r.Context(), sid)
		if err != nil {
			if errors.Is(err, internal.ErrUnauthorized) || errors.Is(err, internal.ErrUserInactive) {
				h.Cookies.Clear(w)
			}
			h.writeAuthError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u, sid)))
	})
}

// OptionalAuth attaches the session user when one is present and valid and
// otherwise lets the request through anonymously.
func (h *Handler) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := h.Cookies.SessionID(r)
		if sid == "" {
			next.ServeHTTP(w, r)
			return
		}
		u, err := h.Service.ResolveSession(r.Context(), sid)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u, sid)))
	})
}

func withUser(ctx context.Context, u *user.User, sid string) context.Context {
	ctx = internal.ContextWithUser(ctx, u)
	ctx = internal.ContextWithSessionID(ctx, sid)
	return logger.With(ctx, "user_id", u.ID)
}
