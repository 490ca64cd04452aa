package user

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/utilities"
)

const (
	maxBodyBytes = 1 << 20
	msgInternal  = "Internal server error"
)

// Core is the set of operations the HTTP layer needs.
type Core interface {
	Authenticator
	SignUp(ctx context.Context, req SignupRequest) (*entity.Profile, error)
	SignIn(ctx context.Context, req SigninRequest) (*SigninResult, error)
	GetProfile(ctx context.Context, requesterID, targetID string) (*entity.Profile, error)
}

// Handler exposes HTTP endpoints for signup, signin and profile lookup.
type Handler struct {
	svc    Core
	logger *zap.SugaredLogger
}

func NewHandler(svc Core, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the auth routes on mux. wrap is applied to every route.
func (h *Handler) Register(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	gate := RequireAuth(h.svc, h.logger)
	mux.Handle("POST /auth/signup", wrap(bindJSON(h.logger, h.Signup)))
	mux.Handle("POST /auth/signin", wrap(bindJSON(h.logger, h.Signin)))
	mux.Handle("GET /auth/users/{id}", wrap(gate(http.HandlerFunc(h.GetUser))))
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request, req SignupRequest) {
	profile, err := h.svc.SignUp(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, SignupResponse{User: profile})
}

func (h *Handler) Signin(w http.ResponseWriter, r *http.Request, req SigninRequest) {
	res, err := h.svc.SignIn(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, res)
}

// GetUser must run behind RequireAuth.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, msgPleaseAuthenticate, nil)
		return
	}
	profile, err := h.svc.GetProfile(r.Context(), caller.ID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, ProfileResponse{User: profile, Message: "User retrieved successfully"})
}

// writeError maps core errors to status codes. Unknown errors are logged and hidden.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrConflict):
		utilities.WriteError(w, http.StatusConflict, "User already exists", nil)
	case errors.Is(err, ErrInvalidCredentials):
		utilities.WriteError(w, http.StatusUnauthorized, "Invalid credentials", nil)
	case errors.Is(err, ErrUnauthenticated):
		utilities.WriteError(w, http.StatusUnauthorized, msgPleaseAuthenticate, nil)
	case errors.Is(err, ErrForbidden):
		utilities.WriteError(w, http.StatusForbidden, "You can only access your own user data", nil)
	case errors.Is(err, ErrNotFound):
		utilities.WriteError(w, http.StatusNotFound, "User not found", nil)
	default:
		h.logger.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, msgInternal, nil)
	}
}

type validatable interface {
	Validate() error
}

// bindJSON decodes a strict JSON body into T, validates it and hands it to next.
func bindJSON[T validatable](logger *zap.SugaredLogger, next func(http.ResponseWriter, *http.Request, T)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req T
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			logger.Debugw("invalid payload", "path", r.URL.Path, "err", err)
			utilities.WriteError(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			utilities.WriteError(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}

		if err := req.Validate(); err != nil {
			var verrs validation.Errors
			if errors.As(err, &verrs) {
				utilities.WriteError(w, http.StatusBadRequest, "Validation failed", verrs)
				return
			}
			logger.Errorw("validate payload", "path", r.URL.Path, "err", err)
			utilities.WriteError(w, http.StatusInternalServerError, msgInternal, nil)
			return
		}
		next(w, r, req)
	})
}
