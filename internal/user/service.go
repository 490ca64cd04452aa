package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-auth-go/internal/user/repo"
)

// Tokens issues and verifies bearer tokens for user ids.
type Tokens interface {
	Issue(subjectID string) (string, time.Time, error)
	Verify(raw string) (string, error)
}

// UserService orchestrates sign-up, sign-in and profile lookup.
type UserService struct {
	repo   userrepo.Store
	hasher PasswordHasher
	tokens Tokens
	logger *zap.SugaredLogger

	dummyMu   sync.Mutex
	dummyHash string
}

func NewUserService(r userrepo.Store, hasher PasswordHasher, tokens Tokens, logger *zap.SugaredLogger) *UserService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: DefaultBcryptCost}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &UserService{repo: r, hasher: hasher, tokens: tokens, logger: logger}
	s.timingHash()
	return s
}

// SignUp creates a user. The existence check is only a fast path; the store's
// unique constraint decides races between concurrent sign-ups.
func (s *UserService) SignUp(ctx context.Context, req SignupRequest) (*entity.Profile, error) {
	_, err := s.repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		s.logger.Warnw("signup with existing email", "email", req.Email)
		return nil, ErrConflict
	case !errors.Is(err, userrepo.ErrNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, req.Email, req.Name, hash)
	if err != nil {
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			s.logger.Warnw("signup lost race on email", "email", req.Email)
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Infow("user registered", "user_id", u.ID, "email", u.Email)
	return u.ToProfile(), nil
}

// SignIn checks credentials and issues a token. Unknown email and wrong
// password both return ErrInvalidCredentials after a full hash comparison.
func (s *UserService) SignIn(ctx context.Context, req SigninRequest) (*SigninResult, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			s.hasher.Verify(s.timingHash(), req.Password)
			s.logger.Warnw("signin with unknown email", "email", req.Email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if !s.hasher.Verify(u.PasswordHash, req.Password) {
		s.logger.Warnw("signin with wrong password", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	tok, _, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.logger.Infow("user signed in", "user_id", u.ID)
	return &SigninResult{Token: tok, User: u.ToProfile()}, nil
}

// GetProfile returns targetID's profile if requesterID owns it.
func (s *UserService) GetProfile(ctx context.Context, requesterID, targetID string) (*entity.Profile, error) {
	if requesterID != targetID {
		s.logger.Warnw("profile access denied", "requester", requesterID, "target", targetID)
		return nil, ErrForbidden
	}
	u, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u.ToProfile(), nil
}

// Authenticate resolves a raw bearer token to the current user record.
func (s *UserService) Authenticate(ctx context.Context, raw string) (*entity.Identity, error) {
	sub, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	u, err := s.repo.FindByID(ctx, sub)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, fmt.Errorf("%w: subject %s no longer exists", ErrUnauthenticated, sub)
		}
		return nil, fmt.Errorf("lookup token subject: %w", err)
	}
	return u.ToIdentity(), nil
}

// timingHash is compared against when the email is unknown. A failed build
// is retried on the next call so the comparison is never skipped for good.
func (s *UserService) timingHash() string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyHash == "" {
		h, err := s.hasher.Hash("timing-equaliser-Aa1!")
		if err != nil {
			s.logger.Errorw("build timing hash", "err", err)
			return ""
		}
		s.dummyHash = h
	}
	return s.dummyHash
}
