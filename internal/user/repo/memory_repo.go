package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
)

// MemoryRepo keeps users in process memory.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]entity.User
	byEmail map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]entity.User), byEmail: make(map[string]string)}
}

func (r *MemoryRepo) Create(ctx context.Context, email, name, passwordHash string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return nil, ErrDuplicateEmail
	}
	now := time.Now().UTC()
	u := entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return &u, nil
}

func (r *MemoryRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.PasswordHash = ""
	return &u, nil
}
