package users

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/console/internal/common"
)

// ErrUserExists is returned when the user name is already taken.
var ErrUserExists = errors.New("user already exists")

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetUserByLogin(ctx context.Context, userName string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
}

// MemoryRepository is a Repository over maps, guarded by a mutex.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]*User
	byName map[string]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: map[string]*User{}, byName: map[string]*User{}}
}

func (r *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.UserName]; ok {
		return nil, ErrUserExists
	}

	u := *user
	u.ID = uuid.NewString()
	r.byID[u.ID] = &u
	r.byName[u.UserName] = &u

	out := u
	return &out, nil
}

func (r *MemoryRepository) GetUserByLogin(_ context.Context, userName string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byName[userName]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *MemoryRepository) GetUserByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *u
	return &out, nil
}
