package user

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/georgemunganga/fieldops-backend/internal/table"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryRepository keeps users in process. Emails are unique.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: map[string]*User{}}
}

func (r *memoryRepository) CreateUser(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("user %s: %w", user.Email, table.ErrDuplicate)
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	r.users[user.ID.String()] = &cp
	return nil
}

func (r *memoryRepository) GetUserByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, table.ErrNotFound)
}

func (r *memoryRepository) GetUserByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, table.ErrNotFound)
}
