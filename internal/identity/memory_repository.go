package identity

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]User
}

// NewMemoryRepository constructs an in-memory user repository for tests and
// database-less development.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]User)}
}

func (r *memoryRepository) Create(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.storage {
		if existing.Email == user.Email {
			return ErrEmailTaken
		}
	}
	r.storage[user.ID] = user
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.storage[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.storage {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memoryRepository) Update(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.storage[user.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Email = user.Email
	existing.Name = user.Name
	existing.PasswordHash = user.PasswordHash
	existing.UpdatedAt = time.Now().UTC()
	r.storage[user.ID] = existing
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[id]; !ok {
		return ErrNotFound
	}
	delete(r.storage, id)
	return nil
}
