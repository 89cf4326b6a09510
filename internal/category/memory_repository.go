package category

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository keeps categories in memory. Used in tests and when no
// database is configured.
type MemoryRepository struct {
	mu         sync.Mutex
	categories map[string]Category
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{categories: make(map[string]Category)}
}

func (r *MemoryRepository) Create(_ context.Context, c Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[c.ID] = c
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id, ownerID string) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locked(id, ownerID)
}

func (r *MemoryRepository) locked(id, ownerID string) (Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	if c.OwnerID != ownerID {
		return Category{}, ErrNotOwner
	}
	return c, nil
}

func (r *MemoryRepository) FindByName(_ context.Context, ownerID, name string) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.OwnerID == ownerID && strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

func (r *MemoryRepository) List(_ context.Context, ownerID string) ([]Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []Category
	for _, c := range r.categories {
		if c.OwnerID == ownerID {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (r *MemoryRepository) Update(_ context.Context, c Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	r.categories[c.ID] = c
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.locked(id, ownerID); err != nil {
		return err
	}
	delete(r.categories, id)
	return nil
}

func (r *MemoryRepository) DeleteAllForOwner(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.categories {
		if c.OwnerID == ownerID {
			delete(r.categories, id)
		}
	}
	return nil
}

func (r *MemoryRepository) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, c := range r.categories {
		if c.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}
