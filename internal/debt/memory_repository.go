package debt

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps debts in memory. Used in tests and when no
// database is configured.
type MemoryRepository struct {
	mu    sync.Mutex
	debts map[string]Debt
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{debts: make(map[string]Debt)}
}

func (r *MemoryRepository) Create(_ context.Context, d Debt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debts[d.ID] = d
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id, ownerID string) (Debt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locked(id, ownerID)
}

func (r *MemoryRepository) locked(id, ownerID string) (Debt, error) {
	d, ok := r.debts[id]
	if !ok {
		return Debt{}, ErrNotFound
	}
	if d.OwnerID != ownerID {
		return Debt{}, ErrNotOwner
	}
	return d, nil
}

func (r *MemoryRepository) List(_ context.Context, ownerID string, f Filter, offset, limit int) ([]Debt, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	var all []Debt
	for _, d := range r.debts {
		if d.OwnerID != ownerID {
			continue
		}
		if f.Type != "" && d.Type != f.Type {
			continue
		}
		if f.IsPaid != nil && d.IsPaid != *f.IsPaid {
			continue
		}
		if f.Overdue && !d.Overdue(now) {
			continue
		}
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *MemoryRepository) Update(_ context.Context, d Debt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.debts[d.ID]; !ok {
		return ErrNotFound
	}
	d.UpdatedAt = time.Now().UTC()
	r.debts[d.ID] = d
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.locked(id, ownerID); err != nil {
		return err
	}
	delete(r.debts, id)
	return nil
}

func (r *MemoryRepository) DeleteAllForOwner(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.debts {
		if d.OwnerID == ownerID {
			delete(r.debts, id)
		}
	}
	return nil
}

func (r *MemoryRepository) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, d := range r.debts {
		if d.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}
