package transaction

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps transactions in memory. Used in tests and when no
// database is configured.
type MemoryRepository struct {
	mu           sync.Mutex
	transactions map[string]Transaction
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{transactions: make(map[string]Transaction)}
}

func (r *MemoryRepository) Create(_ context.Context, t Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[t.ID] = t
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id, ownerID string) (Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locked(id, ownerID)
}

func (r *MemoryRepository) locked(id, ownerID string) (Transaction, error) {
	t, ok := r.transactions[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	if t.OwnerID != ownerID {
		return Transaction{}, ErrNotOwner
	}
	return t, nil
}

func (r *MemoryRepository) List(_ context.Context, ownerID string, f Filter, offset, limit int) ([]Transaction, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []Transaction
	for _, t := range r.transactions {
		if t.OwnerID == ownerID && matches(t, f) {
			all = append(all, t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })

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

func matches(t Transaction, f Filter) bool {
	if f.WalletID != "" && t.WalletID != f.WalletID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.DateFrom != nil && t.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.Date.After(*f.DateTo) {
		return false
	}
	return true
}

func (r *MemoryRepository) Update(_ context.Context, t Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[t.ID]; !ok {
		return ErrNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	r.transactions[t.ID] = t
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.locked(id, ownerID); err != nil {
		return err
	}
	delete(r.transactions, id)
	return nil
}

func (r *MemoryRepository) DeleteAllForOwner(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.transactions {
		if t.OwnerID == ownerID {
			delete(r.transactions, id)
		}
	}
	return nil
}

func (r *MemoryRepository) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, t := range r.transactions {
		if t.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}
