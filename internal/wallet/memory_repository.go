package wallet

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemoryRepository is a concurrency-safe in-memory wallet store used in tests
// and when the service runs without a database in development.
type MemoryRepository struct {
	mu      sync.Mutex
	storage map[string]Wallet
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{storage: make(map[string]Wallet)}
}

func (r *MemoryRepository) Create(_ context.Context, w Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[w.ID] = w
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id, ownerID string) (Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locked(id, ownerID)
}

func (r *MemoryRepository) List(_ context.Context, ownerID string, offset, limit int) ([]Wallet, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var wallets []Wallet
	for _, w := range r.storage {
		if w.OwnerID == ownerID {
			wallets = append(wallets, w)
		}
	}
	sort.Slice(wallets, func(i, j int) bool {
		return wallets[i].CreatedAt.After(wallets[j].CreatedAt)
	})

	total := len(wallets)
	if offset >= total {
		return nil, total, nil
	}
	wallets = wallets[offset:]
	if limit > 0 && limit < len(wallets) {
		wallets = wallets[:limit]
	}
	return wallets, total, nil
}

func (r *MemoryRepository) Update(_ context.Context, w Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.storage[w.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = w.Name
	existing.Type = w.Type
	existing.UpdatedAt = time.Now().UTC()
	r.storage[w.ID] = existing
	return nil
}

// ApplyOperation mutates the balance under the repository mutex so that
// concurrent operations against the same wallet never lose an update.
func (r *MemoryRepository) ApplyOperation(_ context.Context, id, ownerID string, op Operation, amount decimal.Decimal) (Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, err := r.locked(id, ownerID)
	if err != nil {
		return Wallet{}, err
	}
	delta, err := op.Delta(w.Balance, amount)
	if err != nil {
		return Wallet{}, err
	}
	next, err := ApplyDelta(w.Type, w.Balance, delta)
	if err != nil {
		return Wallet{}, err
	}
	w.Balance = next
	w.UpdatedAt = time.Now().UTC()
	r.storage[id] = w
	return w, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, err := r.locked(id, ownerID)
	if err != nil {
		return err
	}
	if !w.Balance.IsZero() {
		return ErrNotEmpty
	}
	delete(r.storage, id)
	return nil
}

func (r *MemoryRepository) DeleteAllForOwner(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, w := range r.storage {
		if w.OwnerID == ownerID {
			delete(r.storage, id)
		}
	}
	return nil
}

func (r *MemoryRepository) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, w := range r.storage {
		if w.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

// Move debits from and credits to in one critical section, enforcing the
// overdraft rule on the debit side. It backs the in-memory transfer store;
// the Postgres transfer repository performs the equivalent inside a database
// transaction.
func (r *MemoryRepository) Move(fromID, toID, ownerID string, amount decimal.Decimal) (Wallet, Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	from, err := r.locked(fromID, ownerID)
	if err != nil {
		return Wallet{}, Wallet{}, err
	}
	to, err := r.locked(toID, ownerID)
	if err != nil {
		return Wallet{}, Wallet{}, err
	}

	debited, err := ApplyDelta(from.Type, from.Balance, amount.Neg())
	if err != nil {
		return Wallet{}, Wallet{}, err
	}

	now := time.Now().UTC()
	from.Balance = debited
	from.UpdatedAt = now
	to.Balance = to.Balance.Add(amount)
	to.UpdatedAt = now
	r.storage[fromID] = from
	r.storage[toID] = to
	return from, to, nil
}

// Reverse credits from and debits to without re-validating funds. Reversals
// are privileged: blocking one would strand an inconsistent state.
func (r *MemoryRepository) Reverse(fromID, toID string, amount decimal.Decimal) (Wallet, Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	from, ok := r.storage[fromID]
	if !ok {
		return Wallet{}, Wallet{}, ErrNotFound
	}
	to, ok := r.storage[toID]
	if !ok {
		return Wallet{}, Wallet{}, ErrNotFound
	}

	now := time.Now().UTC()
	from.Balance = from.Balance.Add(amount)
	from.UpdatedAt = now
	to.Balance = to.Balance.Sub(amount)
	to.UpdatedAt = now
	r.storage[fromID] = from
	r.storage[toID] = to
	return from, to, nil
}

// locked expects r.mu to be held.
func (r *MemoryRepository) locked(id, ownerID string) (Wallet, error) {
	w, ok := r.storage[id]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	if w.OwnerID != ownerID {
		return Wallet{}, ErrNotOwner
	}
	return w, nil
}
