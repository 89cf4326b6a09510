package transfer

import (
	"context"
	"sort"
	"sync"

	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

// MemoryRepository keeps transfers in memory on top of the in-memory wallet
// store. Balance movements delegate to the wallet store's Move and Reverse
// so the same rule code runs as in production.
type MemoryRepository struct {
	mu      sync.Mutex
	wallets *wallet.MemoryRepository
	storage map[string]Transfer
}

// NewMemoryRepository constructs an in-memory transfer repository bound to a
// shared wallet store.
func NewMemoryRepository(wallets *wallet.MemoryRepository) *MemoryRepository {
	return &MemoryRepository{wallets: wallets, storage: make(map[string]Transfer)}
}

func (r *MemoryRepository) Create(_ context.Context, t Transfer) (Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, _, err := r.wallets.Move(t.SourceWalletID, t.TargetWalletID, t.OwnerID, t.Amount); err != nil {
		return Transfer{}, err
	}
	r.storage[t.ID] = t
	return t, nil
}

func (r *MemoryRepository) Get(_ context.Context, id, ownerID string) (Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locked(id, ownerID)
}

func (r *MemoryRepository) List(_ context.Context, ownerID string, f Filter, offset, limit int) ([]Transfer, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var transfers []Transfer
	for _, t := range r.storage {
		if t.OwnerID == ownerID && matches(t, f) {
			transfers = append(transfers, t)
		}
	}
	sort.Slice(transfers, func(i, j int) bool {
		return transfers[i].CreatedAt.After(transfers[j].CreatedAt)
	})

	total := len(transfers)
	if offset >= total {
		return nil, total, nil
	}
	transfers = transfers[offset:]
	if limit > 0 && limit < len(transfers) {
		transfers = transfers[:limit]
	}
	return transfers, total, nil
}

func (r *MemoryRepository) ListByWallet(ctx context.Context, walletID, ownerID string) ([]Transfer, error) {
	transfers, _, err := r.List(ctx, ownerID, Filter{WalletID: walletID}, 0, 0)
	return transfers, err
}

func (r *MemoryRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.locked(id, ownerID)
	if err != nil {
		return err
	}
	if _, _, err := r.wallets.Reverse(t.SourceWalletID, t.TargetWalletID, t.Amount); err != nil {
		return err
	}
	delete(r.storage, id)
	return nil
}

func (r *MemoryRepository) DeleteAllForOwner(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.storage {
		if t.OwnerID == ownerID {
			delete(r.storage, id)
		}
	}
	return nil
}

func (r *MemoryRepository) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, t := range r.storage {
		if t.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) locked(id, ownerID string) (Transfer, error) {
	t, ok := r.storage[id]
	if !ok {
		return Transfer{}, ErrNotFound
	}
	if t.OwnerID != ownerID {
		return Transfer{}, ErrNotOwner
	}
	return t, nil
}

func matches(t Transfer, f Filter) bool {
	if f.SourceWalletID != "" && t.SourceWalletID != f.SourceWalletID {
		return false
	}
	if f.TargetWalletID != "" && t.TargetWalletID != f.TargetWalletID {
		return false
	}
	if f.WalletID != "" && t.SourceWalletID != f.WalletID && t.TargetWalletID != f.WalletID {
		return false
	}
	if f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.DateFrom != nil && t.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.CreatedAt.After(*f.DateTo) {
		return false
	}
	return true
}
