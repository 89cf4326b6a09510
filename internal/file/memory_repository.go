package file

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps attachment metadata in memory. Used in tests and
// when no database is configured.
type MemoryRepository struct {
	mu    sync.Mutex
	files map[string]File
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{files: make(map[string]File)}
}

func (r *MemoryRepository) Create(_ context.Context, f File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[f.ID] = f
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id, ownerID string) (File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locked(id, ownerID)
}

func (r *MemoryRepository) locked(id, ownerID string) (File, error) {
	f, ok := r.files[id]
	if !ok {
		return File{}, ErrNotFound
	}
	if f.OwnerID != ownerID {
		return File{}, ErrNotOwner
	}
	return f, nil
}

func (r *MemoryRepository) ListByTransaction(_ context.Context, transactionID, ownerID string) ([]File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []File
	for _, f := range r.files {
		if f.TransactionID == transactionID && f.OwnerID == ownerID {
			all = append(all, f)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UploadedAt.After(all[j].UploadedAt) })
	return all, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []File
	for _, f := range r.files {
		if f.OwnerID == ownerID {
			all = append(all, f)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UploadedAt.After(all[j].UploadedAt) })
	return all, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.locked(id, ownerID); err != nil {
		return err
	}
	delete(r.files, id)
	return nil
}

func (r *MemoryRepository) DeleteAllForOwner(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, f := range r.files {
		if f.OwnerID == ownerID {
			delete(r.files, id)
		}
	}
	return nil
}

func (r *MemoryRepository) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, f := range r.files {
		if f.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}
