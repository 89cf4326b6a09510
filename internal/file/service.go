package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Alwil17/mr-wallet-api/internal/transaction"
)

// Service manages attachments. Bytes go to the Store, metadata to the
// Repository, and every operation checks the caller owns the parent
// transaction.
type Service struct {
	repo         Repository
	store        Store
	transactions transaction.Repository
}

// NewService builds a file service.
func NewService(repo Repository, store Store, transactions transaction.Repository) *Service {
	return &Service{repo: repo, store: store, transactions: transactions}
}

// Upload attaches a receipt to a transaction.
func (s *Service) Upload(ctx context.Context, ownerID, transactionID, originalFilename, mimeType string, r io.Reader) (File, error) {
	if !AllowedMimeTypes[mimeType] {
		return File{}, ErrUnsupportedType
	}
	if _, err := s.transactions.Get(ctx, transactionID, ownerID); err != nil {
		return File{}, err
	}

	id := uuid.NewString()
	name := id + filepath.Ext(originalFilename)
	size, err := s.store.Save(ctx, name, r)
	if err != nil {
		return File{}, err
	}

	f := File{
		ID:               id,
		OwnerID:          ownerID,
		TransactionID:    transactionID,
		Filename:         name,
		OriginalFilename: filepath.Base(originalFilename),
		MimeType:         mimeType,
		Size:             size,
		UploadedAt:       time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		_ = s.store.Remove(ctx, name)
		return File{}, err
	}
	return f, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID string) (File, error) {
	return s.repo.Get(ctx, id, ownerID)
}

// Open returns the attachment metadata and a reader over its bytes. The
// caller closes the reader.
func (s *Service) Open(ctx context.Context, id, ownerID string) (File, io.ReadCloser, error) {
	f, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return File{}, nil, err
	}
	rc, err := s.store.Open(ctx, f.Filename)
	if err != nil {
		return File{}, nil, fmt.Errorf("open %s: %w", f.Filename, err)
	}
	return f, rc, nil
}

// ListByTransaction returns the attachments on one owned transaction.
func (s *Service) ListByTransaction(ctx context.Context, transactionID, ownerID string) ([]File, error) {
	if _, err := s.transactions.Get(ctx, transactionID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByTransaction(ctx, transactionID, ownerID)
}

// Delete removes the attachment and its stored bytes.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	f, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	return s.store.Remove(ctx, f.Filename)
}

// CountByOwner reports how many attachments a user has.
func (s *Service) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	return s.repo.CountByOwner(ctx, ownerID)
}

// DeleteAllForOwner purges every attachment a user has, bytes included.
func (s *Service) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	files, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAllForOwner(ctx, ownerID); err != nil {
		return err
	}
	for _, f := range files {
		_ = s.store.Remove(ctx, f.Filename)
	}
	return nil
}
