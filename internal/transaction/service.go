package transaction

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

// Service applies transaction business rules on top of a Repository.
type Service struct {
	repo    Repository
	wallets wallet.Repository
}

// NewService builds a transaction service.
func NewService(repo Repository, wallets wallet.Repository) *Service {
	return &Service{repo: repo, wallets: wallets}
}

// CreateInput carries the fields accepted when recording a transaction.
type CreateInput struct {
	WalletID   string
	Type       Type
	Amount     decimal.Decimal
	Category   string
	CategoryID string
	Note       string
	Date       time.Time
}

// Create records a bookkeeping entry. The wallet must exist and belong to
// the caller; the wallet balance is not touched.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (Transaction, error) {
	if !input.Type.Valid() {
		return Transaction{}, ErrInvalidType
	}
	if input.Amount.Sign() <= 0 {
		return Transaction{}, ErrInvalidAmount
	}
	if _, err := s.wallets.Get(ctx, input.WalletID, ownerID); err != nil {
		return Transaction{}, err
	}

	now := time.Now().UTC()
	date := input.Date
	if date.IsZero() {
		date = now
	}
	t := Transaction{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		WalletID:   input.WalletID,
		Type:       input.Type,
		Amount:     input.Amount.Round(2),
		Category:   strings.TrimSpace(input.Category),
		CategoryID: input.CategoryID,
		Note:       strings.TrimSpace(input.Note),
		Date:       date.UTC(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// CreateBulk records several transactions in one call. Validation failures
// abort the whole batch before anything is written.
func (s *Service) CreateBulk(ctx context.Context, ownerID string, inputs []CreateInput) ([]Transaction, error) {
	for _, input := range inputs {
		if !input.Type.Valid() {
			return nil, ErrInvalidType
		}
		if input.Amount.Sign() <= 0 {
			return nil, ErrInvalidAmount
		}
		if _, err := s.wallets.Get(ctx, input.WalletID, ownerID); err != nil {
			return nil, err
		}
	}
	created := make([]Transaction, 0, len(inputs))
	for _, input := range inputs {
		t, err := s.Create(ctx, ownerID, input)
		if err != nil {
			return created, err
		}
		created = append(created, t)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID string) (Transaction, error) {
	return s.repo.Get(ctx, id, ownerID)
}

func (s *Service) List(ctx context.Context, ownerID string, f Filter, offset, limit int) ([]Transaction, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, ownerID, f, offset, limit)
}

// ListByWallet returns the transactions recorded against one wallet.
func (s *Service) ListByWallet(ctx context.Context, walletID, ownerID string, offset, limit int) ([]Transaction, int, error) {
	if _, err := s.wallets.Get(ctx, walletID, ownerID); err != nil {
		return nil, 0, err
	}
	return s.List(ctx, ownerID, Filter{WalletID: walletID}, offset, limit)
}

// UpdateInput carries the mutable transaction fields. Nil means unchanged.
type UpdateInput struct {
	Type       *Type
	Amount     *decimal.Decimal
	Category   *string
	CategoryID *string
	Note       *string
	Date       *time.Time
}

func (s *Service) Update(ctx context.Context, id, ownerID string, input UpdateInput) (Transaction, error) {
	t, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return Transaction{}, err
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			return Transaction{}, ErrInvalidType
		}
		t.Type = *input.Type
	}
	if input.Amount != nil {
		if input.Amount.Sign() <= 0 {
			return Transaction{}, ErrInvalidAmount
		}
		t.Amount = input.Amount.Round(2)
	}
	if input.Category != nil {
		t.Category = strings.TrimSpace(*input.Category)
	}
	if input.CategoryID != nil {
		t.CategoryID = *input.CategoryID
	}
	if input.Note != nil {
		t.Note = strings.TrimSpace(*input.Note)
	}
	if input.Date != nil {
		t.Date = input.Date.UTC()
	}
	t.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, t); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	return s.repo.Delete(ctx, id, ownerID)
}

// Summary aggregates the caller's transactions within the filter.
func (s *Service) Summary(ctx context.Context, ownerID string, f Filter) (Summary, error) {
	transactions, _, err := s.repo.List(ctx, ownerID, f, 0, 10000)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Net:          decimal.Zero,
		ByCategory:   make(map[string]decimal.Decimal),
	}
	for _, t := range transactions {
		summary.TransactionCount++
		switch t.Type {
		case TypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		case TypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount)
		}
		if t.Category != "" {
			summary.ByCategory[t.Category] = summary.ByCategory[t.Category].Add(t.Amount)
		}
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}
