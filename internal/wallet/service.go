package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service exposes wallet operations to handlers and sibling services.
type Service struct {
	repo Repository
}

// NewService builds a wallet service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures data required to create a wallet.
type CreateInput struct {
	OwnerID        string
	Name           string
	Type           Type
	InitialBalance decimal.Decimal
}

// Create provisions a wallet. The initial balance defaults to zero and may
// only be negative for credit wallets.
func (s *Service) Create(ctx context.Context, input CreateInput) (Wallet, error) {
	if input.Name == "" {
		return Wallet{}, fmt.Errorf("wallet name is required")
	}
	if !input.Type.Valid() {
		return Wallet{}, ErrInvalidType
	}
	if input.InitialBalance.Sign() < 0 && !input.Type.AllowsOverdraft() {
		return Wallet{}, ErrInvalidAmount
	}

	now := time.Now().UTC()
	w := Wallet{
		ID:        uuid.NewString(),
		OwnerID:   input.OwnerID,
		Name:      input.Name,
		Type:      input.Type,
		Balance:   input.InitialBalance.Round(2),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return Wallet{}, err
	}
	return w, nil
}

// Get retrieves a wallet the user owns.
func (s *Service) Get(ctx context.Context, id, ownerID string) (Wallet, error) {
	return s.repo.Get(ctx, id, ownerID)
}

// List returns a page of the user's wallets plus the total count.
func (s *Service) List(ctx context.Context, ownerID string, offset, limit int) ([]Wallet, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, ownerID, offset, limit)
}

// ListByType returns the user's wallets of one type.
func (s *Service) ListByType(ctx context.Context, ownerID string, t Type) ([]Wallet, error) {
	if !t.Valid() {
		return nil, ErrInvalidType
	}
	all, _, err := s.repo.List(ctx, ownerID, 0, 100)
	if err != nil {
		return nil, err
	}
	var filtered []Wallet
	for _, w := range all {
		if w.Type == t {
			filtered = append(filtered, w)
		}
	}
	return filtered, nil
}

// UpdateInput carries mutable wallet metadata. Balance changes go through
// the balance operations, never through Update.
type UpdateInput struct {
	Name string
	Type Type
}

// Update renames or retypes a wallet. Moving a wallet off the credit type is
// rejected while its balance is negative, keeping the non-negative invariant.
func (s *Service) Update(ctx context.Context, id, ownerID string, input UpdateInput) (Wallet, error) {
	w, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return Wallet{}, err
	}
	if input.Name != "" {
		w.Name = input.Name
	}
	if input.Type != "" {
		if !input.Type.Valid() {
			return Wallet{}, ErrInvalidType
		}
		if w.Balance.Sign() < 0 && !input.Type.AllowsOverdraft() {
			return Wallet{}, ErrInsufficientFunds
		}
		w.Type = input.Type
	}
	if err := s.repo.Update(ctx, w); err != nil {
		return Wallet{}, err
	}
	return s.repo.Get(ctx, id, ownerID)
}

// Credit increases the wallet balance by amount.
func (s *Service) Credit(ctx context.Context, id, ownerID string, amount decimal.Decimal) (Wallet, error) {
	return s.repo.ApplyOperation(ctx, id, ownerID, OpCredit, amount)
}

// Debit decreases the wallet balance by amount, rejecting the mutation with
// ErrInsufficientFunds when a non-credit wallet would go negative.
func (s *Service) Debit(ctx context.Context, id, ownerID string, amount decimal.Decimal) (Wallet, error) {
	return s.repo.ApplyOperation(ctx, id, ownerID, OpDebit, amount)
}

// SetBalance replaces the balance with amount. The same validation applies
// to the resulting absolute balance, not to the computed delta.
func (s *Service) SetBalance(ctx context.Context, id, ownerID string, amount decimal.Decimal) (Wallet, error) {
	return s.repo.ApplyOperation(ctx, id, ownerID, OpSet, amount)
}

// UpdateBalance applies a parsed operation, backing the PATCH balance
// endpoint.
func (s *Service) UpdateBalance(ctx context.Context, id, ownerID string, op Operation, amount decimal.Decimal) (Wallet, error) {
	return s.repo.ApplyOperation(ctx, id, ownerID, op, amount)
}

// Delete removes an empty wallet. Non-zero balances, positive or negative,
// fail with ErrNotEmpty.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	return s.repo.Delete(ctx, id, ownerID)
}

// Summary aggregates the user's wallets by type.
func (s *Service) Summary(ctx context.Context, ownerID string) (Summary, error) {
	wallets, total, err := s.repo.List(ctx, ownerID, 0, 100)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		TotalWallets: total,
		TotalBalance: decimal.Zero,
		ByType:       make(map[Type]TypeSummary),
	}
	for i, w := range wallets {
		summary.TotalBalance = summary.TotalBalance.Add(w.Balance)
		ts := summary.ByType[w.Type]
		ts.Count++
		ts.TotalBalance = ts.TotalBalance.Add(w.Balance)
		summary.ByType[w.Type] = ts
		if i == 0 {
			recent := w
			summary.MostRecent = &recent
		}
	}
	return summary, nil
}
