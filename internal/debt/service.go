package debt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alwil17/mr-wallet-api/internal/notification"
	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

// Service applies debt business rules on top of a Repository.
type Service struct {
	repo     Repository
	wallets  wallet.Repository
	notifier notification.Notifier
}

// NewService builds a debt service.
func NewService(repo Repository, wallets wallet.Repository, notifier notification.Notifier) *Service {
	return &Service{repo: repo, wallets: wallets, notifier: notifier}
}

// CreateInput carries the fields accepted when recording a debt.
type CreateInput struct {
	WalletID     string
	Counterparty string
	Type         Type
	Amount       decimal.Decimal
	DueDate      *time.Time
	Description  string
}

// Create records a debt. An attached wallet is optional but must belong to
// the caller when present.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (Debt, error) {
	if !input.Type.Valid() {
		return Debt{}, ErrInvalidType
	}
	if input.Amount.Sign() <= 0 {
		return Debt{}, ErrInvalidAmount
	}
	counterparty := strings.TrimSpace(input.Counterparty)
	if counterparty == "" {
		return Debt{}, fmt.Errorf("counterparty is required")
	}
	if input.WalletID != "" {
		if _, err := s.wallets.Get(ctx, input.WalletID, ownerID); err != nil {
			return Debt{}, err
		}
	}

	now := time.Now().UTC()
	d := Debt{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		WalletID:     input.WalletID,
		Counterparty: counterparty,
		Type:         input.Type,
		Amount:       input.Amount.Round(2),
		DueDate:      input.DueDate,
		Description:  strings.TrimSpace(input.Description),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return Debt{}, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID string) (Debt, error) {
	return s.repo.Get(ctx, id, ownerID)
}

func (s *Service) List(ctx context.Context, ownerID string, f Filter, offset, limit int) ([]Debt, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, ownerID, f, offset, limit)
}

// UpdateInput carries the mutable debt fields. Nil means unchanged.
type UpdateInput struct {
	Counterparty *string
	Type         *Type
	Amount       *decimal.Decimal
	DueDate      *time.Time
	Description  *string
}

func (s *Service) Update(ctx context.Context, id, ownerID string, input UpdateInput) (Debt, error) {
	d, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return Debt{}, err
	}
	if input.Counterparty != nil {
		counterparty := strings.TrimSpace(*input.Counterparty)
		if counterparty == "" {
			return Debt{}, fmt.Errorf("counterparty is required")
		}
		d.Counterparty = counterparty
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			return Debt{}, ErrInvalidType
		}
		d.Type = *input.Type
	}
	if input.Amount != nil {
		if input.Amount.Sign() <= 0 {
			return Debt{}, ErrInvalidAmount
		}
		d.Amount = input.Amount.Round(2)
	}
	if input.DueDate != nil {
		d.DueDate = input.DueDate
	}
	if input.Description != nil {
		d.Description = strings.TrimSpace(*input.Description)
	}
	d.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, d); err != nil {
		return Debt{}, err
	}
	return d, nil
}

// MarkPaid settles a debt. Settling an already-paid debt fails.
func (s *Service) MarkPaid(ctx context.Context, id, ownerID string) (Debt, error) {
	d, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return Debt{}, err
	}
	if d.IsPaid {
		return Debt{}, ErrAlreadyPaid
	}
	d.IsPaid = true
	d.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, d); err != nil {
		return Debt{}, err
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	return s.repo.Delete(ctx, id, ownerID)
}

// Summary aggregates the caller's debts. Totals only count open debts.
func (s *Service) Summary(ctx context.Context, ownerID string) (Summary, error) {
	debts, _, err := s.repo.List(ctx, ownerID, Filter{}, 0, 10000)
	if err != nil {
		return Summary{}, err
	}
	now := time.Now().UTC()
	summary := Summary{TotalOwed: decimal.Zero, TotalGiven: decimal.Zero}
	for _, d := range debts {
		if d.IsPaid {
			summary.PaidCount++
			continue
		}
		summary.OpenCount++
		if d.Overdue(now) {
			summary.OverdueCount++
		}
		switch d.Type {
		case TypeOwed:
			summary.TotalOwed = summary.TotalOwed.Add(d.Amount)
		case TypeGiven:
			summary.TotalGiven = summary.TotalGiven.Add(d.Amount)
		}
	}
	return summary, nil
}

// NotifyDue sends a reminder for every overdue debt. Meant to run from a
// periodic job.
func (s *Service) NotifyDue(ctx context.Context, ownerID string) (int, error) {
	debts, _, err := s.repo.List(ctx, ownerID, Filter{Overdue: true}, 0, 10000)
	if err != nil {
		return 0, err
	}
	for _, d := range debts {
		if s.notifier == nil {
			break
		}
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindDebtDue,
			Destination: ownerID,
			Body:        fmt.Sprintf("debt of %s with %s is past due", d.Amount, d.Counterparty),
		})
	}
	return len(debts), nil
}
