package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alwil17/mr-wallet-api/internal/notification"
	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

// Service coordinates transfer creation and reversal against the wallet
// balance rules.
type Service struct {
	repo     Repository
	wallets  wallet.Repository
	notifier notification.Notifier
}

// NewService builds a transfer service instance.
func NewService(repo Repository, wallets wallet.Repository, notifier notification.Notifier) *Service {
	return &Service{repo: repo, wallets: wallets, notifier: notifier}
}

// CreateInput captures the data needed to move funds between two wallets.
type CreateInput struct {
	OwnerID        string
	SourceWalletID string
	TargetWalletID string
	Amount         decimal.Decimal
	Description    string
}

// Create validates and executes a transfer. Validation order, first failure
// wins: positive amount, distinct wallets, ownership of both wallets, then
// the debit under the overdraft rule. The repository re-validates ownership
// and funds inside its transaction, so nothing is mutated on failure.
func (s *Service) Create(ctx context.Context, input CreateInput) (Transfer, error) {
	if input.Amount.Sign() <= 0 {
		return Transfer{}, wallet.ErrInvalidAmount
	}
	if input.SourceWalletID == input.TargetWalletID {
		return Transfer{}, ErrSameWallet
	}
	if _, err := s.wallets.Get(ctx, input.SourceWalletID, input.OwnerID); err != nil {
		return Transfer{}, err
	}
	if _, err := s.wallets.Get(ctx, input.TargetWalletID, input.OwnerID); err != nil {
		return Transfer{}, err
	}

	t := Transfer{
		ID:             uuid.NewString(),
		OwnerID:        input.OwnerID,
		SourceWalletID: input.SourceWalletID,
		TargetWalletID: input.TargetWalletID,
		Amount:         input.Amount.Round(2),
		Description:    input.Description,
		CreatedAt:      time.Now().UTC(),
	}
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return Transfer{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferCreated,
			Destination: input.OwnerID,
			Body:        fmt.Sprintf("Moved %s from wallet %s to wallet %s", t.Amount, t.SourceWalletID, t.TargetWalletID),
		})
	}
	return created, nil
}

// Get retrieves one transfer the user owns.
func (s *Service) Get(ctx context.Context, id, ownerID string) (Transfer, error) {
	return s.repo.Get(ctx, id, ownerID)
}

// List returns a filtered page of the user's transfers.
func (s *Service) List(ctx context.Context, ownerID string, f Filter, offset, limit int) ([]Transfer, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, ownerID, f, offset, limit)
}

// ListByWallet returns every transfer touching one owned wallet.
func (s *Service) ListByWallet(ctx context.Context, walletID, ownerID string) ([]Transfer, error) {
	if _, err := s.wallets.Get(ctx, walletID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByWallet(ctx, walletID, ownerID)
}

// Delete reverses the transfer's balance movements and removes the record.
// The reversal always executes, even when it takes the target wallet
// negative.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferReversed,
			Destination: ownerID,
			Body:        fmt.Sprintf("Transfer %s reversed", id),
		})
	}
	return nil
}

// Summary aggregates the user's transfers overall and per wallet.
func (s *Service) Summary(ctx context.Context, ownerID string) (Summary, error) {
	transfers, total, err := s.repo.List(ctx, ownerID, Filter{}, 0, 1000)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		TotalTransfers:   total,
		TotalTransferred: decimal.Zero,
		ByWallet:         make(map[string]WalletSummary),
	}
	for _, t := range transfers {
		summary.TotalTransferred = summary.TotalTransferred.Add(t.Amount)

		src := walletSummary(summary.ByWallet, t.SourceWalletID)
		src.TotalSent = src.TotalSent.Add(t.Amount)
		src.TransferCount++
		src.NetAmount = src.TotalReceived.Sub(src.TotalSent)
		summary.ByWallet[t.SourceWalletID] = src

		dst := walletSummary(summary.ByWallet, t.TargetWalletID)
		dst.TotalReceived = dst.TotalReceived.Add(t.Amount)
		dst.TransferCount++
		dst.NetAmount = dst.TotalReceived.Sub(dst.TotalSent)
		summary.ByWallet[t.TargetWalletID] = dst
	}
	if len(transfers) > 5 {
		transfers = transfers[:5]
	}
	summary.Recent = transfers
	return summary, nil
}

// WalletSummary aggregates sent/received totals for a single owned wallet.
func (s *Service) WalletSummary(ctx context.Context, walletID, ownerID string) (WalletSummary, error) {
	transfers, err := s.ListByWallet(ctx, walletID, ownerID)
	if err != nil {
		return WalletSummary{}, err
	}
	ws := WalletSummary{
		WalletID:      walletID,
		TotalSent:     decimal.Zero,
		TotalReceived: decimal.Zero,
	}
	for _, t := range transfers {
		if t.SourceWalletID == walletID {
			ws.TotalSent = ws.TotalSent.Add(t.Amount)
		}
		if t.TargetWalletID == walletID {
			ws.TotalReceived = ws.TotalReceived.Add(t.Amount)
		}
		ws.TransferCount++
	}
	ws.NetAmount = ws.TotalReceived.Sub(ws.TotalSent)
	return ws, nil
}

func walletSummary(m map[string]WalletSummary, walletID string) WalletSummary {
	ws, ok := m[walletID]
	if !ok {
		ws = WalletSummary{
			WalletID:      walletID,
			TotalSent:     decimal.Zero,
			TotalReceived: decimal.Zero,
			NetAmount:     decimal.Zero,
		}
	}
	return ws
}
