package transfer

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates the referenced transfer does not exist.
	ErrNotFound = errors.New("transfer not found")

	// ErrNotOwner indicates the transfer belongs to another user.
	ErrNotOwner = errors.New("transfer not owned by user")

	// ErrSameWallet occurs when source and target wallet are identical.
	ErrSameWallet = errors.New("source and target wallets must differ")
)

// Transfer is an immutable record of money moved between two wallets of the
// same owner. It has exactly two states: active, with its balance mutations
// applied, and deleted, with the mutations reversed. There is no update.
type Transfer struct {
	ID             string
	OwnerID        string
	SourceWalletID string
	TargetWalletID string
	Amount         decimal.Decimal
	Description    string
	CreatedAt      time.Time
}

// Filter narrows transfer listings.
type Filter struct {
	WalletID       string
	SourceWalletID string
	TargetWalletID string
	MinAmount      *decimal.Decimal
	MaxAmount      *decimal.Decimal
	DateFrom       *time.Time
	DateTo         *time.Time
}

// Summary aggregates a user's transfers.
type Summary struct {
	TotalTransfers   int
	TotalTransferred decimal.Decimal
	ByWallet         map[string]WalletSummary
	Recent           []Transfer
}

// WalletSummary holds per-wallet transfer aggregates.
type WalletSummary struct {
	WalletID      string
	TotalSent     decimal.Decimal
	TotalReceived decimal.Decimal
	NetAmount     decimal.Decimal
	TransferCount int
}
