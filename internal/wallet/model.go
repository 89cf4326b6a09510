package wallet

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates the referenced wallet does not exist.
	ErrNotFound = errors.New("wallet not found")

	// ErrNotOwner indicates the wallet exists but belongs to another user.
	ErrNotOwner = errors.New("wallet not owned by user")

	// ErrInvalidAmount occurs when a balance operation receives an amount that
	// is zero or negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInsufficientFunds occurs when a mutation would take a non-credit
	// wallet below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotEmpty indicates a deletion attempt on a wallet whose balance is
	// not exactly zero.
	ErrNotEmpty = errors.New("wallet balance must be zero before deletion")

	// ErrInvalidType indicates an unknown wallet type.
	ErrInvalidType = errors.New("unknown wallet type")

	// ErrInvalidOperation indicates an unknown balance operation.
	ErrInvalidOperation = errors.New("unknown balance operation")
)

// Type is the closed set of supported wallet kinds. Only credit wallets may
// carry a negative balance.
type Type string

const (
	TypeChecking   Type = "checking"
	TypeSavings    Type = "savings"
	TypeCash       Type = "cash"
	TypeCredit     Type = "credit"
	TypeInvestment Type = "investment"
	TypeBusiness   Type = "business"
	TypeOther      Type = "other"
)

// Valid reports whether t is one of the supported wallet types.
func (t Type) Valid() bool {
	switch t {
	case TypeChecking, TypeSavings, TypeCash, TypeCredit, TypeInvestment, TypeBusiness, TypeOther:
		return true
	}
	return false
}

// AllowsOverdraft reports whether the wallet may hold a negative balance.
func (t Type) AllowsOverdraft() bool {
	return t == TypeCredit
}

// Wallet represents a user-owned store of value. Balances are fixed-point
// decimals with two fractional digits, never binary floats.
type Wallet struct {
	ID        string
	OwnerID   string
	Name      string
	Type      Type
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary aggregates a user's wallets.
type Summary struct {
	TotalWallets int
	TotalBalance decimal.Decimal
	ByType       map[Type]TypeSummary
	MostRecent   *Wallet
}

// TypeSummary holds per-type aggregates inside a Summary.
type TypeSummary struct {
	Count        int
	TotalBalance decimal.Decimal
}
