package debt

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates the debt record does not exist.
	ErrNotFound = errors.New("debt not found")

	// ErrNotOwner indicates the debt belongs to another user.
	ErrNotOwner = errors.New("debt not owned by user")

	// ErrInvalidType indicates an unknown debt direction.
	ErrInvalidType = errors.New("debt type must be owed or given")

	// ErrInvalidAmount occurs when the amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrAlreadyPaid indicates the debt was settled earlier.
	ErrAlreadyPaid = errors.New("debt already marked as paid")
)

// Type distinguishes money the user owes from money owed to the user.
type Type string

const (
	// TypeOwed means the user owes money to the counterparty.
	TypeOwed Type = "owed"
	// TypeGiven means the user lent money to the counterparty.
	TypeGiven Type = "given"
)

// Valid reports whether t is a known debt type.
func (t Type) Valid() bool {
	return t == TypeOwed || t == TypeGiven
}

// Debt tracks money lent to or borrowed from a counterparty. Like
// transactions it is bookkeeping only and never moves wallet balances.
type Debt struct {
	ID           string
	OwnerID      string
	WalletID     string
	Counterparty string
	Type         Type
	Amount       decimal.Decimal
	IsPaid       bool
	DueDate      *time.Time
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Overdue reports whether the debt is unpaid past its due date.
func (d Debt) Overdue(now time.Time) bool {
	return !d.IsPaid && d.DueDate != nil && d.DueDate.Before(now)
}

// Filter narrows debt listings.
type Filter struct {
	Type    Type
	IsPaid  *bool
	Overdue bool
}

// Summary aggregates a user's open debts.
type Summary struct {
	TotalOwed    decimal.Decimal
	TotalGiven   decimal.Decimal
	OpenCount    int
	PaidCount    int
	OverdueCount int
}
