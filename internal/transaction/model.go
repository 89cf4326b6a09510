package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates the transaction does not exist.
	ErrNotFound = errors.New("transaction not found")

	// ErrNotOwner indicates the transaction belongs to another user.
	ErrNotOwner = errors.New("transaction not owned by user")

	// ErrInvalidType indicates an unknown transaction type.
	ErrInvalidType = errors.New("transaction type must be income or expense")

	// ErrInvalidAmount occurs when the amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
)

// Type distinguishes money coming in from money going out.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Built-in categories. Users may also attach their own via CategoryID.
const (
	CategorySalary      = "salary"
	CategoryFreelance   = "freelance"
	CategoryInvestment  = "investment"
	CategoryGift        = "gift"
	CategoryRefund      = "refund"
	CategoryOtherIncome = "other_income"

	CategoryFood         = "food"
	CategoryTransport    = "transport"
	CategoryHousing      = "housing"
	CategoryUtilities    = "utilities"
	CategoryEntertain    = "entertainment"
	CategoryHealthcare   = "healthcare"
	CategoryEducation    = "education"
	CategoryShopping     = "shopping"
	CategoryTravel       = "travel"
	CategoryInsurance    = "insurance"
	CategoryTaxes        = "taxes"
	CategoryDebtPayment  = "debt_payment"
	CategoryOtherExpense = "other_expense"
)

// Transaction records a single income or expense against a wallet. It is a
// bookkeeping record only; wallet balances move through the wallet and
// transfer operations, never through transactions.
type Transaction struct {
	ID         string
	OwnerID    string
	WalletID   string
	Type       Type
	Amount     decimal.Decimal
	Category   string
	CategoryID string
	Note       string
	Date       time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Filter narrows transaction listings.
type Filter struct {
	WalletID  string
	Type      Type
	Category  string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Summary aggregates a user's transactions.
type Summary struct {
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	Net              decimal.Decimal
	TransactionCount int
	ByCategory       map[string]decimal.Decimal
}
