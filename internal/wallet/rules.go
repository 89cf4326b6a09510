package wallet

import "github.com/shopspring/decimal"

// Operation is the closed set of balance mutations. The balance-update
// endpoint maps its wire names onto these variants; unrecognized operations
// are rejected at parse time rather than branched on downstream.
type Operation string

const (
	OpCredit Operation = "credit"
	OpDebit  Operation = "debit"
	OpSet    Operation = "set"
)

// ParseOperation maps the wire-level operation names ("add", "subtract",
// "set", plus the canonical "credit"/"debit") onto an Operation.
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "add", "credit":
		return OpCredit, nil
	case "subtract", "debit":
		return OpDebit, nil
	case "set":
		return OpSet, nil
	}
	return "", ErrInvalidOperation
}

// Delta converts the operation into a signed balance delta relative to the
// current balance. The amount must be strictly positive for every operation.
func (op Operation) Delta(current, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	switch op {
	case OpCredit:
		return amount, nil
	case OpDebit:
		return amount.Neg(), nil
	case OpSet:
		return amount.Sub(current), nil
	}
	return decimal.Zero, ErrInvalidOperation
}

// ApplyDelta returns the balance after applying a signed delta, enforcing
// that wallets which do not allow overdraft never go below zero. On failure
// the current balance is returned unmodified.
func ApplyDelta(t Type, current, delta decimal.Decimal) (decimal.Decimal, error) {
	next := current.Add(delta)
	if next.Sign() < 0 && !t.AllowsOverdraft() {
		return current, ErrInsufficientFunds
	}
	return next, nil
}
