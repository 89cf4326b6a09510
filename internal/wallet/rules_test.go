package wallet

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseOperation(t *testing.T) {
	cases := map[string]Operation{
		"add":      OpCredit,
		"credit":   OpCredit,
		"subtract": OpDebit,
		"debit":    OpDebit,
		"set":      OpSet,
	}
	for in, want := range cases {
		got, err := ParseOperation(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %q want %q", in, got, want)
		}
	}

	if _, err := ParseOperation("multiply"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestDeltaRejectsNonPositiveAmounts(t *testing.T) {
	for _, op := range []Operation{OpCredit, OpDebit, OpSet} {
		if _, err := op.Delta(dec("10.00"), decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%s with zero amount: expected ErrInvalidAmount, got %v", op, err)
		}
		if _, err := op.Delta(dec("10.00"), dec("-1.00")); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%s with negative amount: expected ErrInvalidAmount, got %v", op, err)
		}
	}
}

func TestDeltaSigns(t *testing.T) {
	current := dec("40.00")

	d, err := OpCredit.Delta(current, dec("10.00"))
	if err != nil || !d.Equal(dec("10.00")) {
		t.Fatalf("credit delta: got %s, %v", d, err)
	}

	d, err = OpDebit.Delta(current, dec("10.00"))
	if err != nil || !d.Equal(dec("-10.00")) {
		t.Fatalf("debit delta: got %s, %v", d, err)
	}

	// set computes the delta against the current balance
	d, err = OpSet.Delta(current, dec("25.00"))
	if err != nil || !d.Equal(dec("-15.00")) {
		t.Fatalf("set delta: got %s, %v", d, err)
	}
}

func TestApplyDeltaBlocksOverdraftForNonCreditTypes(t *testing.T) {
	for _, typ := range []Type{TypeChecking, TypeSavings, TypeCash, TypeInvestment, TypeBusiness, TypeOther} {
		next, err := ApplyDelta(typ, dec("70.00"), dec("-70.01"))
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("%s: expected ErrInsufficientFunds, got %v", typ, err)
		}
		if !next.Equal(dec("70.00")) {
			t.Fatalf("%s: balance changed on failure: %s", typ, next)
		}
	}
}

func TestApplyDeltaAllowsCreditOverdraft(t *testing.T) {
	next, err := ApplyDelta(TypeCredit, dec("0.00"), dec("-500.00"))
	if err != nil {
		t.Fatalf("credit overdraft rejected: %v", err)
	}
	if !next.Equal(dec("-500.00")) {
		t.Fatalf("expected -500.00, got %s", next)
	}
}

func TestApplyDeltaExactSpend(t *testing.T) {
	next, err := ApplyDelta(TypeChecking, dec("70.00"), dec("-70.00"))
	if err != nil {
		t.Fatalf("exact spend rejected: %v", err)
	}
	if !next.IsZero() {
		t.Fatalf("expected zero, got %s", next)
	}
}

func TestTypeValidation(t *testing.T) {
	for _, typ := range []Type{TypeChecking, TypeSavings, TypeCash, TypeCredit, TypeInvestment, TypeBusiness, TypeOther} {
		if !typ.Valid() {
			t.Fatalf("%s should be valid", typ)
		}
	}
	if Type("offshore").Valid() {
		t.Fatal("unknown type accepted")
	}
	if TypeChecking.AllowsOverdraft() {
		t.Fatal("checking must not allow overdraft")
	}
	if !TypeCredit.AllowsOverdraft() {
		t.Fatal("credit must allow overdraft")
	}
}
