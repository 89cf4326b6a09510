package transaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Alwil17/mr-wallet-api/internal/transaction"
	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

type fixture struct {
	wallets      *wallet.Service
	transactions *transaction.Service
	owner        string
}

func newFixture() fixture {
	walletRepo := wallet.NewMemoryRepository()
	return fixture{
		wallets:      wallet.NewService(walletRepo),
		transactions: transaction.NewService(transaction.NewMemoryRepository(), walletRepo),
		owner:        "11111111-1111-1111-1111-111111111111",
	}
}

func (f fixture) wallet(t *testing.T, balance string) wallet.Wallet {
	t.Helper()
	w, err := f.wallets.Create(context.Background(), wallet.CreateInput{
		OwnerID:        f.owner,
		Name:           "Main",
		Type:           wallet.TypeChecking,
		InitialBalance: decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return w
}

func TestCreateDoesNotTouchWalletBalance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	w := f.wallet(t, "100.00")

	created, err := f.transactions.Create(ctx, f.owner, transaction.CreateInput{
		WalletID: w.ID,
		Type:     transaction.TypeExpense,
		Amount:   decimal.RequireFromString("42.50"),
		Category: transaction.CategoryFood,
		Note:     "groceries",
	})
	require.NoError(t, err)
	require.Equal(t, transaction.TypeExpense, created.Type)
	require.True(t, created.Amount.Equal(decimal.RequireFromString("42.50")))

	after, err := f.wallets.Get(ctx, w.ID, f.owner)
	require.NoError(t, err)
	require.True(t, after.Balance.Equal(decimal.RequireFromString("100.00")), "balance moved: %s", after.Balance)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	w := f.wallet(t, "0.00")

	_, err := f.transactions.Create(ctx, f.owner, transaction.CreateInput{
		WalletID: w.ID,
		Type:     "loan",
		Amount:   decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, transaction.ErrInvalidType)

	_, err = f.transactions.Create(ctx, f.owner, transaction.CreateInput{
		WalletID: w.ID,
		Type:     transaction.TypeIncome,
		Amount:   decimal.Zero,
	})
	require.ErrorIs(t, err, transaction.ErrInvalidAmount)

	_, err = f.transactions.Create(ctx, f.owner, transaction.CreateInput{
		WalletID: "22222222-2222-2222-2222-222222222222",
		Type:     transaction.TypeIncome,
		Amount:   decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, wallet.ErrNotFound)

	_, err = f.transactions.Create(ctx, "99999999-9999-9999-9999-999999999999", transaction.CreateInput{
		WalletID: w.ID,
		Type:     transaction.TypeIncome,
		Amount:   decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, wallet.ErrNotOwner)
}

func TestListFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	w := f.wallet(t, "0.00")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seed := []transaction.CreateInput{
		{WalletID: w.ID, Type: transaction.TypeIncome, Amount: decimal.NewFromInt(1000), Category: transaction.CategorySalary, Date: base},
		{WalletID: w.ID, Type: transaction.TypeExpense, Amount: decimal.NewFromInt(50), Category: transaction.CategoryFood, Date: base.AddDate(0, 0, 1)},
		{WalletID: w.ID, Type: transaction.TypeExpense, Amount: decimal.NewFromInt(200), Category: transaction.CategoryHousing, Date: base.AddDate(0, 0, 2)},
	}
	for _, input := range seed {
		_, err := f.transactions.Create(ctx, f.owner, input)
		require.NoError(t, err)
	}

	got, total, err := f.transactions.List(ctx, f.owner, transaction.Filter{Type: transaction.TypeExpense}, 0, 20)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, got, 2)
	// Newest first.
	require.Equal(t, transaction.CategoryHousing, got[0].Category)

	min := decimal.NewFromInt(100)
	got, total, err = f.transactions.List(ctx, f.owner, transaction.Filter{MinAmount: &min}, 0, 20)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, got, 2)

	from := base.AddDate(0, 0, 2)
	got, _, err = f.transactions.List(ctx, f.owner, transaction.Filter{DateFrom: &from}, 0, 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, transaction.CategoryHousing, got[0].Category)
}

func TestSummary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	w := f.wallet(t, "0.00")

	seed := []transaction.CreateInput{
		{WalletID: w.ID, Type: transaction.TypeIncome, Amount: decimal.RequireFromString("1000.00"), Category: transaction.CategorySalary},
		{WalletID: w.ID, Type: transaction.TypeExpense, Amount: decimal.RequireFromString("250.00"), Category: transaction.CategoryHousing},
		{WalletID: w.ID, Type: transaction.TypeExpense, Amount: decimal.RequireFromString("49.99"), Category: transaction.CategoryFood},
	}
	for _, input := range seed {
		_, err := f.transactions.Create(ctx, f.owner, input)
		require.NoError(t, err)
	}

	summary, err := f.transactions.Summary(ctx, f.owner, transaction.Filter{})
	require.NoError(t, err)
	require.Equal(t, 3, summary.TransactionCount)
	require.True(t, summary.TotalIncome.Equal(decimal.RequireFromString("1000.00")))
	require.True(t, summary.TotalExpense.Equal(decimal.RequireFromString("299.99")))
	require.True(t, summary.Net.Equal(decimal.RequireFromString("700.01")))
	require.True(t, summary.ByCategory[transaction.CategoryFood].Equal(decimal.RequireFromString("49.99")))
}

func TestCreateBulkAbortsOnInvalidEntry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	w := f.wallet(t, "0.00")

	_, err := f.transactions.CreateBulk(ctx, f.owner, []transaction.CreateInput{
		{WalletID: w.ID, Type: transaction.TypeIncome, Amount: decimal.NewFromInt(10)},
		{WalletID: w.ID, Type: transaction.TypeExpense, Amount: decimal.NewFromInt(-5)},
	})
	require.ErrorIs(t, err, transaction.ErrInvalidAmount)

	_, total, err := f.transactions.List(ctx, f.owner, transaction.Filter{}, 0, 20)
	require.NoError(t, err)
	require.Equal(t, 0, total, "partial batch was written")
}

func TestUpdateAndDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	w := f.wallet(t, "0.00")

	created, err := f.transactions.Create(ctx, f.owner, transaction.CreateInput{
		WalletID: w.ID,
		Type:     transaction.TypeExpense,
		Amount:   decimal.NewFromInt(30),
		Category: transaction.CategoryTransport,
	})
	require.NoError(t, err)

	amount := decimal.RequireFromString("35.00")
	note := "monthly pass"
	updated, err := f.transactions.Update(ctx, created.ID, f.owner, transaction.UpdateInput{
		Amount: &amount,
		Note:   &note,
	})
	require.NoError(t, err)
	require.True(t, updated.Amount.Equal(amount))
	require.Equal(t, "monthly pass", updated.Note)
	require.Equal(t, transaction.CategoryTransport, updated.Category)

	require.NoError(t, f.transactions.Delete(ctx, created.ID, f.owner))
	_, err = f.transactions.Get(ctx, created.ID, f.owner)
	require.ErrorIs(t, err, transaction.ErrNotFound)
}
