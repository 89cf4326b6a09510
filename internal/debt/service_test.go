package debt_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Alwil17/mr-wallet-api/internal/debt"
	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

const owner = "11111111-1111-1111-1111-111111111111"

func newService() *debt.Service {
	return debt.NewService(debt.NewMemoryRepository(), wallet.NewMemoryRepository(), nil)
}

func TestCreateValidation(t *testing.T) {
	s := newService()
	ctx := context.Background()

	_, err := s.Create(ctx, owner, debt.CreateInput{
		Counterparty: "Alice",
		Type:         "borrowed",
		Amount:       decimal.NewFromInt(50),
	})
	require.ErrorIs(t, err, debt.ErrInvalidType)

	_, err = s.Create(ctx, owner, debt.CreateInput{
		Counterparty: "Alice",
		Type:         debt.TypeOwed,
		Amount:       decimal.Zero,
	})
	require.ErrorIs(t, err, debt.ErrInvalidAmount)

	_, err = s.Create(ctx, owner, debt.CreateInput{
		Counterparty: "  ",
		Type:         debt.TypeOwed,
		Amount:       decimal.NewFromInt(50),
	})
	require.Error(t, err)

	_, err = s.Create(ctx, owner, debt.CreateInput{
		WalletID:     "22222222-2222-2222-2222-222222222222",
		Counterparty: "Alice",
		Type:         debt.TypeOwed,
		Amount:       decimal.NewFromInt(50),
	})
	require.ErrorIs(t, err, wallet.ErrNotFound)
}

func TestMarkPaidIsSingleShot(t *testing.T) {
	s := newService()
	ctx := context.Background()

	d, err := s.Create(ctx, owner, debt.CreateInput{
		Counterparty: "Bob",
		Type:         debt.TypeGiven,
		Amount:       decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	require.False(t, d.IsPaid)

	paid, err := s.MarkPaid(ctx, d.ID, owner)
	require.NoError(t, err)
	require.True(t, paid.IsPaid)

	_, err = s.MarkPaid(ctx, d.ID, owner)
	require.ErrorIs(t, err, debt.ErrAlreadyPaid)
}

func TestOwnershipOnMutation(t *testing.T) {
	s := newService()
	ctx := context.Background()

	d, err := s.Create(ctx, owner, debt.CreateInput{
		Counterparty: "Bob",
		Type:         debt.TypeOwed,
		Amount:       decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	stranger := "99999999-9999-9999-9999-999999999999"
	_, err = s.MarkPaid(ctx, d.ID, stranger)
	require.ErrorIs(t, err, debt.ErrNotOwner)
	require.ErrorIs(t, s.Delete(ctx, d.ID, stranger), debt.ErrNotOwner)
}

func TestSummaryCountsOnlyOpenDebts(t *testing.T) {
	s := newService()
	ctx := context.Background()

	past := time.Now().UTC().Add(-24 * time.Hour)
	future := time.Now().UTC().Add(24 * time.Hour)

	owed, err := s.Create(ctx, owner, debt.CreateInput{
		Counterparty: "Alice",
		Type:         debt.TypeOwed,
		Amount:       decimal.RequireFromString("75.50"),
		DueDate:      &past,
	})
	require.NoError(t, err)

	_, err = s.Create(ctx, owner, debt.CreateInput{
		Counterparty: "Bob",
		Type:         debt.TypeGiven,
		Amount:       decimal.RequireFromString("200.00"),
		DueDate:      &future,
	})
	require.NoError(t, err)

	settled, err := s.Create(ctx, owner, debt.CreateInput{
		Counterparty: "Carol",
		Type:         debt.TypeOwed,
		Amount:       decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)
	_, err = s.MarkPaid(ctx, settled.ID, owner)
	require.NoError(t, err)

	summary, err := s.Summary(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, 2, summary.OpenCount)
	require.Equal(t, 1, summary.PaidCount)
	require.Equal(t, 1, summary.OverdueCount)
	require.True(t, summary.TotalOwed.Equal(decimal.RequireFromString("75.50")))
	require.True(t, summary.TotalGiven.Equal(decimal.RequireFromString("200.00")))

	overdue, _, err := s.List(ctx, owner, debt.Filter{Overdue: true}, 0, 20)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, owed.ID, overdue[0].ID)
}
