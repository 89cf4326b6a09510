package wallet_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

func newService(t *testing.T) (*wallet.Service, string) {
	t.Helper()
	return wallet.NewService(wallet.NewMemoryRepository()), uuid.NewString()
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateWallet(t *testing.T) {
	svc, owner := newService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "Main", Type: wallet.TypeChecking})
	require.NoError(t, err)
	assert.Equal(t, owner, w.OwnerID)
	assert.True(t, w.Balance.IsZero())

	_, err = uuid.Parse(w.ID)
	assert.NoError(t, err, "wallet id is not a valid UUID")
}

func TestCreateWalletValidation(t *testing.T) {
	svc, owner := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "", Type: wallet.TypeCash})
	assert.Error(t, err)

	_, err = svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "X", Type: wallet.Type("offshore")})
	assert.ErrorIs(t, err, wallet.ErrInvalidType)

	_, err = svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "X", Type: wallet.TypeCash, InitialBalance: mustDec("-1.00")})
	assert.ErrorIs(t, err, wallet.ErrInvalidAmount)

	// credit wallets may open in the red
	w, err := svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "Card", Type: wallet.TypeCredit, InitialBalance: mustDec("-250.00")})
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(mustDec("-250.00")))
}

func TestCreditDebitSet(t *testing.T) {
	svc, owner := newService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "Main", Type: wallet.TypeChecking})
	require.NoError(t, err)

	w, err = svc.Credit(ctx, w.ID, owner, mustDec("100.00"))
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(mustDec("100.00")))

	w, err = svc.Debit(ctx, w.ID, owner, mustDec("30.00"))
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(mustDec("70.00")))

	_, err = svc.Debit(ctx, w.ID, owner, mustDec("70.01"))
	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)

	w, err = svc.Get(ctx, w.ID, owner)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(mustDec("70.00")), "failed debit must not move the balance")

	w, err = svc.SetBalance(ctx, w.ID, owner, mustDec("12.34"))
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(mustDec("12.34")))
}

func TestAmountMustBePositive(t *testing.T) {
	svc, owner := newService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "Main", Type: wallet.TypeChecking})
	require.NoError(t, err)

	_, err = svc.Credit(ctx, w.ID, owner, decimal.Zero)
	assert.ErrorIs(t, err, wallet.ErrInvalidAmount)
	_, err = svc.Debit(ctx, w.ID, owner, mustDec("-5.00"))
	assert.ErrorIs(t, err, wallet.ErrInvalidAmount)
	_, err = svc.SetBalance(ctx, w.ID, owner, decimal.Zero)
	assert.ErrorIs(t, err, wallet.ErrInvalidAmount)
}

func TestCreditWalletMayGoNegative(t *testing.T) {
	svc, owner := newService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "Card", Type: wallet.TypeCredit})
	require.NoError(t, err)

	w, err = svc.Debit(ctx, w.ID, owner, mustDec("500.00"))
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(mustDec("-500.00")))
}

func TestOwnershipEnforced(t *testing.T) {
	svc, owner := newService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "Main", Type: wallet.TypeChecking})
	require.NoError(t, err)

	_, err = svc.Credit(ctx, w.ID, uuid.NewString(), mustDec("10.00"))
	assert.ErrorIs(t, err, wallet.ErrNotOwner)

	_, err = svc.Get(ctx, uuid.NewString(), owner)
	assert.ErrorIs(t, err, wallet.ErrNotFound)
}

func TestDeleteRequiresZeroBalance(t *testing.T) {
	svc, owner := newService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "Main", Type: wallet.TypeChecking})
	require.NoError(t, err)

	_, err = svc.Credit(ctx, w.ID, owner, mustDec("0.01"))
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, w.ID, owner), wallet.ErrNotEmpty)

	_, err = svc.Debit(ctx, w.ID, owner, mustDec("0.01"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, w.ID, owner))

	card, err := svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "Card", Type: wallet.TypeCredit, InitialBalance: mustDec("-0.01")})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, card.ID, owner), wallet.ErrNotEmpty)
}

func TestUpdateKeepsBalanceInvariant(t *testing.T) {
	svc, owner := newService(t)
	ctx := context.Background()

	card, err := svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "Card", Type: wallet.TypeCredit, InitialBalance: mustDec("-10.00")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, card.ID, owner, wallet.UpdateInput{Type: wallet.TypeChecking})
	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds, "retyping a negative credit wallet must fail")

	w, err := svc.Update(ctx, card.ID, owner, wallet.UpdateInput{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", w.Name)
}

func TestConcurrentCreditsDoNotLoseUpdates(t *testing.T) {
	svc, owner := newService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "Main", Type: wallet.TypeChecking})
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Credit(ctx, w.ID, owner, mustDec("10.00")); err != nil {
				t.Errorf("credit %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	got, err := svc.Get(ctx, w.ID, owner)
	require.NoError(t, err)
	want := mustDec(fmt.Sprintf("%d.00", workers*10))
	assert.True(t, got.Balance.Equal(want), "expected %s, got %s", want, got.Balance)
}

func TestSummary(t *testing.T) {
	svc, owner := newService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "A", Type: wallet.TypeChecking, InitialBalance: mustDec("100.00")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, wallet.CreateInput{OwnerID: owner, Name: "B", Type: wallet.TypeSavings, InitialBalance: mustDec("50.00")})
	require.NoError(t, err)
	_ = a

	summary, err := svc.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalWallets)
	assert.True(t, summary.TotalBalance.Equal(mustDec("150.00")))
	assert.Equal(t, 1, summary.ByType[wallet.TypeChecking].Count)
	assert.Equal(t, 1, summary.ByType[wallet.TypeSavings].Count)
}
