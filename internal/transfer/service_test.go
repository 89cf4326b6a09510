package transfer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alwil17/mr-wallet-api/internal/transfer"
	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	wallets   *wallet.Service
	transfers *transfer.Service
	owner     string
}

func setup(t *testing.T) fixture {
	t.Helper()
	walletRepo := wallet.NewMemoryRepository()
	walletSvc := wallet.NewService(walletRepo)
	transferSvc := transfer.NewService(transfer.NewMemoryRepository(walletRepo), walletRepo, nil)
	return fixture{wallets: walletSvc, transfers: transferSvc, owner: uuid.NewString()}
}

func (f fixture) wallet(t *testing.T, name string, typ wallet.Type, balance string) wallet.Wallet {
	t.Helper()
	w, err := f.wallets.Create(context.Background(), wallet.CreateInput{
		OwnerID: f.owner, Name: name, Type: typ, InitialBalance: dec(balance),
	})
	if err != nil {
		t.Fatalf("create wallet %s: %v", name, err)
	}
	return w
}

func (f fixture) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	w, err := f.wallets.Get(context.Background(), id, f.owner)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	return w.Balance
}

func TestTransferMovesFundsAndReversalRestoresThem(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.wallet(t, "A", wallet.TypeChecking, "100.00")
	b := f.wallet(t, "B", wallet.TypeSavings, "0.00")

	created, err := f.transfers.Create(ctx, transfer.CreateInput{
		OwnerID: f.owner, SourceWalletID: a.ID, TargetWalletID: b.ID, Amount: dec("30.00"),
	})
	if err != nil {
		t.Fatalf("create transfer: %v", err)
	}
	if !f.balance(t, a.ID).Equal(dec("70.00")) {
		t.Fatalf("source balance: got %s want 70.00", f.balance(t, a.ID))
	}
	if !f.balance(t, b.ID).Equal(dec("30.00")) {
		t.Fatalf("target balance: got %s want 30.00", f.balance(t, b.ID))
	}

	// the transfer is spent down to the cent: 70.01 must fail untouched
	if _, err := f.wallets.Debit(ctx, a.ID, f.owner, dec("70.01")); !errors.Is(err, wallet.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if !f.balance(t, a.ID).Equal(dec("70.00")) {
		t.Fatalf("failed debit moved the balance to %s", f.balance(t, a.ID))
	}

	if err := f.transfers.Delete(ctx, created.ID, f.owner); err != nil {
		t.Fatalf("delete transfer: %v", err)
	}
	if !f.balance(t, a.ID).Equal(dec("100.00")) {
		t.Fatalf("reversal: source got %s want 100.00", f.balance(t, a.ID))
	}
	if !f.balance(t, b.ID).Equal(dec("0.00")) {
		t.Fatalf("reversal: target got %s want 0.00", f.balance(t, b.ID))
	}

	if _, err := f.transfers.Get(ctx, created.ID, f.owner); !errors.Is(err, transfer.ErrNotFound) {
		t.Fatalf("deleted transfer still readable: %v", err)
	}
}

func TestTransferValidationOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.wallet(t, "A", wallet.TypeChecking, "10.00")
	b := f.wallet(t, "B", wallet.TypeSavings, "0.00")

	// amount is checked before the same-wallet rule
	if _, err := f.transfers.Create(ctx, transfer.CreateInput{
		OwnerID: f.owner, SourceWalletID: a.ID, TargetWalletID: a.ID, Amount: decimal.Zero,
	}); !errors.Is(err, wallet.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	if _, err := f.transfers.Create(ctx, transfer.CreateInput{
		OwnerID: f.owner, SourceWalletID: a.ID, TargetWalletID: a.ID, Amount: dec("5.00"),
	}); !errors.Is(err, transfer.ErrSameWallet) {
		t.Fatalf("expected ErrSameWallet, got %v", err)
	}

	if _, err := f.transfers.Create(ctx, transfer.CreateInput{
		OwnerID: uuid.NewString(), SourceWalletID: a.ID, TargetWalletID: b.ID, Amount: dec("5.00"),
	}); !errors.Is(err, wallet.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if _, err := f.transfers.Create(ctx, transfer.CreateInput{
		OwnerID: f.owner, SourceWalletID: a.ID, TargetWalletID: b.ID, Amount: dec("10.01"),
	}); !errors.Is(err, wallet.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// a failed transfer leaves both balances untouched
	if !f.balance(t, a.ID).Equal(dec("10.00")) || !f.balance(t, b.ID).Equal(dec("0.00")) {
		t.Fatalf("failed transfer mutated balances: %s / %s", f.balance(t, a.ID), f.balance(t, b.ID))
	}
}

func TestTransferFromCreditWalletMayOverdraw(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	card := f.wallet(t, "Card", wallet.TypeCredit, "0.00")
	b := f.wallet(t, "B", wallet.TypeChecking, "0.00")

	if _, err := f.transfers.Create(ctx, transfer.CreateInput{
		OwnerID: f.owner, SourceWalletID: card.ID, TargetWalletID: b.ID, Amount: dec("250.00"),
	}); err != nil {
		t.Fatalf("credit-funded transfer rejected: %v", err)
	}
	if !f.balance(t, card.ID).Equal(dec("-250.00")) {
		t.Fatalf("card balance: got %s want -250.00", f.balance(t, card.ID))
	}
	if !f.balance(t, b.ID).Equal(dec("250.00")) {
		t.Fatalf("target balance: got %s want 250.00", f.balance(t, b.ID))
	}
}

func TestReversalIsUnconditional(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.wallet(t, "A", wallet.TypeChecking, "100.00")
	b := f.wallet(t, "B", wallet.TypeSavings, "0.00")

	created, err := f.transfers.Create(ctx, transfer.CreateInput{
		OwnerID: f.owner, SourceWalletID: a.ID, TargetWalletID: b.ID, Amount: dec("30.00"),
	})
	if err != nil {
		t.Fatalf("create transfer: %v", err)
	}

	// spend the received funds so the reversal debit exceeds the balance
	if _, err := f.wallets.Debit(ctx, b.ID, f.owner, dec("25.00")); err != nil {
		t.Fatalf("spend down: %v", err)
	}

	if err := f.transfers.Delete(ctx, created.ID, f.owner); err != nil {
		t.Fatalf("reversal blocked: %v", err)
	}
	if !f.balance(t, a.ID).Equal(dec("100.00")) {
		t.Fatalf("source after reversal: got %s want 100.00", f.balance(t, a.ID))
	}
	if !f.balance(t, b.ID).Equal(dec("-25.00")) {
		t.Fatalf("target after reversal: got %s want -25.00", f.balance(t, b.ID))
	}
}

func TestTransferOwnershipOnDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.wallet(t, "A", wallet.TypeChecking, "50.00")
	b := f.wallet(t, "B", wallet.TypeSavings, "0.00")

	created, err := f.transfers.Create(ctx, transfer.CreateInput{
		OwnerID: f.owner, SourceWalletID: a.ID, TargetWalletID: b.ID, Amount: dec("20.00"),
	})
	if err != nil {
		t.Fatalf("create transfer: %v", err)
	}

	if err := f.transfers.Delete(ctx, created.ID, uuid.NewString()); !errors.Is(err, transfer.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := f.transfers.Delete(ctx, uuid.NewString(), f.owner); !errors.Is(err, transfer.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransferSummary(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.wallet(t, "A", wallet.TypeChecking, "100.00")
	b := f.wallet(t, "B", wallet.TypeSavings, "0.00")

	for _, amount := range []string{"10.00", "15.00"} {
		if _, err := f.transfers.Create(ctx, transfer.CreateInput{
			OwnerID: f.owner, SourceWalletID: a.ID, TargetWalletID: b.ID, Amount: dec(amount),
		}); err != nil {
			t.Fatalf("create transfer: %v", err)
		}
	}

	summary, err := f.transfers.Summary(ctx, f.owner)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalTransfers != 2 {
		t.Fatalf("total transfers: got %d want 2", summary.TotalTransfers)
	}
	if !summary.TotalTransferred.Equal(dec("25.00")) {
		t.Fatalf("total transferred: got %s want 25.00", summary.TotalTransferred)
	}

	ws, err := f.transfers.WalletSummary(ctx, a.ID, f.owner)
	if err != nil {
		t.Fatalf("wallet summary: %v", err)
	}
	if !ws.TotalSent.Equal(dec("25.00")) || !ws.NetAmount.Equal(dec("-25.00")) {
		t.Fatalf("wallet summary: sent %s net %s", ws.TotalSent, ws.NetAmount)
	}
}
