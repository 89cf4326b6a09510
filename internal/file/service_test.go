package file_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Alwil17/mr-wallet-api/internal/file"
	"github.com/Alwil17/mr-wallet-api/internal/transaction"
	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

const owner = "11111111-1111-1111-1111-111111111111"

type fixture struct {
	files        *file.Service
	transactions *transaction.Service
	wallets      *wallet.Service
}

func newFixture() fixture {
	walletRepo := wallet.NewMemoryRepository()
	txnRepo := transaction.NewMemoryRepository()
	return fixture{
		files:        file.NewService(file.NewMemoryRepository(), file.NewMemoryStore(), txnRepo),
		transactions: transaction.NewService(txnRepo, walletRepo),
		wallets:      wallet.NewService(walletRepo),
	}
}

func (f fixture) transaction(t *testing.T) transaction.Transaction {
	t.Helper()
	ctx := context.Background()
	w, err := f.wallets.Create(ctx, wallet.CreateInput{
		OwnerID: owner,
		Name:    "Main",
		Type:    wallet.TypeChecking,
	})
	require.NoError(t, err)
	txn, err := f.transactions.Create(ctx, owner, transaction.CreateInput{
		WalletID: w.ID,
		Type:     transaction.TypeExpense,
		Amount:   decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	return txn
}

func TestUploadAndDownloadRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	txn := f.transaction(t)

	content := []byte("fake png bytes")
	uploaded, err := f.files.Upload(ctx, owner, txn.ID, "receipt.png", "image/png", bytes.NewReader(content))
	require.NoError(t, err)
	require.Equal(t, int64(len(content)), uploaded.Size)
	require.Equal(t, "receipt.png", uploaded.OriginalFilename)

	meta, rc, err := f.files.Open(ctx, uploaded.ID, owner)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, content, got)
	require.Equal(t, uploaded.ID, meta.ID)
}

func TestUploadValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	txn := f.transaction(t)

	_, err := f.files.Upload(ctx, owner, txn.ID, "malware.exe", "application/octet-stream", strings.NewReader("x"))
	require.ErrorIs(t, err, file.ErrUnsupportedType)

	_, err = f.files.Upload(ctx, owner, "22222222-2222-2222-2222-222222222222", "receipt.png", "image/png", strings.NewReader("x"))
	require.ErrorIs(t, err, transaction.ErrNotFound)

	stranger := "99999999-9999-9999-9999-999999999999"
	_, err = f.files.Upload(ctx, stranger, txn.ID, "receipt.png", "image/png", strings.NewReader("x"))
	require.ErrorIs(t, err, transaction.ErrNotOwner)
}

func TestDeleteRemovesBytes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	txn := f.transaction(t)

	uploaded, err := f.files.Upload(ctx, owner, txn.ID, "receipt.pdf", "application/pdf", strings.NewReader("pdf"))
	require.NoError(t, err)

	require.NoError(t, f.files.Delete(ctx, uploaded.ID, owner))
	_, _, err = f.files.Open(ctx, uploaded.ID, owner)
	require.ErrorIs(t, err, file.ErrNotFound)
}

func TestDeleteAllForOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	txn := f.transaction(t)

	for i := 0; i < 3; i++ {
		_, err := f.files.Upload(ctx, owner, txn.ID, "receipt.png", "image/png", strings.NewReader("x"))
		require.NoError(t, err)
	}
	require.NoError(t, f.files.DeleteAllForOwner(ctx, owner))

	files, err := f.files.ListByTransaction(ctx, txn.ID, owner)
	require.NoError(t, err)
	require.Empty(t, files)
}
