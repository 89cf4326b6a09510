package identity_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Alwil17/mr-wallet-api/internal/category"
	"github.com/Alwil17/mr-wallet-api/internal/debt"
	"github.com/Alwil17/mr-wallet-api/internal/file"
	"github.com/Alwil17/mr-wallet-api/internal/identity"
	"github.com/Alwil17/mr-wallet-api/internal/logging"
	"github.com/Alwil17/mr-wallet-api/internal/transaction"
	"github.com/Alwil17/mr-wallet-api/internal/transfer"
	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

type fixture struct {
	identity     *identity.Service
	wallets      *wallet.Service
	transactions *transaction.Service
	debts        *debt.Service
	files        *file.Service
}

func newFixture() fixture {
	walletRepo := wallet.NewMemoryRepository()
	transferRepo := transfer.NewMemoryRepository(walletRepo)
	txnRepo := transaction.NewMemoryRepository()
	debtRepo := debt.NewMemoryRepository()
	categoryRepo := category.NewMemoryRepository()
	fileService := file.NewService(file.NewMemoryRepository(), file.NewMemoryStore(), txnRepo)

	data := identity.UserData{
		Wallets:      walletRepo,
		Transfers:    transferRepo,
		Transactions: txnRepo,
		Debts:        debtRepo,
		Categories:   categoryRepo,
		Files:        fileService,
	}
	return fixture{
		identity:     identity.NewService(identity.NewMemoryRepository(), data, category.NewService(categoryRepo), logging.Discard()),
		wallets:      wallet.NewService(walletRepo),
		transactions: transaction.NewService(txnRepo, walletRepo),
		debts:        debt.NewService(debtRepo, walletRepo, nil),
		files:        fileService,
	}
}

func register(t *testing.T, f fixture, email string) identity.User {
	t.Helper()
	user, err := f.identity.Register(context.Background(), identity.RegisterInput{
		Email:    email,
		Name:     "Test User",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newFixture()
	register(t, f, "user@example.com")

	_, err := f.identity.Register(context.Background(), identity.RegisterInput{
		Email:    "USER@example.com",
		Password: "another-pass",
	})
	require.ErrorIs(t, err, identity.ErrEmailTaken)
}

func TestRegisterSeedsDefaultCategories(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := register(t, f, "user@example.com")

	summary, err := f.identity.SummarizeData(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, len(category.Defaults), summary.Categories)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := register(t, f, "user@example.com")

	got, err := f.identity.Authenticate(ctx, identity.Credentials{Email: "user@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = f.identity.Authenticate(ctx, identity.Credentials{Email: "user@example.com", Password: "wrong"})
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, err = f.identity.Authenticate(ctx, identity.Credentials{Email: "nobody@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func seedRecords(t *testing.T, f fixture, userID string) {
	t.Helper()
	ctx := context.Background()
	w, err := f.wallets.Create(ctx, wallet.CreateInput{
		OwnerID:        userID,
		Name:           "Main",
		Type:           wallet.TypeChecking,
		InitialBalance: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	txn, err := f.transactions.Create(ctx, userID, transaction.CreateInput{
		WalletID: w.ID,
		Type:     transaction.TypeExpense,
		Amount:   decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	_, err = f.files.Upload(ctx, userID, txn.ID, "receipt.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)

	_, err = f.debts.Create(ctx, userID, debt.CreateInput{
		Counterparty: "Alice",
		Type:         debt.TypeOwed,
		Amount:       decimal.NewFromInt(40),
	})
	require.NoError(t, err)
}

func TestDeleteAccountCascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := register(t, f, "user@example.com")
	seedRecords(t, f, user.ID)

	before, err := f.identity.SummarizeData(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, before.Wallets)
	require.Equal(t, 1, before.Transactions)
	require.Equal(t, 1, before.Debts)
	require.Equal(t, 1, before.Files)

	require.NoError(t, f.identity.DeleteAccount(ctx, user.ID))

	_, err = f.identity.Get(ctx, user.ID)
	require.ErrorIs(t, err, identity.ErrNotFound)
	// The cascade ignores the zero-balance delete rule.
	wallets, _, err := f.wallets.List(ctx, user.ID, 0, 20)
	require.NoError(t, err)
	require.Empty(t, wallets)
}

func TestExportDataOmitsPasswordHash(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := register(t, f, "user@example.com")
	seedRecords(t, f, user.ID)

	export, err := f.identity.ExportData(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, export.User.Email)
	require.Len(t, export.Wallets, 1)
	require.Len(t, export.Transactions, 1)
	require.Len(t, export.Debts, 1)
	require.Len(t, export.Categories, len(category.Defaults))

	doc, err := identity.ExportPDF(export)
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	require.Equal(t, "%PDF", string(doc[:4]))
}

func TestAnonymizeScrubsPersonalFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := register(t, f, "user@example.com")
	seedRecords(t, f, user.ID)

	scrubbed, err := f.identity.Anonymize(ctx, user.ID)
	require.NoError(t, err)
	require.NotEqual(t, user.Email, scrubbed.Email)
	require.Equal(t, "Deleted User", scrubbed.Name)

	// Login is no longer possible.
	_, err = f.identity.Authenticate(ctx, identity.Credentials{Email: user.Email, Password: "correct-horse"})
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)

	// Financial records survive.
	summary, err := f.identity.SummarizeData(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Wallets)
}
