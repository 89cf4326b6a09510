package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Alwil17/mr-wallet-api/internal/auth"
	"github.com/Alwil17/mr-wallet-api/internal/category"
	"github.com/Alwil17/mr-wallet-api/internal/config"
	"github.com/Alwil17/mr-wallet-api/internal/debt"
	"github.com/Alwil17/mr-wallet-api/internal/file"
	"github.com/Alwil17/mr-wallet-api/internal/identity"
	"github.com/Alwil17/mr-wallet-api/internal/logging"
	"github.com/Alwil17/mr-wallet-api/internal/transaction"
	"github.com/Alwil17/mr-wallet-api/internal/transfer"
	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

func newService(t *testing.T) *auth.Service {
	t.Helper()
	cfg := config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
	walletRepo := wallet.NewMemoryRepository()
	txnRepo := transaction.NewMemoryRepository()
	categoryRepo := category.NewMemoryRepository()
	data := identity.UserData{
		Wallets:      walletRepo,
		Transfers:    transfer.NewMemoryRepository(walletRepo),
		Transactions: txnRepo,
		Debts:        debt.NewMemoryRepository(),
		Categories:   categoryRepo,
		Files:        file.NewService(file.NewMemoryRepository(), file.NewMemoryStore(), txnRepo),
	}
	identityService := identity.NewService(identity.NewMemoryRepository(), data, category.NewService(categoryRepo), logging.Discard())
	return auth.NewService(cfg, identityService, auth.NewMemoryTokenStore())
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	user, _, err := s.Register(ctx, identity.RegisterInput{
		Email:    "user@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	got, pair, err := s.Login(ctx, identity.Credentials{Email: "user@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := s.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, user.Email, claims.Email)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, pair, err := s.Register(ctx, identity.RegisterInput{
		Email:    "user@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = s.Verify(pair.AccessToken + "x")
	require.ErrorIs(t, err, auth.ErrInvalidToken)

	other, err := auth.SignAccessToken("other-secret", "someone", "a@b.c", time.Minute)
	require.NoError(t, err)
	_, err = s.Verify(other)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshRotation(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, pair, err := s.Register(ctx, identity.RegisterInput{
		Email:    "user@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	rotated, err := s.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old refresh token is spent.
	_, err = s.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrInvalidToken)

	// The new one still works.
	_, err = s.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	user, pair, err := s.Register(ctx, identity.RegisterInput{
		Email:    "user@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, user.ID))
	_, err = s.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}
