package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alwil17/mr-wallet-api/internal/category"
	"github.com/Alwil17/mr-wallet-api/internal/debt"
	"github.com/Alwil17/mr-wallet-api/internal/file"
	"github.com/Alwil17/mr-wallet-api/internal/transaction"
	"github.com/Alwil17/mr-wallet-api/internal/transfer"
	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

// UserData aggregates the repositories that hold a user's records. The
// identity service walks them for data export, account deletion, and the
// data summary.
type UserData struct {
	Wallets      wallet.Repository
	Transfers    transfer.Repository
	Transactions transaction.Repository
	Debts        debt.Repository
	Categories   category.Repository
	Files        *file.Service
}

// Service manages accounts and the privacy operations attached to them.
type Service struct {
	repo       Repository
	data       UserData
	categories *category.Service
	logger     *slog.Logger
}

// NewService builds an identity service.
func NewService(repo Repository, data UserData, categories *category.Service, logger *slog.Logger) *Service {
	return &Service{repo: repo, data: data, categories: categories, logger: logger}
}

// RegisterInput carries a signup request.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Register creates an account, hashes the password, and seeds the default
// categories.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, fmt.Errorf("a valid email is required")
	}
	if len(input.Password) < 8 {
		return User{}, fmt.Errorf("password must be at least 8 characters")
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	if s.categories != nil {
		if err := s.categories.Seed(ctx, user.ID); err != nil {
			s.logger.Warn("seed default categories", "user_id", user.ID, "error", err)
		}
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate verifies an email/password pair. Both unknown email and
// wrong password yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Get fetches a user by ID.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// ProfileInput carries the mutable profile fields. Nil means unchanged.
type ProfileInput struct {
	Email    *string
	Name     *string
	Password *string
}

// UpdateProfile changes email, display name, or password.
func (s *Service) UpdateProfile(ctx context.Context, id string, input ProfileInput) (User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" || !strings.Contains(email, "@") {
			return User{}, fmt.Errorf("a valid email is required")
		}
		if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing.ID != user.ID {
			return User{}, ErrEmailTaken
		}
		user.Email = email
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return User{}, fmt.Errorf("password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Export bundles everything stored about a user.
type Export struct {
	User         exportUser                `json:"user"`
	Wallets      []wallet.Wallet           `json:"wallets"`
	Transfers    []transfer.Transfer       `json:"transfers"`
	Transactions []transaction.Transaction `json:"transactions"`
	Debts        []debt.Debt               `json:"debts"`
	Categories   []category.Category       `json:"categories"`
	GeneratedAt  time.Time                 `json:"generated_at"`
}

type exportUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

const exportPageSize = 10000

// ExportData gathers all records a user has across every domain. The
// password hash is left out.
func (s *Service) ExportData(ctx context.Context, id string) (Export, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Export{}, err
	}
	wallets, _, err := s.data.Wallets.List(ctx, id, 0, exportPageSize)
	if err != nil {
		return Export{}, err
	}
	transfers, _, err := s.data.Transfers.List(ctx, id, transfer.Filter{}, 0, exportPageSize)
	if err != nil {
		return Export{}, err
	}
	transactions, _, err := s.data.Transactions.List(ctx, id, transaction.Filter{}, 0, exportPageSize)
	if err != nil {
		return Export{}, err
	}
	debts, _, err := s.data.Debts.List(ctx, id, debt.Filter{}, 0, exportPageSize)
	if err != nil {
		return Export{}, err
	}
	categories, err := s.data.Categories.List(ctx, id)
	if err != nil {
		return Export{}, err
	}
	return Export{
		User: exportUser{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			CreatedAt: user.CreatedAt,
		},
		Wallets:      wallets,
		Transfers:    transfers,
		Transactions: transactions,
		Debts:        debts,
		Categories:   categories,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// DataSummary counts the records held per domain, plus the total balance
// across wallets.
type DataSummary struct {
	Wallets      int             `json:"wallets"`
	Transfers    int             `json:"transfers"`
	Transactions int             `json:"transactions"`
	Debts        int             `json:"debts"`
	Categories   int             `json:"categories"`
	Files        int             `json:"files"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// SummarizeData reports how much data the service holds for a user.
func (s *Service) SummarizeData(ctx context.Context, id string) (DataSummary, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return DataSummary{}, err
	}
	var summary DataSummary
	var err error
	if summary.Wallets, err = s.data.Wallets.CountByOwner(ctx, id); err != nil {
		return DataSummary{}, err
	}
	if summary.Transfers, err = s.data.Transfers.CountByOwner(ctx, id); err != nil {
		return DataSummary{}, err
	}
	if summary.Transactions, err = s.data.Transactions.CountByOwner(ctx, id); err != nil {
		return DataSummary{}, err
	}
	if summary.Debts, err = s.data.Debts.CountByOwner(ctx, id); err != nil {
		return DataSummary{}, err
	}
	if summary.Categories, err = s.data.Categories.CountByOwner(ctx, id); err != nil {
		return DataSummary{}, err
	}
	if s.data.Files != nil {
		if summary.Files, err = s.data.Files.CountByOwner(ctx, id); err != nil {
			return DataSummary{}, err
		}
	}
	summary.TotalBalance = decimal.Zero
	wallets, _, err := s.data.Wallets.List(ctx, id, 0, exportPageSize)
	if err != nil {
		return DataSummary{}, err
	}
	for _, w := range wallets {
		summary.TotalBalance = summary.TotalBalance.Add(w.Balance)
	}
	return summary, nil
}

// DeleteAccount removes the user and every record attached to them.
// Dependents go first so a failure part-way never leaves orphans pointing
// at a missing user.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if s.data.Files != nil {
		if err := s.data.Files.DeleteAllForOwner(ctx, id); err != nil {
			return fmt.Errorf("delete files: %w", err)
		}
	}
	if err := s.data.Transactions.DeleteAllForOwner(ctx, id); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	if err := s.data.Transfers.DeleteAllForOwner(ctx, id); err != nil {
		return fmt.Errorf("delete transfers: %w", err)
	}
	if err := s.data.Debts.DeleteAllForOwner(ctx, id); err != nil {
		return fmt.Errorf("delete debts: %w", err)
	}
	if err := s.data.Categories.DeleteAllForOwner(ctx, id); err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}
	if err := s.data.Wallets.DeleteAllForOwner(ctx, id); err != nil {
		return fmt.Errorf("delete wallets: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("account deleted", "user_id", id)
	return nil
}

// Anonymize scrubs the personal fields of an account while keeping its
// financial records for aggregate statistics. The account can no longer
// log in afterwards.
func (s *Service) Anonymize(ctx context.Context, id string) (User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	user.Email = fmt.Sprintf("deleted-%s@anonymized.invalid", user.ID)
	user.Name = "Deleted User"
	user.PasswordHash = nil
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	s.logger.Info("account anonymized", "user_id", id)
	return user, nil
}
