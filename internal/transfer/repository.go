package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

// Repository persists transfers. Create and Delete own the full atomic unit:
// both wallet balance mutations and the transfer row change commit or roll
// back together, never separately.
type Repository interface {
	Create(ctx context.Context, t Transfer) (Transfer, error)
	Get(ctx context.Context, id, ownerID string) (Transfer, error)
	List(ctx context.Context, ownerID string, f Filter, offset, limit int) ([]Transfer, int, error)
	ListByWallet(ctx context.Context, walletID, ownerID string) ([]Transfer, error)
	Delete(ctx context.Context, id, ownerID string) error
	DeleteAllForOwner(ctx context.Context, ownerID string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

// PostgresRepository stores transfers in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type lockedWallet struct {
	ownerID string
	typ     wallet.Type
	balance decimal.Decimal
}

// lockWallet locks one wallet row for the duration of the transaction.
func lockWallet(ctx context.Context, tx pgx.Tx, id uuid.UUID) (lockedWallet, error) {
	var (
		owner   uuid.UUID
		typ     string
		balance decimal.Decimal
	)
	row := tx.QueryRow(ctx, `SELECT owner_id, type, balance FROM wallets WHERE id = $1 FOR UPDATE`, id)
	if err := row.Scan(&owner, &typ, &balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lockedWallet{}, wallet.ErrNotFound
		}
		return lockedWallet{}, err
	}
	return lockedWallet{ownerID: owner.String(), typ: wallet.Type(typ), balance: balance}, nil
}

// lockPair locks both wallets in ascending identifier order so that two
// concurrent transfers between the same pair in opposite directions cannot
// deadlock.
func lockPair(ctx context.Context, tx pgx.Tx, sourceID, targetID uuid.UUID) (src, dst lockedWallet, err error) {
	first, second := sourceID, targetID
	swapped := false
	if first.String() > second.String() {
		first, second = second, first
		swapped = true
	}
	a, err := lockWallet(ctx, tx, first)
	if err != nil {
		return lockedWallet{}, lockedWallet{}, err
	}
	b, err := lockWallet(ctx, tx, second)
	if err != nil {
		return lockedWallet{}, lockedWallet{}, err
	}
	if swapped {
		return b, a, nil
	}
	return a, b, nil
}

// Create moves the amount from source to target and records the transfer,
// all inside one transaction. The debit respects the overdraft rule; any
// failure leaves both balances untouched.
func (r *PostgresRepository) Create(ctx context.Context, t Transfer) (Transfer, error) {
	transferID, err := uuid.Parse(t.ID)
	if err != nil {
		return Transfer{}, fmt.Errorf("parse transfer id: %w", err)
	}
	sourceID, err := uuid.Parse(t.SourceWalletID)
	if err != nil {
		return Transfer{}, wallet.ErrNotFound
	}
	targetID, err := uuid.Parse(t.TargetWalletID)
	if err != nil {
		return Transfer{}, wallet.ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transfer{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	src, dst, err := lockPair(ctx, tx, sourceID, targetID)
	if err != nil {
		return Transfer{}, err
	}
	if src.ownerID != t.OwnerID || dst.ownerID != t.OwnerID {
		return Transfer{}, wallet.ErrNotOwner
	}

	debited, err := wallet.ApplyDelta(src.typ, src.balance, t.Amount.Neg())
	if err != nil {
		return Transfer{}, err
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = $1, updated_at = $2 WHERE id = $3`,
		debited, now, sourceID); err != nil {
		return Transfer{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = $1, updated_at = $2 WHERE id = $3`,
		dst.balance.Add(t.Amount), now, targetID); err != nil {
		return Transfer{}, err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO transfers (id, owner_id, source_wallet_id, target_wallet_id, amount, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		transferID, uuid.MustParse(t.OwnerID), sourceID, targetID, t.Amount, t.Description, t.CreatedAt.UTC()); err != nil {
		return Transfer{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transfer{}, err
	}
	return t, nil
}

// Get fetches a transfer and verifies ownership.
func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (Transfer, error) {
	transferID, err := uuid.Parse(id)
	if err != nil {
		return Transfer{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, source_wallet_id, target_wallet_id, amount, description, created_at
        FROM transfers WHERE id = $1`, transferID)
	t, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transfer{}, ErrNotFound
		}
		return Transfer{}, err
	}
	if t.OwnerID != ownerID {
		return Transfer{}, ErrNotOwner
	}
	return t, nil
}

// List returns a filtered page of the owner's transfers, newest first.
func (r *PostgresRepository) List(ctx context.Context, ownerID string, f Filter, offset, limit int) ([]Transfer, int, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, 0, ErrNotFound
	}

	where := "WHERE owner_id = $1"
	args := []any{owner}
	appendCond := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.SourceWalletID != "" {
		appendCond("source_wallet_id = $%d", f.SourceWalletID)
	}
	if f.TargetWalletID != "" {
		appendCond("target_wallet_id = $%d", f.TargetWalletID)
	}
	if f.WalletID != "" {
		args = append(args, f.WalletID)
		where += fmt.Sprintf(" AND (source_wallet_id = $%d OR target_wallet_id = $%d)", len(args), len(args))
	}
	if f.MinAmount != nil {
		appendCond("amount >= $%d", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		appendCond("amount <= $%d", *f.MaxAmount)
	}
	if f.DateFrom != nil {
		appendCond("created_at >= $%d", f.DateFrom.UTC())
	}
	if f.DateTo != nil {
		appendCond("created_at <= $%d", f.DateTo.UTC())
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM transfers "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, offset, limit)
	query := fmt.Sprintf("SELECT id, owner_id, source_wallet_id, target_wallet_id, amount, description, created_at FROM transfers %s ORDER BY created_at DESC OFFSET $%d LIMIT $%d",
		where, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var transfers []Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, 0, err
		}
		transfers = append(transfers, t)
	}
	return transfers, total, rows.Err()
}

// ListByWallet returns every transfer touching one wallet, sent or received.
func (r *PostgresRepository) ListByWallet(ctx context.Context, walletID, ownerID string) ([]Transfer, error) {
	transfers, _, err := r.List(ctx, ownerID, Filter{WalletID: walletID}, 0, 1000)
	return transfers, err
}

// Delete reverses the original movement and removes the record in one
// transaction. The reversal is privileged: it never re-validates funds on
// the target debit, since blocking it would strand an inconsistent state.
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	t, err := r.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}
	transferID := uuid.MustParse(t.ID)
	sourceID := uuid.MustParse(t.SourceWalletID)
	targetID := uuid.MustParse(t.TargetWalletID)

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	src, dst, err := lockPair(ctx, tx, sourceID, targetID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = $1, updated_at = $2 WHERE id = $3`,
		src.balance.Add(t.Amount), now, sourceID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = $1, updated_at = $2 WHERE id = $3`,
		dst.balance.Sub(t.Amount), now, targetID); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM transfers WHERE id = $1`, transferID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// DeleteAllForOwner purges transfer records without reversing balances.
// Reserved for account deletion where the wallets disappear as well.
func (r *PostgresRepository) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.db.Exec(ctx, `DELETE FROM transfers WHERE owner_id = $1`, owner)
	return err
}

// CountByOwner returns the number of transfers a user owns.
func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return 0, ErrNotFound
	}
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transfers WHERE owner_id = $1`, owner).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanTransfer(row pgx.Row) (Transfer, error) {
	var (
		t         Transfer
		id        uuid.UUID
		owner     uuid.UUID
		source    uuid.UUID
		target    uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &owner, &source, &target, &t.Amount, &t.Description, &createdAt); err != nil {
		return Transfer{}, err
	}
	t.ID = id.String()
	t.OwnerID = owner.String()
	t.SourceWalletID = source.String()
	t.TargetWalletID = target.String()
	t.CreatedAt = createdAt.UTC()
	return t, nil
}
