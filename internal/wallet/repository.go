package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository persists wallets. Balance mutations go through ApplyOperation
// and Delete so that the read-modify-write always happens inside one storage
// transaction.
type Repository interface {
	Create(ctx context.Context, w Wallet) error
	Get(ctx context.Context, id, ownerID string) (Wallet, error)
	List(ctx context.Context, ownerID string, offset, limit int) ([]Wallet, int, error)
	Update(ctx context.Context, w Wallet) error
	ApplyOperation(ctx context.Context, id, ownerID string, op Operation, amount decimal.Decimal) (Wallet, error)
	Delete(ctx context.Context, id, ownerID string) error
	DeleteAllForOwner(ctx context.Context, ownerID string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

// PostgresRepository stores wallets in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a wallet record.
func (r *PostgresRepository) Create(ctx context.Context, w Wallet) error {
	walletID, err := uuid.Parse(w.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(w.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO wallets (id, owner_id, name, type, balance, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		walletID, ownerID, w.Name, string(w.Type), w.Balance, w.CreatedAt.UTC(), w.UpdatedAt.UTC())
	return err
}

// Get fetches a wallet and verifies ownership. A wallet owned by another
// user yields ErrNotOwner rather than ErrNotFound so callers can
// distinguish the two.
func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (Wallet, error) {
	walletID, err := uuid.Parse(id)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, name, type, balance, created_at, updated_at
        FROM wallets WHERE id = $1`, walletID)
	w, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	if w.OwnerID != ownerID {
		return Wallet{}, ErrNotOwner
	}
	return w, nil
}

// List returns a page of the owner's wallets ordered by creation time,
// newest first, along with the total count.
func (r *PostgresRepository) List(ctx context.Context, ownerID string, offset, limit int) ([]Wallet, int, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, 0, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, name, type, balance, created_at, updated_at
        FROM wallets WHERE owner_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`, owner, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var wallets []Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, 0, err
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	return wallets, total, nil
}

// Update stores name and type changes. Balance is deliberately excluded.
func (r *PostgresRepository) Update(ctx context.Context, w Wallet) error {
	walletID, err := uuid.Parse(w.ID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE wallets SET name = $1, type = $2, updated_at = $3 WHERE id = $4`,
		w.Name, string(w.Type), time.Now().UTC(), walletID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyOperation performs a credit, debit or set on the wallet balance inside
// a single transaction. The row is locked with FOR UPDATE so concurrent
// mutations against the same wallet serialize and no update is lost.
func (r *PostgresRepository) ApplyOperation(ctx context.Context, id, ownerID string, op Operation, amount decimal.Decimal) (Wallet, error) {
	walletID, err := uuid.Parse(id)
	if err != nil {
		return Wallet{}, ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Wallet{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	row := tx.QueryRow(ctx, `SELECT id, owner_id, name, type, balance, created_at, updated_at
        FROM wallets WHERE id = $1 FOR UPDATE`, walletID)
	w, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	if w.OwnerID != ownerID {
		return Wallet{}, ErrNotOwner
	}

	delta, err := op.Delta(w.Balance, amount)
	if err != nil {
		return Wallet{}, err
	}
	next, err := ApplyDelta(w.Type, w.Balance, delta)
	if err != nil {
		return Wallet{}, err
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = $1, updated_at = $2 WHERE id = $3`,
		next, now, walletID); err != nil {
		return Wallet{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Wallet{}, err
	}

	w.Balance = next
	w.UpdatedAt = now
	return w, nil
}

// Delete removes a wallet when its balance is exactly zero. Dependent
// transactions, debts and transfers are removed by the schema's ON DELETE
// CASCADE constraints.
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	walletID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	row := tx.QueryRow(ctx, `SELECT id, owner_id, name, type, balance, created_at, updated_at
        FROM wallets WHERE id = $1 FOR UPDATE`, walletID)
	w, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if w.OwnerID != ownerID {
		return ErrNotOwner
	}
	if !w.Balance.IsZero() {
		return ErrNotEmpty
	}

	if _, err := tx.Exec(ctx, `DELETE FROM wallets WHERE id = $1`, walletID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeleteAllForOwner purges every wallet of a user regardless of balance.
// Reserved for account deletion, where the zero-balance rule does not apply.
func (r *PostgresRepository) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.db.Exec(ctx, `DELETE FROM wallets WHERE owner_id = $1`, owner)
	return err
}

// CountByOwner returns the number of wallets a user owns.
func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return 0, ErrNotFound
	}
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM wallets WHERE owner_id = $1`, owner).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		w         Wallet
		id        uuid.UUID
		owner     uuid.UUID
		typ       string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &owner, &w.Name, &typ, &w.Balance, &createdAt, &updatedAt); err != nil {
		return Wallet{}, err
	}
	w.ID = id.String()
	w.OwnerID = owner.String()
	w.Type = Type(typ)
	w.CreatedAt = createdAt.UTC()
	w.UpdatedAt = updatedAt.UTC()
	return w, nil
}
