package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists transactions.
type Repository interface {
	Create(ctx context.Context, t Transaction) error
	Get(ctx context.Context, id, ownerID string) (Transaction, error)
	List(ctx context.Context, ownerID string, f Filter, offset, limit int) ([]Transaction, int, error)
	Update(ctx context.Context, t Transaction) error
	Delete(ctx context.Context, id, ownerID string) error
	DeleteAllForOwner(ctx context.Context, ownerID string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

// PostgresRepository stores transactions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t Transaction) error {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		return err
	}
	var categoryID any
	if t.CategoryID != "" {
		parsed, err := uuid.Parse(t.CategoryID)
		if err != nil {
			return err
		}
		categoryID = parsed
	}
	_, err = r.db.Exec(ctx, `INSERT INTO transactions (id, owner_id, wallet_id, type, amount, category, category_id, note, date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, uuid.MustParse(t.OwnerID), uuid.MustParse(t.WalletID), string(t.Type), t.Amount,
		t.Category, categoryID, t.Note, t.Date.UTC(), t.CreatedAt.UTC(), t.UpdatedAt.UTC())
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (Transaction, error) {
	txnID, err := uuid.Parse(id)
	if err != nil {
		return Transaction{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, wallet_id, type, amount, category, category_id, note, date, created_at, updated_at
        FROM transactions WHERE id = $1`, txnID)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	if t.OwnerID != ownerID {
		return Transaction{}, ErrNotOwner
	}
	return t, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string, f Filter, offset, limit int) ([]Transaction, int, error) {
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
	if f.WalletID != "" {
		appendCond("wallet_id = $%d", f.WalletID)
	}
	if f.Type != "" {
		appendCond("type = $%d", string(f.Type))
	}
	if f.Category != "" {
		appendCond("category = $%d", f.Category)
	}
	if f.MinAmount != nil {
		appendCond("amount >= $%d", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		appendCond("amount <= $%d", *f.MaxAmount)
	}
	if f.DateFrom != nil {
		appendCond("date >= $%d", f.DateFrom.UTC())
	}
	if f.DateTo != nil {
		appendCond("date <= $%d", f.DateTo.UTC())
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM transactions "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, offset, limit)
	query := fmt.Sprintf("SELECT id, owner_id, wallet_id, type, amount, category, category_id, note, date, created_at, updated_at FROM transactions %s ORDER BY date DESC OFFSET $%d LIMIT $%d",
		where, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, t)
	}
	return transactions, total, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, t Transaction) error {
	txnID, err := uuid.Parse(t.ID)
	if err != nil {
		return ErrNotFound
	}
	var categoryID any
	if t.CategoryID != "" {
		parsed, err := uuid.Parse(t.CategoryID)
		if err != nil {
			return err
		}
		categoryID = parsed
	}
	cmd, err := r.db.Exec(ctx, `UPDATE transactions SET type = $1, amount = $2, category = $3, category_id = $4, note = $5, date = $6, updated_at = $7 WHERE id = $8`,
		string(t.Type), t.Amount, t.Category, categoryID, t.Note, t.Date.UTC(), time.Now().UTC(), txnID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := r.Get(ctx, id, ownerID); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, uuid.MustParse(id))
	return err
}

func (r *PostgresRepository) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.db.Exec(ctx, `DELETE FROM transactions WHERE owner_id = $1`, owner)
	return err
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return 0, ErrNotFound
	}
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE owner_id = $1`, owner).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var (
		t          Transaction
		id         uuid.UUID
		owner      uuid.UUID
		walletID   uuid.UUID
		typ        string
		categoryID *uuid.UUID
		date       time.Time
		createdAt  time.Time
		updatedAt  time.Time
	)
	if err := row.Scan(&id, &owner, &walletID, &typ, &t.Amount, &t.Category, &categoryID, &t.Note, &date, &createdAt, &updatedAt); err != nil {
		return Transaction{}, err
	}
	t.ID = id.String()
	t.OwnerID = owner.String()
	t.WalletID = walletID.String()
	t.Type = Type(typ)
	if categoryID != nil {
		t.CategoryID = categoryID.String()
	}
	t.Date = date.UTC()
	t.CreatedAt = createdAt.UTC()
	t.UpdatedAt = updatedAt.UTC()
	return t, nil
}
