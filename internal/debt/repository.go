package debt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists debts.
type Repository interface {
	Create(ctx context.Context, d Debt) error
	Get(ctx context.Context, id, ownerID string) (Debt, error)
	List(ctx context.Context, ownerID string, f Filter, offset, limit int) ([]Debt, int, error)
	Update(ctx context.Context, d Debt) error
	Delete(ctx context.Context, id, ownerID string) error
	DeleteAllForOwner(ctx context.Context, ownerID string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

// PostgresRepository stores debts in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, d Debt) error {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return err
	}
	var walletID any
	if d.WalletID != "" {
		parsed, err := uuid.Parse(d.WalletID)
		if err != nil {
			return err
		}
		walletID = parsed
	}
	var due any
	if d.DueDate != nil {
		due = d.DueDate.UTC()
	}
	_, err = r.db.Exec(ctx, `INSERT INTO debts (id, owner_id, wallet_id, counterparty, type, amount, is_paid, due_date, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, uuid.MustParse(d.OwnerID), walletID, d.Counterparty, string(d.Type), d.Amount,
		d.IsPaid, due, d.Description, d.CreatedAt.UTC(), d.UpdatedAt.UTC())
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (Debt, error) {
	debtID, err := uuid.Parse(id)
	if err != nil {
		return Debt{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, wallet_id, counterparty, type, amount, is_paid, due_date, description, created_at, updated_at
        FROM debts WHERE id = $1`, debtID)
	d, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Debt{}, ErrNotFound
		}
		return Debt{}, err
	}
	if d.OwnerID != ownerID {
		return Debt{}, ErrNotOwner
	}
	return d, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string, f Filter, offset, limit int) ([]Debt, int, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, 0, ErrNotFound
	}

	where := "WHERE owner_id = $1"
	args := []any{owner}
	if f.Type != "" {
		args = append(args, string(f.Type))
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if f.IsPaid != nil {
		args = append(args, *f.IsPaid)
		where += fmt.Sprintf(" AND is_paid = $%d", len(args))
	}
	if f.Overdue {
		args = append(args, time.Now().UTC())
		where += fmt.Sprintf(" AND is_paid = FALSE AND due_date IS NOT NULL AND due_date < $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM debts "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, offset, limit)
	query := fmt.Sprintf("SELECT id, owner_id, wallet_id, counterparty, type, amount, is_paid, due_date, description, created_at, updated_at FROM debts %s ORDER BY created_at DESC OFFSET $%d LIMIT $%d",
		where, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var debts []Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, 0, err
		}
		debts = append(debts, d)
	}
	return debts, total, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, d Debt) error {
	debtID, err := uuid.Parse(d.ID)
	if err != nil {
		return ErrNotFound
	}
	var due any
	if d.DueDate != nil {
		due = d.DueDate.UTC()
	}
	cmd, err := r.db.Exec(ctx, `UPDATE debts SET counterparty = $1, type = $2, amount = $3, is_paid = $4, due_date = $5, description = $6, updated_at = $7 WHERE id = $8`,
		d.Counterparty, string(d.Type), d.Amount, d.IsPaid, due, d.Description, time.Now().UTC(), debtID)
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
	_, err := r.db.Exec(ctx, `DELETE FROM debts WHERE id = $1`, uuid.MustParse(id))
	return err
}

func (r *PostgresRepository) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.db.Exec(ctx, `DELETE FROM debts WHERE owner_id = $1`, owner)
	return err
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return 0, ErrNotFound
	}
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM debts WHERE owner_id = $1`, owner).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanDebt(row pgx.Row) (Debt, error) {
	var (
		d         Debt
		id        uuid.UUID
		owner     uuid.UUID
		walletID  *uuid.UUID
		typ       string
		due       *time.Time
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &owner, &walletID, &d.Counterparty, &typ, &d.Amount, &d.IsPaid, &due, &d.Description, &createdAt, &updatedAt); err != nil {
		return Debt{}, err
	}
	d.ID = id.String()
	d.OwnerID = owner.String()
	if walletID != nil {
		d.WalletID = walletID.String()
	}
	d.Type = Type(typ)
	if due != nil {
		utc := due.UTC()
		d.DueDate = &utc
	}
	d.CreatedAt = createdAt.UTC()
	d.UpdatedAt = updatedAt.UTC()
	return d, nil
}
