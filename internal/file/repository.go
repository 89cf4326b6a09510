package file

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists attachment metadata. The bytes themselves live in a
// Store.
type Repository interface {
	Create(ctx context.Context, f File) error
	Get(ctx context.Context, id, ownerID string) (File, error)
	ListByTransaction(ctx context.Context, transactionID, ownerID string) ([]File, error)
	ListByOwner(ctx context.Context, ownerID string) ([]File, error)
	Delete(ctx context.Context, id, ownerID string) error
	DeleteAllForOwner(ctx context.Context, ownerID string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

// PostgresRepository stores attachment metadata in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, f File) error {
	id, err := uuid.Parse(f.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO files (id, owner_id, transaction_id, filename, original_filename, mime_type, size, uploaded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, uuid.MustParse(f.OwnerID), uuid.MustParse(f.TransactionID), f.Filename, f.OriginalFilename, f.MimeType, f.Size, f.UploadedAt.UTC())
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (File, error) {
	fileID, err := uuid.Parse(id)
	if err != nil {
		return File{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, transaction_id, filename, original_filename, mime_type, size, uploaded_at
        FROM files WHERE id = $1`, fileID)
	f, err := scanFile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return File{}, ErrNotFound
		}
		return File{}, err
	}
	if f.OwnerID != ownerID {
		return File{}, ErrNotOwner
	}
	return f, nil
}

func (r *PostgresRepository) ListByTransaction(ctx context.Context, transactionID, ownerID string) ([]File, error) {
	txnID, err := uuid.Parse(transactionID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, transaction_id, filename, original_filename, mime_type, size, uploaded_at
        FROM files WHERE transaction_id = $1 AND owner_id = $2 ORDER BY uploaded_at DESC`, txnID, uuid.MustParse(ownerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFiles(rows)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]File, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, transaction_id, filename, original_filename, mime_type, size, uploaded_at
        FROM files WHERE owner_id = $1 ORDER BY uploaded_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFiles(rows)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := r.Get(ctx, id, ownerID); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, uuid.MustParse(id))
	return err
}

func (r *PostgresRepository) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.db.Exec(ctx, `DELETE FROM files WHERE owner_id = $1`, owner)
	return err
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return 0, ErrNotFound
	}
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM files WHERE owner_id = $1`, owner).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func collectFiles(rows pgx.Rows) ([]File, error) {
	var files []File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func scanFile(row pgx.Row) (File, error) {
	var (
		f          File
		id         uuid.UUID
		owner      uuid.UUID
		txnID      uuid.UUID
		uploadedAt time.Time
	)
	if err := row.Scan(&id, &owner, &txnID, &f.Filename, &f.OriginalFilename, &f.MimeType, &f.Size, &uploadedAt); err != nil {
		return File{}, err
	}
	f.ID = id.String()
	f.OwnerID = owner.String()
	f.TransactionID = txnID.String()
	f.UploadedAt = uploadedAt.UTC()
	return f, nil
}
