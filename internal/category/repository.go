package category

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists categories.
type Repository interface {
	Create(ctx context.Context, c Category) error
	Get(ctx context.Context, id, ownerID string) (Category, error)
	FindByName(ctx context.Context, ownerID, name string) (Category, error)
	List(ctx context.Context, ownerID string) ([]Category, error)
	Update(ctx context.Context, c Category) error
	Delete(ctx context.Context, id, ownerID string) error
	DeleteAllForOwner(ctx context.Context, ownerID string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

// PostgresRepository stores categories in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c Category) error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO categories (id, owner_id, name, color, icon, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, uuid.MustParse(c.OwnerID), c.Name, c.Color, c.Icon, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (Category, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return Category{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, name, color, icon, created_at, updated_at FROM categories WHERE id = $1`, categoryID)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	if c.OwnerID != ownerID {
		return Category{}, ErrNotOwner
	}
	return c, nil
}

func (r *PostgresRepository) FindByName(ctx context.Context, ownerID, name string) (Category, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return Category{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, name, color, icon, created_at, updated_at
        FROM categories WHERE owner_id = $1 AND LOWER(name) = LOWER($2)`, owner, name)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]Category, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, name, color, icon, created_at, updated_at
        FROM categories WHERE owner_id = $1 ORDER BY name ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, c Category) error {
	categoryID, err := uuid.Parse(c.ID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE categories SET name = $1, color = $2, icon = $3, updated_at = $4 WHERE id = $5`,
		c.Name, c.Color, c.Icon, time.Now().UTC(), categoryID)
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
	_, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, uuid.MustParse(id))
	return err
}

func (r *PostgresRepository) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.db.Exec(ctx, `DELETE FROM categories WHERE owner_id = $1`, owner)
	return err
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return 0, ErrNotFound
	}
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE owner_id = $1`, owner).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanCategory(row pgx.Row) (Category, error) {
	var (
		c         Category
		id        uuid.UUID
		owner     uuid.UUID
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &owner, &c.Name, &c.Color, &c.Icon, &createdAt, &updatedAt); err != nil {
		return Category{}, err
	}
	c.ID = id.String()
	c.OwnerID = owner.String()
	c.CreatedAt = createdAt.UTC()
	c.UpdatedAt = updatedAt.UTC()
	return c, nil
}
