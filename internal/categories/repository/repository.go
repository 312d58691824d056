// Package repository implements persistence for categories.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursehub_backend/platform/apperr"
)

const categoryNotFoundMessage = "category not found"

// Category is the persistence model for a course category.
type Category struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	CourseCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateCategoryParams carries the fields for a new category row.
type CreateCategoryParams struct {
	Name        string
	Slug        string
	Description string
}

// UpdateCategoryParams carries the optional category updates.
type UpdateCategoryParams struct {
	ID          uuid.UUID
	Name        *string
	Slug        *string
	Description *string
}

// Repository defines the persistence operations for categories.
type Repository interface {
	Create(ctx context.Context, params CreateCategoryParams) (Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (Category, error)
	GetBySlug(ctx context.Context, slug string) (Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, params UpdateCategoryParams) (Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repo implements Repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new categories repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const categoryColumns = `c.id, c.name, c.slug, c.description, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM courses WHERE courses.category_id = c.id) AS course_count`

func scanCategory(row pgx.Row) (Category, error) {
	var cat Category
	err := row.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt, &cat.CourseCount)
	return cat, err
}

// Create inserts a new category. Duplicate names or slugs surface as conflicts.
func (r *Repo) Create(ctx context.Context, params CreateCategoryParams) (Category, error) {
	query := `
		INSERT INTO categories AS c (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING ` + categoryColumns

	cat, err := scanCategory(r.pool.QueryRow(ctx, query, params.Name, params.Slug, params.Description))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Category{}, apperr.Conflict("category already exists")
		}
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

// GetByID retrieves a category by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories c WHERE c.id = $1`

	cat, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, apperr.NotFound(categoryNotFoundMessage)
		}
		return Category{}, fmt.Errorf("get category by id: %w", err)
	}
	return cat, nil
}

// GetBySlug retrieves a category by slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories c WHERE c.slug = $1`

	cat, err := scanCategory(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, apperr.NotFound(categoryNotFoundMessage)
		}
		return Category{}, fmt.Errorf("get category by slug: %w", err)
	}
	return cat, nil
}

// List returns all categories ordered by name.
func (r *Repo) List(ctx context.Context) ([]Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories c ORDER BY c.name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// Update applies the non-nil category changes.
func (r *Repo) Update(ctx context.Context, params UpdateCategoryParams) (Category, error) {
	query := `
		UPDATE categories AS c
		SET name = COALESCE($2, name),
			slug = COALESCE($3, slug),
			description = COALESCE($4, description),
			updated_at = now()
		WHERE c.id = $1
		RETURNING ` + categoryColumns

	cat, err := scanCategory(r.pool.QueryRow(ctx, query, params.ID, params.Name, params.Slug, params.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, apperr.NotFound(categoryNotFoundMessage)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Category{}, apperr.Conflict("category already exists")
		}
		return Category{}, fmt.Errorf("update category: %w", err)
	}
	return cat, nil
}

// Delete removes a category. Categories referenced by courses cannot be
// deleted; the foreign key surfaces as a validation error.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperr.Validation("category is still referenced by courses")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(categoryNotFoundMessage)
	}
	return nil
}
