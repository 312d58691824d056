// Package repository implements persistence for contact queries.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Query is the persistence model for a contact form submission.
type Query struct {
	ID        uuid.UUID
	FullName  string
	Email     string
	Phone     string
	Message   string
	CreatedAt time.Time
}

// CreateQueryParams carries the fields for a new contact query row.
type CreateQueryParams struct {
	FullName string
	Email    string
	Phone    string
	Message  string
}

// Repository defines the persistence operations for contact queries.
type Repository interface {
	Create(ctx context.Context, params CreateQueryParams) (Query, error)
	List(ctx context.Context, limit, offset int) ([]Query, int, error)
}

// Repo implements Repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new contact repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const queryColumns = `id, full_name, email, phone, message, created_at`

func scanQuery(row pgx.Row) (Query, error) {
	var q Query
	err := row.Scan(&q.ID, &q.FullName, &q.Email, &q.Phone, &q.Message, &q.CreatedAt)
	return q, err
}

// Create inserts a contact query.
func (r *Repo) Create(ctx context.Context, params CreateQueryParams) (Query, error) {
	query := `
		INSERT INTO contact_queries (full_name, email, phone, message)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + queryColumns

	q, err := scanQuery(r.pool.QueryRow(ctx, query, params.FullName, params.Email, params.Phone, params.Message))
	if err != nil {
		return Query{}, fmt.Errorf("create contact query: %w", err)
	}
	return q, nil
}

// List returns contact queries, newest first, alongside the total count.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]Query, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_queries`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contact queries: %w", err)
	}

	query := `SELECT ` + queryColumns + ` FROM contact_queries ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list contact queries: %w", err)
	}
	defer rows.Close()

	queries := make([]Query, 0)
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan contact query: %w", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contact queries: %w", err)
	}

	return queries, total, nil
}
