// Package repository implements persistence for payments.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursehub_backend/platform/apperr"
)

const paymentNotFoundMessage = "payment not found"

// Payment statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// Payment is the persistence model for a payment, joined with the course
// title for list views.
type Payment struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	CourseID      uuid.UUID
	CourseTitle   string
	Amount        float64
	PaymentMethod string
	TransactionID string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreatePaymentParams carries the fields for a new payment row.
type CreatePaymentParams struct {
	UserID        uuid.UUID
	CourseID      uuid.UUID
	Amount        float64
	PaymentMethod string
	TransactionID string
}

// ListPaymentsParams carries the payment list filters.
type ListPaymentsParams struct {
	UserID *uuid.UUID
	Status string
	Limit  int
	Offset int
}

// Repository defines the persistence operations for payments.
type Repository interface {
	Create(ctx context.Context, params CreatePaymentParams) (Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (Payment, error)
	List(ctx context.Context, params ListPaymentsParams) ([]Payment, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repo implements Repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new payments repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const paymentColumns = `p.id, p.user_id, p.course_id, c.title, p.amount, p.payment_method, p.transaction_id, p.status, p.created_at, p.updated_at`

const paymentJoins = ` FROM payments p JOIN courses c ON c.id = p.course_id`

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.UserID, &p.CourseID, &p.CourseTitle, &p.Amount, &p.PaymentMethod, &p.TransactionID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create inserts a payment in pending status.
func (r *Repo) Create(ctx context.Context, params CreatePaymentParams) (Payment, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO payments (user_id, course_id, amount, payment_method, transaction_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		params.UserID, params.CourseID, params.Amount, params.PaymentMethod, params.TransactionID,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Payment{}, apperr.Conflict("transaction already recorded")
			case "23503":
				return Payment{}, apperr.Validation("course does not exist")
			}
		}
		return Payment{}, fmt.Errorf("create payment: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves a payment by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Payment, error) {
	query := `SELECT ` + paymentColumns + paymentJoins + ` WHERE p.id = $1`

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, apperr.NotFound(paymentNotFoundMessage)
		}
		return Payment{}, fmt.Errorf("get payment by id: %w", err)
	}
	return payment, nil
}

// List returns payments matching the filters alongside the total count.
func (r *Repo) List(ctx context.Context, params ListPaymentsParams) ([]Payment, int, error) {
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 4)
	argIdx := 1

	if params.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("p.user_id = $%d", argIdx))
		args = append(args, *params.UserID)
		argIdx++
	}
	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*)` + paymentJoins + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	query := `SELECT ` + paymentColumns + paymentJoins + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate payments: %w", err)
	}

	return payments, total, nil
}

// UpdateStatus sets a payment's status.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Payment, error) {
	query := `UPDATE payments SET status = $2, updated_at = now() WHERE id = $1 RETURNING id`

	var updated uuid.UUID
	if err := r.pool.QueryRow(ctx, query, id, status).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, apperr.NotFound(paymentNotFoundMessage)
		}
		return Payment{}, fmt.Errorf("update payment status: %w", err)
	}
	return r.GetByID(ctx, updated)
}

// Delete removes a payment.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(paymentNotFoundMessage)
	}
	return nil
}
