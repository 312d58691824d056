// Package repository implements persistence for enrollments.
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

const enrollmentNotFoundMessage = "enrollment not found"

// Enrollment is the persistence model for an enrollment, joined with the
// course fields list views need.
type Enrollment struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CourseID    uuid.UUID
	CourseTitle string
	CourseSlug  string
	Progress    int
	IsCompleted bool
	EnrolledAt  time.Time
	CompletedAt *time.Time
}

// Repository defines the persistence operations for enrollments.
type Repository interface {
	Create(ctx context.Context, userID, courseID uuid.UUID) (Enrollment, error)
	GetByID(ctx context.Context, id uuid.UUID) (Enrollment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Enrollment, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) (Enrollment, error)
	UpdateProgressByCourse(ctx context.Context, userID, courseID uuid.UUID, progress int) error
	Delete(ctx context.Context, id uuid.UUID) error
	IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

// Repo implements Repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new enrollments repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const enrollmentColumns = `e.id, e.user_id, e.course_id, c.title, c.slug, e.progress, e.is_completed, e.enrolled_at, e.completed_at`

const enrollmentJoins = ` FROM enrollments e JOIN courses c ON c.id = e.course_id`

func scanEnrollment(row pgx.Row) (Enrollment, error) {
	var e Enrollment
	err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.CourseTitle, &e.CourseSlug, &e.Progress, &e.IsCompleted, &e.EnrolledAt, &e.CompletedAt)
	return e, err
}

// Create inserts an enrollment and bumps the course enrollment counter in
// the same transaction.
func (r *Repo) Create(ctx context.Context, userID, courseID uuid.UUID) (Enrollment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Enrollment{}, fmt.Errorf("begin create enrollment: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO enrollments (user_id, course_id) VALUES ($1, $2) RETURNING id`,
		userID, courseID,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Enrollment{}, apperr.Conflict("already enrolled in this course")
			case "23503":
				return Enrollment{}, apperr.Validation("course does not exist")
			}
		}
		return Enrollment{}, fmt.Errorf("create enrollment: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE courses SET enrollment_count = enrollment_count + 1, updated_at = now() WHERE id = $1`,
		courseID,
	); err != nil {
		return Enrollment{}, fmt.Errorf("bump enrollment count: %w", err)
	}

	enrollment, err := scanEnrollment(tx.QueryRow(ctx,
		`SELECT `+enrollmentColumns+enrollmentJoins+` WHERE e.id = $1`, id))
	if err != nil {
		return Enrollment{}, fmt.Errorf("load created enrollment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Enrollment{}, fmt.Errorf("commit create enrollment: %w", err)
	}
	return enrollment, nil
}

// GetByID retrieves an enrollment by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + enrollmentJoins + ` WHERE e.id = $1`

	enrollment, err := scanEnrollment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Enrollment{}, apperr.NotFound(enrollmentNotFoundMessage)
		}
		return Enrollment{}, fmt.Errorf("get enrollment by id: %w", err)
	}
	return enrollment, nil
}

// ListByUser returns a user's enrollments, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + enrollmentJoins + ` WHERE e.user_id = $1 ORDER BY e.enrolled_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]Enrollment, 0)
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}

	return enrollments, nil
}

// UpdateProgress sets the progress percentage. Reaching 100 marks the
// enrollment completed.
func (r *Repo) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) (Enrollment, error) {
	query := `
		UPDATE enrollments
		SET progress = $2,
			is_completed = ($2 >= 100),
			completed_at = CASE WHEN $2 >= 100 THEN COALESCE(completed_at, now()) ELSE NULL END
		WHERE id = $1
		RETURNING id`

	var updated uuid.UUID
	if err := r.pool.QueryRow(ctx, query, id, progress).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Enrollment{}, apperr.NotFound(enrollmentNotFoundMessage)
		}
		return Enrollment{}, fmt.Errorf("update enrollment progress: %w", err)
	}
	return r.GetByID(ctx, updated)
}

// UpdateProgressByCourse sets the progress for the user's enrollment in a
// course. Used by lesson completion tracking.
func (r *Repo) UpdateProgressByCourse(ctx context.Context, userID, courseID uuid.UUID, progress int) error {
	query := `
		UPDATE enrollments
		SET progress = $3,
			is_completed = ($3 >= 100),
			completed_at = CASE WHEN $3 >= 100 THEN COALESCE(completed_at, now()) ELSE NULL END
		WHERE user_id = $1 AND course_id = $2`

	tag, err := r.pool.Exec(ctx, query, userID, courseID, progress)
	if err != nil {
		return fmt.Errorf("update enrollment progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(enrollmentNotFoundMessage)
	}
	return nil
}

// Delete removes an enrollment and decrements the course enrollment counter
// in the same transaction.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete enrollment: %w", err)
	}
	defer tx.Rollback(ctx)

	var courseID uuid.UUID
	err = tx.QueryRow(ctx, `DELETE FROM enrollments WHERE id = $1 RETURNING course_id`, id).Scan(&courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound(enrollmentNotFoundMessage)
		}
		return fmt.Errorf("delete enrollment: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE courses SET enrollment_count = GREATEST(enrollment_count - 1, 0), updated_at = now() WHERE id = $1`,
		courseID,
	); err != nil {
		return fmt.Errorf("drop enrollment count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete enrollment: %w", err)
	}
	return nil
}

// IsEnrolled reports whether the user has an enrollment for the course.
func (r *Repo) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`

	var enrolled bool
	if err := r.pool.QueryRow(ctx, query, userID, courseID).Scan(&enrolled); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return enrolled, nil
}
