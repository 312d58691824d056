// Package repository implements persistence for course reviews.
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

const reviewNotFoundMessage = "review not found"

// Review is the persistence model for a review, joined with the author's
// display name.
type Review struct {
	ID        uuid.UUID
	CourseID  uuid.UUID
	UserID    uuid.UUID
	UserName  string
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateReviewParams carries the fields for a new review row.
type CreateReviewParams struct {
	CourseID uuid.UUID
	UserID   uuid.UUID
	Rating   int
	Comment  string
}

// UpdateReviewParams carries the optional review updates.
type UpdateReviewParams struct {
	ID      uuid.UUID
	Rating  *int
	Comment *string
}

// Repository defines the persistence operations for reviews.
type Repository interface {
	Create(ctx context.Context, params CreateReviewParams) (Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (Review, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]Review, error)
	Update(ctx context.Context, params UpdateReviewParams) (Review, error)
	Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	AggregateForCourse(ctx context.Context, courseID uuid.UUID) (average float64, count int, err error)
}

// Repo implements Repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new reviews repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const reviewColumns = `r.id, r.course_id, r.user_id, u.name, r.rating, r.comment, r.created_at, r.updated_at`

const reviewJoins = ` FROM reviews r JOIN users u ON u.id = r.user_id`

func scanReview(row pgx.Row) (Review, error) {
	var rv Review
	err := row.Scan(&rv.ID, &rv.CourseID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	return rv, err
}

// Create inserts a review. A second review by the same user for the same
// course violates the unique pair constraint.
func (r *Repo) Create(ctx context.Context, params CreateReviewParams) (Review, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reviews (course_id, user_id, rating, comment) VALUES ($1, $2, $3, $4) RETURNING id`,
		params.CourseID, params.UserID, params.Rating, params.Comment,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Review{}, apperr.Conflict("course already reviewed")
			case "23503":
				return Review{}, apperr.Validation("course does not exist")
			}
		}
		return Review{}, fmt.Errorf("create review: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves a review by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Review, error) {
	query := `SELECT ` + reviewColumns + reviewJoins + ` WHERE r.id = $1`

	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, apperr.NotFound(reviewNotFoundMessage)
		}
		return Review{}, fmt.Errorf("get review by id: %w", err)
	}
	return review, nil
}

// ListByCourse returns a course's reviews, newest first.
func (r *Repo) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]Review, error) {
	query := `SELECT ` + reviewColumns + reviewJoins + ` WHERE r.course_id = $1 ORDER BY r.created_at DESC`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// Update applies the non-nil review changes.
func (r *Repo) Update(ctx context.Context, params UpdateReviewParams) (Review, error) {
	query := `
		UPDATE reviews
		SET rating = COALESCE($2, rating),
			comment = COALESCE($3, comment),
			updated_at = now()
		WHERE id = $1
		RETURNING id`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query, params.ID, params.Rating, params.Comment).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, apperr.NotFound(reviewNotFoundMessage)
		}
		return Review{}, fmt.Errorf("update review: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a review. Returns the course id the review belonged to so
// the aggregate can be refreshed.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var courseID uuid.UUID
	err := r.pool.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING course_id`, id).Scan(&courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperr.NotFound(reviewNotFoundMessage)
		}
		return uuid.Nil, fmt.Errorf("delete review: %w", err)
	}
	return courseID, nil
}

// AggregateForCourse returns the mean rating and review count for a course.
// The mean is 0 when the course has no reviews.
func (r *Repo) AggregateForCourse(ctx context.Context, courseID uuid.UUID) (float64, int, error) {
	query := `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE course_id = $1`

	var average float64
	var count int
	if err := r.pool.QueryRow(ctx, query, courseID).Scan(&average, &count); err != nil {
		return 0, 0, fmt.Errorf("aggregate reviews: %w", err)
	}
	return average, count, nil
}
