// Package repository implements persistence for courses.
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

const courseNotFoundMessage = "course not found"

// Course is the persistence model for a course.
type Course struct {
	ID              uuid.UUID
	Title           string
	Slug            string
	Description     string
	CategoryID      uuid.UUID
	CategoryName    string
	InstructorID    uuid.UUID
	InstructorName  string
	Price           float64
	Level           string
	Published       bool
	ThumbnailKey    string
	AverageRating   float64
	ReviewCount     int
	EnrollmentCount int
	TotalLessons    int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateCourseParams carries the fields for a new course row.
type CreateCourseParams struct {
	Title        string
	Slug         string
	Description  string
	CategoryID   uuid.UUID
	InstructorID uuid.UUID
	Price        float64
	Level        string
}

// UpdateCourseParams carries the optional course updates.
type UpdateCourseParams struct {
	ID          uuid.UUID
	Title       *string
	Slug        *string
	Description *string
	CategoryID  *uuid.UUID
	Price       *float64
	Level       *string
	Published   *bool
}

// ListCoursesParams filters the course listing.
type ListCoursesParams struct {
	CategorySlug  string
	InstructorID  uuid.UUID
	Level         string
	Search        string
	MinPrice      *float64
	MaxPrice      *float64
	SortBy        string
	SortDesc      bool
	OnlyPublished bool
	Limit         int
	Offset        int
}

// Repository defines the persistence operations for courses.
type Repository interface {
	Create(ctx context.Context, params CreateCourseParams) (Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (Course, error)
	GetBySlug(ctx context.Context, slug string) (Course, error)
	List(ctx context.Context, params ListCoursesParams) ([]Course, int, error)
	Update(ctx context.Context, params UpdateCourseParams) (Course, error)
	UpdateThumbnailKey(ctx context.Context, id uuid.UUID, key string) error
	UpdateRating(ctx context.Context, id uuid.UUID, average float64, count int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repo implements Repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new courses repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const courseColumns = `c.id, c.title, c.slug, c.description, c.category_id, cat.name,
	c.instructor_id, u.name, c.price, c.level, c.published, c.thumbnail_key,
	c.average_rating, c.review_count, c.enrollment_count, c.total_lessons,
	c.created_at, c.updated_at`

const courseJoins = `
	FROM courses c
	JOIN categories cat ON cat.id = c.category_id
	JOIN users u ON u.id = c.instructor_id`

func scanCourse(row pgx.Row) (Course, error) {
	var course Course
	err := row.Scan(
		&course.ID, &course.Title, &course.Slug, &course.Description, &course.CategoryID, &course.CategoryName,
		&course.InstructorID, &course.InstructorName, &course.Price, &course.Level, &course.Published, &course.ThumbnailKey,
		&course.AverageRating, &course.ReviewCount, &course.EnrollmentCount, &course.TotalLessons,
		&course.CreatedAt, &course.UpdatedAt,
	)
	return course, err
}

// Create inserts a new course. A duplicate slug surfaces as a conflict and a
// missing category as a validation error.
func (r *Repo) Create(ctx context.Context, params CreateCourseParams) (Course, error) {
	query := `
		INSERT INTO courses (title, slug, description, category_id, instructor_id, price, level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		params.Title, params.Slug, params.Description, params.CategoryID, params.InstructorID, params.Price, params.Level,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Course{}, apperr.Conflict("a course with this title already exists")
			case "23503":
				return Course{}, apperr.Validation("unknown category or instructor")
			}
		}
		return Course{}, fmt.Errorf("create course: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves a course by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Course, error) {
	query := `SELECT ` + courseColumns + courseJoins + ` WHERE c.id = $1`

	course, err := scanCourse(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Course{}, apperr.NotFound(courseNotFoundMessage)
		}
		return Course{}, fmt.Errorf("get course by id: %w", err)
	}
	return course, nil
}

// GetBySlug retrieves a course by slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (Course, error) {
	query := `SELECT ` + courseColumns + courseJoins + ` WHERE c.slug = $1`

	course, err := scanCourse(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Course{}, apperr.NotFound(courseNotFoundMessage)
		}
		return Course{}, fmt.Errorf("get course by slug: %w", err)
	}
	return course, nil
}

// List returns courses matching the filters plus the total count.
func (r *Repo) List(ctx context.Context, params ListCoursesParams) ([]Course, int, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.OnlyPublished {
		whereClauses = append(whereClauses, "c.published")
	}
	if params.CategorySlug != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("cat.slug = $%d", argIdx))
		args = append(args, params.CategorySlug)
		argIdx++
	}
	if params.InstructorID != uuid.Nil {
		whereClauses = append(whereClauses, fmt.Sprintf("c.instructor_id = $%d", argIdx))
		args = append(args, params.InstructorID)
		argIdx++
	}
	if params.Level != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("c.level = $%d", argIdx))
		args = append(args, params.Level)
		argIdx++
	}
	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(c.title ILIKE $%d OR c.description ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}
	if params.MinPrice != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("c.price >= $%d", argIdx))
		args = append(args, *params.MinPrice)
		argIdx++
	}
	if params.MaxPrice != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("c.price <= $%d", argIdx))
		args = append(args, *params.MaxPrice)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := "SELECT COUNT(*)" + courseJoins + " WHERE " + whereClause
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	sortColumn := "c.created_at"
	switch params.SortBy {
	case "price":
		sortColumn = "c.price"
	case "rating":
		sortColumn = "c.average_rating"
	case "title":
		sortColumn = "c.title"
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}

	listQuery := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		courseColumns, courseJoins, whereClause, sortColumn, direction, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := make([]Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate courses: %w", err)
	}

	return courses, total, nil
}

// Update applies the non-nil course changes.
func (r *Repo) Update(ctx context.Context, params UpdateCourseParams) (Course, error) {
	query := `
		UPDATE courses
		SET title = COALESCE($2, title),
			slug = COALESCE($3, slug),
			description = COALESCE($4, description),
			category_id = COALESCE($5, category_id),
			price = COALESCE($6, price),
			level = COALESCE($7, level),
			published = COALESCE($8, published),
			updated_at = now()
		WHERE id = $1
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		params.ID, params.Title, params.Slug, params.Description, params.CategoryID, params.Price, params.Level, params.Published,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Course{}, apperr.NotFound(courseNotFoundMessage)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Course{}, apperr.Conflict("a course with this title already exists")
			case "23503":
				return Course{}, apperr.Validation("unknown category")
			}
		}
		return Course{}, fmt.Errorf("update course: %w", err)
	}

	return r.GetByID(ctx, id)
}

// UpdateThumbnailKey stores the storage key of the course thumbnail.
func (r *Repo) UpdateThumbnailKey(ctx context.Context, id uuid.UUID, key string) error {
	result, err := r.pool.Exec(ctx, `UPDATE courses SET thumbnail_key = $2, updated_at = now() WHERE id = $1`, id, key)
	if err != nil {
		return fmt.Errorf("update thumbnail key: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(courseNotFoundMessage)
	}
	return nil
}

// UpdateRating stores the recomputed review aggregate for a course.
func (r *Repo) UpdateRating(ctx context.Context, id uuid.UUID, average float64, count int) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE courses SET average_rating = $2, review_count = $3, updated_at = now() WHERE id = $1`,
		id, average, count,
	)
	if err != nil {
		return fmt.Errorf("update course rating: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(courseNotFoundMessage)
	}
	return nil
}

// Delete removes a course. Lessons, enrollments and reviews cascade at the
// schema level.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(courseNotFoundMessage)
	}
	return nil
}
