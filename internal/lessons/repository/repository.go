// Package repository implements persistence for lessons and lesson progress.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursehub_backend/platform/apperr"
)

const lessonNotFoundMessage = "lesson not found"

// Lesson is the persistence model for a lesson.
type Lesson struct {
	ID              uuid.UUID
	CourseID        uuid.UUID
	Title           string
	Content         string
	VideoURL        string
	DurationMinutes int
	Position        int
	IsPreview       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateLessonParams carries the fields for a new lesson row.
type CreateLessonParams struct {
	CourseID        uuid.UUID
	Title           string
	Content         string
	VideoURL        string
	DurationMinutes int
	Position        int
	IsPreview       bool
}

// UpdateLessonParams carries the optional lesson updates.
type UpdateLessonParams struct {
	ID              uuid.UUID
	Title           *string
	Content         *string
	VideoURL        *string
	DurationMinutes *int
	Position        *int
	IsPreview       *bool
}

// Repository defines the persistence operations for lessons.
type Repository interface {
	Create(ctx context.Context, params CreateLessonParams) (Lesson, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lesson, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]Lesson, error)
	Update(ctx context.Context, params UpdateLessonParams) (Lesson, error)
	Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	MarkCompleted(ctx context.Context, userID, lessonID uuid.UUID) error
	CompletedLessonIDs(ctx context.Context, userID, courseID uuid.UUID) (map[uuid.UUID]bool, error)
	CountCompleted(ctx context.Context, userID, courseID uuid.UUID) (completed int, total int, err error)
}

// Repo implements Repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lessons repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const lessonColumns = `id, course_id, title, content, video_url, duration_minutes, position, is_preview, created_at, updated_at`

func scanLesson(row pgx.Row) (Lesson, error) {
	var l Lesson
	err := row.Scan(&l.ID, &l.CourseID, &l.Title, &l.Content, &l.VideoURL, &l.DurationMinutes, &l.Position, &l.IsPreview, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// Create inserts a lesson and bumps the course lesson counter in the same
// transaction.
func (r *Repo) Create(ctx context.Context, params CreateLessonParams) (Lesson, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lesson{}, fmt.Errorf("begin create lesson: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO lessons (course_id, title, content, video_url, duration_minutes, position, is_preview)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + lessonColumns

	lesson, err := scanLesson(tx.QueryRow(ctx, query,
		params.CourseID, params.Title, params.Content, params.VideoURL, params.DurationMinutes, params.Position, params.IsPreview,
	))
	if err != nil {
		return Lesson{}, fmt.Errorf("create lesson: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE courses SET total_lessons = total_lessons + 1, updated_at = now() WHERE id = $1`,
		params.CourseID,
	); err != nil {
		return Lesson{}, fmt.Errorf("bump lesson count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Lesson{}, fmt.Errorf("commit create lesson: %w", err)
	}
	return lesson, nil
}

// GetByID retrieves a lesson by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`

	lesson, err := scanLesson(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lesson{}, apperr.NotFound(lessonNotFoundMessage)
		}
		return Lesson{}, fmt.Errorf("get lesson by id: %w", err)
	}
	return lesson, nil
}

// ListByCourse returns a course's lessons in position order.
func (r *Repo) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE course_id = $1 ORDER BY position ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	lessons := make([]Lesson, 0)
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return lessons, nil
}

// Update applies the non-nil lesson changes.
func (r *Repo) Update(ctx context.Context, params UpdateLessonParams) (Lesson, error) {
	query := `
		UPDATE lessons
		SET title = COALESCE($2, title),
			content = COALESCE($3, content),
			video_url = COALESCE($4, video_url),
			duration_minutes = COALESCE($5, duration_minutes),
			position = COALESCE($6, position),
			is_preview = COALESCE($7, is_preview),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + lessonColumns

	lesson, err := scanLesson(r.pool.QueryRow(ctx, query,
		params.ID, params.Title, params.Content, params.VideoURL, params.DurationMinutes, params.Position, params.IsPreview,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lesson{}, apperr.NotFound(lessonNotFoundMessage)
		}
		return Lesson{}, fmt.Errorf("update lesson: %w", err)
	}
	return lesson, nil
}

// Delete removes a lesson and decrements the course lesson counter in the
// same transaction. Returns the course id the lesson belonged to.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin delete lesson: %w", err)
	}
	defer tx.Rollback(ctx)

	var courseID uuid.UUID
	err = tx.QueryRow(ctx, `DELETE FROM lessons WHERE id = $1 RETURNING course_id`, id).Scan(&courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperr.NotFound(lessonNotFoundMessage)
		}
		return uuid.Nil, fmt.Errorf("delete lesson: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE courses SET total_lessons = GREATEST(total_lessons - 1, 0), updated_at = now() WHERE id = $1`,
		courseID,
	); err != nil {
		return uuid.Nil, fmt.Errorf("drop lesson count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit delete lesson: %w", err)
	}
	return courseID, nil
}

// MarkCompleted upserts a progress row for the user and lesson.
func (r *Repo) MarkCompleted(ctx context.Context, userID, lessonID uuid.UUID) error {
	query := `
		INSERT INTO lesson_progress (user_id, lesson_id, completed_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, lesson_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, userID, lessonID); err != nil {
		return fmt.Errorf("mark lesson completed: %w", err)
	}
	return nil
}

// CompletedLessonIDs returns the set of lessons the user has completed in a
// course.
func (r *Repo) CompletedLessonIDs(ctx context.Context, userID, courseID uuid.UUID) (map[uuid.UUID]bool, error) {
	query := `
		SELECT lp.lesson_id
		FROM lesson_progress lp
		JOIN lessons l ON l.id = lp.lesson_id
		WHERE lp.user_id = $1 AND l.course_id = $2`

	rows, err := r.pool.Query(ctx, query, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("completed lesson ids: %w", err)
	}
	defer rows.Close()

	completed := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan lesson id: %w", err)
		}
		completed[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lesson ids: %w", err)
	}

	return completed, nil
}

// CountCompleted returns the user's completed lesson count alongside the
// course's lesson total.
func (r *Repo) CountCompleted(ctx context.Context, userID, courseID uuid.UUID) (int, int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM lesson_progress lp
				JOIN lessons l ON l.id = lp.lesson_id
				WHERE lp.user_id = $1 AND l.course_id = $2),
			(SELECT COUNT(*) FROM lessons WHERE course_id = $2)`

	var completed, total int
	if err := r.pool.QueryRow(ctx, query, userID, courseID).Scan(&completed, &total); err != nil {
		return 0, 0, fmt.Errorf("count completed lessons: %w", err)
	}
	return completed, total, nil
}
