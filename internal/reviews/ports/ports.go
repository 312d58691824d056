// Package ports defines the interfaces the reviews domain needs from other
// bounded contexts.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// CourseRatingWriter persists the recomputed rating aggregate on a course.
type CourseRatingWriter interface {
	UpdateCourseRating(ctx context.Context, courseID uuid.UUID, average float64, count int) error
}
