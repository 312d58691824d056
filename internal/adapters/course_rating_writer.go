package adapters

import (
	"context"

	"github.com/google/uuid"

	coursesrepo "coursehub_backend/internal/courses/repository"
	reviewports "coursehub_backend/internal/reviews/ports"
)

// CourseRatingAdapter writes review aggregates through the courses
// repository.
type CourseRatingAdapter struct {
	courses coursesrepo.Repository
}

// NewCourseRatingAdapter creates the rating writer adapter.
func NewCourseRatingAdapter(courses coursesrepo.Repository) *CourseRatingAdapter {
	return &CourseRatingAdapter{courses: courses}
}

// UpdateCourseRating persists the recomputed rating aggregate.
func (a *CourseRatingAdapter) UpdateCourseRating(ctx context.Context, courseID uuid.UUID, average float64, count int) error {
	return a.courses.UpdateRating(ctx, courseID, average, count)
}

var _ reviewports.CourseRatingWriter = (*CourseRatingAdapter)(nil)
