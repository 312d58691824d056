package adapters

import (
	"context"

	"github.com/google/uuid"

	coursesrepo "coursehub_backend/internal/courses/repository"
	"coursehub_backend/internal/enrollments/gate"
)

// CourseSlugResolver adapts the courses repository to the enrollment gate's
// slug resolution dependency.
type CourseSlugResolver struct {
	courses coursesrepo.Repository
}

// NewCourseSlugResolver creates the resolver adapter.
func NewCourseSlugResolver(courses coursesrepo.Repository) *CourseSlugResolver {
	return &CourseSlugResolver{courses: courses}
}

// ResolveCourseID resolves a course slug to its id.
func (r *CourseSlugResolver) ResolveCourseID(ctx context.Context, slug string) (uuid.UUID, error) {
	course, err := r.courses.GetBySlug(ctx, slug)
	if err != nil {
		return uuid.Nil, err
	}
	return course.ID, nil
}

var _ gate.CourseResolver = (*CourseSlugResolver)(nil)
