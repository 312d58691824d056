package adapters

import (
	"context"

	"github.com/google/uuid"

	coursesrepo "coursehub_backend/internal/courses/repository"
	enrollports "coursehub_backend/internal/enrollments/ports"
	lessonports "coursehub_backend/internal/lessons/ports"
	paymentports "coursehub_backend/internal/payments/ports"
)

// LessonCourseProvider exposes course metadata to the lessons domain.
type LessonCourseProvider struct {
	courses coursesrepo.Repository
}

// NewLessonCourseProvider creates the provider adapter.
func NewLessonCourseProvider(courses coursesrepo.Repository) *LessonCourseProvider {
	return &LessonCourseProvider{courses: courses}
}

// GetCourseMeta looks up a course by id.
func (p *LessonCourseProvider) GetCourseMeta(ctx context.Context, id uuid.UUID) (lessonports.CourseMeta, error) {
	course, err := p.courses.GetByID(ctx, id)
	if err != nil {
		return lessonports.CourseMeta{}, err
	}
	return lessonCourseMeta(course), nil
}

// GetCourseMetaBySlug looks up a course by slug.
func (p *LessonCourseProvider) GetCourseMetaBySlug(ctx context.Context, slug string) (lessonports.CourseMeta, error) {
	course, err := p.courses.GetBySlug(ctx, slug)
	if err != nil {
		return lessonports.CourseMeta{}, err
	}
	return lessonCourseMeta(course), nil
}

func lessonCourseMeta(course coursesrepo.Course) lessonports.CourseMeta {
	return lessonports.CourseMeta{
		ID:           course.ID,
		Slug:         course.Slug,
		InstructorID: course.InstructorID,
	}
}

var _ lessonports.CourseReader = (*LessonCourseProvider)(nil)

// EnrollmentCourseProvider exposes course metadata to the enrollments domain.
type EnrollmentCourseProvider struct {
	courses coursesrepo.Repository
}

// NewEnrollmentCourseProvider creates the provider adapter.
func NewEnrollmentCourseProvider(courses coursesrepo.Repository) *EnrollmentCourseProvider {
	return &EnrollmentCourseProvider{courses: courses}
}

// GetCourseMeta looks up a course by id.
func (p *EnrollmentCourseProvider) GetCourseMeta(ctx context.Context, id uuid.UUID) (enrollports.CourseMeta, error) {
	course, err := p.courses.GetByID(ctx, id)
	if err != nil {
		return enrollports.CourseMeta{}, err
	}
	return enrollports.CourseMeta{
		ID:        course.ID,
		Title:     course.Title,
		Slug:      course.Slug,
		Published: course.Published,
	}, nil
}

var _ enrollports.CourseReader = (*EnrollmentCourseProvider)(nil)

// PaymentCourseProvider exposes course metadata to the payments domain.
type PaymentCourseProvider struct {
	courses coursesrepo.Repository
}

// NewPaymentCourseProvider creates the provider adapter.
func NewPaymentCourseProvider(courses coursesrepo.Repository) *PaymentCourseProvider {
	return &PaymentCourseProvider{courses: courses}
}

// GetCourseMeta looks up a course by id.
func (p *PaymentCourseProvider) GetCourseMeta(ctx context.Context, id uuid.UUID) (paymentports.CourseMeta, error) {
	course, err := p.courses.GetByID(ctx, id)
	if err != nil {
		return paymentports.CourseMeta{}, err
	}
	return paymentports.CourseMeta{
		ID:        course.ID,
		Title:     course.Title,
		Price:     course.Price,
		Published: course.Published,
	}, nil
}

var _ paymentports.CourseReader = (*PaymentCourseProvider)(nil)
