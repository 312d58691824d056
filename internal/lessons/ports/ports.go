// Package ports defines the interfaces the lessons domain needs from other
// bounded contexts.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// CourseMeta is the slice of course state the lessons domain cares about.
type CourseMeta struct {
	ID           uuid.UUID
	Slug         string
	InstructorID uuid.UUID
}

// CourseReader exposes course lookups to the lessons domain.
type CourseReader interface {
	GetCourseMeta(ctx context.Context, id uuid.UUID) (CourseMeta, error)
	GetCourseMetaBySlug(ctx context.Context, slug string) (CourseMeta, error)
}
