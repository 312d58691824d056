// Package ports defines the interfaces the payments domain needs from other
// bounded contexts.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// CourseMeta is the slice of course state the payments domain cares about.
type CourseMeta struct {
	ID        uuid.UUID
	Title     string
	Price     float64
	Published bool
}

// CourseReader exposes course lookups to the payments domain.
type CourseReader interface {
	GetCourseMeta(ctx context.Context, id uuid.UUID) (CourseMeta, error)
}

// Enroller creates an enrollment when a payment completes. An existing
// enrollment is not an error.
type Enroller interface {
	EnrollUser(ctx context.Context, userID, courseID uuid.UUID) error
}
