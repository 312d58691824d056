// Package ports defines the interfaces the enrollments domain needs from
// other bounded contexts.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// CourseMeta is the slice of course state the enrollments domain cares about.
type CourseMeta struct {
	ID        uuid.UUID
	Title     string
	Slug      string
	Published bool
}

// CourseReader exposes course lookups to the enrollments domain.
type CourseReader interface {
	GetCourseMeta(ctx context.Context, id uuid.UUID) (CourseMeta, error)
}

// UserContact carries the fields needed to address a user by email.
type UserContact struct {
	Email string
	Name  string
}

// UserReader exposes user contact lookups to the enrollments domain.
type UserReader interface {
	GetUserContact(ctx context.Context, id uuid.UUID) (UserContact, error)
}
