// Package gate provides the enrollment check middleware used by routes
// nested under a course slug.
package gate

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursehub_backend/platform/apperr"
	"coursehub_backend/platform/httpkit"
)

const (
	// ContextCourseIDKey is the gin context key for the resolved course id.
	ContextCourseIDKey = "courseID"
	// ContextEnrolledKey is the gin context key for the caller's enrollment state.
	ContextEnrolledKey = "isEnrolled"
)

// CourseResolver resolves a course slug to its id.
type CourseResolver interface {
	ResolveCourseID(ctx context.Context, slug string) (uuid.UUID, error)
}

// EnrollmentChecker reports whether a user is enrolled in a course.
type EnrollmentChecker interface {
	IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

// CheckEnrollment resolves the course from the :slug route param and records
// whether the caller is enrolled. An unknown slug is a client error, not a
// missing resource: the caller built the URL from a course they believed
// exists. Anonymous callers pass through as not enrolled.
func CheckEnrollment(courses CourseResolver, enrollments EnrollmentChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, err := courses.ResolveCourseID(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if apperr.GetKind(err) == apperr.KindNotFound {
				c.AbortWithStatusJSON(http.StatusBadRequest, httpkit.Response{
					Success: false,
					Message: "invalid course",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, httpkit.Response{
				Success: false,
				Message: "internal server error",
			})
			return
		}
		c.Set(ContextCourseIDKey, courseID)

		identity := httpkit.GetIdentity(c)
		if !identity.IsAuthenticated() {
			c.Set(ContextEnrolledKey, false)
			c.Next()
			return
		}

		enrolled, err := enrollments.IsEnrolled(c.Request.Context(), identity.UserID(), courseID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, httpkit.Response{
				Success: false,
				Message: "internal server error",
			})
			return
		}

		c.Set(ContextEnrolledKey, enrolled)
		c.Next()
	}
}

// CourseID returns the course id resolved by CheckEnrollment.
func CourseID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextCourseIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// IsEnrolled returns the enrollment state recorded by CheckEnrollment.
func IsEnrolled(c *gin.Context) bool {
	value, ok := c.Get(ContextEnrolledKey)
	if !ok {
		return false
	}
	enrolled, _ := value.(bool)
	return enrolled
}
