// Package transport defines request and response DTOs for the enrollments
// module.
package transport

// EnrollRequest is the payload for enrolling in a course.
type EnrollRequest struct {
	CourseID string `json:"courseId" validate:"required,uuid"`
}

// UpdateProgressRequest updates an enrollment's progress percentage.
type UpdateProgressRequest struct {
	Progress int `json:"progress" validate:"gte=0,lte=100"`
}

// EnrollmentResponse is the representation of an enrollment.
type EnrollmentResponse struct {
	ID          string `json:"id"`
	CourseID    string `json:"courseId"`
	CourseTitle string `json:"courseTitle"`
	CourseSlug  string `json:"courseSlug"`
	Progress    int    `json:"progress"`
	IsCompleted bool   `json:"isCompleted"`
	EnrolledAt  string `json:"enrolledAt"`
	CompletedAt string `json:"completedAt,omitempty"`
}
