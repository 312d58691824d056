// Package transport defines request and response DTOs for the lessons module.
package transport

// CreateLessonRequest is the payload for adding a lesson to a course.
type CreateLessonRequest struct {
	Title           string `json:"title" validate:"required,min=3,max=160"`
	Content         string `json:"content" validate:"required"`
	VideoURL        string `json:"videoUrl" validate:"omitempty,url,max=500"`
	DurationMinutes int    `json:"durationMinutes" validate:"gte=0,lte=600"`
	Position        int    `json:"position" validate:"gte=0"`
	IsPreview       bool   `json:"isPreview"`
}

// UpdateLessonRequest updates a lesson's fields.
type UpdateLessonRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=3,max=160"`
	Content         *string `json:"content" validate:"omitempty"`
	VideoURL        *string `json:"videoUrl" validate:"omitempty,url,max=500"`
	DurationMinutes *int    `json:"durationMinutes" validate:"omitempty,gte=0,lte=600"`
	Position        *int    `json:"position" validate:"omitempty,gte=0"`
	IsPreview       *bool   `json:"isPreview"`
}

// LessonResponse is the representation of a lesson. Content and video URL
// are blanked for callers who are not enrolled, unless the lesson is a free
// preview.
type LessonResponse struct {
	ID              string `json:"id"`
	CourseID        string `json:"courseId"`
	Title           string `json:"title"`
	Content         string `json:"content,omitempty"`
	VideoURL        string `json:"videoUrl,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	Position        int    `json:"position"`
	IsPreview       bool   `json:"isPreview"`
	Completed       bool   `json:"completed"`
	CreatedAt       string `json:"createdAt"`
}

// LessonListResponse wraps the lesson collection with the caller's
// enrollment state.
type LessonListResponse struct {
	IsEnrolled bool             `json:"isEnrolled"`
	Lessons    []LessonResponse `json:"lessons"`
}

// LessonDetailResponse wraps a single lesson with the caller's enrollment
// state.
type LessonDetailResponse struct {
	IsEnrolled bool           `json:"isEnrolled"`
	Lesson     LessonResponse `json:"lesson"`
}
