// Package transport defines request and response DTOs for the reviews module.
package transport

// CreateReviewRequest is the payload for reviewing a course.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// UpdateReviewRequest updates a review's rating or comment.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// ReviewResponse is the representation of a review.
type ReviewResponse struct {
	ID        string `json:"id"`
	CourseID  string `json:"courseId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"createdAt"`
}
