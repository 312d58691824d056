// Package transport defines request and response DTOs for the courses module.
package transport

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=160"`
	Description string  `json:"description" validate:"required,min=10,max=5000"`
	CategoryID  string  `json:"categoryId" validate:"required,uuid"`
	Price       float64 `json:"price" validate:"gte=0"`
	Level       string  `json:"level" validate:"required,oneof=beginner intermediate advanced"`
}

// UpdateCourseRequest updates a course's fields.
type UpdateCourseRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=3,max=160"`
	Description *string  `json:"description" validate:"omitempty,min=10,max=5000"`
	CategoryID  *string  `json:"categoryId" validate:"omitempty,uuid"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Level       *string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Published   *bool    `json:"published"`
}

// ListCoursesRequest filters the public course listing.
type ListCoursesRequest struct {
	Category string   `form:"category" validate:"omitempty,max=80"`
	Level    string   `form:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Search   string   `form:"search" validate:"omitempty,max=160"`
	MinPrice *float64 `form:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" validate:"omitempty,gte=0"`
	SortBy   string   `form:"sortBy" validate:"omitempty,oneof=createdAt price rating title"`
	SortDir  string   `form:"sortDir" validate:"omitempty,oneof=asc desc"`
	Page     int      `form:"page" validate:"omitempty,min=1"`
	Limit    int      `form:"limit" validate:"omitempty,min=1,max=100"`
}

// SearchCoursesRequest carries the free-text course search parameters.
type SearchCoursesRequest struct {
	Q        string   `form:"q" validate:"required,min=2,max=160"`
	Category string   `form:"category" validate:"omitempty,max=80"`
	Level    string   `form:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	MinPrice *float64 `form:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" validate:"omitempty,gte=0"`
	Page     int      `form:"page" validate:"omitempty,min=1"`
	Limit    int      `form:"limit" validate:"omitempty,min=1,max=100"`
}

// CourseResponse is the public representation of a course.
type CourseResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	Description     string  `json:"description"`
	CategoryID      string  `json:"categoryId"`
	CategoryName    string  `json:"categoryName,omitempty"`
	InstructorID    string  `json:"instructorId"`
	InstructorName  string  `json:"instructorName,omitempty"`
	Price           float64 `json:"price"`
	Level           string  `json:"level"`
	Published       bool    `json:"published"`
	ThumbnailURL    string  `json:"thumbnailUrl,omitempty"`
	AverageRating   float64 `json:"averageRating"`
	ReviewCount     int     `json:"reviewCount"`
	EnrollmentCount int     `json:"enrollmentCount"`
	TotalLessons    int     `json:"totalLessons"`
	CreatedAt       string  `json:"createdAt"`
}
