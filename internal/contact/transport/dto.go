// Package transport defines request and response DTOs for the contact
// module.
package transport

// ContactRequest is the payload for a public contact form submission.
type ContactRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Message  string `json:"message" validate:"required,min=10,max=2000"`
}

// ListQueriesRequest carries the admin list filters.
type ListQueriesRequest struct {
	Page  int `form:"page" validate:"omitempty,gte=1"`
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// QueryResponse is the representation of a stored contact query.
type QueryResponse struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}
