// Package transport defines request and response DTOs for the payments
// module.
package transport

// CreatePaymentRequest is the payload for recording a course payment.
type CreatePaymentRequest struct {
	CourseID      string `json:"courseId" validate:"required,uuid"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=card paypal bank_transfer"`
	TransactionID string `json:"transactionId" validate:"omitempty,max=128"`
}

// UpdatePaymentRequest changes a payment's status.
type UpdatePaymentRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed failed refunded"`
}

// ListPaymentsRequest carries the payment list filters.
type ListPaymentsRequest struct {
	Status string `form:"status" validate:"omitempty,oneof=pending completed failed refunded"`
	Page   int    `form:"page" validate:"omitempty,gte=1"`
	Limit  int    `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// PaymentResponse is the representation of a payment.
type PaymentResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	CourseID      string  `json:"courseId"`
	CourseTitle   string  `json:"courseTitle"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	TransactionID string  `json:"transactionId,omitempty"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
}
