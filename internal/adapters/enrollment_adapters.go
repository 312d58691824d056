package adapters

import (
	"context"

	"github.com/google/uuid"

	accountsrepo "coursehub_backend/internal/accounts/repository"
	"coursehub_backend/internal/enrollments/gate"
	enrollports "coursehub_backend/internal/enrollments/ports"
	enrollrepo "coursehub_backend/internal/enrollments/repository"
	enrollservice "coursehub_backend/internal/enrollments/service"
	lessonservice "coursehub_backend/internal/lessons/service"
	paymentports "coursehub_backend/internal/payments/ports"
)

// EnrollmentStateAdapter exposes enrollment lookups and progress updates to
// the gate middleware and the lessons domain.
type EnrollmentStateAdapter struct {
	enrollments enrollrepo.Repository
}

// NewEnrollmentStateAdapter creates the adapter.
func NewEnrollmentStateAdapter(enrollments enrollrepo.Repository) *EnrollmentStateAdapter {
	return &EnrollmentStateAdapter{enrollments: enrollments}
}

// IsEnrolled reports whether the user is enrolled in the course.
func (a *EnrollmentStateAdapter) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	return a.enrollments.IsEnrolled(ctx, userID, courseID)
}

// UpdateProgress sets the enrollment's progress percentage.
func (a *EnrollmentStateAdapter) UpdateProgress(ctx context.Context, userID, courseID uuid.UUID, percent int) error {
	return a.enrollments.UpdateProgressByCourse(ctx, userID, courseID, percent)
}

var (
	_ gate.EnrollmentChecker       = (*EnrollmentStateAdapter)(nil)
	_ lessonservice.ProgressWriter = (*EnrollmentStateAdapter)(nil)
)

// PaymentEnroller creates enrollments for completed payments through the
// enrollments service.
type PaymentEnroller struct {
	enrollments *enrollservice.Service
}

// NewPaymentEnroller creates the enroller adapter.
func NewPaymentEnroller(enrollments *enrollservice.Service) *PaymentEnroller {
	return &PaymentEnroller{enrollments: enrollments}
}

// EnrollUser enrolls the user, treating an existing enrollment as success.
func (a *PaymentEnroller) EnrollUser(ctx context.Context, userID, courseID uuid.UUID) error {
	return a.enrollments.EnrollUser(ctx, userID, courseID)
}

var _ paymentports.Enroller = (*PaymentEnroller)(nil)

// AccountContactProvider exposes user contact details to the enrollments
// domain for notification emails.
type AccountContactProvider struct {
	accounts accountsrepo.Repository
}

// NewAccountContactProvider creates the provider adapter.
func NewAccountContactProvider(accounts accountsrepo.Repository) *AccountContactProvider {
	return &AccountContactProvider{accounts: accounts}
}

// GetUserContact looks up a user's name and email.
func (p *AccountContactProvider) GetUserContact(ctx context.Context, id uuid.UUID) (enrollports.UserContact, error) {
	user, err := p.accounts.GetByID(ctx, id)
	if err != nil {
		return enrollports.UserContact{}, err
	}
	return enrollports.UserContact{
		Email: user.Email,
		Name:  user.Name,
	}, nil
}

var _ enrollports.UserReader = (*AccountContactProvider)(nil)
