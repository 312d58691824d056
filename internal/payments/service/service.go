// Package service implements the payments business logic.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coursehub_backend/internal/payments/ports"
	"coursehub_backend/internal/payments/repository"
	"coursehub_backend/internal/payments/transport"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/apperr"
	"coursehub_backend/platform/logger"
)

// Service implements payment recording and the payment-to-enrollment flow.
type Service struct {
	repo     repository.Repository
	courses  ports.CourseReader
	enroller ports.Enroller
	log      *logger.Logger
}

// New creates the payments service.
func New(repo repository.Repository, courses ports.CourseReader, enroller ports.Enroller, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		courses:  courses,
		enroller: enroller,
		log:      log,
	}
}

// Create records a pending payment for a course. The amount is taken from
// the course, never from the client.
func (s *Service) Create(ctx context.Context, actor authz.Actor, req transport.CreatePaymentRequest) (transport.PaymentResponse, error) {
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return transport.PaymentResponse{}, apperr.Validation("invalid course id")
	}

	course, err := s.courses.GetCourseMeta(ctx, courseID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return transport.PaymentResponse{}, apperr.Validation("course does not exist")
		}
		return transport.PaymentResponse{}, err
	}
	if !course.Published {
		return transport.PaymentResponse{}, apperr.Validation("course does not exist")
	}
	if course.Price <= 0 {
		return transport.PaymentResponse{}, apperr.Validation("course is free, enroll directly")
	}

	payment, err := s.repo.Create(ctx, repository.CreatePaymentParams{
		UserID:        actor.ID,
		CourseID:      courseID,
		Amount:        course.Price,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		return transport.PaymentResponse{}, err
	}
	return toResponse(payment), nil
}

// List returns payments. Non-admin callers only see their own.
func (s *Service) List(ctx context.Context, actor authz.Actor, req transport.ListPaymentsRequest) ([]transport.PaymentResponse, int, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 25
	}

	params := repository.ListPaymentsParams{
		Status: req.Status,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if actor.Role != authz.RoleAdmin {
		userID := actor.ID
		params.UserID = &userID
	}

	payments, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	out := make([]transport.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		out = append(out, toResponse(payment))
	}
	return out, total, nil
}

// Get returns a single payment visible to the actor.
func (s *Service) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (transport.PaymentResponse, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.PaymentResponse{}, err
	}
	if !authz.CanModify(actor, payment.UserID) {
		return transport.PaymentResponse{}, apperr.Forbidden("not allowed to view this payment")
	}
	return toResponse(payment), nil
}

// UpdateStatus changes a payment's status. The first transition to
// completed enrolls the payer in the course.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdatePaymentRequest) (transport.PaymentResponse, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.PaymentResponse{}, err
	}

	wasCompleted := payment.Status == repository.StatusCompleted
	updated, err := s.repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return transport.PaymentResponse{}, err
	}

	if updated.Status == repository.StatusCompleted && !wasCompleted {
		if err := s.enroller.EnrollUser(ctx, updated.UserID, updated.CourseID); err != nil {
			s.log.Error("enroll after payment", "error", err, "payment_id", updated.ID)
			return transport.PaymentResponse{}, apperr.Wrap(apperr.KindInternal, "payment updated but enrollment failed", err)
		}
	}
	return toResponse(updated), nil
}

// Delete removes a payment record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func toResponse(payment repository.Payment) transport.PaymentResponse {
	return transport.PaymentResponse{
		ID:            payment.ID.String(),
		UserID:        payment.UserID.String(),
		CourseID:      payment.CourseID.String(),
		CourseTitle:   payment.CourseTitle,
		Amount:        payment.Amount,
		PaymentMethod: payment.PaymentMethod,
		TransactionID: payment.TransactionID,
		Status:        payment.Status,
		CreatedAt:     payment.CreatedAt.Format(time.RFC3339),
	}
}
