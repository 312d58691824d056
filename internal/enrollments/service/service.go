// Package service implements the enrollments business logic.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coursehub_backend/internal/enrollments/ports"
	"coursehub_backend/internal/enrollments/repository"
	"coursehub_backend/internal/enrollments/transport"
	"coursehub_backend/internal/queue"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/apperr"
	"coursehub_backend/platform/logger"
)

// Service implements enrollment management.
type Service struct {
	repo       repository.Repository
	courses    ports.CourseReader
	users      ports.UserReader
	dispatcher queue.Dispatcher
	log        *logger.Logger
}

// New creates the enrollments service.
func New(repo repository.Repository, courses ports.CourseReader, users ports.UserReader, dispatcher queue.Dispatcher, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		courses:    courses,
		users:      users,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Enroll enrolls the actor in a course and dispatches a confirmation email.
func (s *Service) Enroll(ctx context.Context, actor authz.Actor, req transport.EnrollRequest) (transport.EnrollmentResponse, error) {
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return transport.EnrollmentResponse{}, apperr.Validation("invalid course id")
	}

	course, err := s.courses.GetCourseMeta(ctx, courseID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return transport.EnrollmentResponse{}, apperr.Validation("course does not exist")
		}
		return transport.EnrollmentResponse{}, err
	}
	if !course.Published && actor.Role != authz.RoleAdmin {
		return transport.EnrollmentResponse{}, apperr.Validation("course does not exist")
	}

	enrollment, err := s.repo.Create(ctx, actor.ID, courseID)
	if err != nil {
		return transport.EnrollmentResponse{}, err
	}

	s.notifyEnrolled(ctx, actor.ID, course.Title)
	return toResponse(enrollment), nil
}

// EnrollUser creates an enrollment on behalf of a user, treating an existing
// enrollment as success. Used by the payments flow.
func (s *Service) EnrollUser(ctx context.Context, userID, courseID uuid.UUID) error {
	_, err := s.repo.Create(ctx, userID, courseID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindConflict {
			return nil
		}
		return err
	}

	course, courseErr := s.courses.GetCourseMeta(ctx, courseID)
	if courseErr != nil {
		s.log.Error("load course for enrollment email", "error", courseErr, "course_id", courseID)
		return nil
	}
	s.notifyEnrolled(ctx, userID, course.Title)
	return nil
}

// ListMine returns the actor's enrollments.
func (s *Service) ListMine(ctx context.Context, actor authz.Actor) ([]transport.EnrollmentResponse, error) {
	enrollments, err := s.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		out = append(out, toResponse(enrollment))
	}
	return out, nil
}

// Get returns a single enrollment visible to the actor.
func (s *Service) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (transport.EnrollmentResponse, error) {
	enrollment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.EnrollmentResponse{}, err
	}
	if !authz.CanModify(actor, enrollment.UserID) {
		return transport.EnrollmentResponse{}, apperr.Forbidden("not allowed to view this enrollment")
	}
	return toResponse(enrollment), nil
}

// UpdateProgress sets the actor's progress on an enrollment.
func (s *Service) UpdateProgress(ctx context.Context, actor authz.Actor, id uuid.UUID, req transport.UpdateProgressRequest) (transport.EnrollmentResponse, error) {
	enrollment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.EnrollmentResponse{}, err
	}
	if enrollment.UserID != actor.ID {
		return transport.EnrollmentResponse{}, apperr.Forbidden("not allowed to modify this enrollment")
	}

	updated, err := s.repo.UpdateProgress(ctx, id, req.Progress)
	if err != nil {
		return transport.EnrollmentResponse{}, err
	}
	return toResponse(updated), nil
}

// Unenroll removes an enrollment.
func (s *Service) Unenroll(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	enrollment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanModify(actor, enrollment.UserID) {
		return apperr.Forbidden("not allowed to remove this enrollment")
	}
	return s.repo.Delete(ctx, id)
}

// IsEnrolled reports whether a user is enrolled in a course. Satisfies the
// lesson gate's checker dependency.
func (s *Service) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	return s.repo.IsEnrolled(ctx, userID, courseID)
}

func (s *Service) notifyEnrolled(ctx context.Context, userID uuid.UUID, courseTitle string) {
	contact, err := s.users.GetUserContact(ctx, userID)
	if err != nil {
		s.log.Error("load user for enrollment email", "error", err, "user_id", userID)
		return
	}
	if err := s.dispatcher.DispatchEnrollmentEmail(ctx, queue.EnrollmentEmailPayload{
		Email:       contact.Email,
		Name:        contact.Name,
		CourseTitle: courseTitle,
	}); err != nil {
		s.log.Error("dispatch enrollment email", "error", err, "user_id", userID)
	}
}

func toResponse(enrollment repository.Enrollment) transport.EnrollmentResponse {
	resp := transport.EnrollmentResponse{
		ID:          enrollment.ID.String(),
		CourseID:    enrollment.CourseID.String(),
		CourseTitle: enrollment.CourseTitle,
		CourseSlug:  enrollment.CourseSlug,
		Progress:    enrollment.Progress,
		IsCompleted: enrollment.IsCompleted,
		EnrolledAt:  enrollment.EnrolledAt.Format(time.RFC3339),
	}
	if enrollment.CompletedAt != nil {
		resp.CompletedAt = enrollment.CompletedAt.Format(time.RFC3339)
	}
	return resp
}
