// Package service implements the reviews business logic, including the
// course rating aggregate.
package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"coursehub_backend/internal/reviews/ports"
	"coursehub_backend/internal/reviews/repository"
	"coursehub_backend/internal/reviews/transport"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/apperr"
	"coursehub_backend/platform/logger"
)

// Service implements review management.
type Service struct {
	repo    repository.Repository
	ratings ports.CourseRatingWriter
	log     *logger.Logger
}

// New creates the reviews service.
func New(repo repository.Repository, ratings ports.CourseRatingWriter, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		ratings: ratings,
		log:     log,
	}
}

// ListForCourse returns a course's reviews.
func (s *Service) ListForCourse(ctx context.Context, courseID uuid.UUID) ([]transport.ReviewResponse, error) {
	reviews, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toResponse(review))
	}
	return out, nil
}

// Get returns a single review.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.ReviewResponse, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ReviewResponse{}, err
	}
	return toResponse(review), nil
}

// Create adds a review for a course the actor is enrolled in and refreshes
// the course rating aggregate.
func (s *Service) Create(ctx context.Context, actor authz.Actor, courseID uuid.UUID, isEnrolled bool, req transport.CreateReviewRequest) (transport.ReviewResponse, error) {
	if !isEnrolled {
		return transport.ReviewResponse{}, apperr.Validation("must be enrolled to review this course")
	}

	review, err := s.repo.Create(ctx, repository.CreateReviewParams{
		CourseID: courseID,
		UserID:   actor.ID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return transport.ReviewResponse{}, err
	}

	if err := s.refreshCourseRating(ctx, courseID); err != nil {
		return transport.ReviewResponse{}, err
	}
	return toResponse(review), nil
}

// Update applies changes to the actor's own review and refreshes the
// aggregate.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, req transport.UpdateReviewRequest) (transport.ReviewResponse, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ReviewResponse{}, err
	}
	if review.UserID != actor.ID {
		return transport.ReviewResponse{}, apperr.Forbidden("not allowed to modify this review")
	}

	updated, err := s.repo.Update(ctx, repository.UpdateReviewParams{
		ID:      id,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return transport.ReviewResponse{}, err
	}

	if err := s.refreshCourseRating(ctx, updated.CourseID); err != nil {
		return transport.ReviewResponse{}, err
	}
	return toResponse(updated), nil
}

// Delete removes a review (author or admin) and refreshes the aggregate.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanModify(actor, review.UserID) {
		return apperr.Forbidden("not allowed to delete this review")
	}

	courseID, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	return s.refreshCourseRating(ctx, courseID)
}

// refreshCourseRating recomputes the course's review count and mean rating
// and writes the aggregate through the rating port. The review mutation that
// triggered it has already committed; a failure here surfaces to the caller
// without undoing the review.
func (s *Service) refreshCourseRating(ctx context.Context, courseID uuid.UUID) error {
	average, count, err := s.repo.AggregateForCourse(ctx, courseID)
	if err != nil {
		s.log.AggregateError(courseID.String(), err)
		return apperr.Wrap(apperr.KindInternal, "failed to refresh course rating", err)
	}

	rounded := math.Round(average*10) / 10
	if count == 0 {
		rounded = 0
	}

	if err := s.ratings.UpdateCourseRating(ctx, courseID, rounded, count); err != nil {
		s.log.AggregateError(courseID.String(), err)
		return apperr.Wrap(apperr.KindInternal, "failed to refresh course rating", err)
	}
	return nil
}

func toResponse(review repository.Review) transport.ReviewResponse {
	return transport.ReviewResponse{
		ID:        review.ID.String(),
		CourseID:  review.CourseID.String(),
		UserID:    review.UserID.String(),
		UserName:  review.UserName,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	}
}
