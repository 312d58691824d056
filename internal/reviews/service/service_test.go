package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"coursehub_backend/internal/reviews/repository"
	"coursehub_backend/internal/reviews/transport"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/apperr"
	"coursehub_backend/platform/logger"
)

type fakeRepo struct {
	reviews map[uuid.UUID]repository.Review

	average      float64
	count        int
	aggregateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reviews: map[uuid.UUID]repository.Review{}}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateReviewParams) (repository.Review, error) {
	review := repository.Review{
		ID:       uuid.New(),
		CourseID: params.CourseID,
		UserID:   params.UserID,
		Rating:   params.Rating,
		Comment:  params.Comment,
	}
	f.reviews[review.ID] = review
	return review, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Review, error) {
	review, ok := f.reviews[id]
	if !ok {
		return repository.Review{}, apperr.NotFound("review not found")
	}
	return review, nil
}

func (f *fakeRepo) ListByCourse(_ context.Context, courseID uuid.UUID) ([]repository.Review, error) {
	var out []repository.Review
	for _, review := range f.reviews {
		if review.CourseID == courseID {
			out = append(out, review)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateReviewParams) (repository.Review, error) {
	review, ok := f.reviews[params.ID]
	if !ok {
		return repository.Review{}, apperr.NotFound("review not found")
	}
	if params.Rating != nil {
		review.Rating = *params.Rating
	}
	if params.Comment != nil {
		review.Comment = *params.Comment
	}
	f.reviews[params.ID] = review
	return review, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	review, ok := f.reviews[id]
	if !ok {
		return uuid.Nil, apperr.NotFound("review not found")
	}
	delete(f.reviews, id)
	return review.CourseID, nil
}

func (f *fakeRepo) AggregateForCourse(_ context.Context, _ uuid.UUID) (float64, int, error) {
	if f.aggregateErr != nil {
		return 0, 0, f.aggregateErr
	}
	return f.average, f.count, nil
}

type fakeRatingWriter struct {
	calls    int
	courseID uuid.UUID
	average  float64
	count    int
	err      error
}

func (f *fakeRatingWriter) UpdateCourseRating(_ context.Context, courseID uuid.UUID, average float64, count int) error {
	f.calls++
	f.courseID = courseID
	f.average = average
	f.count = count
	return f.err
}

func newTestService(repo *fakeRepo, writer *fakeRatingWriter) *Service {
	return New(repo, writer, logger.New("test"))
}

func TestService_Create_RequiresEnrollment(t *testing.T) {
	repo := newFakeRepo()
	writer := &fakeRatingWriter{}
	svc := newTestService(repo, writer)

	actor := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	_, err := svc.Create(context.Background(), actor, uuid.New(), false, transport.CreateReviewRequest{Rating: 5})
	if err == nil {
		t.Fatal("expected error for non-enrolled reviewer")
	}
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.reviews) != 0 {
		t.Fatalf("expected no review persisted, got %d", len(repo.reviews))
	}
	if writer.calls != 0 {
		t.Fatalf("expected no rating refresh, got %d calls", writer.calls)
	}
}

func TestService_Create_RefreshesCourseRating(t *testing.T) {
	repo := newFakeRepo()
	repo.average = 4.25
	repo.count = 4
	writer := &fakeRatingWriter{}
	svc := newTestService(repo, writer)

	courseID := uuid.New()
	actor := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	review, err := svc.Create(context.Background(), actor, courseID, true, transport.CreateReviewRequest{Rating: 4, Comment: "solid"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if review.Rating != 4 {
		t.Errorf("expected rating 4, got %d", review.Rating)
	}

	if writer.calls != 1 {
		t.Fatalf("expected one rating refresh, got %d", writer.calls)
	}
	if writer.courseID != courseID {
		t.Errorf("rating written for wrong course: %s", writer.courseID)
	}
	if writer.average != 4.3 {
		t.Errorf("expected average rounded to 4.3, got %v", writer.average)
	}
	if writer.count != 4 {
		t.Errorf("expected count 4, got %d", writer.count)
	}
}

func TestService_Create_AggregateFailureKeepsReview(t *testing.T) {
	repo := newFakeRepo()
	repo.aggregateErr = errors.New("connection reset")
	writer := &fakeRatingWriter{}
	svc := newTestService(repo, writer)

	actor := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	_, err := svc.Create(context.Background(), actor, uuid.New(), true, transport.CreateReviewRequest{Rating: 3})
	if err == nil {
		t.Fatal("expected error when aggregate fails")
	}
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if len(repo.reviews) != 1 {
		t.Fatalf("expected review to remain persisted, got %d", len(repo.reviews))
	}
}

func TestService_RatingResetsWhenNoReviewsRemain(t *testing.T) {
	repo := newFakeRepo()
	repo.average = 0
	repo.count = 0
	writer := &fakeRatingWriter{}
	svc := newTestService(repo, writer)

	author := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	review, err := repo.Create(context.Background(), repository.CreateReviewParams{
		CourseID: uuid.New(),
		UserID:   author.ID,
		Rating:   5,
	})
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}

	if err := svc.Delete(context.Background(), author, review.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if writer.calls != 1 {
		t.Fatalf("expected one rating refresh, got %d", writer.calls)
	}
	if writer.average != 0 || writer.count != 0 {
		t.Errorf("expected zeroed aggregate, got average=%v count=%d", writer.average, writer.count)
	}
}

func TestService_Update_OnlyAuthor(t *testing.T) {
	repo := newFakeRepo()
	repo.count = 1
	repo.average = 2
	writer := &fakeRatingWriter{}
	svc := newTestService(repo, writer)

	author := uuid.New()
	review, err := repo.Create(context.Background(), repository.CreateReviewParams{
		CourseID: uuid.New(),
		UserID:   author,
		Rating:   2,
	})
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}

	rating := 5
	other := authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}
	_, err = svc.Update(context.Background(), other, review.ID, transport.UpdateReviewRequest{Rating: &rating})
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden for non-author update, got %v", err)
	}

	updated, err := svc.Update(context.Background(), authz.Actor{ID: author, Role: authz.RoleStudent}, review.ID, transport.UpdateReviewRequest{Rating: &rating})
	if err != nil {
		t.Fatalf("author update failed: %v", err)
	}
	if updated.Rating != 5 {
		t.Errorf("expected rating 5, got %d", updated.Rating)
	}
}

func TestService_Delete_AdminMayRemoveAnyReview(t *testing.T) {
	repo := newFakeRepo()
	writer := &fakeRatingWriter{}
	svc := newTestService(repo, writer)

	review, err := repo.Create(context.Background(), repository.CreateReviewParams{
		CourseID: uuid.New(),
		UserID:   uuid.New(),
		Rating:   1,
	})
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}

	stranger := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	if err := svc.Delete(context.Background(), stranger, review.ID); apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden for stranger delete, got %v", err)
	}

	admin := authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}
	if err := svc.Delete(context.Background(), admin, review.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if len(repo.reviews) != 0 {
		t.Fatalf("expected review removed, got %d remaining", len(repo.reviews))
	}
}
