package service

import (
	"context"
	"testing"
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

type fakeEnrollmentRepo struct {
	enrollments map[uuid.UUID]repository.Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: map[uuid.UUID]repository.Enrollment{}}
}

func (f *fakeEnrollmentRepo) Create(_ context.Context, userID, courseID uuid.UUID) (repository.Enrollment, error) {
	for _, enrollment := range f.enrollments {
		if enrollment.UserID == userID && enrollment.CourseID == courseID {
			return repository.Enrollment{}, apperr.Conflict("already enrolled in this course")
		}
	}
	enrollment := repository.Enrollment{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	f.enrollments[enrollment.ID] = enrollment
	return enrollment, nil
}

func (f *fakeEnrollmentRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Enrollment, error) {
	enrollment, ok := f.enrollments[id]
	if !ok {
		return repository.Enrollment{}, apperr.NotFound("enrollment not found")
	}
	return enrollment, nil
}

func (f *fakeEnrollmentRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]repository.Enrollment, error) {
	var out []repository.Enrollment
	for _, enrollment := range f.enrollments {
		if enrollment.UserID == userID {
			out = append(out, enrollment)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) UpdateProgress(_ context.Context, id uuid.UUID, progress int) (repository.Enrollment, error) {
	enrollment, ok := f.enrollments[id]
	if !ok {
		return repository.Enrollment{}, apperr.NotFound("enrollment not found")
	}
	enrollment.Progress = progress
	enrollment.IsCompleted = progress >= 100
	if enrollment.IsCompleted && enrollment.CompletedAt == nil {
		now := time.Now()
		enrollment.CompletedAt = &now
	}
	if !enrollment.IsCompleted {
		enrollment.CompletedAt = nil
	}
	f.enrollments[id] = enrollment
	return enrollment, nil
}

func (f *fakeEnrollmentRepo) UpdateProgressByCourse(ctx context.Context, userID, courseID uuid.UUID, progress int) error {
	for id, enrollment := range f.enrollments {
		if enrollment.UserID == userID && enrollment.CourseID == courseID {
			_, err := f.UpdateProgress(ctx, id, progress)
			return err
		}
	}
	return apperr.NotFound("enrollment not found")
}

func (f *fakeEnrollmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.enrollments[id]; !ok {
		return apperr.NotFound("enrollment not found")
	}
	delete(f.enrollments, id)
	return nil
}

func (f *fakeEnrollmentRepo) IsEnrolled(_ context.Context, userID, courseID uuid.UUID) (bool, error) {
	for _, enrollment := range f.enrollments {
		if enrollment.UserID == userID && enrollment.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

type fakeEnrollmentCourses struct {
	meta ports.CourseMeta
}

func (f *fakeEnrollmentCourses) GetCourseMeta(_ context.Context, id uuid.UUID) (ports.CourseMeta, error) {
	if id != f.meta.ID {
		return ports.CourseMeta{}, apperr.NotFound("course not found")
	}
	return f.meta, nil
}

type fakeUserReader struct{}

func (fakeUserReader) GetUserContact(_ context.Context, _ uuid.UUID) (ports.UserContact, error) {
	return ports.UserContact{Email: "student@example.com", Name: "Student"}, nil
}

type recordingDispatcher struct {
	queue.NoopDispatcher
	enrollmentEmails []queue.EnrollmentEmailPayload
}

func (d *recordingDispatcher) DispatchEnrollmentEmail(_ context.Context, payload queue.EnrollmentEmailPayload) error {
	d.enrollmentEmails = append(d.enrollmentEmails, payload)
	return nil
}

func newEnrollmentFixture(meta ports.CourseMeta) (*Service, *fakeEnrollmentRepo, *recordingDispatcher) {
	repo := newFakeEnrollmentRepo()
	dispatcher := &recordingDispatcher{}
	svc := New(repo, &fakeEnrollmentCourses{meta: meta}, fakeUserReader{}, dispatcher, logger.New("test"))
	return svc, repo, dispatcher
}

func TestService_Enroll_SendsConfirmationEmail(t *testing.T) {
	meta := ports.CourseMeta{ID: uuid.New(), Title: "Go for Beginners", Slug: "go-for-beginners", Published: true}
	svc, repo, dispatcher := newEnrollmentFixture(meta)

	actor := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	enrollment, err := svc.Enroll(context.Background(), actor, transport.EnrollRequest{CourseID: meta.ID.String()})
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}
	if enrollment.Progress != 0 || enrollment.IsCompleted {
		t.Errorf("expected fresh enrollment, got progress=%d completed=%v", enrollment.Progress, enrollment.IsCompleted)
	}
	if len(repo.enrollments) != 1 {
		t.Fatalf("expected 1 enrollment, got %d", len(repo.enrollments))
	}
	if len(dispatcher.enrollmentEmails) != 1 {
		t.Fatalf("expected 1 enrollment email, got %d", len(dispatcher.enrollmentEmails))
	}
	if got := dispatcher.enrollmentEmails[0].CourseTitle; got != "Go for Beginners" {
		t.Errorf("email carries wrong course title: %q", got)
	}
}

func TestService_Enroll_UnpublishedCourseHidden(t *testing.T) {
	meta := ports.CourseMeta{ID: uuid.New(), Title: "Draft", Slug: "draft", Published: false}
	svc, repo, _ := newEnrollmentFixture(meta)

	student := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	_, err := svc.Enroll(context.Background(), student, transport.EnrollRequest{CourseID: meta.ID.String()})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unpublished course, got %v", err)
	}
	if len(repo.enrollments) != 0 {
		t.Fatalf("expected no enrollment, got %d", len(repo.enrollments))
	}

	admin := authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}
	if _, err := svc.Enroll(context.Background(), admin, transport.EnrollRequest{CourseID: meta.ID.String()}); err != nil {
		t.Fatalf("admin should enroll in unpublished course, got %v", err)
	}
}

func TestService_Enroll_DuplicateIsConflict(t *testing.T) {
	meta := ports.CourseMeta{ID: uuid.New(), Title: "Go for Beginners", Slug: "go", Published: true}
	svc, _, _ := newEnrollmentFixture(meta)

	actor := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	req := transport.EnrollRequest{CourseID: meta.ID.String()}
	if _, err := svc.Enroll(context.Background(), actor, req); err != nil {
		t.Fatalf("first enroll failed: %v", err)
	}
	_, err := svc.Enroll(context.Background(), actor, req)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict on duplicate enrollment, got %v", err)
	}
}

func TestService_EnrollUser_IdempotentForPayments(t *testing.T) {
	meta := ports.CourseMeta{ID: uuid.New(), Title: "Go for Beginners", Slug: "go", Published: true}
	svc, repo, dispatcher := newEnrollmentFixture(meta)

	userID := uuid.New()
	if err := svc.EnrollUser(context.Background(), userID, meta.ID); err != nil {
		t.Fatalf("first enroll failed: %v", err)
	}
	if err := svc.EnrollUser(context.Background(), userID, meta.ID); err != nil {
		t.Fatalf("expected existing enrollment to be treated as success, got %v", err)
	}
	if len(repo.enrollments) != 1 {
		t.Fatalf("expected 1 enrollment, got %d", len(repo.enrollments))
	}
	if len(dispatcher.enrollmentEmails) != 1 {
		t.Fatalf("expected a single email for the first enrollment, got %d", len(dispatcher.enrollmentEmails))
	}
}

func TestService_UpdateProgress_StrictOwner(t *testing.T) {
	meta := ports.CourseMeta{ID: uuid.New(), Title: "Go", Slug: "go", Published: true}
	svc, repo, _ := newEnrollmentFixture(meta)

	owner := uuid.New()
	enrollment, err := repo.Create(context.Background(), owner, meta.ID)
	if err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}

	// Progress is personal: even admins may not write someone else's.
	admin := authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}
	_, err = svc.UpdateProgress(context.Background(), admin, enrollment.ID, transport.UpdateProgressRequest{Progress: 50})
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden for admin progress write, got %v", err)
	}

	updated, err := svc.UpdateProgress(context.Background(), authz.Actor{ID: owner, Role: authz.RoleStudent}, enrollment.ID, transport.UpdateProgressRequest{Progress: 100})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if !updated.IsCompleted || updated.CompletedAt == "" {
		t.Errorf("expected completion at 100 percent, got completed=%v completedAt=%q", updated.IsCompleted, updated.CompletedAt)
	}
}

func TestService_Unenroll_OwnerOrAdmin(t *testing.T) {
	meta := ports.CourseMeta{ID: uuid.New(), Title: "Go", Slug: "go", Published: true}
	svc, repo, _ := newEnrollmentFixture(meta)

	owner := uuid.New()
	enrollment, err := repo.Create(context.Background(), owner, meta.ID)
	if err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}

	stranger := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	if err := svc.Unenroll(context.Background(), stranger, enrollment.ID); apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}

	admin := authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}
	if err := svc.Unenroll(context.Background(), admin, enrollment.ID); err != nil {
		t.Fatalf("admin unenroll failed: %v", err)
	}
	if len(repo.enrollments) != 0 {
		t.Fatalf("expected enrollment removed, got %d", len(repo.enrollments))
	}
}
