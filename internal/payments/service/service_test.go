package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"coursehub_backend/internal/payments/ports"
	"coursehub_backend/internal/payments/repository"
	"coursehub_backend/internal/payments/transport"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/apperr"
	"coursehub_backend/platform/logger"
)

type fakePaymentRepo struct {
	payments map[uuid.UUID]repository.Payment

	lastList repository.ListPaymentsParams
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[uuid.UUID]repository.Payment{}}
}

func (f *fakePaymentRepo) Create(_ context.Context, params repository.CreatePaymentParams) (repository.Payment, error) {
	payment := repository.Payment{
		ID:            uuid.New(),
		UserID:        params.UserID,
		CourseID:      params.CourseID,
		Amount:        params.Amount,
		PaymentMethod: params.PaymentMethod,
		TransactionID: params.TransactionID,
		Status:        repository.StatusPending,
	}
	f.payments[payment.ID] = payment
	return payment, nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Payment, error) {
	payment, ok := f.payments[id]
	if !ok {
		return repository.Payment{}, apperr.NotFound("payment not found")
	}
	return payment, nil
}

func (f *fakePaymentRepo) List(_ context.Context, params repository.ListPaymentsParams) ([]repository.Payment, int, error) {
	f.lastList = params
	var out []repository.Payment
	for _, payment := range f.payments {
		if params.UserID != nil && payment.UserID != *params.UserID {
			continue
		}
		if params.Status != "" && payment.Status != params.Status {
			continue
		}
		out = append(out, payment)
	}
	return out, len(out), nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) (repository.Payment, error) {
	payment, ok := f.payments[id]
	if !ok {
		return repository.Payment{}, apperr.NotFound("payment not found")
	}
	payment.Status = status
	f.payments[id] = payment
	return payment, nil
}

func (f *fakePaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.payments[id]; !ok {
		return apperr.NotFound("payment not found")
	}
	delete(f.payments, id)
	return nil
}

type fakePaymentCourses struct {
	meta ports.CourseMeta
}

func (f *fakePaymentCourses) GetCourseMeta(_ context.Context, id uuid.UUID) (ports.CourseMeta, error) {
	if id != f.meta.ID {
		return ports.CourseMeta{}, apperr.NotFound("course not found")
	}
	return f.meta, nil
}

type fakeEnroller struct {
	calls int
	err   error
}

func (f *fakeEnroller) EnrollUser(_ context.Context, _, _ uuid.UUID) error {
	f.calls++
	return f.err
}

func newPaymentFixture(meta ports.CourseMeta) (*Service, *fakePaymentRepo, *fakeEnroller) {
	repo := newFakePaymentRepo()
	enroller := &fakeEnroller{}
	svc := New(repo, &fakePaymentCourses{meta: meta}, enroller, logger.New("test"))
	return svc, repo, enroller
}

func TestService_Create_AmountComesFromCourse(t *testing.T) {
	meta := ports.CourseMeta{ID: uuid.New(), Title: "Go Course", Price: 49.99, Published: true}
	svc, _, _ := newPaymentFixture(meta)

	actor := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	payment, err := svc.Create(context.Background(), actor, transport.CreatePaymentRequest{
		CourseID:      meta.ID.String(),
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if payment.Amount != 49.99 {
		t.Errorf("expected amount from course price, got %v", payment.Amount)
	}
	if payment.Status != repository.StatusPending {
		t.Errorf("expected pending status, got %s", payment.Status)
	}
}

func TestService_Create_RejectsFreeCourse(t *testing.T) {
	meta := ports.CourseMeta{ID: uuid.New(), Title: "Free Intro", Price: 0, Published: true}
	svc, repo, _ := newPaymentFixture(meta)

	actor := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	_, err := svc.Create(context.Background(), actor, transport.CreatePaymentRequest{
		CourseID:      meta.ID.String(),
		PaymentMethod: "card",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for free course, got %v", err)
	}
	if len(repo.payments) != 0 {
		t.Fatalf("expected no payment recorded, got %d", len(repo.payments))
	}
}

func TestService_Create_HidesUnpublishedCourse(t *testing.T) {
	meta := ports.CourseMeta{ID: uuid.New(), Title: "Draft", Price: 10, Published: false}
	svc, _, _ := newPaymentFixture(meta)

	actor := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	_, err := svc.Create(context.Background(), actor, transport.CreatePaymentRequest{
		CourseID:      meta.ID.String(),
		PaymentMethod: "paypal",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unpublished course, got %v", err)
	}
}

func TestService_List_NonAdminScopedToOwnPayments(t *testing.T) {
	meta := ports.CourseMeta{ID: uuid.New(), Title: "Go Course", Price: 20, Published: true}
	svc, repo, _ := newPaymentFixture(meta)

	mine := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	other := uuid.New()
	for _, userID := range []uuid.UUID{mine.ID, other} {
		if _, err := repo.Create(context.Background(), repository.CreatePaymentParams{
			UserID: userID, CourseID: meta.ID, Amount: 20, PaymentMethod: "card",
		}); err != nil {
			t.Fatalf("seed payment: %v", err)
		}
	}

	payments, total, err := svc.List(context.Background(), mine, transport.ListPaymentsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(payments) != 1 {
		t.Fatalf("expected 1 own payment, got total=%d len=%d", total, len(payments))
	}
	if repo.lastList.UserID == nil || *repo.lastList.UserID != mine.ID {
		t.Error("expected list query scoped to the caller")
	}

	admin := authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}
	_, total, err = svc.List(context.Background(), admin, transport.ListPaymentsRequest{})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected admin to see all payments, got %d", total)
	}
	if repo.lastList.UserID != nil {
		t.Error("expected unscoped list query for admin")
	}
}

func TestService_UpdateStatus_EnrollsOnceOnCompletion(t *testing.T) {
	meta := ports.CourseMeta{ID: uuid.New(), Title: "Go Course", Price: 20, Published: true}
	svc, repo, enroller := newPaymentFixture(meta)

	payment, err := repo.Create(context.Background(), repository.CreatePaymentParams{
		UserID: uuid.New(), CourseID: meta.ID, Amount: 20, PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), payment.ID, transport.UpdatePaymentRequest{Status: repository.StatusCompleted})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != repository.StatusCompleted {
		t.Errorf("expected completed status, got %s", updated.Status)
	}
	if enroller.calls != 1 {
		t.Fatalf("expected one enrollment, got %d", enroller.calls)
	}

	// A repeated completed update must not enroll again.
	if _, err := svc.UpdateStatus(context.Background(), payment.ID, transport.UpdatePaymentRequest{Status: repository.StatusCompleted}); err != nil {
		t.Fatalf("repeat update failed: %v", err)
	}
	if enroller.calls != 1 {
		t.Fatalf("expected no second enrollment, got %d calls", enroller.calls)
	}

	// A refund is not a completion transition either.
	if _, err := svc.UpdateStatus(context.Background(), payment.ID, transport.UpdatePaymentRequest{Status: repository.StatusRefunded}); err != nil {
		t.Fatalf("refund update failed: %v", err)
	}
	if enroller.calls != 1 {
		t.Fatalf("refund should not enroll, got %d calls", enroller.calls)
	}
}

func TestService_UpdateStatus_EnrollFailureSurfaces(t *testing.T) {
	meta := ports.CourseMeta{ID: uuid.New(), Title: "Go Course", Price: 20, Published: true}
	svc, repo, enroller := newPaymentFixture(meta)
	enroller.err = errors.New("enrollments unavailable")

	payment, err := repo.Create(context.Background(), repository.CreatePaymentParams{
		UserID: uuid.New(), CourseID: meta.ID, Amount: 20, PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), payment.ID, transport.UpdatePaymentRequest{Status: repository.StatusCompleted})
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal error when enrollment fails, got %v", err)
	}
}

func TestService_Get_OwnerOrAdminOnly(t *testing.T) {
	meta := ports.CourseMeta{ID: uuid.New(), Title: "Go Course", Price: 20, Published: true}
	svc, repo, _ := newPaymentFixture(meta)

	owner := uuid.New()
	payment, err := repo.Create(context.Background(), repository.CreatePaymentParams{
		UserID: owner, CourseID: meta.ID, Amount: 20, PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	stranger := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	if _, err := svc.Get(context.Background(), stranger, payment.ID); apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}

	if _, err := svc.Get(context.Background(), authz.Actor{ID: owner, Role: authz.RoleStudent}, payment.ID); err != nil {
		t.Fatalf("owner get failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}, payment.ID); err != nil {
		t.Fatalf("admin get failed: %v", err)
	}
}
