package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"coursehub_backend/internal/contact/repository"
	"coursehub_backend/internal/contact/transport"
	"coursehub_backend/internal/queue"
	"coursehub_backend/platform/logger"
)

type fakeQueryRepo struct {
	queries []repository.Query
}

func (f *fakeQueryRepo) Create(_ context.Context, params repository.CreateQueryParams) (repository.Query, error) {
	query := repository.Query{
		ID:       uuid.New(),
		FullName: params.FullName,
		Email:    params.Email,
		Phone:    params.Phone,
		Message:  params.Message,
	}
	f.queries = append(f.queries, query)
	return query, nil
}

func (f *fakeQueryRepo) List(_ context.Context, limit, offset int) ([]repository.Query, int, error) {
	if offset >= len(f.queries) {
		return nil, len(f.queries), nil
	}
	end := offset + limit
	if end > len(f.queries) {
		end = len(f.queries)
	}
	return f.queries[offset:end], len(f.queries), nil
}

type contactDispatcher struct {
	queue.NoopDispatcher
	notifications []queue.ContactNotificationPayload
}

func (d *contactDispatcher) DispatchContactNotification(_ context.Context, payload queue.ContactNotificationPayload) error {
	d.notifications = append(d.notifications, payload)
	return nil
}

func TestService_Submit_NormalizesInput(t *testing.T) {
	repo := &fakeQueryRepo{}
	dispatcher := &contactDispatcher{}
	svc := New(repo, dispatcher, "us", logger.New("test"))

	resp, err := svc.Submit(context.Background(), transport.ContactRequest{
		FullName: "  Jordan Smith  ",
		Email:    " Jordan.Smith@Example.COM ",
		Phone:    "(415) 555-2671",
		Message:  "  I would like to know more about the Go course.  ",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if resp.FullName != "Jordan Smith" {
		t.Errorf("expected trimmed name, got %q", resp.FullName)
	}
	if resp.Email != "jordan.smith@example.com" {
		t.Errorf("expected lowercased email, got %q", resp.Email)
	}
	if resp.Phone != "+14155552671" {
		t.Errorf("expected E.164 phone, got %q", resp.Phone)
	}

	if len(dispatcher.notifications) != 1 {
		t.Fatalf("expected 1 operator notification, got %d", len(dispatcher.notifications))
	}
	if got := dispatcher.notifications[0].Email; got != "jordan.smith@example.com" {
		t.Errorf("notification carries wrong email: %q", got)
	}
}

func TestService_Submit_EmptyPhoneStaysEmpty(t *testing.T) {
	repo := &fakeQueryRepo{}
	svc := New(repo, &contactDispatcher{}, "us", logger.New("test"))

	resp, err := svc.Submit(context.Background(), transport.ContactRequest{
		FullName: "Jordan Smith",
		Email:    "jordan@example.com",
		Message:  "No phone provided here.",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if resp.Phone != "" {
		t.Errorf("expected empty phone, got %q", resp.Phone)
	}
}

func TestService_List_Paginates(t *testing.T) {
	repo := &fakeQueryRepo{}
	svc := New(repo, &contactDispatcher{}, "us", logger.New("test"))

	for i := 0; i < 3; i++ {
		if _, err := repo.Create(context.Background(), repository.CreateQueryParams{
			FullName: "Visitor",
			Email:    "visitor@example.com",
			Message:  "hello",
		}); err != nil {
			t.Fatalf("seed query: %v", err)
		}
	}

	queries, total, err := svc.List(context.Background(), transport.ListQueriesRequest{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(queries) != 1 {
		t.Errorf("expected 1 query on the second page, got %d", len(queries))
	}
}
