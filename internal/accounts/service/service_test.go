package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"coursehub_backend/internal/accounts/repository"
	"coursehub_backend/internal/accounts/transport"
	"coursehub_backend/internal/queue"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/apperr"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/token"
)

type fakeUserRepo struct {
	users map[uuid.UUID]repository.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]repository.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, params repository.CreateUserParams) (repository.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, params.Email) {
			return repository.User{}, apperr.Conflict("email already registered")
		}
	}
	user := repository.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		CreatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	user, ok := f.users[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (repository.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return repository.User{}, apperr.NotFound("user not found")
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, params repository.UpdateProfileParams) (repository.User, error) {
	user, ok := f.users[params.ID]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.Bio != nil {
		user.Bio = *params.Bio
	}
	f.users[params.ID] = user
	return user, nil
}

func (f *fakeUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	user, ok := f.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	user.PasswordHash = hash
	f.users[id] = user
	return nil
}

func (f *fakeUserRepo) UpdateAvatarKey(_ context.Context, id uuid.UUID, key string) error {
	user, ok := f.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	user.AvatarKey = key
	f.users[id] = user
	return nil
}

func (f *fakeUserRepo) SetRole(_ context.Context, id uuid.UUID, role string) (repository.User, error) {
	user, ok := f.users[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	user.Role = role
	f.users[id] = user
	return user, nil
}

func (f *fakeUserRepo) List(_ context.Context, params repository.ListUsersParams) ([]repository.User, int, error) {
	var out []repository.User
	for _, user := range f.users {
		if params.Role != "" && user.Role != params.Role {
			continue
		}
		out = append(out, user)
	}
	return out, len(out), nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(f.users, id)
	return nil
}

type welcomeDispatcher struct {
	queue.NoopDispatcher
	welcomes []queue.WelcomeEmailPayload
}

func (d *welcomeDispatcher) DispatchWelcomeEmail(_ context.Context, payload queue.WelcomeEmailPayload) error {
	d.welcomes = append(d.welcomes, payload)
	return nil
}

func newAccountFixture() (*Service, *fakeUserRepo, *welcomeDispatcher, *token.Codec) {
	repo := newFakeUserRepo()
	dispatcher := &welcomeDispatcher{}
	codec := token.NewCodec("test-secret", time.Hour)
	svc := New(repo, codec, dispatcher, nil, "", logger.New("test"))
	return svc, repo, dispatcher, codec
}

func TestService_Register_DefaultsToStudent(t *testing.T) {
	svc, _, dispatcher, codec := newAccountFixture()

	resp, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name:     "Alice Example",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if resp.User.Role != authz.RoleStudent {
		t.Errorf("expected default student role, got %s", resp.User.Role)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}
	if _, err := codec.Verify(resp.Token); err != nil {
		t.Errorf("issued token does not verify: %v", err)
	}
	if len(dispatcher.welcomes) != 1 {
		t.Fatalf("expected 1 welcome email, got %d", len(dispatcher.welcomes))
	}
}

func TestService_Register_RejectsAdminRole(t *testing.T) {
	svc, repo, _, _ := newAccountFixture()

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name:     "Mallory",
		Email:    "mallory@example.com",
		Password: "correct horse battery",
		Role:     authz.RoleAdmin,
	})
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden for admin self-registration, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("expected no account created, got %d", len(repo.users))
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAccountFixture()

	req := transport.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "correct horse battery"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), req)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestService_Login_RoundTrip(t *testing.T) {
	svc, _, _, _ := newAccountFixture()

	if _, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	resp, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	svc, _, _, _ := newAccountFixture()

	if _, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	for _, req := range []transport.LoginRequest{
		{Email: "alice@example.com", Password: "wrong password"},
		{Email: "nobody@example.com", Password: "correct horse battery"},
	} {
		_, err := svc.Login(context.Background(), req)
		if apperr.GetKind(err) != apperr.KindUnauthorized {
			t.Fatalf("expected unauthorized for %s, got %v", req.Email, err)
		}
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Message != msgInvalidCredentials {
			t.Errorf("expected uniform message %q, got %v", msgInvalidCredentials, err)
		}
	}
}

func TestService_UpdatePassword(t *testing.T) {
	svc, repo, _, _ := newAccountFixture()

	reg, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	userID, err := uuid.Parse(reg.User.ID)
	if err != nil {
		t.Fatalf("parse user id: %v", err)
	}

	_, err = svc.UpdatePassword(context.Background(), userID, transport.UpdatePasswordRequest{
		CurrentPassword: "not the password",
		NewPassword:     "an even longer passphrase",
	})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized for wrong current password, got %v", err)
	}

	if _, err := svc.UpdatePassword(context.Background(), userID, transport.UpdatePasswordRequest{
		CurrentPassword: "correct horse battery",
		NewPassword:     "an even longer passphrase",
	}); err != nil {
		t.Fatalf("password update failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "alice@example.com",
		Password: "an even longer passphrase",
	}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected 1 account, got %d", len(repo.users))
	}
}

func TestService_SetRole_ValidatesRole(t *testing.T) {
	svc, repo, _, _ := newAccountFixture()

	user, err := repo.Create(context.Background(), repository.CreateUserParams{
		Name: "Alice", Email: "alice@example.com", PasswordHash: "x", Role: authz.RoleStudent,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if _, err := svc.SetRole(context.Background(), user.ID, "superuser"); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}

	updated, err := svc.SetRole(context.Background(), user.ID, authz.RoleInstructor)
	if err != nil {
		t.Fatalf("set role failed: %v", err)
	}
	if updated.Role != authz.RoleInstructor {
		t.Errorf("expected instructor role, got %s", updated.Role)
	}
}
