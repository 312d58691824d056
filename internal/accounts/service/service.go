// Package service implements the accounts business logic.
package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"coursehub_backend/internal/accounts/repository"
	"coursehub_backend/internal/accounts/transport"
	"coursehub_backend/internal/adapters/storage"
	"coursehub_backend/internal/queue"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/apperr"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/token"
)

const msgInvalidCredentials = "invalid credentials"

// Service implements account management and authentication.
type Service struct {
	repo       repository.Repository
	codec      *token.Codec
	dispatcher queue.Dispatcher
	storage    storage.StorageService
	bucket     string
	log        *logger.Logger
}

// New creates the accounts service. storageSvc may be nil when object
// storage is disabled; avatar uploads then return an error.
func New(repo repository.Repository, codec *token.Codec, dispatcher queue.Dispatcher, storageSvc storage.StorageService, bucket string, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		codec:      codec,
		dispatcher: dispatcher,
		storage:    storageSvc,
		bucket:     bucket,
		log:        log,
	}
}

// Register creates an account and returns a signed session token. The admin
// role can never be self-assigned.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (transport.AuthResponse, error) {
	role := req.Role
	if role == "" {
		role = authz.RoleStudent
	}
	if role == authz.RoleAdmin {
		return transport.AuthResponse{}, apperr.Forbidden("cannot register as admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}

	user, err := s.repo.Create(ctx, repository.CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		s.log.AuthEvent("register", req.Email, false, err.Error())
		return transport.AuthResponse{}, err
	}

	if err := s.dispatcher.DispatchWelcomeEmail(ctx, queue.WelcomeEmailPayload{
		Email: user.Email,
		Name:  user.Name,
	}); err != nil {
		s.log.Error("dispatch welcome email", "error", err)
	}

	s.log.AuthEvent("register", user.Email, true, "")
	return s.authResponse(ctx, user)
}

// Login verifies credentials and returns a signed session token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			s.log.AuthEvent("login", req.Email, false, "unknown email")
			return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return transport.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.AuthEvent("login", req.Email, false, "wrong password")
		return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	s.log.AuthEvent("login", user.Email, true, "")
	return s.authResponse(ctx, user)
}

// GetMe returns the caller's account.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return s.toResponse(ctx, user), nil
}

// UpdateProfile applies the caller's profile changes.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req transport.UpdateProfileRequest) (transport.UserResponse, error) {
	user, err := s.repo.UpdateProfile(ctx, repository.UpdateProfileParams{
		ID:    userID,
		Name:  req.Name,
		Email: req.Email,
		Bio:   req.Bio,
	})
	if err != nil {
		return transport.UserResponse{}, err
	}
	return s.toResponse(ctx, user), nil
}

// UpdatePassword verifies the current password and stores a new hash. A
// fresh session token is returned so existing credentials keep working.
func (s *Service) UpdatePassword(ctx context.Context, userID uuid.UUID, req transport.UpdatePasswordRequest) (transport.AuthResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return transport.AuthResponse{}, apperr.Unauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return transport.AuthResponse{}, err
	}

	return s.authResponse(ctx, user)
}

// UploadAvatar stores the caller's avatar image and records its key.
func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (transport.UserResponse, error) {
	if s.storage == nil {
		return transport.UserResponse{}, apperr.Internal("object storage is not configured")
	}

	if err := s.storage.ValidateContentType(contentType); err != nil {
		return transport.UserResponse{}, apperr.Validation(err.Error())
	}
	if err := s.storage.ValidateFileSize(size); err != nil {
		return transport.UserResponse{}, apperr.Validation(err.Error())
	}

	key, err := s.storage.UploadFile(ctx, s.bucket, userID.String(), fileName, contentType, reader, size)
	if err != nil {
		return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "upload avatar", err)
	}

	if err := s.repo.UpdateAvatarKey(ctx, userID, key); err != nil {
		return transport.UserResponse{}, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return s.toResponse(ctx, user), nil
}

// ListUsers returns accounts matching the filters (admin only).
func (s *Service) ListUsers(ctx context.Context, req transport.ListUsersRequest) ([]transport.UserResponse, int, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 25
	}

	users, total, err := s.repo.List(ctx, repository.ListUsersParams{
		Role:   req.Role,
		Search: req.Search,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]transport.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, s.toResponse(ctx, user))
	}
	return out, total, nil
}

// SetRole changes an account's role (admin only).
func (s *Service) SetRole(ctx context.Context, userID uuid.UUID, role string) (transport.UserResponse, error) {
	if !authz.ValidRole(role) {
		return transport.UserResponse{}, apperr.Validation("invalid role")
	}

	user, err := s.repo.SetRole(ctx, userID, role)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return s.toResponse(ctx, user), nil
}

// DeleteUser removes an account (admin only).
func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.repo.Delete(ctx, userID)
}

func (s *Service) authResponse(ctx context.Context, user repository.User) (transport.AuthResponse, error) {
	signed, err := s.codec.Sign(user.ID)
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "sign session token", err)
	}

	return transport.AuthResponse{
		Token: signed,
		User:  s.toResponse(ctx, user),
	}, nil
}

func (s *Service) toResponse(ctx context.Context, user repository.User) transport.UserResponse {
	resp := transport.UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}

	if user.AvatarKey != "" && s.storage != nil {
		if presigned, err := s.storage.GenerateDownloadURL(ctx, s.bucket, user.AvatarKey); err == nil {
			resp.AvatarURL = presigned.URL
		}
	}

	return resp
}
