// Package accounts provides the accounts bounded context module.
// It covers registration, login, profile management and admin user management.
package accounts

import (
	"coursehub_backend/internal/accounts/handler"
	"coursehub_backend/internal/accounts/repository"
	"coursehub_backend/internal/accounts/service"
	"coursehub_backend/internal/adapters/storage"
	apphttp "coursehub_backend/internal/http"
	"coursehub_backend/internal/queue"
	"coursehub_backend/platform/config"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/token"
	"coursehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the accounts bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the accounts module.
func NewModule(pool *pgxpool.Pool, codec *token.Codec, dispatcher queue.Dispatcher, storageSvc storage.StorageService, bucket string, val *validator.Validator, cfg *config.Config, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, codec, dispatcher, storageSvc, bucket, log)
	h := handler.New(svc, val, cfg)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "accounts"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for adapters such as the request
// authentication resolver.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts account routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	authGroup.POST("/register", m.handler.Register)
	authGroup.POST("/login", m.handler.Login)
	authGroup.POST("/logout", m.handler.Logout)

	// Protected user routes
	ctx.Protected.GET("/users/me", m.handler.GetMe)
	ctx.Protected.PATCH("/users/me", m.handler.UpdateMe)
	ctx.Protected.POST("/users/me/password", m.handler.ChangePassword)
	ctx.Protected.POST("/users/me/avatar", m.handler.UploadAvatar)

	// Admin routes
	ctx.Admin.GET("/users", m.handler.ListUsers)
	ctx.Admin.PUT("/users/:id/role", m.handler.SetUserRole)
	ctx.Admin.DELETE("/users/:id", m.handler.DeleteUser)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
