// Package courses provides the courses bounded context module.
package courses

import (
	"coursehub_backend/internal/adapters/storage"
	"coursehub_backend/internal/courses/handler"
	"coursehub_backend/internal/courses/repository"
	"coursehub_backend/internal/courses/service"
	apphttp "coursehub_backend/internal/http"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/httpkit"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the courses bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the courses module.
func NewModule(pool *pgxpool.Pool, storageSvc storage.StorageService, bucket string, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, storageSvc, bucket, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "courses"
}

// Repository returns the repository for adapters (slug resolution, rating
// writes).
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts course routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public read endpoints; optional auth lets owners see unpublished courses
	ctx.V1.GET("/courses", m.handler.List)
	ctx.V1.GET("/courses/search", m.handler.Search)
	ctx.V1.GET("/courses/:slug", ctx.OptionalAuthMiddleware, m.handler.GetBySlug)
	ctx.V1.GET("/instructors/:id/courses", ctx.OptionalAuthMiddleware, m.handler.ListByInstructor)

	// Instructor mutations
	instructorGroup := ctx.Protected.Group("")
	instructorGroup.Use(httpkit.RequireRoles(authz.RoleInstructor, authz.RoleAdmin))
	instructorGroup.POST("/courses", m.handler.Create)
	instructorGroup.PUT("/courses/:id", m.handler.Update)
	instructorGroup.DELETE("/courses/:id", m.handler.Delete)
	instructorGroup.PUT("/courses/:id/thumbnail", m.handler.UploadThumbnail)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
