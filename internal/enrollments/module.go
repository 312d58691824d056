// Package enrollments provides the enrollments bounded context module.
package enrollments

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"coursehub_backend/internal/enrollments/handler"
	"coursehub_backend/internal/enrollments/ports"
	"coursehub_backend/internal/enrollments/repository"
	"coursehub_backend/internal/enrollments/service"
	apphttp "coursehub_backend/internal/http"
	"coursehub_backend/internal/queue"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/validator"
)

// Module is the enrollments bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the enrollments module.
func NewModule(
	pool *pgxpool.Pool,
	courses ports.CourseReader,
	users ports.UserReader,
	dispatcher queue.Dispatcher,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, courses, users, dispatcher, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "enrollments"
}

// Service returns the service for adapters (payment-driven enrollment,
// lesson gate checks).
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for adapters.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts enrollment routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/enrollments", m.handler.Enroll)
	ctx.Protected.GET("/enrollments", m.handler.ListMine)
	ctx.Protected.GET("/enrollments/:id", m.handler.Get)
	ctx.Protected.PUT("/enrollments/:id", m.handler.UpdateProgress)
	ctx.Protected.DELETE("/enrollments/:id", m.handler.Unenroll)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
