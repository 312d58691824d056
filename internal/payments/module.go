// Package payments provides the payments bounded context module.
package payments

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "coursehub_backend/internal/http"
	"coursehub_backend/internal/payments/handler"
	"coursehub_backend/internal/payments/ports"
	"coursehub_backend/internal/payments/repository"
	"coursehub_backend/internal/payments/service"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/validator"
)

// Module is the payments bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the payments module.
func NewModule(
	pool *pgxpool.Pool,
	courses ports.CourseReader,
	enroller ports.Enroller,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, courses, enroller, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "payments"
}

// RegisterRoutes mounts payment routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/payments", m.handler.Create)
	ctx.Protected.GET("/payments", m.handler.List)
	ctx.Protected.GET("/payments/:id", m.handler.Get)

	ctx.Admin.PUT("/payments/:id", m.handler.UpdateStatus)
	ctx.Admin.DELETE("/payments/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
