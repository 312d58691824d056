// Package categories provides the categories bounded context module.
package categories

import (
	"coursehub_backend/internal/categories/handler"
	"coursehub_backend/internal/categories/repository"
	"coursehub_backend/internal/categories/service"
	apphttp "coursehub_backend/internal/http"
	"coursehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the categories bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the categories module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "categories"
}

// RegisterRoutes mounts category routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public read endpoints
	ctx.V1.GET("/categories", m.handler.List)
	ctx.V1.GET("/categories/:slug", m.handler.GetBySlug)

	// Admin CRUD endpoints
	adminGroup := ctx.Admin.Group("/categories")
	adminGroup.POST("", m.handler.Create)
	adminGroup.PUT("/:id", m.handler.Update)
	adminGroup.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
