// Package lessons provides the lessons bounded context module.
package lessons

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursehub_backend/internal/enrollments/gate"
	apphttp "coursehub_backend/internal/http"
	"coursehub_backend/internal/lessons/handler"
	"coursehub_backend/internal/lessons/ports"
	"coursehub_backend/internal/lessons/repository"
	"coursehub_backend/internal/lessons/service"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/httpkit"
	"coursehub_backend/platform/validator"
)

// Module is the lessons bounded context module implementing http.Module.
type Module struct {
	handler        *handler.Handler
	repo           repository.Repository
	enrollmentGate gin.HandlerFunc
}

// NewModule creates and initializes the lessons module. The gate middleware
// resolves the course slug and enrollment state for the nested routes.
func NewModule(
	pool *pgxpool.Pool,
	courses ports.CourseReader,
	progress service.ProgressWriter,
	courseResolver gate.CourseResolver,
	enrollmentChecker gate.EnrollmentChecker,
	val *validator.Validator,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, courses, progress)
	h := handler.New(svc, val)

	return &Module{
		handler:        h,
		repo:           repo,
		enrollmentGate: gate.CheckEnrollment(courseResolver, enrollmentChecker),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "lessons"
}

// Repository returns the repository for adapters.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts lesson routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Reads are public behind the enrollment gate; content is redacted for
	// callers without access.
	ctx.V1.GET("/courses/:slug/lessons", ctx.OptionalAuthMiddleware, m.enrollmentGate, m.handler.List)
	ctx.V1.GET("/courses/:slug/lessons/:id", ctx.OptionalAuthMiddleware, m.enrollmentGate, m.handler.Get)

	// Progress tracking requires an authenticated, enrolled caller.
	ctx.V1.POST("/courses/:slug/lessons/:id/complete", ctx.AuthMiddleware, m.enrollmentGate, m.handler.Complete)

	// Instructor mutations. Creation is nested under the course slug so the
	// route shape matches the read side.
	instructorGroup := ctx.Protected.Group("")
	instructorGroup.Use(httpkit.RequireRoles(authz.RoleInstructor, authz.RoleAdmin))
	instructorGroup.POST("/courses/:slug/lessons", m.handler.Create)
	instructorGroup.PUT("/lessons/:id", m.handler.Update)
	instructorGroup.DELETE("/lessons/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
