// Package reviews provides the reviews bounded context module.
package reviews

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursehub_backend/internal/enrollments/gate"
	apphttp "coursehub_backend/internal/http"
	"coursehub_backend/internal/reviews/handler"
	"coursehub_backend/internal/reviews/ports"
	"coursehub_backend/internal/reviews/repository"
	"coursehub_backend/internal/reviews/service"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/validator"
)

// Module is the reviews bounded context module implementing http.Module.
type Module struct {
	handler        *handler.Handler
	enrollmentGate gin.HandlerFunc
}

// NewModule creates and initializes the reviews module.
func NewModule(
	pool *pgxpool.Pool,
	ratings ports.CourseRatingWriter,
	courseResolver gate.CourseResolver,
	enrollmentChecker gate.EnrollmentChecker,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, ratings, log)
	h := handler.New(svc, val)

	return &Module{
		handler:        h,
		enrollmentGate: gate.CheckEnrollment(courseResolver, enrollmentChecker),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reviews"
}

// RegisterRoutes mounts review routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/courses/:slug/reviews", ctx.OptionalAuthMiddleware, m.enrollmentGate, m.handler.ListForCourse)
	ctx.V1.POST("/courses/:slug/reviews", ctx.AuthMiddleware, m.enrollmentGate, m.handler.Create)

	ctx.V1.GET("/reviews/:id", m.handler.Get)
	ctx.Protected.PUT("/reviews/:id", m.handler.Update)
	ctx.Protected.DELETE("/reviews/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
