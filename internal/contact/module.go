// Package contact provides the contact form bounded context module.
package contact

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"coursehub_backend/internal/contact/handler"
	"coursehub_backend/internal/contact/repository"
	"coursehub_backend/internal/contact/service"
	apphttp "coursehub_backend/internal/http"
	"coursehub_backend/internal/queue"
	"coursehub_backend/platform/config"
	"coursehub_backend/platform/httpkit"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/validator"
)

// Module is the contact bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	limiter *httpkit.IPRateLimiter
}

// NewModule creates and initializes the contact module.
func NewModule(
	pool *pgxpool.Pool,
	dispatcher queue.Dispatcher,
	cfg config.ContactConfig,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, dispatcher, cfg.GetDefaultPhoneRegion(), log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		limiter: httpkit.NewIPRateLimiter(rate.Limit(5.0/60.0), 5, log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "contact"
}

// RegisterRoutes mounts contact routes on the provided router context. The
// public submission endpoint carries its own per-IP limiter so form
// submissions and auth attempts do not drain each other's budget.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/contact", m.limiter.RateLimit(), m.handler.Submit)
	ctx.Admin.GET("/contact", m.handler.List)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
