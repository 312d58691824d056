package contact

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apphttp "coursehub_backend/internal/http"
	"coursehub_backend/internal/queue"
	"coursehub_backend/platform/httpkit"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/validator"
)

type stubContactConfig struct{}

func (stubContactConfig) GetDefaultPhoneRegion() string { return "US" }

// The contact form must not share its per-IP budget with the auth routes:
// exhausting one limiter leaves the other untouched.
func TestModule_ContactLimiterIndependentOfAuthLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	v1 := engine.Group("/api/v1")
	ctx := &apphttp.RouterContext{
		Engine:          engine,
		V1:              v1,
		Protected:       v1.Group(""),
		Admin:           v1.Group("/admin"),
		AuthRateLimiter: httpkit.NewAuthRateLimiter(logger.New("test")),
	}

	module := NewModule(nil, queue.NoopDispatcher{}, stubContactConfig{}, validator.New(), logger.New("test"))
	module.RegisterRoutes(ctx)
	v1.POST("/auth/login", ctx.AuthRateLimiter.RateLimit(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	post := func(path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		engine.ServeHTTP(w, req)
		return w.Code
	}

	// Drain the contact budget. The empty body fails binding, but the
	// limiter counts the requests regardless.
	for i := 0; i < 5; i++ {
		if code := post("/api/v1/contact"); code != http.StatusBadRequest {
			t.Fatalf("request %d: expected 400, got %d", i+1, code)
		}
	}
	if code := post("/api/v1/contact"); code != http.StatusTooManyRequests {
		t.Fatalf("expected contact limiter to trip, got %d", code)
	}

	// The auth limiter still has its full budget for the same IP.
	if code := post("/api/v1/auth/login"); code != http.StatusOK {
		t.Fatalf("expected auth route unaffected, got %d", code)
	}
}
