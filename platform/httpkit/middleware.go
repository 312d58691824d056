// Package httpkit provides HTTP middleware infrastructure.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"coursehub_backend/platform/apperr"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// ContextUserIDKey is the gin context key for the authenticated user ID.
	ContextUserIDKey = "userID"
	// ContextRoleKey is the gin context key for the user's role.
	ContextRoleKey = "userRole"

	msgNotAuthorized = "not authorized to access this route"
)

// ResolvedUser is the account snapshot loaded during request authentication.
type ResolvedUser struct {
	ID   uuid.UUID
	Role string
}

// UserResolver looks up the account behind a verified token. The role stored
// on the account, not anything embedded in the token, drives authorization.
type UserResolver interface {
	ResolveUser(ctx context.Context, id uuid.UUID) (ResolvedUser, error)
}

// RequestLogger logs HTTP requests with timing.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()

		log.HTTPRequest(c.Request.Method, path, status, float64(latency.Milliseconds()), clientIP)
	}
}

// SecurityHeaders adds security headers to responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// Only add HSTS when serving TLS
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// IPRateLimiter manages per-IP rate limiters.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

// NewIPRateLimiter creates a new IP-based rate limiter.
func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
		log:   log,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	limiter, exists := i.limiters.Load(ip)
	if !exists {
		newLimiter := rate.NewLimiter(i.rate, i.burst)
		i.limiters.Store(ip, newLimiter)
		return newLimiter
	}
	return limiter.(*rate.Limiter)
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := i.getLimiter(ip)

		if !limiter.Allow() {
			if i.log != nil {
				i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{
				Success: false,
				Message: "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

// AuthRateLimiter is a stricter rate limiter for auth endpoints.
type AuthRateLimiter struct {
	*IPRateLimiter
}

// NewAuthRateLimiter creates a rate limiter for authentication endpoints
// with stricter limits (e.g., 5 requests per minute).
func NewAuthRateLimiter(log *logger.Logger) *AuthRateLimiter {
	return &AuthRateLimiter{
		IPRateLimiter: NewIPRateLimiter(rate.Limit(5.0/60.0), 5, log), // 5 requests per minute, burst of 5
	}
}

// AuthRequired returns middleware that authenticates requests. The session
// token is read from the Authorization header (Bearer) first, then from the
// session cookie. The account is re-resolved on every request so that role
// changes and deletions take effect immediately.
func AuthRequired(codec *token.Codec, resolver UserResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := extractSessionToken(c, cookieName)
		if !ok {
			abortUnauthorized(c)
			return
		}

		userID, err := codec.Verify(rawToken)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := resolver.ResolveUser(c.Request.Context(), userID)
		if err != nil {
			if apperr.GetKind(err) == apperr.KindNotFound {
				abortUnauthorized(c)
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
				Success: false,
				Message: "internal server error",
			})
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextRoleKey, user.Role)
		c.Next()
	}
}

// OptionalAuth returns middleware that authenticates the request when a valid
// token is present and continues anonymously otherwise. It never aborts.
func OptionalAuth(codec *token.Codec, resolver UserResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := extractSessionToken(c, cookieName)
		if !ok {
			c.Next()
			return
		}

		userID, err := codec.Verify(rawToken)
		if err != nil {
			c.Next()
			return
		}

		user, err := resolver.ResolveUser(c.Request.Context(), userID)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextRoleKey, user.Role)
		c.Next()
	}
}

// RequireRoles returns middleware that checks the authenticated user's role
// against the allowed set. With no roles given, any authenticated user
// passes. Must run after AuthRequired.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetIdentity(c)
		if !id.IsAuthenticated() {
			abortUnauthorized(c)
			return
		}

		if len(roles) == 0 {
			c.Next()
			return
		}

		for _, role := range roles {
			if id.Role() == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, Response{
			Success: false,
			Message: "user role " + id.Role() + " is not authorized to access this route",
		})
	}
}

func extractSessionToken(c *gin.Context, cookieName string) (string, bool) {
	if raw, ok := extractBearerToken(c.GetHeader("Authorization")); ok {
		return raw, true
	}

	raw, err := c.Cookie(cookieName)
	if err != nil || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return raw, true
}

func extractBearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	rawToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if rawToken == "" {
		return "", false
	}

	return rawToken, true
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Message: msgNotAuthorized})
}
