// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"coursehub_backend/platform/config"
	"coursehub_backend/platform/httpkit"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/token"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.CookieConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and cookie settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness/health checks (e.g., DB ping).
	Health HealthChecker
	// TokenCodec verifies session tokens for the auth middleware.
	TokenCodec *token.Codec
	// Users resolves accounts during request authentication.
	Users httpkit.UserResolver
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
