// Package handler exposes the enrollments HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursehub_backend/internal/enrollments/service"
	"coursehub_backend/internal/enrollments/transport"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/httpkit"
	"coursehub_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid enrollment id"
)

// Handler handles HTTP requests for enrollments.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new enrollments handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Enroll enrolls the caller in a course.
// POST /api/v1/enrollments
func (h *Handler) Enroll(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Enroll(c.Request.Context(), actorFrom(identity), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// ListMine returns the caller's enrollments.
// GET /api/v1/enrollments
func (h *Handler) ListMine(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListMine(c.Request.Context(), actorFrom(identity))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKList(c, result, len(result), nil)
}

// Get returns a single enrollment.
// GET /api/v1/enrollments/:id
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.Get(c.Request.Context(), actorFrom(identity), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateProgress sets the caller's progress on an enrollment.
// PUT /api/v1/enrollments/:id
func (h *Handler) UpdateProgress(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateProgress(c.Request.Context(), actorFrom(identity), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Unenroll removes an enrollment.
// DELETE /api/v1/enrollments/:id
func (h *Handler) Unenroll(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.Unenroll(c.Request.Context(), actorFrom(identity), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, "enrollment removed")
}

func actorFrom(identity httpkit.Identity) authz.Actor {
	return authz.Actor{ID: identity.UserID(), Role: identity.Role()}
}
