// Package handler exposes the reviews HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursehub_backend/internal/enrollments/gate"
	"coursehub_backend/internal/reviews/service"
	"coursehub_backend/internal/reviews/transport"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/httpkit"
	"coursehub_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid review id"
	msgInvalidCourse    = "invalid course"
)

// Handler handles HTTP requests for reviews.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new reviews handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListForCourse returns a course's reviews. Runs behind the enrollment gate
// for course resolution.
// GET /api/v1/courses/:slug/reviews
func (h *Handler) ListForCourse(c *gin.Context) {
	courseID, ok := gate.CourseID(c)
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCourse, nil)
		return
	}

	result, err := h.svc.ListForCourse(c.Request.Context(), courseID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKList(c, result, len(result), nil)
}

// Create adds a review for a course.
// POST /api/v1/courses/:slug/reviews
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	courseID, ok := gate.CourseID(c)
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCourse, nil)
		return
	}

	var req transport.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), actorFrom(identity), courseID, gate.IsEnrolled(c), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Get returns a single review.
// GET /api/v1/reviews/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Update applies changes to the caller's review.
// PUT /api/v1/reviews/:id
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), actorFrom(identity), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a review.
// DELETE /api/v1/reviews/:id
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actorFrom(identity), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, "review deleted")
}

func actorFrom(identity httpkit.Identity) authz.Actor {
	return authz.Actor{ID: identity.UserID(), Role: identity.Role()}
}
