// Package handler exposes the lessons HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursehub_backend/internal/enrollments/gate"
	"coursehub_backend/internal/lessons/service"
	"coursehub_backend/internal/lessons/transport"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/httpkit"
	"coursehub_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid lesson id"
	msgInvalidCourse    = "invalid course"
)

// Handler handles HTTP requests for lessons.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new lessons handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List returns the lessons of a course. Runs behind the enrollment gate, so
// the course id and enrollment state come from the gin context.
// GET /api/v1/courses/:slug/lessons
func (h *Handler) List(c *gin.Context) {
	courseID, ok := gate.CourseID(c)
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCourse, nil)
		return
	}

	result, err := h.svc.ListForCourse(c.Request.Context(), courseID, optionalActor(c), gate.IsEnrolled(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get returns a single lesson of a course.
// GET /api/v1/courses/:slug/lessons/:id
func (h *Handler) Get(c *gin.Context) {
	courseID, ok := gate.CourseID(c)
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCourse, nil)
		return
	}
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetLesson(c.Request.Context(), courseID, lessonID, optionalActor(c), gate.IsEnrolled(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Complete marks a lesson as finished for the authenticated caller.
// POST /api/v1/courses/:slug/lessons/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	courseID, found := gate.CourseID(c)
	if !found {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCourse, nil)
		return
	}
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	err = h.svc.Complete(c.Request.Context(), courseID, lessonID, actorFrom(identity), gate.IsEnrolled(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, "lesson completed")
}

// Create adds a lesson to a course.
// POST /api/v1/courses/:slug/lessons
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), actorFrom(identity), c.Param("slug"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Update applies lesson changes.
// PUT /api/v1/lessons/:id
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), actorFrom(identity), lessonID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a lesson.
// DELETE /api/v1/lessons/:id
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actorFrom(identity), lessonID); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, "lesson deleted")
}

func actorFrom(identity httpkit.Identity) authz.Actor {
	return authz.Actor{ID: identity.UserID(), Role: identity.Role()}
}

func optionalActor(c *gin.Context) *authz.Actor {
	identity := httpkit.GetIdentity(c)
	if !identity.IsAuthenticated() {
		return nil
	}
	actor := actorFrom(identity)
	return &actor
}
