// Package handler exposes the courses HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursehub_backend/internal/courses/service"
	"coursehub_backend/internal/courses/transport"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/httpkit"
	"coursehub_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid course id"
)

// Handler handles HTTP requests for courses.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new courses handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List returns published courses.
// GET /api/v1/courses
func (h *Handler) List(c *gin.Context) {
	var req transport.ListCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	courses, total, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 25
	}
	httpkit.OKList(c, courses, len(courses), httpkit.NewPagination(page, limit, total))
}

// Search returns published courses matching a free-text query.
// GET /api/v1/courses/search
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	courses, total, err := h.svc.Search(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 25
	}
	httpkit.OKList(c, courses, len(courses), httpkit.NewPagination(page, limit, total))
}

// GetBySlug returns a single course.
// GET /api/v1/courses/:slug
func (h *Handler) GetBySlug(c *gin.Context) {
	result, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"), optionalActor(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListByInstructor returns an instructor's courses.
// GET /api/v1/instructors/:id/courses
func (h *Handler) ListByInstructor(c *gin.Context) {
	instructorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid instructor id", nil)
		return
	}

	courses, total, err := h.svc.ListByInstructor(c.Request.Context(), instructorID, optionalActor(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKList(c, courses, len(courses), httpkit.NewPagination(1, 100, total))
}

// Create adds a course.
// POST /api/v1/courses
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), actorFrom(identity), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Update changes a course.
// PUT /api/v1/courses/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), actorFrom(identity), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a course.
// DELETE /api/v1/courses/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), actorFrom(identity), id)) {
		return
	}
	httpkit.OKMessage(c, "course deleted")
}

// UploadThumbnail stores the course thumbnail image.
// PUT /api/v1/courses/:id/thumbnail
func (h *Handler) UploadThumbnail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	defer file.Close()

	result, err := h.svc.UploadThumbnail(
		c.Request.Context(),
		actorFrom(identity),
		id,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		fileHeader.Size,
	)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
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
