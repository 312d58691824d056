// Package handler exposes the contact HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursehub_backend/internal/contact/service"
	"coursehub_backend/internal/contact/transport"
	"coursehub_backend/platform/httpkit"
	"coursehub_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the contact form.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new contact handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Submit accepts a public contact form submission.
// POST /api/v1/contact
func (h *Handler) Submit(c *gin.Context) {
	var req transport.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// List returns stored contact queries.
// GET /api/v1/admin/contact
func (h *Handler) List(c *gin.Context) {
	var req transport.ListQueriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, total, err := h.svc.List(c.Request.Context(), req)
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
	httpkit.OKList(c, result, len(result), httpkit.NewPagination(page, limit, total))
}
