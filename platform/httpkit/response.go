// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"coursehub_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// Response is the standard JSON envelope for all API responses.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page window for a list of total items.
func NewPagination(page, limit, total int) *Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// OK sends a 200 response with the given payload in the data field.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: payload})
}

// OKMessage sends a 200 response carrying only a message.
func OKMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// OKList sends a 200 response with a collection payload and its item count.
func OKList(c *gin.Context, payload interface{}, count int, pagination *Pagination) {
	c.JSON(http.StatusOK, Response{Success: true, Data: payload, Count: &count, Pagination: pagination})
}

// Created sends a 201 response with the given payload in the data field.
func Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: payload})
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, errs interface{}) {
	c.JSON(status, Response{Success: false, Message: message, Errors: errs})
}

// HandleError maps domain errors to HTTP responses.
// If the error is a typed *apperr.Error, it uses the error's Kind to determine
// the HTTP status code. Other errors become 500 Internal Server Error without
// leaking their text to the client.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		c.JSON(domainErr.HTTPStatus(), Response{
			Success: false,
			Message: domainErr.Message,
			Errors:  domainErr.Details,
		})
		return true
	}

	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Message: "internal server error",
	})
	return true
}
