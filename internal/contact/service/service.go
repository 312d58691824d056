// Package service implements the contact form business logic.
package service

import (
	"context"
	"strings"
	"time"

	"coursehub_backend/internal/contact/repository"
	"coursehub_backend/internal/contact/transport"
	"coursehub_backend/internal/queue"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/phone"
)

// Service persists contact form submissions and notifies the site operator.
type Service struct {
	repo        repository.Repository
	dispatcher  queue.Dispatcher
	phoneRegion string
	log         *logger.Logger
}

// New creates the contact service.
func New(repo repository.Repository, dispatcher queue.Dispatcher, phoneRegion string, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		dispatcher:  dispatcher,
		phoneRegion: phoneRegion,
		log:         log,
	}
}

// Submit stores a contact form submission and dispatches the operator
// notification. The phone number is normalized to E.164 when possible.
func (s *Service) Submit(ctx context.Context, req transport.ContactRequest) (transport.QueryResponse, error) {
	normalizedPhone := ""
	if strings.TrimSpace(req.Phone) != "" {
		normalizedPhone = phone.NormalizeE164(req.Phone, s.phoneRegion)
	}

	query, err := s.repo.Create(ctx, repository.CreateQueryParams{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    normalizedPhone,
		Message:  strings.TrimSpace(req.Message),
	})
	if err != nil {
		return transport.QueryResponse{}, err
	}

	if err := s.dispatcher.DispatchContactNotification(ctx, queue.ContactNotificationPayload{
		Name:    query.FullName,
		Email:   query.Email,
		Phone:   query.Phone,
		Message: query.Message,
	}); err != nil {
		s.log.Error("dispatch contact notification", "error", err, "query_id", query.ID)
	}

	return toResponse(query), nil
}

// List returns stored contact queries for the admin view.
func (s *Service) List(ctx context.Context, req transport.ListQueriesRequest) ([]transport.QueryResponse, int, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 25
	}

	queries, total, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]transport.QueryResponse, 0, len(queries))
	for _, query := range queries {
		out = append(out, toResponse(query))
	}
	return out, total, nil
}

func toResponse(query repository.Query) transport.QueryResponse {
	return transport.QueryResponse{
		ID:        query.ID.String(),
		FullName:  query.FullName,
		Email:     query.Email,
		Phone:     query.Phone,
		Message:   query.Message,
		CreatedAt: query.CreatedAt.Format(time.RFC3339),
	}
}
