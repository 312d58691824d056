// Package service implements the categories business logic.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"coursehub_backend/internal/categories/repository"
	"coursehub_backend/internal/categories/transport"
	"coursehub_backend/platform/slug"
)

const (
	cacheKeyList   = "categories:list"
	cacheTTL       = 5 * time.Minute
	cacheSweepTime = 10 * time.Minute
)

// Service implements category management with a short-lived read cache.
// The category list is on every catalog page, so it is served from memory
// and invalidated on mutation.
type Service struct {
	repo  repository.Repository
	cache *gocache.Cache
}

// New creates the categories service.
func New(repo repository.Repository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, cacheSweepTime),
	}
}

// List returns all categories, served from cache when warm.
func (s *Service) List(ctx context.Context) ([]transport.CategoryResponse, error) {
	if cached, found := s.cache.Get(cacheKeyList); found {
		if categories, ok := cached.([]transport.CategoryResponse); ok {
			return categories, nil
		}
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, toResponse(cat))
	}

	s.cache.Set(cacheKeyList, out, gocache.DefaultExpiration)
	return out, nil
}

// GetBySlug returns a single category by its slug.
func (s *Service) GetBySlug(ctx context.Context, categorySlug string) (transport.CategoryResponse, error) {
	cat, err := s.repo.GetBySlug(ctx, categorySlug)
	if err != nil {
		return transport.CategoryResponse{}, err
	}
	return toResponse(cat), nil
}

// Create adds a category with a slug derived from its name.
func (s *Service) Create(ctx context.Context, req transport.CreateCategoryRequest) (transport.CategoryResponse, error) {
	cat, err := s.repo.Create(ctx, repository.CreateCategoryParams{
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
	})
	if err != nil {
		return transport.CategoryResponse{}, err
	}

	s.cache.Delete(cacheKeyList)
	return toResponse(cat), nil
}

// Update applies category changes. A name change regenerates the slug.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateCategoryRequest) (transport.CategoryResponse, error) {
	params := repository.UpdateCategoryParams{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Name != nil {
		newSlug := slug.Make(*req.Name)
		params.Slug = &newSlug
	}

	cat, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.CategoryResponse{}, err
	}

	s.cache.Delete(cacheKeyList)
	return toResponse(cat), nil
}

// Delete removes a category.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(cacheKeyList)
	return nil
}

func toResponse(cat repository.Category) transport.CategoryResponse {
	return transport.CategoryResponse{
		ID:          cat.ID.String(),
		Name:        cat.Name,
		Slug:        cat.Slug,
		Description: cat.Description,
		CourseCount: cat.CourseCount,
		CreatedAt:   cat.CreatedAt.Format(time.RFC3339),
	}
}
