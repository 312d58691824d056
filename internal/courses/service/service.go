// Package service implements the courses business logic.
package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"coursehub_backend/internal/adapters/storage"
	"coursehub_backend/internal/courses/repository"
	"coursehub_backend/internal/courses/transport"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/apperr"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/slug"
)

const msgNotCourseOwner = "not allowed to modify this course"

// Service implements course management.
type Service struct {
	repo    repository.Repository
	storage storage.StorageService
	bucket  string
	log     *logger.Logger
}

// New creates the courses service. storageSvc may be nil when object
// storage is disabled; thumbnail uploads then return an error.
func New(repo repository.Repository, storageSvc storage.StorageService, bucket string, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storageSvc,
		bucket:  bucket,
		log:     log,
	}
}

// List returns published courses matching the filters.
func (s *Service) List(ctx context.Context, req transport.ListCoursesRequest) ([]transport.CourseResponse, int, error) {
	page, limit := normalizePage(req.Page, req.Limit)

	courses, total, err := s.repo.List(ctx, repository.ListCoursesParams{
		CategorySlug:  req.Category,
		Level:         req.Level,
		Search:        req.Search,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		SortBy:        req.SortBy,
		SortDesc:      req.SortDir != "asc",
		OnlyPublished: true,
		Limit:         limit,
		Offset:        (page - 1) * limit,
	})
	if err != nil {
		return nil, 0, err
	}

	return s.toResponses(ctx, courses), total, nil
}

// Search returns published courses matching a free-text query.
func (s *Service) Search(ctx context.Context, req transport.SearchCoursesRequest) ([]transport.CourseResponse, int, error) {
	page, limit := normalizePage(req.Page, req.Limit)

	courses, total, err := s.repo.List(ctx, repository.ListCoursesParams{
		CategorySlug:  req.Category,
		Level:         req.Level,
		Search:        req.Q,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		SortDesc:      true,
		OnlyPublished: true,
		Limit:         limit,
		Offset:        (page - 1) * limit,
	})
	if err != nil {
		return nil, 0, err
	}

	return s.toResponses(ctx, courses), total, nil
}

// GetBySlug returns a single course. Unpublished courses are only visible to
// their instructor and admins; everyone else gets a not-found.
func (s *Service) GetBySlug(ctx context.Context, courseSlug string, actor *authz.Actor) (transport.CourseResponse, error) {
	course, err := s.repo.GetBySlug(ctx, courseSlug)
	if err != nil {
		return transport.CourseResponse{}, err
	}

	if !course.Published {
		if actor == nil || !authz.CanModify(*actor, course.InstructorID) {
			return transport.CourseResponse{}, apperr.NotFound("course not found")
		}
	}

	return s.toResponse(ctx, course), nil
}

// ListByInstructor returns an instructor's courses. The instructor (and
// admins) also see unpublished ones.
func (s *Service) ListByInstructor(ctx context.Context, instructorID uuid.UUID, actor *authz.Actor) ([]transport.CourseResponse, int, error) {
	onlyPublished := true
	if actor != nil && authz.CanModify(*actor, instructorID) {
		onlyPublished = false
	}

	courses, total, err := s.repo.List(ctx, repository.ListCoursesParams{
		InstructorID:  instructorID,
		OnlyPublished: onlyPublished,
		SortDesc:      true,
		Limit:         100,
		Offset:        0,
	})
	if err != nil {
		return nil, 0, err
	}

	return s.toResponses(ctx, courses), total, nil
}

// Create adds a course owned by the acting instructor.
func (s *Service) Create(ctx context.Context, actor authz.Actor, req transport.CreateCourseRequest) (transport.CourseResponse, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return transport.CourseResponse{}, apperr.Validation("invalid category id")
	}

	course, err := s.repo.Create(ctx, repository.CreateCourseParams{
		Title:        req.Title,
		Slug:         slug.Make(req.Title),
		Description:  req.Description,
		CategoryID:   categoryID,
		InstructorID: actor.ID,
		Price:        req.Price,
		Level:        req.Level,
	})
	if err != nil {
		return transport.CourseResponse{}, err
	}

	return s.toResponse(ctx, course), nil
}

// Update applies course changes. Only the owning instructor or an admin may
// modify a course.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, req transport.UpdateCourseRequest) (transport.CourseResponse, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CourseResponse{}, err
	}
	if !authz.CanModify(actor, course.InstructorID) {
		return transport.CourseResponse{}, apperr.Forbidden(msgNotCourseOwner)
	}

	params := repository.UpdateCourseParams{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Level:       req.Level,
		Published:   req.Published,
	}
	if req.Title != nil {
		newSlug := slug.Make(*req.Title)
		params.Slug = &newSlug
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return transport.CourseResponse{}, apperr.Validation("invalid category id")
		}
		params.CategoryID = &categoryID
	}

	updated, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.CourseResponse{}, err
	}
	return s.toResponse(ctx, updated), nil
}

// Delete removes a course and everything hanging off it.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanModify(actor, course.InstructorID) {
		return apperr.Forbidden(msgNotCourseOwner)
	}

	return s.repo.Delete(ctx, id)
}

// UploadThumbnail stores the course thumbnail image and records its key.
func (s *Service) UploadThumbnail(ctx context.Context, actor authz.Actor, id uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (transport.CourseResponse, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CourseResponse{}, err
	}
	if !authz.CanModify(actor, course.InstructorID) {
		return transport.CourseResponse{}, apperr.Forbidden(msgNotCourseOwner)
	}

	if s.storage == nil {
		return transport.CourseResponse{}, apperr.Internal("object storage is not configured")
	}
	if err := s.storage.ValidateContentType(contentType); err != nil {
		return transport.CourseResponse{}, apperr.Validation(err.Error())
	}
	if err := s.storage.ValidateFileSize(size); err != nil {
		return transport.CourseResponse{}, apperr.Validation(err.Error())
	}

	key, err := s.storage.UploadFile(ctx, s.bucket, id.String(), fileName, contentType, reader, size)
	if err != nil {
		return transport.CourseResponse{}, apperr.Wrap(apperr.KindInternal, "upload thumbnail", err)
	}

	if err := s.repo.UpdateThumbnailKey(ctx, id, key); err != nil {
		return transport.CourseResponse{}, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CourseResponse{}, err
	}
	return s.toResponse(ctx, updated), nil
}

func (s *Service) toResponses(ctx context.Context, courses []repository.Course) []transport.CourseResponse {
	out := make([]transport.CourseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, s.toResponse(ctx, course))
	}
	return out
}

func (s *Service) toResponse(ctx context.Context, course repository.Course) transport.CourseResponse {
	resp := transport.CourseResponse{
		ID:              course.ID.String(),
		Title:           course.Title,
		Slug:            course.Slug,
		Description:     course.Description,
		CategoryID:      course.CategoryID.String(),
		CategoryName:    course.CategoryName,
		InstructorID:    course.InstructorID.String(),
		InstructorName:  course.InstructorName,
		Price:           course.Price,
		Level:           course.Level,
		Published:       course.Published,
		AverageRating:   course.AverageRating,
		ReviewCount:     course.ReviewCount,
		EnrollmentCount: course.EnrollmentCount,
		TotalLessons:    course.TotalLessons,
		CreatedAt:       course.CreatedAt.Format(time.RFC3339),
	}

	if course.ThumbnailKey != "" && s.storage != nil {
		if presigned, err := s.storage.GenerateDownloadURL(ctx, s.bucket, course.ThumbnailKey); err == nil {
			resp.ThumbnailURL = presigned.URL
		}
	}

	return resp
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 25
	}
	return page, limit
}
