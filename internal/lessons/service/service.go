// Package service implements the lessons business logic.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coursehub_backend/internal/lessons/ports"
	"coursehub_backend/internal/lessons/repository"
	"coursehub_backend/internal/lessons/transport"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/apperr"
)

const msgNotCourseOwner = "not allowed to modify lessons of this course"

// ProgressWriter updates a user's enrollment progress after lesson
// completion. Implemented by the enrollments domain.
type ProgressWriter interface {
	UpdateProgress(ctx context.Context, userID, courseID uuid.UUID, percent int) error
}

// Service implements lesson management and progress tracking.
type Service struct {
	repo     repository.Repository
	courses  ports.CourseReader
	progress ProgressWriter
}

// New creates the lessons service.
func New(repo repository.Repository, courses ports.CourseReader, progress ProgressWriter) *Service {
	return &Service{
		repo:     repo,
		courses:  courses,
		progress: progress,
	}
}

// ListForCourse returns a course's lessons for the given caller. Content is
// blanked for lessons the caller may not read.
func (s *Service) ListForCourse(ctx context.Context, courseID uuid.UUID, actor *authz.Actor, isEnrolled bool) (transport.LessonListResponse, error) {
	lessons, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return transport.LessonListResponse{}, err
	}

	fullAccess, err := s.hasFullAccess(ctx, courseID, actor, isEnrolled)
	if err != nil {
		return transport.LessonListResponse{}, err
	}

	completed := map[uuid.UUID]bool{}
	if actor != nil && isEnrolled {
		completed, err = s.repo.CompletedLessonIDs(ctx, actor.ID, courseID)
		if err != nil {
			return transport.LessonListResponse{}, err
		}
	}

	out := make([]transport.LessonResponse, 0, len(lessons))
	for _, lesson := range lessons {
		out = append(out, toResponse(lesson, fullAccess, completed[lesson.ID]))
	}

	return transport.LessonListResponse{
		IsEnrolled: isEnrolled,
		Lessons:    out,
	}, nil
}

// GetLesson returns a single lesson of a course.
func (s *Service) GetLesson(ctx context.Context, courseID, lessonID uuid.UUID, actor *authz.Actor, isEnrolled bool) (transport.LessonDetailResponse, error) {
	lesson, err := s.repo.GetByID(ctx, lessonID)
	if err != nil {
		return transport.LessonDetailResponse{}, err
	}
	if lesson.CourseID != courseID {
		return transport.LessonDetailResponse{}, apperr.NotFound("lesson not found")
	}

	fullAccess, err := s.hasFullAccess(ctx, courseID, actor, isEnrolled)
	if err != nil {
		return transport.LessonDetailResponse{}, err
	}

	done := false
	if actor != nil && isEnrolled {
		completed, err := s.repo.CompletedLessonIDs(ctx, actor.ID, courseID)
		if err != nil {
			return transport.LessonDetailResponse{}, err
		}
		done = completed[lesson.ID]
	}

	return transport.LessonDetailResponse{
		IsEnrolled: isEnrolled,
		Lesson:     toResponse(lesson, fullAccess, done),
	}, nil
}

// Complete marks a lesson as finished for an enrolled caller and refreshes
// the enrollment's progress percentage.
func (s *Service) Complete(ctx context.Context, courseID, lessonID uuid.UUID, actor authz.Actor, isEnrolled bool) error {
	if !isEnrolled {
		return apperr.Forbidden("must be enrolled to track progress")
	}

	lesson, err := s.repo.GetByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if lesson.CourseID != courseID {
		return apperr.NotFound("lesson not found")
	}

	if err := s.repo.MarkCompleted(ctx, actor.ID, lessonID); err != nil {
		return err
	}

	done, total, err := s.repo.CountCompleted(ctx, actor.ID, courseID)
	if err != nil {
		return err
	}

	percent := 0
	if total > 0 {
		percent = done * 100 / total
	}
	return s.progress.UpdateProgress(ctx, actor.ID, courseID, percent)
}

// Create adds a lesson to a course owned by the actor. The course is
// addressed by slug to match the public lesson routes.
func (s *Service) Create(ctx context.Context, actor authz.Actor, courseSlug string, req transport.CreateLessonRequest) (transport.LessonResponse, error) {
	meta, err := s.courses.GetCourseMetaBySlug(ctx, courseSlug)
	if err != nil {
		return transport.LessonResponse{}, err
	}
	if !authz.CanModify(actor, meta.InstructorID) {
		return transport.LessonResponse{}, apperr.Forbidden(msgNotCourseOwner)
	}

	lesson, err := s.repo.Create(ctx, repository.CreateLessonParams{
		CourseID:        meta.ID,
		Title:           req.Title,
		Content:         req.Content,
		VideoURL:        req.VideoURL,
		DurationMinutes: req.DurationMinutes,
		Position:        req.Position,
		IsPreview:       req.IsPreview,
	})
	if err != nil {
		return transport.LessonResponse{}, err
	}
	return toResponse(lesson, true, false), nil
}

// Update applies lesson changes.
func (s *Service) Update(ctx context.Context, actor authz.Actor, lessonID uuid.UUID, req transport.UpdateLessonRequest) (transport.LessonResponse, error) {
	lesson, err := s.repo.GetByID(ctx, lessonID)
	if err != nil {
		return transport.LessonResponse{}, err
	}
	if err := s.requireOwnership(ctx, actor, lesson.CourseID); err != nil {
		return transport.LessonResponse{}, err
	}

	updated, err := s.repo.Update(ctx, repository.UpdateLessonParams{
		ID:              lessonID,
		Title:           req.Title,
		Content:         req.Content,
		VideoURL:        req.VideoURL,
		DurationMinutes: req.DurationMinutes,
		Position:        req.Position,
		IsPreview:       req.IsPreview,
	})
	if err != nil {
		return transport.LessonResponse{}, err
	}
	return toResponse(updated, true, false), nil
}

// Delete removes a lesson.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, lessonID uuid.UUID) error {
	lesson, err := s.repo.GetByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if err := s.requireOwnership(ctx, actor, lesson.CourseID); err != nil {
		return err
	}

	_, err = s.repo.Delete(ctx, lessonID)
	return err
}

func (s *Service) requireOwnership(ctx context.Context, actor authz.Actor, courseID uuid.UUID) error {
	meta, err := s.courses.GetCourseMeta(ctx, courseID)
	if err != nil {
		return err
	}
	if !authz.CanModify(actor, meta.InstructorID) {
		return apperr.Forbidden(msgNotCourseOwner)
	}
	return nil
}

func (s *Service) hasFullAccess(ctx context.Context, courseID uuid.UUID, actor *authz.Actor, isEnrolled bool) (bool, error) {
	if isEnrolled {
		return true, nil
	}
	if actor == nil {
		return false, nil
	}

	meta, err := s.courses.GetCourseMeta(ctx, courseID)
	if err != nil {
		return false, err
	}
	return authz.CanModify(*actor, meta.InstructorID), nil
}

func toResponse(lesson repository.Lesson, fullAccess, completed bool) transport.LessonResponse {
	resp := transport.LessonResponse{
		ID:              lesson.ID.String(),
		CourseID:        lesson.CourseID.String(),
		Title:           lesson.Title,
		DurationMinutes: lesson.DurationMinutes,
		Position:        lesson.Position,
		IsPreview:       lesson.IsPreview,
		Completed:       completed,
		CreatedAt:       lesson.CreatedAt.Format(time.RFC3339),
	}

	if fullAccess || lesson.IsPreview {
		resp.Content = lesson.Content
		resp.VideoURL = lesson.VideoURL
	}

	return resp
}
