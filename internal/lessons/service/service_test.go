package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"coursehub_backend/internal/lessons/ports"
	"coursehub_backend/internal/lessons/repository"
	"coursehub_backend/internal/lessons/transport"
	"coursehub_backend/internal/shared/authz"
	"coursehub_backend/platform/apperr"
)

type fakeLessonRepo struct {
	lessons   map[uuid.UUID]repository.Lesson
	completed map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{
		lessons:   map[uuid.UUID]repository.Lesson{},
		completed: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (f *fakeLessonRepo) seed(courseID uuid.UUID, title string, preview bool) repository.Lesson {
	lesson := repository.Lesson{
		ID:        uuid.New(),
		CourseID:  courseID,
		Title:     title,
		Content:   "full text of " + title,
		VideoURL:  "https://videos.example.com/" + title,
		IsPreview: preview,
	}
	f.lessons[lesson.ID] = lesson
	return lesson
}

func (f *fakeLessonRepo) Create(_ context.Context, params repository.CreateLessonParams) (repository.Lesson, error) {
	lesson := repository.Lesson{
		ID:              uuid.New(),
		CourseID:        params.CourseID,
		Title:           params.Title,
		Content:         params.Content,
		VideoURL:        params.VideoURL,
		DurationMinutes: params.DurationMinutes,
		Position:        params.Position,
		IsPreview:       params.IsPreview,
	}
	f.lessons[lesson.ID] = lesson
	return lesson, nil
}

func (f *fakeLessonRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lesson, error) {
	lesson, ok := f.lessons[id]
	if !ok {
		return repository.Lesson{}, apperr.NotFound("lesson not found")
	}
	return lesson, nil
}

func (f *fakeLessonRepo) ListByCourse(_ context.Context, courseID uuid.UUID) ([]repository.Lesson, error) {
	var out []repository.Lesson
	for _, lesson := range f.lessons {
		if lesson.CourseID == courseID {
			out = append(out, lesson)
		}
	}
	return out, nil
}

func (f *fakeLessonRepo) Update(_ context.Context, params repository.UpdateLessonParams) (repository.Lesson, error) {
	lesson, ok := f.lessons[params.ID]
	if !ok {
		return repository.Lesson{}, apperr.NotFound("lesson not found")
	}
	if params.Title != nil {
		lesson.Title = *params.Title
	}
	f.lessons[params.ID] = lesson
	return lesson, nil
}

func (f *fakeLessonRepo) Delete(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	lesson, ok := f.lessons[id]
	if !ok {
		return uuid.Nil, apperr.NotFound("lesson not found")
	}
	delete(f.lessons, id)
	return lesson.CourseID, nil
}

func (f *fakeLessonRepo) MarkCompleted(_ context.Context, userID, lessonID uuid.UUID) error {
	if f.completed[userID] == nil {
		f.completed[userID] = map[uuid.UUID]bool{}
	}
	f.completed[userID][lessonID] = true
	return nil
}

func (f *fakeLessonRepo) CompletedLessonIDs(_ context.Context, userID, courseID uuid.UUID) (map[uuid.UUID]bool, error) {
	out := map[uuid.UUID]bool{}
	for lessonID := range f.completed[userID] {
		if lesson, ok := f.lessons[lessonID]; ok && lesson.CourseID == courseID {
			out[lessonID] = true
		}
	}
	return out, nil
}

func (f *fakeLessonRepo) CountCompleted(ctx context.Context, userID, courseID uuid.UUID) (int, int, error) {
	done, err := f.CompletedLessonIDs(ctx, userID, courseID)
	if err != nil {
		return 0, 0, err
	}
	total := 0
	for _, lesson := range f.lessons {
		if lesson.CourseID == courseID {
			total++
		}
	}
	return len(done), total, nil
}

type fakeCourseReader struct {
	meta ports.CourseMeta
}

func (f *fakeCourseReader) GetCourseMeta(_ context.Context, id uuid.UUID) (ports.CourseMeta, error) {
	if id != f.meta.ID {
		return ports.CourseMeta{}, apperr.NotFound("course not found")
	}
	return f.meta, nil
}

func (f *fakeCourseReader) GetCourseMetaBySlug(_ context.Context, slug string) (ports.CourseMeta, error) {
	if slug != f.meta.Slug {
		return ports.CourseMeta{}, apperr.NotFound("course not found")
	}
	return f.meta, nil
}

type fakeProgressWriter struct {
	calls   int
	percent int
}

func (f *fakeProgressWriter) UpdateProgress(_ context.Context, _, _ uuid.UUID, percent int) error {
	f.calls++
	f.percent = percent
	return nil
}

func newLessonFixture() (*Service, *fakeLessonRepo, *fakeProgressWriter, ports.CourseMeta) {
	meta := ports.CourseMeta{
		ID:           uuid.New(),
		Slug:         "go-for-beginners",
		InstructorID: uuid.New(),
	}
	repo := newFakeLessonRepo()
	progress := &fakeProgressWriter{}
	svc := New(repo, &fakeCourseReader{meta: meta}, progress)
	return svc, repo, progress, meta
}

func TestService_ListForCourse_RedactsForAnonymous(t *testing.T) {
	svc, repo, _, meta := newLessonFixture()
	repo.seed(meta.ID, "intro", true)
	repo.seed(meta.ID, "deep-dive", false)

	resp, err := svc.ListForCourse(context.Background(), meta.ID, nil, false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if resp.IsEnrolled {
		t.Error("expected isEnrolled false for anonymous caller")
	}
	if len(resp.Lessons) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(resp.Lessons))
	}

	for _, lesson := range resp.Lessons {
		if lesson.IsPreview {
			if lesson.Content == "" || lesson.VideoURL == "" {
				t.Errorf("preview lesson %q should keep content", lesson.Title)
			}
			continue
		}
		if lesson.Content != "" || lesson.VideoURL != "" {
			t.Errorf("locked lesson %q leaked content", lesson.Title)
		}
	}
}

func TestService_ListForCourse_EnrolledSeesEverything(t *testing.T) {
	svc, repo, _, meta := newLessonFixture()
	lesson := repo.seed(meta.ID, "deep-dive", false)

	actor := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	if err := repo.MarkCompleted(context.Background(), actor.ID, lesson.ID); err != nil {
		t.Fatalf("seed completion: %v", err)
	}

	resp, err := svc.ListForCourse(context.Background(), meta.ID, &actor, true)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(resp.Lessons) != 1 {
		t.Fatalf("expected 1 lesson, got %d", len(resp.Lessons))
	}
	got := resp.Lessons[0]
	if got.Content == "" || got.VideoURL == "" {
		t.Error("enrolled caller should see full lesson content")
	}
	if !got.Completed {
		t.Error("expected completed flag set from progress records")
	}
}

func TestService_ListForCourse_OwnerSeesContentWithoutEnrollment(t *testing.T) {
	svc, repo, _, meta := newLessonFixture()
	repo.seed(meta.ID, "deep-dive", false)

	owner := authz.Actor{ID: meta.InstructorID, Role: authz.RoleInstructor}
	resp, err := svc.ListForCourse(context.Background(), meta.ID, &owner, false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if resp.Lessons[0].Content == "" {
		t.Error("course owner should see lesson content without enrolling")
	}
}

func TestService_GetLesson_WrongCourseIsNotFound(t *testing.T) {
	svc, repo, _, meta := newLessonFixture()
	lesson := repo.seed(meta.ID, "intro", true)

	otherCourse := uuid.New()
	_, err := svc.GetLesson(context.Background(), otherCourse, lesson.ID, nil, false)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for lesson under another course, got %v", err)
	}
}

func TestService_Complete_RequiresEnrollment(t *testing.T) {
	svc, repo, progress, meta := newLessonFixture()
	lesson := repo.seed(meta.ID, "intro", false)

	actor := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	err := svc.Complete(context.Background(), meta.ID, lesson.ID, actor, false)
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden for non-enrolled caller, got %v", err)
	}
	if progress.calls != 0 {
		t.Fatalf("expected no progress update, got %d", progress.calls)
	}
}

func TestService_Complete_UpdatesProgressPercent(t *testing.T) {
	svc, repo, progress, meta := newLessonFixture()
	first := repo.seed(meta.ID, "one", false)
	second := repo.seed(meta.ID, "two", false)
	repo.seed(meta.ID, "three", false)
	repo.seed(meta.ID, "four", false)

	actor := authz.Actor{ID: uuid.New(), Role: authz.RoleStudent}
	if err := svc.Complete(context.Background(), meta.ID, first.ID, actor, true); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if progress.percent != 25 {
		t.Errorf("expected 25 percent after 1 of 4, got %d", progress.percent)
	}

	if err := svc.Complete(context.Background(), meta.ID, second.ID, actor, true); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if progress.percent != 50 {
		t.Errorf("expected 50 percent after 2 of 4, got %d", progress.percent)
	}

	// Completing the same lesson twice must not inflate the percentage.
	if err := svc.Complete(context.Background(), meta.ID, second.ID, actor, true); err != nil {
		t.Fatalf("repeat complete failed: %v", err)
	}
	if progress.percent != 50 {
		t.Errorf("expected 50 percent after repeat completion, got %d", progress.percent)
	}
}

func TestService_Create_OnlyCourseOwner(t *testing.T) {
	svc, _, _, meta := newLessonFixture()

	req := transport.CreateLessonRequest{Title: "new lesson", Content: "body"}
	outsider := authz.Actor{ID: uuid.New(), Role: authz.RoleInstructor}
	_, err := svc.Create(context.Background(), outsider, meta.Slug, req)
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden for foreign instructor, got %v", err)
	}

	owner := authz.Actor{ID: meta.InstructorID, Role: authz.RoleInstructor}
	lesson, err := svc.Create(context.Background(), owner, meta.Slug, req)
	if err != nil {
		t.Fatalf("owner create failed: %v", err)
	}
	if lesson.CourseID != meta.ID.String() {
		t.Errorf("lesson attached to wrong course: %s", lesson.CourseID)
	}
}

func TestService_Create_UnknownSlug(t *testing.T) {
	svc, _, _, meta := newLessonFixture()

	owner := authz.Actor{ID: meta.InstructorID, Role: authz.RoleInstructor}
	_, err := svc.Create(context.Background(), owner, "no-such-course", transport.CreateLessonRequest{Title: "x", Content: "y"})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for unknown slug, got %v", err)
	}
}
